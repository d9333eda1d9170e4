// Package events provides the synchronous publish/subscribe bus that connects
// the storefront state to its views.
package events

import (
	"regexp"
	"sync"
)

// Empty is the payload delivered when an emitter passes none.
type Empty struct{}

// Handler receives the emitted topic and its payload.
type Handler func(topic string, payload any)

// Matcher decides whether a subscription receives an emitted topic.
type Matcher interface {
	Match(topic string) bool
}

// MatchFunc adapts a predicate to Matcher.
type MatchFunc func(topic string) bool

// Match implements Matcher.
func (f MatchFunc) Match(topic string) bool {
	return f(topic)
}

type exactMatcher string

func (m exactMatcher) Match(topic string) bool {
	return string(m) == topic
}

type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) Match(topic string) bool {
	return m.re.MatchString(topic)
}

// Exact matches a single topic name.
func Exact(topic string) Matcher {
	return exactMatcher(topic)
}

// Pattern matches every topic accepted by re.
func Pattern(re *regexp.Regexp) Matcher {
	return patternMatcher{re: re}
}

// All matches every topic.
func All() Matcher {
	return MatchFunc(func(string) bool { return true })
}

// Subscription identifies one registration and is used to remove it.
type Subscription uint64

type subscriber struct {
	id      Subscription
	matcher Matcher
	handler Handler
}

// Bus dispatches emissions synchronously, in registration order.
//
// Emission is re-entrant: a handler may emit, and the nested emission is fully
// dispatched before the outer one moves on to its next handler.
type Bus struct {
	mu          sync.RWMutex
	subscribers []subscriber
	nextID      Subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for every topic accepted by matcher.
func (b *Bus) Subscribe(matcher Matcher, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subscribers = append(b.subscribers, subscriber{
		id:      b.nextID,
		matcher: matcher,
		handler: handler,
	})
	return b.nextID
}

// On registers handler for an exact topic.
func (b *Bus) On(topic string, handler Handler) Subscription {
	return b.Subscribe(Exact(topic), handler)
}

// SubscribeAll registers handler for every emission. Meant for tracing.
func (b *Bus) SubscribeAll(handler Handler) Subscription {
	return b.Subscribe(All(), handler)
}

// Unsubscribe removes a registration. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subscribers {
		if s.id == sub {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Emit delivers payload to every handler whose matcher accepts topic.
// A nil payload is replaced with Empty{}. Emitting with no subscribers is a no-op.
func (b *Bus) Emit(topic string, payload any) {
	if payload == nil {
		payload = Empty{}
	}

	// Handlers run without the lock so they can emit and (un)subscribe.
	for _, s := range b.matching(topic) {
		s.handler(topic, payload)
	}
}

// HandlerCount returns how many registrations accept topic.
func (b *Bus) HandlerCount(topic string) int {
	return len(b.matching(topic))
}

func (b *Bus) matching(topic string) []subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var matched []subscriber
	for _, s := range b.subscribers {
		if s.matcher.Match(topic) {
			matched = append(matched, s)
		}
	}
	return matched
}
