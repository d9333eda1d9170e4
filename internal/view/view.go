// Package view is the terminal storefront. It renders what the orchestrator
// tells it to and turns key presses into bus events.
package view

import (
	"context"
	"strings"

	"weblarek/internal/model"
	"weblarek/internal/orchestrator"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Emitter publishes user actions.
type Emitter interface {
	Emit(topic string, payload any)
}

type modalState int

const (
	modalNone modalState = iota
	modalPreview
	modalBasket
	modalOrder
	modalContacts
	modalSuccess
)

type formField int

const (
	fieldPayment formField = iota
	fieldAddress
	fieldEmail
	fieldPhone
)

// applyMsg carries a continuation produced by background work.
type applyMsg struct {
	apply func()
}

// Options configures the storefront.
type Options struct {
	Currency string
}

// Storefront is the bubbletea model of the shop. It implements
// orchestrator.View and orchestrator.Runner; both are only ever called from
// Update, so the model needs no locking.
type Storefront struct {
	ctx      context.Context
	bus      Emitter
	logger   zerolog.Logger
	currency string

	catalog []model.Product
	cursor  int
	counter int

	searching bool
	query     string
	results   []int

	modal           modalState
	preview         model.Product
	previewInBasket bool

	basket       []model.Product
	total        float64
	basketCursor int

	field          formField
	payment        model.PaymentMethod
	address        string
	email          string
	phone          string
	orderValid     bool
	orderErrors    []string
	contactsValid  bool
	contactsErrors []string
	result         model.OrderResult

	status    string
	statusErr bool
	busy      int
	width     int

	pending []tea.Cmd
}

var (
	_ orchestrator.View   = (*Storefront)(nil)
	_ orchestrator.Runner = (*Storefront)(nil)
)

// New creates a storefront emitting user actions on bus.
func New(ctx context.Context, bus Emitter, opts Options, logger zerolog.Logger) *Storefront {
	return &Storefront{
		ctx:      ctx,
		bus:      bus,
		logger:   logger.With().Str("component", "view").Logger(),
		currency: opts.Currency,
	}
}

// Run queues work as a tea command. The continuation comes back as a message
// and is applied in Update.
func (s *Storefront) Run(work func(ctx context.Context) func()) {
	ctx := s.ctx
	s.busy++
	s.pending = append(s.pending, func() tea.Msg {
		return applyMsg{apply: work(ctx)}
	})
}

func (s *Storefront) Init() tea.Cmd {
	return s.flush(nil)
}

func (s *Storefront) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = m.Width
	case applyMsg:
		if s.busy > 0 {
			s.busy--
		}
		if m.apply != nil {
			m.apply()
		}
	case tea.KeyMsg:
		cmd = s.handleKey(m)
	}
	return s, s.flush(cmd)
}

// flush hands queued background work to the program together with cmd.
func (s *Storefront) flush(cmd tea.Cmd) tea.Cmd {
	if len(s.pending) == 0 {
		return cmd
	}
	cmds := append(s.pending, cmd)
	s.pending = nil
	return tea.Batch(cmds...)
}

func (s *Storefront) emit(topic string, payload any) {
	s.bus.Emit(topic, payload)
}

func (s *Storefront) handleKey(m tea.KeyMsg) tea.Cmd {
	if m.String() == "ctrl+c" {
		return tea.Quit
	}
	switch s.modal {
	case modalPreview:
		s.handlePreviewKey(m)
	case modalBasket:
		s.handleBasketKey(m)
	case modalOrder:
		s.handleOrderKey(m)
	case modalContacts:
		s.handleContactsKey(m)
	case modalSuccess:
		switch m.String() {
		case "enter", "esc":
			s.emit(orchestrator.TopicSuccessDismissed, nil)
		}
	default:
		if s.searching {
			s.handleSearchKey(m)
			return nil
		}
		return s.handleCatalogKey(m)
	}
	return nil
}

func (s *Storefront) handleCatalogKey(m tea.KeyMsg) tea.Cmd {
	items := s.visible()
	switch m.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(items)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(items) {
			s.clearStatus()
			s.emit(orchestrator.TopicProductSelected, items[s.cursor])
		}
	case "b":
		s.clearStatus()
		s.emit(orchestrator.TopicBasketOpened, nil)
	case "r":
		s.status = "reloading catalogue"
		s.statusErr = false
		s.emit(orchestrator.TopicCatalogRefresh, nil)
	case "/":
		s.searching = true
	case "esc":
		s.setQuery("")
	}
	return nil
}

func (s *Storefront) handleSearchKey(m tea.KeyMsg) {
	switch m.Type {
	case tea.KeyEsc:
		s.searching = false
		s.setQuery("")
	case tea.KeyEnter:
		s.searching = false
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		s.setQuery(trimLast(s.query))
	case tea.KeySpace:
		s.setQuery(s.query + " ")
	case tea.KeyRunes:
		s.setQuery(s.query + string(m.Runes))
	}
}

func (s *Storefront) handlePreviewKey(m tea.KeyMsg) {
	switch m.String() {
	case "esc":
		s.closeModal()
	case "enter", " ":
		if s.preview.Priceless() {
			s.status = "this item is not for sale"
			s.statusErr = true
			return
		}
		if s.previewInBasket {
			s.emit(orchestrator.TopicProductRemoved, s.preview.ID)
			return
		}
		s.emit(orchestrator.TopicProductAdded, s.preview)
	case "b":
		s.emit(orchestrator.TopicBasketOpened, nil)
	}
}

func (s *Storefront) handleBasketKey(m tea.KeyMsg) {
	switch m.String() {
	case "esc":
		s.closeModal()
	case "up", "k":
		if s.basketCursor > 0 {
			s.basketCursor--
		}
	case "down", "j":
		if s.basketCursor < len(s.basket)-1 {
			s.basketCursor++
		}
	case "d", "x", "delete", "backspace":
		if s.basketCursor < len(s.basket) {
			s.emit(orchestrator.TopicProductRemoved, s.basket[s.basketCursor].ID)
		}
	case "enter":
		if len(s.basket) == 0 {
			return
		}
		s.clearStatus()
		s.emit(orchestrator.TopicCheckoutStarted, nil)
	}
}

func (s *Storefront) handleOrderKey(m tea.KeyMsg) {
	switch m.Type {
	case tea.KeyEsc:
		s.closeModal()
		return
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if s.field == fieldPayment {
			s.field = fieldAddress
		} else {
			s.field = fieldPayment
		}
		return
	case tea.KeyEnter:
		if !s.orderValid {
			s.status = "choose a payment method and enter an address"
			s.statusErr = true
			return
		}
		s.clearStatus()
		s.emit(orchestrator.TopicStep1Submitted, nil)
		return
	}

	if s.field == fieldPayment {
		switch m.String() {
		case "left", "1":
			s.selectPayment(model.PaymentCard)
		case "right", "2":
			s.selectPayment(model.PaymentCash)
		case " ":
			if s.payment == model.PaymentCard {
				s.selectPayment(model.PaymentCash)
			} else {
				s.selectPayment(model.PaymentCard)
			}
		}
		return
	}

	if value, ok := editText(s.address, m); ok {
		s.address = value
		s.emit(orchestrator.TopicAddressEdited, value)
	}
}

func (s *Storefront) handleContactsKey(m tea.KeyMsg) {
	switch m.Type {
	case tea.KeyEsc:
		s.closeModal()
		return
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if s.field == fieldEmail {
			s.field = fieldPhone
		} else {
			s.field = fieldEmail
		}
		return
	case tea.KeyEnter:
		if !s.contactsValid {
			s.status = "enter an email and a phone number"
			s.statusErr = true
			return
		}
		if s.busy > 0 {
			return
		}
		s.clearStatus()
		s.emit(orchestrator.TopicStep2Submitted, nil)
		return
	}

	if s.field == fieldPhone {
		if value, ok := editText(s.phone, m); ok {
			s.phone = value
			s.emit(orchestrator.TopicPhoneEdited, value)
		}
		return
	}
	if value, ok := editText(s.email, m); ok {
		s.email = value
		s.emit(orchestrator.TopicEmailEdited, value)
	}
}

func (s *Storefront) selectPayment(method model.PaymentMethod) {
	s.payment = method
	s.emit(orchestrator.TopicPaymentSelected, method)
}

// closeModal hides the modal and tells the orchestrator about it.
func (s *Storefront) closeModal() {
	s.modal = modalNone
	s.clearStatus()
	s.emit(orchestrator.TopicModalClosed, nil)
}

func (s *Storefront) clearStatus() {
	s.status = ""
	s.statusErr = false
}

func (s *Storefront) setQuery(query string) {
	s.query = query
	s.results = search(s.catalog, query)
	s.cursor = 0
}

// visible returns the catalogue filtered by the current search query.
func (s *Storefront) visible() []model.Product {
	if strings.TrimSpace(s.query) == "" {
		return s.catalog
	}
	items := make([]model.Product, 0, len(s.results))
	for _, i := range s.results {
		items = append(items, s.catalog[i])
	}
	return items
}

// RenderCatalog implements orchestrator.View.
func (s *Storefront) RenderCatalog(items []model.Product) {
	s.catalog = items
	s.results = search(items, s.query)
	if n := len(s.visible()); s.cursor >= n {
		s.cursor = max(n-1, 0)
	}
	if s.status == "reloading catalogue" {
		s.clearStatus()
	}
}

// RenderBasket implements orchestrator.View.
func (s *Storefront) RenderBasket(items []model.Product, total float64) {
	s.basket = items
	s.total = total
	if s.basketCursor >= len(items) {
		s.basketCursor = max(len(items)-1, 0)
	}
}

// SetCounter implements orchestrator.View.
func (s *Storefront) SetCounter(count int) {
	s.counter = count
}

// ShowPreview implements orchestrator.View.
func (s *Storefront) ShowPreview(item model.Product, inBasket bool) {
	s.preview = item
	s.previewInBasket = inBasket
	s.modal = modalPreview
}

// ShowBasket implements orchestrator.View.
func (s *Storefront) ShowBasket() {
	s.modal = modalBasket
}

// ShowOrderForm implements orchestrator.View.
func (s *Storefront) ShowOrderForm(order model.Order) {
	s.payment = order.Payment
	s.address = order.Address
	s.orderErrors = nil
	s.field = fieldPayment
	s.modal = modalOrder
}

// ShowContactsForm implements orchestrator.View.
func (s *Storefront) ShowContactsForm(order model.Order) {
	s.email = order.Email
	s.phone = order.Phone
	s.contactsErrors = nil
	s.field = fieldEmail
	s.modal = modalContacts
}

// SetOrderFormState implements orchestrator.View.
func (s *Storefront) SetOrderFormState(valid bool, errors []string) {
	s.orderValid = valid
	s.orderErrors = errors
}

// SetContactsFormState implements orchestrator.View.
func (s *Storefront) SetContactsFormState(valid bool, errors []string) {
	s.contactsValid = valid
	s.contactsErrors = errors
}

// ShowSuccess implements orchestrator.View.
func (s *Storefront) ShowSuccess(result model.OrderResult) {
	s.result = result
	s.clearStatus()
	s.modal = modalSuccess
}

// ShowError implements orchestrator.View.
func (s *Storefront) ShowError(err error) {
	if err == nil {
		return
	}
	s.logger.Debug().Err(err).Msg("showing error")
	s.status = err.Error()
	s.statusErr = true
}

// CloseModal implements orchestrator.View.
func (s *Storefront) CloseModal() {
	s.modal = modalNone
}

func editText(value string, m tea.KeyMsg) (string, bool) {
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if value == "" {
			return value, false
		}
		return trimLast(value), true
	case tea.KeySpace:
		return value + " ", true
	case tea.KeyRunes:
		return value + string(m.Runes), true
	}
	return value, false
}

func trimLast(value string) string {
	runes := []rune(value)
	if len(runes) == 0 {
		return value
	}
	return string(runes[:len(runes)-1])
}
