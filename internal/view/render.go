package view

import (
	"fmt"
	"strconv"
	"strings"

	"weblarek/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
)

var categoryColours = map[string]lipgloss.Color{
	"софт-скил":      lipgloss.Color("10"),
	"хард-скил":      lipgloss.Color("214"),
	"другое":         lipgloss.Color("13"),
	"дополнительное": lipgloss.Color("12"),
	"кнопка":         lipgloss.Color("14"),
}

func (s *Storefront) View() string {
	var body string
	switch s.modal {
	case modalPreview:
		body = s.renderPreview()
	case modalBasket:
		body = s.renderBasket()
	case modalOrder:
		body = s.renderOrder()
	case modalContacts:
		body = s.renderContacts()
	case modalSuccess:
		body = s.renderSuccess()
	default:
		return s.renderCatalog()
	}
	return s.header() + "\n\n" + modalStyle.Render(body) + s.statusLine()
}

func (s *Storefront) header() string {
	return fmt.Sprintf("%s  basket: %d", titleStyle.Render("Web-larek"), s.counter)
}

func (s *Storefront) renderCatalog() string {
	out := s.header() + "\n"
	if s.searching || s.query != "" {
		cursor := ""
		if s.searching {
			cursor = "_"
		}
		out += fmt.Sprintf("search: %s%s\n", s.query, cursor)
	}
	out += "\n"

	items := s.visible()
	switch {
	case len(s.catalog) == 0 && s.busy > 0:
		out += mutedStyle.Render("loading catalogue...") + "\n"
	case len(s.catalog) == 0:
		out += mutedStyle.Render("the catalogue is empty") + "\n"
	case len(items) == 0:
		out += mutedStyle.Render("nothing matches") + "\n"
	}
	for i, item := range items {
		marker := " "
		line := fmt.Sprintf("%-32s %s", item.Title, s.price(item))
		if i == s.cursor {
			marker = "▶"
			line = selectedStyle.Render(line)
		}
		out += fmt.Sprintf("%s %s %s\n", marker, renderCategory(item.Category), line)
	}

	if s.searching {
		out += "\n[enter] Keep filter  [esc] Clear"
	} else {
		out += "\n[enter] Open  [b] Basket  [/] Search  [r] Reload  [q] Quit"
	}
	return out + s.statusLine()
}

func (s *Storefront) renderPreview() string {
	item := s.preview
	out := titleStyle.Render(item.Title) + "\n"
	out += renderCategory(item.Category) + "\n"
	if item.Description != "" {
		out += item.Description + "\n"
	}
	if item.Image != "" {
		out += mutedStyle.Render(item.Image) + "\n"
	}
	out += s.price(item) + "\n\n"

	switch {
	case item.Priceless():
		out += mutedStyle.Render("[enter] Not for sale") + "  [esc] Close"
	case s.previewInBasket:
		out += "[enter] Remove from basket  [b] Basket  [esc] Close"
	default:
		out += "[enter] Buy  [b] Basket  [esc] Close"
	}
	return out
}

func (s *Storefront) renderBasket() string {
	out := titleStyle.Render("Basket") + "\n"
	if len(s.basket) == 0 {
		out += mutedStyle.Render("the basket is empty") + "\n"
	}
	for i, item := range s.basket {
		marker := " "
		if i == s.basketCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %d. %-32s %s\n", marker, i+1, item.Title, s.price(item))
	}
	out += fmt.Sprintf("\nTotal: %s\n", s.amount(s.total))

	checkout := "[enter] Checkout"
	if len(s.basket) == 0 {
		checkout = mutedStyle.Render(checkout)
	}
	return out + checkout + "  [d] Remove  [esc] Close"
}

func (s *Storefront) renderOrder() string {
	out := titleStyle.Render("Payment and delivery") + "\n"
	out += s.fieldLabel(fieldPayment, "Payment") + " " +
		paymentOption(model.PaymentCard, "card", s.payment) + " " +
		paymentOption(model.PaymentCash, "cash", s.payment) + "\n"
	out += s.fieldLabel(fieldAddress, "Address") + " " + s.inputValue(fieldAddress, s.address) + "\n"
	out += renderErrors(s.orderErrors)
	return out + "\n" + submitHint("Next", s.orderValid) + "  [tab] Switch field  [←/→] Payment  [esc] Close"
}

func (s *Storefront) renderContacts() string {
	out := titleStyle.Render("Contacts") + "\n"
	out += s.fieldLabel(fieldEmail, "Email") + " " + s.inputValue(fieldEmail, s.email) + "\n"
	out += s.fieldLabel(fieldPhone, "Phone") + " " + s.inputValue(fieldPhone, s.phone) + "\n"
	out += renderErrors(s.contactsErrors)
	hint := submitHint("Pay", s.contactsValid)
	if s.busy > 0 {
		hint = mutedStyle.Render("placing order...")
	}
	return out + "\n" + hint + "  [tab] Switch field  [esc] Close"
}

func (s *Storefront) renderSuccess() string {
	return titleStyle.Render("Order placed") + "\n" +
		fmt.Sprintf("Written off %s\n", s.amount(s.result.Total)) +
		mutedStyle.Render("order "+s.result.ID) + "\n\n[enter] Back to shopping"
}

func (s *Storefront) statusLine() string {
	if s.status == "" {
		return ""
	}
	if s.statusErr {
		return "\n" + errorStyle.Render(s.status)
	}
	return "\n" + s.status
}

func (s *Storefront) fieldLabel(field formField, label string) string {
	if s.field == field {
		return "▶ " + selectedStyle.Render(label+":")
	}
	return "  " + label + ":"
}

func (s *Storefront) inputValue(field formField, value string) string {
	if s.field == field {
		return value + "_"
	}
	return value
}

func (s *Storefront) price(item model.Product) string {
	if item.Priceless() {
		return "Priceless"
	}
	return s.amount(*item.Price)
}

func (s *Storefront) amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + s.currency
}

func paymentOption(method model.PaymentMethod, label string, selected model.PaymentMethod) string {
	if method == selected {
		return selectedStyle.Render("(•) " + label)
	}
	return "( ) " + label
}

func renderCategory(category string) string {
	style := mutedStyle
	if colour, ok := categoryColours[category]; ok {
		style = lipgloss.NewStyle().Foreground(colour)
	}
	return style.Render("[" + category + "]")
}

func renderErrors(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	return errorStyle.Render(strings.Join(errs, "; ")) + "\n"
}

func submitHint(label string, enabled bool) string {
	hint := "[enter] " + label
	if !enabled {
		return mutedStyle.Render(hint)
	}
	return hint
}
