package billing

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fiado/backend/internal/domain/billing"
	"github.com/fiado/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

const dueInstantLayout = "02/01/2006 15:04"

// formatBRL renders a monetary amount with two digits, the only place the
// internal decimal values are rounded.
func formatBRL(amount decimal.Decimal) string {
	return "R$ " + amount.StringFixed(2)
}

// ratePercent renders the daily rate as a percentage, e.g. "3%".
func ratePercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

// shortID renders an order id in the compact form used in messages.
func shortID(row *ordering.BillableOrder) string {
	return row.Order.ID.String()[:8]
}

// renderReminder builds the WhatsApp reminder text for one due order.
func renderReminder(row *ordering.BillableOrder, charge billing.Charge, dueInstant time.Time, rate decimal.Decimal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Olá %s! 👋\n\n", row.ClientName)
	fmt.Fprintf(&b, "Sua cobrança chegou agora (%s).\n", dueInstant.Format(dueInstantLayout))
	fmt.Fprintf(&b, "Pedido #%s: %s x%d\n", shortID(row), row.ProductName, row.Order.Quantity)
	fmt.Fprintf(&b, "Total atualizado: %s\n", formatBRL(charge.Total))

	if charge.DaysLate > 0 {
		fmt.Fprintf(&b, "Inclui juros de %s (%s ao dia, %d dia(s) de atraso).\n",
			formatBRL(charge.Interest), ratePercent(rate), charge.DaysLate)
	}

	if row.Order.AsaasInvoiceURL != "" {
		fmt.Fprintf(&b, "\nLink do pagamento (Pix): %s\n", row.Order.AsaasInvoiceURL)
	}
	if row.Order.PixPayload != "" {
		fmt.Fprintf(&b, "\nPix Copia e Cola:\n%s\n", row.Order.PixPayload)
	}

	b.WriteString("\nResponda aqui confirmando o pagamento 🙂")
	return b.String()
}

// renderBalanceSummary builds the per-client open balance text offered as a
// wa.me link on the collection screen.
func renderBalanceSummary(balance *ClientBalance, rate decimal.Decimal) string {
	lines := []string{
		fmt.Sprintf("Olá %s! 👋", balance.Name),
		"",
		"Resumo do seu fiado (em aberto):",
	}
	for _, item := range balance.Orders {
		lines = append(lines, fmt.Sprintf("- %s x%d = %s | atraso: %dd | juros: %s | total: %s",
			item.ProductName, item.Quantity, formatBRL(item.Principal),
			item.DaysLate, formatBRL(item.Interest), formatBRL(item.Total)))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Subtotal: %s", formatBRL(balance.Principal)),
		fmt.Sprintf("Juros (%s ao dia): %s", ratePercent(rate), formatBRL(balance.Interest)),
		fmt.Sprintf("Total atualizado: %s", formatBRL(balance.Total)),
		"",
		"Quando puder, me confirma o pagamento 🙂",
	)
	return strings.Join(lines, "\n")
}

// whatsAppLink builds a wa.me deep link, empty when the phone is unusable.
func whatsAppLink(phone, text string) string {
	dial := ordering.DialNumber(phone)
	if dial == "" {
		return ""
	}
	return "https://wa.me/" + dial + "?text=" + url.QueryEscape(text)
}
