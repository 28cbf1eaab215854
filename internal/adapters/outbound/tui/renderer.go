package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// ── Warm bakery palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	statusColors = map[domain.OrderStatus]lipgloss.Color{
		domain.OrderStatusPending:   warning,
		domain.OrderStatusConfirmed: info,
		domain.OrderStatusPreparing: accent,
		domain.OrderStatusReady:     lipgloss.Color("#A3E635"), // lime
		domain.OrderStatusDelivered: success,
		domain.OrderStatusCancelled: danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	moneyStyle    = lipgloss.NewStyle().Bold(true).Foreground(success)
	inactiveStyle = lipgloss.NewStyle().Foreground(danger)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

const timeLayout = "2006-01-02 15:04"

func statusColor(s domain.OrderStatus) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return dim
}

func renderStatus(s domain.OrderStatus) string {
	return lipgloss.NewStyle().Bold(true).Foreground(statusColor(s)).Render(string(s))
}

func cell(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}

// RenderOrderPage renders one page of orders as a table.
func RenderOrderPage(page *domain.OrderPage) string {
	var b strings.Builder

	p := page.Pagination
	title := headerStyle.Render("sweetshop orders")
	sub := dimStyle.Render(fmt.Sprintf("page %d of %d  ·  %d total", p.Page, max(p.TotalPages, 1), p.Total))
	b.WriteString(boxStyle.Render(title + "\n" + sub))
	b.WriteString("\n\n")

	if len(page.Data) == 0 {
		b.WriteString("  " + dimStyle.Render("No orders found.") + "\n")
		return b.String()
	}

	b.WriteString("  " +
		titleStyle.Render(cell("ID", 38)) +
		titleStyle.Render(cell("CUSTOMER", 18)) +
		titleStyle.Render(cell("STATUS", 11)) +
		titleStyle.Render("TOTAL") + "\n")
	b.WriteString("  " + separatorLine + "\n")

	for _, o := range page.Data {
		b.WriteString("  " +
			cell(o.ID, 38) +
			cell(truncate(o.CustomerName, 16), 18) +
			lipgloss.NewStyle().Width(11).Render(renderStatus(o.Status)) +
			moneyStyle.Render(domain.FormatMoney(o.OrderTotal)) + "\n")
	}
	return b.String()
}

// RenderOrder renders a single order as a receipt.
func RenderOrder(o *domain.Order) string {
	var b strings.Builder

	title := headerStyle.Render("Order " + o.ID)
	sub := dimStyle.Render("placed " + o.CreatedAt.Format(timeLayout))
	b.WriteString(boxStyle.Render(title + "\n" + sub + "\n\n" + renderStatus(o.Status)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(cell("Customer", 12)), o.CustomerName)
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(cell("Phone", 12)), o.CustomerPhone)
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(cell("Scheduled", 12)), o.ScheduledFor.Format(timeLayout))
	b.WriteString("\n  " + separatorLine + "\n")

	if len(o.Lines) == 0 {
		b.WriteString("  " + dimStyle.Render("No items.") + "\n")
	}
	for _, l := range o.Lines {
		qty := fmt.Sprintf("%d ×", l.Quantity)
		b.WriteString("  " +
			cell(qty, 6) +
			cell(truncate(l.ProductName, 30), 32) +
			dimStyle.Render(cell("@ "+domain.FormatMoney(l.UnitPriceAtOrderTime), 14)) +
			domain.FormatMoney(l.LineTotal) + "\n")
	}

	b.WriteString("  " + separatorLine + "\n")
	b.WriteString("  " + titleStyle.Render(cell("Total", 52)) + moneyStyle.Render(domain.FormatMoney(o.OrderTotal)) + "\n")
	return b.String()
}

// RenderProducts renders the catalog.
func RenderProducts(items []domain.Product) string {
	var b strings.Builder

	b.WriteString(boxStyle.Render(headerStyle.Render("sweetshop catalog") + "\n" +
		dimStyle.Render(fmt.Sprintf("%d products", len(items)))))
	b.WriteString("\n\n")

	for _, p := range items {
		name := titleStyle.Render(cell(truncate(p.Name, 28), 30))
		if !p.Active {
			name = inactiveStyle.Render(cell(truncate(p.Name, 28), 30))
		}
		b.WriteString("  " + name +
			dimStyle.Render(cell(truncate(p.Category, 16), 18)) +
			moneyStyle.Render(domain.FormatMoney(p.UnitPrice)) + "\n")
	}
	return b.String()
}

// RenderStatusChange renders the one-line confirmation of a status update.
func RenderStatusChange(o *domain.Order, at time.Time) string {
	return fmt.Sprintf("  %s %s → %s  %s\n",
		moneyStyle.Render("✓"),
		o.ID,
		renderStatus(o.Status),
		dimStyle.Render(at.Format(timeLayout)),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
