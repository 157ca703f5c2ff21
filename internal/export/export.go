// Package export renders order history as a flat delimited table for
// spreadsheet import.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
)

var header = []string{"order_number", "created_at", "total", "status", "items"}

// WriteOrders writes one row per order. Field escaping (delimiter, quotes,
// newlines) is handled by the csv encoder.
func WriteOrders(w io.Writer, orders []domain.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, order := range orders {
		row := []string{
			order.OrderNumber,
			order.CreatedAt.Format(time.RFC3339),
			FormatAmount(order.TotalAmount),
			string(order.Status),
			itemSummary(order.Items),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// itemSummary concatenates the order's lines into a single readable field,
// e.g. "2x Draft Beer; 1x Cola".
func itemSummary(items []domain.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("item %d", item.MenuItemID)
		}
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, name))
	}
	return strings.Join(parts, "; ")
}

// FormatAmount renders a minor-unit amount with thousands separators.
func FormatAmount(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
