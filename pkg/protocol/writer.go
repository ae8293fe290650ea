package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/freeeve/cyborg-conquest/pkg/conquest"
)

// Wait is the no-op answer. Non-empty answers start with it as well,
// followed by ";"-joined orders.
const Wait = "WAIT"

// FormatOrders serializes one tick's orders into the output line, without
// the trailing newline.
func FormatOrders(orders []conquest.Order) string {
	if len(orders) == 0 {
		return Wait
	}
	var b strings.Builder
	b.Grow(16 * (len(orders) + 1))
	b.WriteString(Wait)
	for _, o := range orders {
		b.WriteByte(';')
		writeOrder(&b, o)
	}
	return b.String()
}

func writeOrder(b *strings.Builder, o conquest.Order) {
	switch o.Type {
	case conquest.OrderMove:
		fmt.Fprintf(b, "MOVE %d %d %d", o.Source, o.Target, o.Count)
	case conquest.OrderBomb:
		fmt.Fprintf(b, "BOMB %d %d", o.Source, o.Target)
	case conquest.OrderUpgrade:
		fmt.Fprintf(b, "INC %d", o.Source)
	case conquest.OrderMessage:
		// The engine splits on ';', so it cannot appear inside a message.
		b.WriteString("MSG ")
		b.WriteString(strings.ReplaceAll(o.Text, ";", ","))
	default:
		b.WriteString(Wait)
	}
}

// ParseOrders decodes an output line produced by FormatOrders.
func ParseOrders(line string) ([]conquest.Order, error) {
	var orders []conquest.Order
	for i, part := range strings.Split(strings.TrimSpace(line), ";") {
		part = strings.TrimSpace(part)
		if part == Wait || part == "" {
			continue
		}
		o, err := parseOrder(part)
		if err != nil {
			return nil, fmt.Errorf("protocol: order %d: %w", i, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func parseOrder(s string) (conquest.Order, error) {
	verb, rest, _ := strings.Cut(s, " ")
	if verb == "MSG" {
		return conquest.Message(rest), nil
	}

	fields := strings.Fields(rest)
	nums := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return conquest.Order{}, fmt.Errorf("%s: %w", verb, err)
		}
		nums[i] = v
	}

	switch {
	case verb == "MOVE" && len(nums) == 3:
		return conquest.Move(nums[0], nums[1], nums[2]), nil
	case verb == "BOMB" && len(nums) == 2:
		return conquest.Bomb(nums[0], nums[1]), nil
	case verb == "INC" && len(nums) == 1:
		return conquest.Upgrade(nums[0]), nil
	default:
		return conquest.Order{}, fmt.Errorf("unrecognized order %q", s)
	}
}

// Writer emits exactly one flushed line per tick.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteOrders writes the orders as one line and flushes it.
func (w *Writer) WriteOrders(orders []conquest.Order) error {
	if _, err := w.w.WriteString(FormatOrders(orders)); err != nil {
		return fmt.Errorf("protocol: write: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("protocol: write: %w", err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("protocol: flush: %w", err)
	}
	return nil
}
