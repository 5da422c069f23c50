// Package serialgen produces candidate serial numbers of the form
// <prefix><zero-padded sequence>. The registry only validates identifiers;
// this generator is a convenience for the goods-receipt workflow.
package serialgen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"example.com/furnish/services/serial/internal/repository"
)

// Generator formats sequential serial numbers
type Generator struct {
	prefix string
	width  int
}

// NewGenerator creates a generator. Width is the zero-padded digit count.
func NewGenerator(prefix string, width int) *Generator {
	if width <= 0 {
		width = 6
	}
	return &Generator{prefix: prefix, width: width}
}

// Format renders one serial for the given sequence number
func (g *Generator) Format(seq int) string {
	return fmt.Sprintf("%s%0*d", g.prefix, g.width, seq)
}

// Batch renders count serials starting at the given sequence number
func (g *Generator) Batch(start, count int) []string {
	serials := make([]string, 0, count)
	for i := 0; i < count; i++ {
		serials = append(serials, g.Format(start+i))
	}
	return serials
}

// NextBatch renders count serials continuing after the highest sequence
// already registered under this generator's prefix
func (g *Generator) NextBatch(ctx context.Context, store repository.SerialUnitStore, count int) ([]string, error) {
	existing, err := store.SearchBySerial(ctx, g.prefix, 0)
	if err != nil {
		return nil, err
	}

	highest := 0
	for _, unit := range existing {
		if !strings.HasPrefix(unit.SerialNumber, g.prefix) {
			continue
		}
		seq, err := strconv.Atoi(unit.SerialNumber[len(g.prefix):])
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}

	return g.Batch(highest+1, count), nil
}
