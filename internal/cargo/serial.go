package cargo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shinji-kodama/cargofleet/internal/model"
)

// SerialPrefix is the owner code at the start of every serial number.
const SerialPrefix = "KON"

// Generator issues container serial numbers. Its counter starts at 1 and is
// shared across kinds: creating a liquid, a gas and a refrigerated container
// in that order yields KON-L-1, KON-G-2 and KON-C-3.
//
// A Generator is owned by the fleet that creates containers; tests create
// their own so numbering is predictable.
type Generator struct {
	last uint64
}

// NewGenerator returns a Generator whose first serial ends in 1.
func NewGenerator() *Generator {
	return &Generator{}
}

// Next advances the counter and returns the serial for a container of the
// given kind.
func (g *Generator) Next(kind model.Kind) string {
	g.last++
	return fmt.Sprintf("%s-%s-%d", SerialPrefix, kind.Tag(), g.last)
}

// Issued returns how many serials have been handed out.
func (g *Generator) Issued() uint64 {
	return g.last
}

// Reset restarts numbering at 1. Only tests should need this.
func (g *Generator) Reset() {
	g.last = 0
}

// SerialSequence extracts the counter value from a serial such as
// "KON-G-12". It returns false for strings that are not well-formed serials.
func SerialSequence(serial string) (uint64, bool) {
	parts := strings.Split(serial, "-")
	if len(parts) != 3 || !strings.EqualFold(parts[0], SerialPrefix) {
		return 0, false
	}
	if len(parts[1]) != 1 {
		return 0, false
	}
	if _, err := model.ParseKind(parts[1]); err != nil {
		return 0, false
	}
	n, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
