package signals

import (
	"sort"

	"github.com/ternarybob/jigoor/internal/models"
)

// UnknownPriority ranks signal labels the AI invented after every known label
const UnknownPriority = 99

var signalPriority = map[string]int{
	models.SignalStrongBuy:  1,
	models.SignalBuy:        2,
	models.SignalAccumulate: 3,
	models.SignalHold:       4,
	models.SignalSell:       5,
	models.SignalStrongSell: 6,
}

// Priority returns the display rank of a signal label, lower first
func Priority(signal string) int {
	if p, ok := signalPriority[signal]; ok {
		return p
	}
	return UnknownPriority
}

// SortByPriority returns a copy of the signals ordered from most bullish to most bearish.
// Ties keep their input order.
func SortByPriority(in []models.TradingSignal) []models.TradingSignal {
	out := make([]models.TradingSignal, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return Priority(out[i].Signal) < Priority(out[j].Signal)
	})
	return out
}
