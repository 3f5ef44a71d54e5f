package handlers

import (
	"github.com/ternarybob/jigoor/internal/models"
	"github.com/ternarybob/jigoor/internal/session"
	"github.com/ternarybob/jigoor/internal/signals"
)

// PriceView is a display price with its optional CAD equivalent
type PriceView struct {
	USD string `json:"usd"`
	CAD string `json:"cad,omitempty"`
}

// SignalView is a signal card ready for rendering
type SignalView struct {
	models.TradingSignal
	Tone          signals.Tone           `json:"tone"`
	Current       *PriceView             `json:"current,omitempty"`
	Entry         PriceView              `json:"entry"`
	Exit          PriceView              `json:"exit"`
	Stop          *PriceView             `json:"stop,omitempty"`
	FibonacciRows []signals.FibonacciRow `json:"fibonacci_rows,omitempty"`
	OutlookTone   signals.Tone           `json:"outlook_tone,omitempty"`
	Analyzing     bool                   `json:"analyzing"`
}

// SessionView is the payload sent to the browser for a session state
type SessionView struct {
	session.State
	Cards         []SignalView `json:"cards"`
	AnyAnalyzing  bool         `json:"any_analyzing"`
	ProviderLabel string       `json:"provider_label"`
}

// NewSessionView decorates a state with tones, CAD prices and Fibonacci rows.
// CAD figures are only produced for crypto assets.
func NewSessionView(state session.State, cadRate float64, providerLabel string) SessionView {
	view := SessionView{
		State:         state,
		Cards:         make([]SignalView, 0, len(state.Signals)),
		AnyAnalyzing:  state.AnalyzingNewsFor != "",
		ProviderLabel: providerLabel,
	}
	view.Sources = signals.LinkableSources(state.Sources)

	for _, signal := range state.Signals {
		rate := 0.0
		if signal.AssetType == models.AssetTypeCrypto {
			rate = cadRate
		}

		card := SignalView{
			TradingSignal: signal,
			Tone:          signals.SignalTone(signal.Signal),
			Entry:         priceView(orNA(signal.EntryPrice), signal.EntryPrice, rate),
			Exit:          priceView(orNA(signal.ExitPrice), signal.ExitPrice, rate),
			FibonacciRows: signals.FibonacciRows(signal.FibonacciLevels),
			Analyzing:     signal.ID != "" && signal.ID == state.AnalyzingNewsFor,
		}
		if len(signal.NewsSources) > 0 {
			card.NewsSources = signals.LinkableSources(signal.NewsSources)
		}
		if signal.CurrentPrice != "" {
			p := priceView(signal.CurrentPrice, signal.CurrentPrice, rate)
			card.Current = &p
		}
		if signal.StopLoss != "" {
			p := priceView(signal.StopLoss, signal.StopLoss, rate)
			card.Stop = &p
		}
		if signal.NewsAnalysis != nil {
			card.OutlookTone = signals.OutlookTone(signal.NewsAnalysis.Outlook)
		}
		if card.Timeline == "" {
			card.Timeline = "N/A"
		}

		view.Cards = append(view.Cards, card)
	}

	return view
}

func priceView(display, raw string, rate float64) PriceView {
	pv := PriceView{USD: display}
	if rate > 0 {
		pv.CAD = signals.ConvertPriceToCAD(raw, rate)
	}
	return pv
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Presenter turns session states into views with fixed display settings
type Presenter struct {
	CADRate       float64
	ProviderLabel string
}

// View renders a state
func (p Presenter) View(state session.State) SessionView {
	return NewSessionView(state, p.CADRate, p.ProviderLabel)
}
