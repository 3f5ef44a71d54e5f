package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/jigoor/internal/models"
	"github.com/ternarybob/jigoor/internal/session"
	"github.com/ternarybob/jigoor/internal/signals"
)

func TestNewSessionView_CADOnlyForCrypto(t *testing.T) {
	state := session.State{
		Signals: []models.TradingSignal{
			{ID: "1", AssetName: "Bitcoin (BTC)", AssetType: models.AssetTypeCrypto, Signal: models.SignalBuy,
				CurrentPrice: "$69,123.45", EntryPrice: "$68,500 - $69,200", ExitPrice: "$75,000", StopLoss: "$66,000"},
			{ID: "2", AssetName: "EUR/USD", AssetType: models.AssetTypeForex, Signal: models.SignalSell,
				EntryPrice: "1.0850", ExitPrice: "1.0750"},
		},
	}

	view := NewSessionView(state, 1.37, "Gemini AI")
	require.Len(t, view.Cards, 2)

	btc := view.Cards[0]
	assert.Equal(t, signals.ToneBullish, btc.Tone)
	require.NotNil(t, btc.Current)
	assert.Equal(t, "94,699.13 $CAD", btc.Current.CAD)
	assert.Equal(t, "93,845.00 - 94,804.00 $CAD", btc.Entry.CAD)
	require.NotNil(t, btc.Stop)
	assert.Equal(t, "90,420.00 $CAD", btc.Stop.CAD)

	fx := view.Cards[1]
	assert.Equal(t, signals.ToneBearish, fx.Tone)
	assert.Nil(t, fx.Current)
	assert.Nil(t, fx.Stop)
	assert.Equal(t, "1.0850", fx.Entry.USD)
	assert.Empty(t, fx.Entry.CAD)
	assert.Equal(t, "N/A", fx.Timeline)
}

func TestNewSessionView_MissingPricesAndNews(t *testing.T) {
	state := session.State{
		AnalyzingNewsFor: "b",
		Signals: []models.TradingSignal{
			{ID: "a", AssetName: "Solana (SOL)", AssetType: models.AssetTypeCrypto, Signal: "Hold", Timeline: "1-2 weeks",
				NewsAnalysis: &models.NewsAnalysis{Summary: "Quiet.", Outlook: models.OutlookSlightlyBearish}},
			{ID: "b", AssetName: "Cardano (ADA)", AssetType: models.AssetTypeCrypto, Signal: "Moon"},
		},
	}

	view := NewSessionView(state, 1.37, "Claude AI")
	assert.True(t, view.AnyAnalyzing)
	assert.Equal(t, "Claude AI", view.ProviderLabel)

	sol := view.Cards[0]
	assert.Equal(t, signals.ToneBearish, sol.OutlookTone)
	assert.Equal(t, "1-2 weeks", sol.Timeline)
	assert.False(t, sol.Analyzing)

	ada := view.Cards[1]
	assert.True(t, ada.Analyzing)
	assert.Equal(t, signals.ToneNeutral, ada.Tone)
	assert.Equal(t, "N/A", ada.Entry.USD)
	assert.Empty(t, ada.Entry.CAD)
	assert.Empty(t, ada.FibonacciRows)
}

func TestNewSessionView_ZeroRateHidesCAD(t *testing.T) {
	state := session.State{Signals: []models.TradingSignal{
		{ID: "a", AssetType: models.AssetTypeCrypto, EntryPrice: "$100"},
	}}

	view := NewSessionView(state, 0, "Gemini AI")
	assert.Equal(t, "$100", view.Cards[0].Entry.USD)
	assert.Empty(t, view.Cards[0].Entry.CAD)
}

func TestNewSessionView_DropsNonWebSources(t *testing.T) {
	state := session.State{
		Signals: []models.TradingSignal{{
			ID: "1", AssetName: "Bitcoin (BTC)", AssetType: models.AssetTypeCrypto, Signal: models.SignalBuy,
			NewsSources: []models.Source{
				{URI: "data:text/html,x", Title: "data"},
				{URI: "https://news.example/btc", Title: "News"},
			},
		}},
		Sources: []models.Source{
			{URI: "javascript:alert(1)", Title: "bad"},
			{URI: "https://a.example", Title: "A"},
		},
	}

	view := NewSessionView(state, 1.37, "Gemini AI")
	assert.Equal(t, []models.Source{{URI: "https://a.example", Title: "A"}}, view.Sources)
	require.Len(t, view.Cards, 1)
	assert.Equal(t, []models.Source{{URI: "https://news.example/btc", Title: "News"}}, view.Cards[0].NewsSources)

	// the session state itself is untouched
	assert.Len(t, state.Sources, 2)
}
