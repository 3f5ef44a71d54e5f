package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/jigoor/internal/models"
)

func TestSignalTone(t *testing.T) {
	assert.Equal(t, ToneBullish, SignalTone("Strong Buy"))
	assert.Equal(t, ToneBullish, SignalTone("Accumulate"))
	assert.Equal(t, ToneBearish, SignalTone("Strong Sell"))
	assert.Equal(t, ToneNeutral, SignalTone("Hold"))
	assert.Equal(t, ToneNeutral, SignalTone("Moon"))
}

func TestOutlookTone(t *testing.T) {
	tests := []struct {
		outlook string
		want    Tone
	}{
		{"Bullish", ToneBullish},
		{"Slightly Bullish", ToneBullish},
		{"Neutral", ToneNeutral},
		{"Slightly Bearish", ToneBearish},
		{"BEARISH", ToneBearish},
		{"", ToneNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.outlook, func(t *testing.T) {
			assert.Equal(t, tt.want, OutlookTone(tt.outlook))
		})
	}
}

func TestFibonacciRows(t *testing.T) {
	rows := FibonacciRows(&models.FibonacciLevels{
		Level0:    "$73,777",
		Level23_6: "$70,100",
		Level38_2: "$67,950",
		Level50:   "$66,200",
		Level61_8: "$64,450",
		Level78_6: "$62,100",
		Level100:  "$58,623",
	})

	require.Len(t, rows, 7)

	assert.Equal(t, "0.0% (High)", rows[0].Label)
	assert.Equal(t, "$73,777", rows[0].Price)
	assert.Equal(t, "23.6%", rows[1].Label)
	assert.Equal(t, "100.0% (Low)", rows[6].Label)

	tones := make([]Tone, len(rows))
	for i, row := range rows {
		tones[i] = row.Tone
	}
	assert.Equal(t, []Tone{
		ToneBearish, ToneBearish, ToneBearish,
		ToneNeutral,
		ToneBullish, ToneBullish, ToneBullish,
	}, tones)
}

func TestFibonacciRows_SkipsEmptyAndNil(t *testing.T) {
	assert.Nil(t, FibonacciRows(nil))

	rows := FibonacciRows(&models.FibonacciLevels{Level0: "1.0916", Level100: "1.0660"})
	require.Len(t, rows, 2)
	assert.Equal(t, "level_0", rows[0].Key)
	assert.Equal(t, "level_100", rows[1].Key)
}

func TestLinkableSources(t *testing.T) {
	in := []models.Source{
		{URI: "https://reuters.example/btc", Title: "Reuters"},
		{URI: "javascript:alert(1)", Title: "script"},
		{URI: "JavaScript:alert(1)", Title: "script upper"},
		{URI: "data:text/html,<b>x</b>", Title: "data"},
		{URI: "HTTP://news.example/eur", Title: "News"},
		{URI: "/relative/path", Title: "relative"},
		{URI: "ftp://files.example/x", Title: "ftp"},
		{URI: "https://", Title: "no host"},
	}

	assert.Equal(t, []models.Source{
		{URI: "https://reuters.example/btc", Title: "Reuters"},
		{URI: "HTTP://news.example/eur", Title: "News"},
	}, LinkableSources(in))
	assert.Empty(t, LinkableSources(nil))
}
