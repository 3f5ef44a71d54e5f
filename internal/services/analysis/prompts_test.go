package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/jigoor/internal/models"
)

func TestBuildSignalsPrompt(t *testing.T) {
	prompt := BuildSignalsPrompt([]string{"BTC", "ETH", "EURUSD"})

	assert.Contains(t, prompt, "BTC, ETH, EURUSD")
	assert.Contains(t, prompt, "exactly 3 objects")
	assert.Contains(t, prompt, `single key "signals"`)
	assert.Contains(t, prompt, `"level_61_8"`)
	assert.Contains(t, prompt, `"assetName": "Bitcoin (BTC)"`)
	assert.Contains(t, prompt, `"assetName": "EUR/USD"`)
}

func TestBuildNewsPrompt(t *testing.T) {
	crypto := BuildNewsPrompt("Bitcoin (BTC)", models.AssetTypeCrypto)
	assert.Contains(t, crypto, "specializing in cryptocurrency")
	assert.Contains(t, crypto, "Bitcoin (BTC)")
	assert.Contains(t, crypto, `"Slightly Bearish"`)
	assert.Contains(t, crypto, "last 24-48 hours")

	forex := BuildNewsPrompt("EUR/USD", models.AssetTypeForex)
	assert.Contains(t, forex, "specializing in Forex markets")
}
