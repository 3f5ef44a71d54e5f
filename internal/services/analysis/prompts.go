package analysis

import (
	"fmt"
	"strings"

	"github.com/ternarybob/jigoor/internal/models"
)

const signalsExample = `{
  "signals": [
    {
      "assetName": "Bitcoin (BTC)",
      "assetType": "crypto",
      "signal": "Strong Buy",
      "analysis": "Bitcoin is showing strong bullish momentum after breaking a key resistance level. Increased institutional inflow supports a continued upward trend.",
      "currentPrice": "$69,123.45",
      "entryPrice": "$68,500 - $69,200",
      "exitPrice": "$74,000",
      "stopLoss": "$66,500",
      "timeline": "1-2 weeks",
      "fibonacciLevels": { "level_0": "$73,777", "level_23_6": "$70,100", "level_38_2": "$67,950", "level_50": "$66,200", "level_61_8": "$64,450", "level_78_6": "$62,100", "level_100": "$58,623" }
    },
    {
      "assetName": "EUR/USD",
      "assetType": "forex",
      "signal": "Sell",
      "analysis": "The EUR/USD is facing strong resistance at the 1.0850 level. Hawkish comments from the Federal Reserve are strengthening the USD.",
      "currentPrice": "1.0845",
      "entryPrice": "1.0830 - 1.0850",
      "exitPrice": "1.0720",
      "stopLoss": "1.0890",
      "timeline": "3-5 days",
      "fibonacciLevels": { "level_0": "1.0916", "level_23_6": "1.0855", "level_38_2": "1.0818", "level_50": "1.0788", "level_61_8": "1.0758", "level_78_6": "1.0718", "level_100": "1.0660" }
    }
  ]
}`

const newsExample = `{
  "summary": "Recent positive developments regarding a partnership with a major tech firm have boosted investor confidence. Social media sentiment is overwhelmingly positive, pointing towards a potential short-term price increase.",
  "outlook": "Bullish"
}`

// BuildSignalsPrompt renders the trading signal instructions for the given symbols
func BuildSignalsPrompt(symbols []string) string {
	count := len(symbols)

	var b strings.Builder
	b.WriteString("You are an expert financial analyst specializing in both cryptocurrency and Forex markets.\n")
	fmt.Fprintf(&b, "The user wants a detailed trading signal analysis for the following assets: %s.\n\n", strings.Join(symbols, ", "))

	fmt.Fprintf(&b, "For each of the %d assets requested:\n", count)
	b.WriteString("1. Identify whether the asset is a 'crypto' or 'forex' pair.\n")
	b.WriteString("2. Provide a single, detailed trading signal analysis based on its type.\n\n")

	b.WriteString("For each signal, provide:\n")
	b.WriteString("1. The asset name (e.g. \"Bitcoin (BTC)\" for crypto, \"EUR/USD\" for forex).\n")
	b.WriteString("2. The asset type, which MUST be either \"crypto\" or \"forex\".\n")
	b.WriteString("3. The signal type (\"Strong Buy\", \"Buy\", \"Accumulate\", \"Hold\", \"Sell\" or \"Strong Sell\").\n")
	b.WriteString("4. A concise, data-driven analysis (2-3 sentences) explaining the signal. Search the web for the most recent information: economic data for forex, on-chain metrics for crypto.\n")
	b.WriteString("5. The current price.\n")
	b.WriteString("6. A target entry price range.\n")
	b.WriteString("7. A target exit price for taking profit.\n")
	b.WriteString("8. A stop loss price for risk management.\n")
	b.WriteString("9. An estimated trade timeline (e.g. \"1-3 days\", \"2 weeks\", \"Intraday\").\n")
	b.WriteString("10. Key Fibonacci retracement levels from the most recent significant swing high and swing low.\n\n")

	b.WriteString("Your final output MUST be a single, valid JSON object with a single key \"signals\" holding an array of signal objects. Do not include any other text or formatting.\n")
	fmt.Fprintf(&b, "The \"signals\" array must contain exactly %d objects.\n", count)
	b.WriteString("Each signal object must contain these exact keys: \"assetName\", \"assetType\", \"signal\", \"analysis\", \"currentPrice\", \"entryPrice\", \"exitPrice\", \"stopLoss\", \"timeline\" and \"fibonacciLevels\".\n")
	b.WriteString("\"fibonacciLevels\" must be an object with the keys \"level_0\" (swing high), \"level_23_6\", \"level_38_2\", \"level_50\", \"level_61_8\", \"level_78_6\" and \"level_100\" (swing low).\n\n")

	b.WriteString("Example JSON for a request of \"BTC\" and \"EURUSD\":\n")
	b.WriteString(signalsExample)
	b.WriteString("\n")
	return b.String()
}

// BuildNewsPrompt renders the live news sentiment instructions for one asset
func BuildNewsPrompt(assetName string, assetType models.AssetType) string {
	specialization := "Forex markets"
	if assetType == models.AssetTypeCrypto {
		specialization = "cryptocurrency"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a financial analyst specializing in %s. Analyze the latest news and market sentiment for %s.\n", specialization, assetName)
	b.WriteString("Search the web for breaking news, economic data releases, central bank statements and social media sentiment from the last 24-48 hours.\n\n")

	b.WriteString("Based on your findings, provide:\n")
	fmt.Fprintf(&b, "1. \"summary\": a concise 2-3 sentence summary of the key news and sentiment drivers affecting %s.\n", assetName)
	fmt.Fprintf(&b, "2. \"outlook\": a revised outlook, exactly one of %s.\n\n", quotedList([]string{
		models.OutlookBullish,
		models.OutlookSlightlyBullish,
		models.OutlookNeutral,
		models.OutlookSlightlyBearish,
		models.OutlookBearish,
	}))

	b.WriteString("Your final output MUST be a single, valid JSON object with two keys: \"summary\" and \"outlook\". Do not include any other text or formatting.\n\n")
	b.WriteString("Example JSON:\n")
	b.WriteString(newsExample)
	b.WriteString("\n")
	return b.String()
}

func quotedList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
