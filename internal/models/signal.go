package models

// AssetType distinguishes crypto assets from forex pairs
type AssetType string

const (
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeForex  AssetType = "forex"
)

// Signal labels the AI is asked to choose from. Other values are kept as-is.
const (
	SignalStrongBuy  = "Strong Buy"
	SignalBuy        = "Buy"
	SignalAccumulate = "Accumulate"
	SignalHold       = "Hold"
	SignalSell       = "Sell"
	SignalStrongSell = "Strong Sell"
)

// Outlook labels for news analysis
const (
	OutlookBullish         = "Bullish"
	OutlookSlightlyBullish = "Slightly Bullish"
	OutlookNeutral         = "Neutral"
	OutlookSlightlyBearish = "Slightly Bearish"
	OutlookBearish         = "Bearish"
)

// TradingSignal is a single asset recommendation returned by the AI or the third-party source.
// Price fields are display strings and are never parsed except for CAD conversion.
// AssetName and Signal are required on every record parsed from the AI.
type TradingSignal struct {
	ID              string           `json:"id,omitempty"`
	AssetName       string           `json:"assetName" validate:"required"`
	AssetType       AssetType        `json:"assetType"`
	Signal          string           `json:"signal" validate:"required"`
	Analysis        string           `json:"analysis"`
	CurrentPrice    string           `json:"currentPrice,omitempty"`
	EntryPrice      string           `json:"entryPrice"`
	ExitPrice       string           `json:"exitPrice"`
	StopLoss        string           `json:"stopLoss,omitempty"`
	Timeline        string           `json:"timeline"`
	FibonacciLevels *FibonacciLevels `json:"fibonacciLevels,omitempty"`
	NewsAnalysis    *NewsAnalysis    `json:"newsAnalysis,omitempty"`
	NewsSources     []Source         `json:"newsSources,omitempty"`
}

// FibonacciLevels holds retracement prices from swing high (level_0) to swing low (level_100)
type FibonacciLevels struct {
	Level0    string `json:"level_0"`
	Level23_6 string `json:"level_23_6"`
	Level38_2 string `json:"level_38_2"`
	Level50   string `json:"level_50"`
	Level61_8 string `json:"level_61_8"`
	Level78_6 string `json:"level_78_6"`
	Level100  string `json:"level_100"`
}

// NewsAnalysis is the short sentiment update attached to a signal on demand
type NewsAnalysis struct {
	Summary string `json:"summary"`
	Outlook string `json:"outlook"`
}

// Source is a web citation returned with an AI response. URI is the identity.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}
