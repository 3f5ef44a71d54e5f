package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/jigoor/internal/models"
)

var (
	fencePattern = regexp.MustCompile(`(?s)^\s*` + "```" + `(?:[A-Za-z]+)?\s*\n?(.*?)\n?\s*` + "```" + `\s*$`)
	validate     = validator.New()
)

// CleanMarkdownFences strips a surrounding ``` fence (with optional language tag) and trims whitespace
func CleanMarkdownFences(s string) string {
	s = strings.TrimSpace(s)

	if matches := fencePattern.FindStringSubmatch(s); len(matches) > 1 {
		s = matches[1]
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// signalsEnvelope is the {"signals": [...]} form the prompt asks for
type signalsEnvelope struct {
	Signals json.RawMessage `json:"signals" validate:"required"`
}

// newsPayload keeps both fields raw so their JSON types can be checked
type newsPayload struct {
	Summary json.RawMessage `json:"summary" validate:"required"`
	Outlook json.RawMessage `json:"outlook" validate:"required"`
}

// ParseSignals decodes a signals response. Accepts {"signals": [...]} or a bare array.
// The element count is not checked against the request.
func ParseSignals(text string) ([]models.TradingSignal, error) {
	var data json.RawMessage
	if err := json.Unmarshal([]byte(CleanMarkdownFences(text)), &data); err != nil {
		return nil, &MalformedResponseError{Kind: KindSignals, Reason: "invalid JSON", Raw: text, Err: err}
	}

	if firstByte(data) == '{' {
		var envelope signalsEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, &MalformedResponseError{Kind: KindSignals, Reason: "unexpected object shape", Raw: text, Err: err}
		}
		if err := validate.Struct(envelope); err != nil || firstByte(envelope.Signals) != '[' {
			return nil, &MalformedResponseError{Kind: KindSignals, Reason: "missing 'signals' array", Raw: text, Err: err}
		}
		data = envelope.Signals
	}

	if firstByte(data) != '[' {
		return nil, &MalformedResponseError{Kind: KindSignals, Reason: "expected object or array", Raw: text}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, &MalformedResponseError{Kind: KindSignals, Reason: "invalid signals array", Raw: text, Err: err}
	}
	for i, element := range elements {
		if firstByte(element) != '{' {
			return nil, &MalformedResponseError{Kind: KindSignals, Reason: fmt.Sprintf("signal %d is not an object", i), Raw: text}
		}
	}

	var signals []models.TradingSignal
	if err := json.Unmarshal(data, &signals); err != nil {
		return nil, &MalformedResponseError{Kind: KindSignals, Reason: "signal fields have unexpected types", Raw: text, Err: err}
	}

	for i := range signals {
		if err := validate.Struct(&signals[i]); err != nil {
			return nil, &MalformedResponseError{Kind: KindSignals, Reason: fmt.Sprintf("signal %d is missing required fields", i), Raw: text, Err: err}
		}
		signals[i].ID = ""
	}
	return signals, nil
}

// ParseNews decodes a news response. Both summary and outlook must be JSON strings.
func ParseNews(text string) (*models.NewsAnalysis, error) {
	clean := CleanMarkdownFences(text)
	data := []byte(clean)

	var payload newsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &MalformedResponseError{Kind: KindNews, Reason: "invalid JSON object", Raw: text, Err: err}
	}
	if err := validate.Struct(payload); err != nil {
		return nil, &MalformedResponseError{Kind: KindNews, Reason: "missing 'summary' or 'outlook'", Raw: text, Err: err}
	}
	if firstByte(payload.Summary) != '"' || firstByte(payload.Outlook) != '"' {
		return nil, &MalformedResponseError{Kind: KindNews, Reason: "'summary' and 'outlook' must be strings", Raw: text}
	}

	analysis := &models.NewsAnalysis{}
	if err := json.Unmarshal(payload.Summary, &analysis.Summary); err != nil {
		return nil, &MalformedResponseError{Kind: KindNews, Reason: "invalid summary", Raw: text, Err: err}
	}
	if err := json.Unmarshal(payload.Outlook, &analysis.Outlook); err != nil {
		return nil, &MalformedResponseError{Kind: KindNews, Reason: "invalid outlook", Raw: text, Err: err}
	}
	return analysis, nil
}

func firstByte(data []byte) byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
