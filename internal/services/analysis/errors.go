package analysis

import (
	"errors"
	"fmt"

	"github.com/ternarybob/jigoor/internal/services/llm"
)

// ErrNoSymbols is returned when a signal request names no assets
var ErrNoSymbols = errors.New("at least one asset symbol is required")

// ErrNoAssetName is returned when a news request names no asset
var ErrNoAssetName = errors.New("asset name is required")

// ResponseKind identifies which AI response a parse failure belongs to
type ResponseKind string

const (
	KindSignals ResponseKind = "signals"
	KindNews    ResponseKind = "news"
)

// BackendError wraps a failure of the AI endpoint call itself
type BackendError struct {
	Provider llm.ProviderType
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s API Error: %v", e.Provider.DisplayName(), e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports an AI response that could not be parsed or had the wrong shape.
// Raw holds the offending text for logging only.
type MalformedResponseError struct {
	Kind   ResponseKind
	Reason string
	Raw    string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s response: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s response: %s", e.Kind, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// UserMessage reduces a request error to the single line shown in the error banner.
// Raw AI output and internal causes of malformed responses are never included.
func UserMessage(provider llm.ProviderType, err error) string {
	if err == nil {
		return ""
	}

	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		if malformed.Kind == KindNews {
			return provider.DisplayName() + " API Error: The AI returned a news analysis in an unexpected format. Please try again."
		}
		return provider.DisplayName() + " API Error: The AI returned a response in an unexpected format. Please try again."
	}

	var backend *BackendError
	if errors.As(err, &backend) {
		msg := backend.Error()
		if hint := llm.RateLimitHint(backend.Err); hint != "" {
			msg += " " + hint
		}
		return msg
	}

	return err.Error()
}
