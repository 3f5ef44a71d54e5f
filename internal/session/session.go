// Package session holds per-browser presentation state: tags, results, errors and
// the single news slot. State lives in memory only and is pushed to subscribers on change.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/models"
	"github.com/ternarybob/jigoor/internal/services/analysis"
	"github.com/ternarybob/jigoor/internal/services/llm"
	"github.com/ternarybob/jigoor/internal/signals"
)

// DataSource selects where a search gets its signals
type DataSource string

const (
	// DataSourceAI asks the configured AI provider
	DataSourceAI DataSource = "gemini"
	// DataSourceAPI reads the mock third-party source
	DataSourceAPI DataSource = "api"
)

// Banner messages shown to the user
const (
	MsgNoTags           = "Please enter at least one ticker or pair."
	msgSignalsFailedFmt = "Failed to fetch signals from %s. %s"
	msgNewsFailed       = "Failed to fetch news analysis. "
)

var (
	ErrNoTags            = errors.New("no tags to search")
	ErrNewsInFlight      = errors.New("a news analysis is already in progress")
	ErrSignalNotFound    = errors.New("signal not found")
	ErrInvalidDataSource = errors.New("data source must be 'gemini' or 'api'")
)

// SignalRequester is the AI signal path
type SignalRequester interface {
	RequestSignals(ctx context.Context, symbols []string) (*analysis.SignalResult, error)
	ProviderType() llm.ProviderType
}

// NewsRequester is the AI news path
type NewsRequester interface {
	RequestNewsAnalysis(ctx context.Context, assetName string, assetType models.AssetType) (*analysis.NewsResult, error)
	ProviderType() llm.ProviderType
}

// SignalSource is the third-party signal path
type SignalSource interface {
	FetchSignals(ctx context.Context, query string, count int) ([]models.TradingSignal, error)
}

// Dependencies are shared by every session
type Dependencies struct {
	Signals    SignalRequester
	News       NewsRequester
	ThirdParty SignalSource
	Logger     arbor.ILogger
}

// State is an immutable snapshot of a session
type State struct {
	SessionID        string                 `json:"session_id"`
	Tags             []string               `json:"tags"`
	Input            string                 `json:"input"`
	Signals          []models.TradingSignal `json:"signals"`
	Sources          []models.Source        `json:"sources"`
	Loading          bool                   `json:"loading"`
	Error            string                 `json:"error,omitempty"`
	AnalyzingNewsFor string                 `json:"analyzing_news_for,omitempty"`
	DataSource       DataSource             `json:"data_source"`
	SignalCount      int                    `json:"signal_count"`
	Generation       uint64                 `json:"generation"`
	// Revision increases with every published change. Clients drop states older than the last one applied.
	Revision uint64 `json:"revision"`
}

// SearchTicket identifies one submitted search
type SearchTicket struct {
	Generation  uint64
	Tags        []string
	DataSource  DataSource
	SignalCount int
}

// NewsTicket identifies one news request for a signal
type NewsTicket struct {
	SignalID  string
	AssetName string
	AssetType models.AssetType
}

// Session is the presentation state of one browser.
// All fields are guarded by mu; notify is always called without the lock held.
type Session struct {
	ID string

	deps   *Dependencies
	notify func(State)

	mu          sync.Mutex
	tags        []string
	input       string
	signals     []models.TradingSignal
	sources     []models.Source
	loading     bool
	errMsg      string
	newsFor     string
	dataSource  DataSource
	signalCount int
	generation  uint64
	revision    uint64
	lastSeen    time.Time
}

func newSession(id string, deps *Dependencies, tags []string, source DataSource, count int, notify func(State)) *Session {
	return &Session{
		ID:          id,
		deps:        deps,
		notify:      notify,
		tags:        append([]string(nil), tags...),
		dataSource:  source,
		signalCount: clampCount(count),
		lastSeen:    time.Now(),
	}
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	return State{
		SessionID:        s.ID,
		Tags:             append([]string{}, s.tags...),
		Input:            s.input,
		Signals:          append([]models.TradingSignal{}, s.signals...),
		Sources:          append([]models.Source{}, s.sources...),
		Loading:          s.loading,
		Error:            s.errMsg,
		AnalyzingNewsFor: s.newsFor,
		DataSource:       s.dataSource,
		SignalCount:      s.signalCount,
		Generation:       s.generation,
		Revision:         s.revision,
	}
}

// update runs fn under the lock, then publishes the resulting snapshot
func (s *Session) update(fn func()) State {
	s.mu.Lock()
	fn()
	s.revision++
	s.lastSeen = time.Now()
	state := s.snapshotLocked()
	s.mu.Unlock()

	if s.notify != nil {
		s.notify(state)
	}
	return state
}

// Touch marks the session as recently used
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// HandleKey applies a key press from the tag input. value is the input text at the time
// of the key press. Returns true when the key asks for a search to be submitted.
func (s *Session) HandleKey(key, value string) (State, bool) {
	submit := false
	state := s.update(func() {
		switch key {
		case ",", " ":
			if strings.TrimSpace(value) != "" {
				s.tags = MergeTags(s.tags, value)
				s.input = ""
			} else {
				s.input = value
			}
		case "Enter":
			s.input = strings.ToUpper(value)
			submit = true
		case "Backspace":
			if value == "" && len(s.tags) > 0 {
				s.tags = s.tags[:len(s.tags)-1]
			}
			s.input = value
		default:
			s.input = strings.ToUpper(value)
		}
	})
	return state, submit
}

// RemoveTag removes a tag by name; unknown tags are ignored
func (s *Session) RemoveTag(tag string) State {
	return s.update(func() {
		kept := make([]string, 0, len(s.tags))
		for _, t := range s.tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		s.tags = kept
	})
}

// SetDataSource switches between the AI and the third-party source
func (s *Session) SetDataSource(source DataSource, count int) (State, error) {
	if source != DataSourceAI && source != DataSourceAPI {
		return s.Snapshot(), ErrInvalidDataSource
	}
	return s.update(func() {
		s.dataSource = source
		s.signalCount = clampCount(count)
	}), nil
}

// StartSearch merges pending input into the tags and opens a new search generation.
// Previous results and errors are cleared. With no tags the error banner is set and ErrNoTags returned.
func (s *Session) StartSearch(pending string) (*SearchTicket, State, error) {
	var ticket *SearchTicket
	state := s.update(func() {
		tags := MergeTags(s.tags, pending)
		if len(tags) == 0 {
			s.errMsg = MsgNoTags
			return
		}

		s.tags = tags
		s.input = ""
		s.errMsg = ""
		s.signals = nil
		s.sources = nil
		s.loading = true
		s.generation++

		ticket = &SearchTicket{
			Generation:  s.generation,
			Tags:        append([]string(nil), tags...),
			DataSource:  s.dataSource,
			SignalCount: s.signalCount,
		}
	})

	if ticket == nil {
		return nil, state, ErrNoTags
	}
	return ticket, state, nil
}

// RunSearch fetches signals for the ticket and applies them if no newer search started meanwhile
func (s *Session) RunSearch(ctx context.Context, ticket *SearchTicket) State {
	logger := s.deps.Logger

	var (
		fetched []models.TradingSignal
		sources []models.Source
		err     error
		label   string
	)

	switch ticket.DataSource {
	case DataSourceAPI:
		label = "the third-party API"
		fetched, err = s.deps.ThirdParty.FetchSignals(ctx, strings.Join(ticket.Tags, ","), ticket.SignalCount)
	default:
		provider := s.deps.Signals.ProviderType()
		label = provider.DisplayName() + " AI"
		var result *analysis.SignalResult
		result, err = s.deps.Signals.RequestSignals(ctx, ticket.Tags)
		if err == nil {
			fetched, sources = result.Signals, result.Sources
		} else {
			err = errors.New(analysis.UserMessage(provider, err))
		}
	}

	var ranked []models.TradingSignal
	if err == nil {
		ranked = signals.SortByPriority(fetched)
		for i := range ranked {
			ranked[i].ID = uuid.New().String()
		}
	}

	return s.update(func() {
		if ticket.Generation != s.generation {
			logger.Debug().
				Str("session", s.ID).
				Int64("generation", int64(ticket.Generation)).
				Int64("current", int64(s.generation)).
				Msg("Discarding stale search result")
			return
		}

		s.loading = false
		if err != nil {
			logger.Warn().Err(err).Str("session", s.ID).Msg("Search failed")
			s.signals = nil
			s.sources = nil
			s.errMsg = formatSignalsError(label, err)
			return
		}

		s.signals = ranked
		s.sources = sources
	})
}

// Submit runs StartSearch and RunSearch back to back
func (s *Session) Submit(ctx context.Context, pending string) (State, error) {
	ticket, state, err := s.StartSearch(pending)
	if err != nil {
		return state, err
	}
	return s.RunSearch(ctx, ticket), nil
}

// BeginNews claims the session's single news slot for the signal with the given id
func (s *Session) BeginNews(signalID string) (*NewsTicket, State, error) {
	var ticket *NewsTicket
	var claimErr error

	state := s.update(func() {
		if s.newsFor != "" {
			claimErr = ErrNewsInFlight
			return
		}
		for _, signal := range s.signals {
			if signal.ID == signalID {
				ticket = &NewsTicket{SignalID: signal.ID, AssetName: signal.AssetName, AssetType: signal.AssetType}
				break
			}
		}
		if ticket == nil {
			claimErr = ErrSignalNotFound
			return
		}
		s.newsFor = signalID
		s.errMsg = ""
	})

	return ticket, state, claimErr
}

// RunNews fetches news for the ticket and attaches it to the signal if it is still displayed
func (s *Session) RunNews(ctx context.Context, ticket *NewsTicket) State {
	result, err := s.deps.News.RequestNewsAnalysis(ctx, ticket.AssetName, ticket.AssetType)
	message := ""
	if err != nil {
		message = analysis.UserMessage(s.deps.News.ProviderType(), err)
		s.deps.Logger.Warn().Err(err).Str("session", s.ID).Str("asset", ticket.AssetName).Msg("News analysis failed")
	}

	return s.update(func() {
		if s.newsFor == ticket.SignalID {
			s.newsFor = ""
		}

		if err != nil {
			s.errMsg = msgNewsFailed + message
			return
		}

		for i := range s.signals {
			if s.signals[i].ID == ticket.SignalID {
				news := result.Analysis
				s.signals[i].NewsAnalysis = &news
				s.signals[i].NewsSources = append([]models.Source(nil), result.Sources...)
				return
			}
		}
	})
}

// RequestNews runs BeginNews and RunNews back to back
func (s *Session) RequestNews(ctx context.Context, signalID string) (State, error) {
	ticket, state, err := s.BeginNews(signalID)
	if err != nil {
		return state, err
	}
	return s.RunNews(ctx, ticket), nil
}

func formatSignalsError(label string, err error) string {
	return fmt.Sprintf(msgSignalsFailedFmt, label, err.Error())
}
