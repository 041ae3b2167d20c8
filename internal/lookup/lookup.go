// Package lookup ties validation, URL dispatch and history together behind
// the actions a user can take: submit a code, pick or remove a history
// entry, clear history. It holds no UI state; callers pass raw input in
// and render the returned Result.
package lookup

import (
	"context"
	"errors"

	"github.com/pterm/pterm"
	"github.com/stockhop/cli/internal/dispatch"
	"github.com/stockhop/cli/internal/exchange"
	"github.com/stockhop/cli/internal/tabs"
	"github.com/stockhop/cli/pkg/stockcode"
)

// Messages shown inline to the user.
const (
	MsgOpening      = "正在開啟網站..."
	MsgCleared      = "已清除所有查詢記錄"
	MsgEmptyHistory = "尚無查詢記錄"
)

// HistoryStore is the subset of history.Store used by Service.
type HistoryStore interface {
	Load(ctx context.Context) ([]stockcode.Code, error)
	Insert(ctx context.Context, code stockcode.Code) ([]stockcode.Code, error)
	Remove(ctx context.Context, code stockcode.Code) ([]stockcode.Code, error)
	Clear(ctx context.Context) ([]stockcode.Code, error)
}

// Service handles user actions.
type Service struct {
	classifier dispatch.Classifier
	history    HistoryStore
	opener     tabs.Opener
	logger     *pterm.Logger
}

// New returns a Service. A nil logger uses pterm.DefaultLogger.
func New(classifier dispatch.Classifier, store HistoryStore, opener tabs.Opener, logger *pterm.Logger) *Service {
	if logger == nil {
		logger = &pterm.DefaultLogger
	}
	return &Service{classifier: classifier, history: store, opener: opener, logger: logger}
}

// OpenError records a URL that could not be opened.
type OpenError struct {
	URL string `json:"url"`
	Err string `json:"error"`
}

// Result is everything the UI needs after a submission.
type Result struct {
	Input      string             `json:"input"`
	Valid      bool               `json:"valid"`
	Reason     string             `json:"reason,omitempty"`
	Suggestion stockcode.Code     `json:"suggestion,omitempty"`
	Code       stockcode.Code     `json:"code,omitempty"`
	Exchange   *exchange.Exchange `json:"exchange,omitempty"`
	URLs       []string           `json:"urls,omitempty"`
	OpenErrors []OpenError        `json:"open_errors,omitempty"`
	History    []stockcode.Code   `json:"history"`
	StorageErr string             `json:"storage_error,omitempty"`
}

// Preview validates raw and computes the URLs without opening tabs or
// touching history.
func (s *Service) Preview(raw string) Result {
	res := Result{Input: raw}
	code, err := stockcode.Parse(raw)
	if err != nil {
		res.Reason = reason(err)
		if code, ok := stockcode.Suggest(raw); ok {
			res.Suggestion = code
		}
		return res
	}
	ex := s.classifier.Classify(code)
	res.Valid = true
	res.Code = code
	res.Exchange = &ex
	res.URLs = dispatch.BuildURLs(code, s.classifier)
	return res
}

// Submit validates raw, opens every URL, then records the code in history.
// Invalid input stops before any side effect. Open and storage failures
// are reported in the Result; tabs already opened stay open.
func (s *Service) Submit(ctx context.Context, raw string) Result {
	res := s.Preview(raw)
	if !res.Valid {
		s.logger.Debug("rejected input", s.logger.Args("input", raw))
		return res
	}

	for _, u := range res.URLs {
		if err := s.opener.OpenTab(ctx, u); err != nil {
			s.logger.Warn("open tab failed", s.logger.Args("url", u, "error", err))
			res.OpenErrors = append(res.OpenErrors, OpenError{URL: u, Err: err.Error()})
		}
	}

	list, err := s.history.Insert(ctx, res.Code)
	if err != nil {
		s.logger.Error("history insert failed", s.logger.Args("code", res.Code, "error", err))
		res.StorageErr = err.Error()
		res.History = s.loadOrEmpty(ctx)
		return res
	}
	res.History = list
	s.logger.Info("looked up code", s.logger.Args("code", res.Code, "exchange", res.Exchange.String(), "tabs", len(res.URLs)-len(res.OpenErrors)))
	return res
}

// History returns the current list. On a storage failure it returns an
// empty list together with the error so the caller can still render.
func (s *Service) History(ctx context.Context) ([]stockcode.Code, error) {
	list, err := s.history.Load(ctx)
	if err != nil {
		s.logger.Error("history load failed", s.logger.Args("error", err))
		return []stockcode.Code{}, err
	}
	return list, nil
}

// Remove drops raw from history. Input that is not a valid code cannot be
// in history, so it is rejected without touching storage.
func (s *Service) Remove(ctx context.Context, raw string) ([]stockcode.Code, error) {
	code, err := stockcode.Parse(raw)
	if err != nil {
		return nil, err
	}
	list, err := s.history.Remove(ctx, code)
	if err != nil {
		s.logger.Error("history remove failed", s.logger.Args("code", code, "error", err))
		return nil, err
	}
	return list, nil
}

// Clear empties history.
func (s *Service) Clear(ctx context.Context) ([]stockcode.Code, error) {
	list, err := s.history.Clear(ctx)
	if err != nil {
		s.logger.Error("history clear failed", s.logger.Args("error", err))
		return nil, err
	}
	return list, nil
}

func (s *Service) loadOrEmpty(ctx context.Context) []stockcode.Code {
	list, err := s.history.Load(ctx)
	if err != nil {
		return []stockcode.Code{}
	}
	return list
}

func reason(err error) string {
	var fe *stockcode.InvalidFormatError
	if errors.As(err, &fe) {
		return fe.Reason()
	}
	return err.Error()
}
