package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stockhop/cli/internal/lookup"
	"github.com/stockhop/cli/internal/storage"
	"github.com/stockhop/cli/pkg/stockcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryList_Empty(t *testing.T) {
	setupStdoutCapture(t)
	h := HistoryCmd{svc: &FakeLookupService{}}

	require.NoError(t, h.List(context.Background(), HistoryListInput{}))
	assert.Contains(t, outBuf.String(), lookup.MsgEmptyHistory)
}

func TestHistoryList_RendersMostRecentFirst(t *testing.T) {
	setupStdoutCapture(t)
	svc, _ := newTestService(t)
	svc.Submit(context.Background(), "1101")
	svc.Submit(context.Background(), "2330")
	outBuf.Reset()

	h := HistoryCmd{svc: svc}
	require.NoError(t, h.List(context.Background(), HistoryListInput{}))

	out := outBuf.String()
	assert.Less(t, indexOf(out, "2330"), indexOf(out, "1101"))
	assert.NotContains(t, out, lookup.MsgEmptyHistory)
}

func TestHistoryList_StorageUnavailableRendersEmpty(t *testing.T) {
	setupStdoutCapture(t)
	h := HistoryCmd{svc: &FakeLookupService{
		HistoryFunc: func(context.Context) ([]stockcode.Code, error) {
			return []stockcode.Code{}, storage.ErrUnavailable
		},
	}}

	require.NoError(t, h.List(context.Background(), HistoryListInput{}))
	out := outBuf.String()
	assert.Contains(t, out, "History unavailable")
	assert.Contains(t, out, lookup.MsgEmptyHistory)
}

func TestHistoryList_JSON(t *testing.T) {
	setupStdoutCapture(t)
	h := HistoryCmd{svc: &FakeLookupService{
		HistoryFunc: func(context.Context) ([]stockcode.Code, error) {
			return []stockcode.Code{"6488", "2330"}, nil
		},
	}}

	out := captureJSON(t, func() {
		require.NoError(t, h.List(context.Background(), HistoryListInput{Output: "json"}))
	})
	assert.JSONEq(t, `["6488","2330"]`, out)
}

func TestHistoryList_JSONEmpty(t *testing.T) {
	setupStdoutCapture(t)
	h := HistoryCmd{svc: &FakeLookupService{}}

	out := captureJSON(t, func() {
		require.NoError(t, h.List(context.Background(), HistoryListInput{Output: "json"}))
	})
	assert.JSONEq(t, `[]`, out)
}

func TestHistoryList_WatchRerenders(t *testing.T) {
	setupStdoutCapture(t)
	calls := 0
	h := HistoryCmd{
		svc: &FakeLookupService{
			HistoryFunc: func(context.Context) ([]stockcode.Code, error) {
				calls++
				if calls == 1 {
					return []stockcode.Code{}, nil
				}
				return []stockcode.Code{"2330"}, nil
			},
		},
		watch: func(ctx context.Context, onChange func()) error {
			onChange()
			return nil
		},
	}

	require.NoError(t, h.List(context.Background(), HistoryListInput{Watch: true}))
	assert.Equal(t, 2, calls)
	out := outBuf.String()
	assert.Contains(t, out, lookup.MsgEmptyHistory)
	assert.Contains(t, out, "2330")
}

func TestHistoryList_WatchUnsupported(t *testing.T) {
	setupStdoutCapture(t)
	h := HistoryCmd{svc: &FakeLookupService{}}
	err := h.List(context.Background(), HistoryListInput{Watch: true})
	assert.ErrorContains(t, err, "not supported")

	err = h.List(context.Background(), HistoryListInput{Watch: true, Output: "json"})
	assert.ErrorContains(t, err, "cannot be combined")
}

func TestHistoryRemove(t *testing.T) {
	setupStdoutCapture(t)
	svc, _ := newTestService(t)
	svc.Submit(context.Background(), "1101")
	svc.Submit(context.Background(), "2330")

	h := HistoryCmd{svc: svc}
	require.NoError(t, h.Remove(context.Background(), HistoryRemoveInput{Code: "1101"}))
	assert.Contains(t, outBuf.String(), "Removed 1101 from history")

	list, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []stockcode.Code{"2330"}, list)

	err = h.Remove(context.Background(), HistoryRemoveInput{Code: "nope"})
	assert.ErrorIs(t, err, stockcode.ErrInvalidFormat)
}

func TestHistoryClear_Confirmed(t *testing.T) {
	setupStdoutCapture(t)
	svc, _ := newTestService(t)
	svc.Submit(context.Background(), "2330")

	prompt := &FakePrompter{Confirms: []bool{true}}
	h := HistoryCmd{svc: svc, prompt: prompt}
	require.NoError(t, h.Clear(context.Background(), HistoryClearInput{}))

	assert.Contains(t, outBuf.String(), lookup.MsgCleared)
	list, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistoryClear_Declined(t *testing.T) {
	setupStdoutCapture(t)
	cleared := false
	h := HistoryCmd{
		svc: &FakeLookupService{
			ClearFunc: func(context.Context) ([]stockcode.Code, error) {
				cleared = true
				return []stockcode.Code{}, nil
			},
		},
		prompt: &FakePrompter{Confirms: []bool{false}},
	}

	require.NoError(t, h.Clear(context.Background(), HistoryClearInput{}))
	assert.False(t, cleared)
	assert.Contains(t, outBuf.String(), "Cancelled")
}

func TestHistoryClear_YesSkipsPrompt(t *testing.T) {
	setupStdoutCapture(t)
	prompt := &FakePrompter{}
	h := HistoryCmd{svc: &FakeLookupService{}, prompt: prompt}

	require.NoError(t, h.Clear(context.Background(), HistoryClearInput{Yes: true}))
	assert.Empty(t, prompt.prompts)
	assert.Contains(t, outBuf.String(), lookup.MsgCleared)
}

func TestHistoryClear_StorageError(t *testing.T) {
	setupStdoutCapture(t)
	h := HistoryCmd{svc: &FakeLookupService{
		ClearFunc: func(context.Context) ([]stockcode.Code, error) {
			return nil, errors.Join(storage.ErrUnavailable, errors.New("read-only filesystem"))
		},
	}}

	err := h.Clear(context.Background(), HistoryClearInput{Yes: true})
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.NotContains(t, outBuf.String(), lookup.MsgCleared)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
