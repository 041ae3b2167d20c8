package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stockhop/cli/internal/exchange"
	"github.com/stockhop/cli/internal/history"
	"github.com/stockhop/cli/internal/lookup"
	"github.com/stockhop/cli/internal/storage"
	"github.com/stockhop/cli/internal/tabs"
	"github.com/stockhop/cli/pkg/stockcode"
	"github.com/stretchr/testify/require"
)

var outBuf bytes.Buffer

// setupStdoutCapture routes pterm output into outBuf for the test. The
// prefix printers and the default table hold their own writer, so they
// are redirected one by one.
func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()
	pterm.SetDefaultOutput(&outBuf)
	pterm.DisableColor()

	printers := []*pterm.PrefixPrinter{&pterm.Info, &pterm.Success, &pterm.Warning, &pterm.Error}
	oldWriters := make([]io.Writer, len(printers))
	for i, p := range printers {
		oldWriters[i] = p.Writer
		p.Writer = &outBuf
	}
	oldTableWriter := pterm.DefaultTable.Writer
	pterm.DefaultTable.Writer = &outBuf

	t.Cleanup(func() {
		for i, p := range printers {
			p.Writer = oldWriters[i]
		}
		pterm.DefaultTable.Writer = oldTableWriter
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableColor()
	})
}

// captureJSON swaps os.Stdout for a pipe and returns what fn printed.
func captureJSON(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = oldStdout
	})

	fn()

	w.Close()
	var stdoutBuf bytes.Buffer
	_, _ = io.Copy(&stdoutBuf, r)
	return stdoutBuf.String()
}

// newTestService returns a real lookup.Service over memory storage and a
// dry-run opener.
func newTestService(t *testing.T) (*lookup.Service, *tabs.DryRunOpener) {
	t.Helper()
	c, err := exchange.Default()
	require.NoError(t, err)
	opener := &tabs.DryRunOpener{}
	logger := pterm.DefaultLogger.WithWriter(io.Discard)
	return lookup.New(c, history.NewStore(storage.NewMemoryBackend()), opener, logger), opener
}

type FakeLookupService struct {
	SubmitFunc  func(ctx context.Context, raw string) lookup.Result
	PreviewFunc func(raw string) lookup.Result
	HistoryFunc func(ctx context.Context) ([]stockcode.Code, error)
	RemoveFunc  func(ctx context.Context, raw string) ([]stockcode.Code, error)
	ClearFunc   func(ctx context.Context) ([]stockcode.Code, error)
}

func (f *FakeLookupService) Submit(ctx context.Context, raw string) lookup.Result {
	if f.SubmitFunc != nil {
		return f.SubmitFunc(ctx, raw)
	}
	return lookup.Result{Input: raw}
}

func (f *FakeLookupService) Preview(raw string) lookup.Result {
	if f.PreviewFunc != nil {
		return f.PreviewFunc(raw)
	}
	return lookup.Result{Input: raw}
}

func (f *FakeLookupService) History(ctx context.Context) ([]stockcode.Code, error) {
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx)
	}
	return []stockcode.Code{}, nil
}

func (f *FakeLookupService) Remove(ctx context.Context, raw string) ([]stockcode.Code, error) {
	if f.RemoveFunc != nil {
		return f.RemoveFunc(ctx, raw)
	}
	return []stockcode.Code{}, nil
}

func (f *FakeLookupService) Clear(ctx context.Context) ([]stockcode.Code, error) {
	if f.ClearFunc != nil {
		return f.ClearFunc(ctx)
	}
	return []stockcode.Code{}, nil
}

// FakePrompter replays scripted answers.
type FakePrompter struct {
	Inputs   []string
	Selects  []string
	Confirms []bool
	prompts  []string
}

var errNoMoreAnswers = errors.New("no more scripted answers")

func (f *FakePrompter) Input(text string) (string, error) {
	f.prompts = append(f.prompts, text)
	if len(f.Inputs) == 0 {
		return "", errNoMoreAnswers
	}
	v := f.Inputs[0]
	f.Inputs = f.Inputs[1:]
	return v, nil
}

func (f *FakePrompter) Select(text string, options []string) (string, error) {
	f.prompts = append(f.prompts, text)
	if len(f.Selects) == 0 {
		return "", errNoMoreAnswers
	}
	v := f.Selects[0]
	f.Selects = f.Selects[1:]
	return v, nil
}

func (f *FakePrompter) Confirm(text string) (bool, error) {
	f.prompts = append(f.prompts, text)
	if len(f.Confirms) == 0 {
		return false, errNoMoreAnswers
	}
	v := f.Confirms[0]
	f.Confirms = f.Confirms[1:]
	return v, nil
}

func decodeResult(t *testing.T, out string) lookup.Result {
	t.Helper()
	var res lookup.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}
