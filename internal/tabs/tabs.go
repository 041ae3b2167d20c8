// Package tabs opens URLs as browser tabs.
package tabs

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/browser"
)

// Kind selects an Opener implementation.
type Kind string

const (
	KindSystem Kind = "system"
	KindCDP    Kind = "cdp"
	KindDryRun Kind = "dry-run"
)

// Kinds lists the accepted opener kinds.
var Kinds = []Kind{KindSystem, KindCDP, KindDryRun}

// Opener opens a URL in a new foreground tab.
type Opener interface {
	OpenTab(ctx context.Context, url string) error
	Close() error
}

// New returns the opener for kind. cdpURL is only used by KindCDP.
func New(kind Kind, cdpURL string, out io.Writer) (Opener, error) {
	switch kind {
	case KindSystem, "":
		return SystemOpener{}, nil
	case KindCDP:
		return NewCDPOpener(cdpURL), nil
	case KindDryRun:
		return &DryRunOpener{Out: out}, nil
	default:
		return nil, fmt.Errorf("unknown opener %q", kind)
	}
}

// Checker is implemented by openers that can tell whether they are able
// to open tabs right now.
type Checker interface {
	Check(ctx context.Context) error
}

// SystemOpener hands URLs to the operating system's default browser.
type SystemOpener struct{}

func (SystemOpener) OpenTab(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return browser.OpenURL(url)
}

func (SystemOpener) Close() error { return nil }

// DryRunOpener records URLs instead of opening them.
type DryRunOpener struct {
	Out io.Writer

	mu     sync.Mutex
	opened []string
}

func (d *DryRunOpener) OpenTab(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	d.opened = append(d.opened, url)
	d.mu.Unlock()
	if d.Out != nil {
		_, err := fmt.Fprintln(d.Out, url)
		return err
	}
	return nil
}

// Opened returns the URLs recorded so far.
func (d *DryRunOpener) Opened() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.opened...)
}

func (d *DryRunOpener) Close() error { return nil }
