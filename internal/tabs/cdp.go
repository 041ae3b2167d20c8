package tabs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// DefaultCDPURL is the DevTools HTTP endpoint of a locally started
// browser (--remote-debugging-port=9222).
const DefaultCDPURL = "http://127.0.0.1:9222"

// CDPOpener opens tabs in an already running Chromium through the
// DevTools protocol. The browser connection is made on first use and
// kept until Close.
type CDPOpener struct {
	httpBase string
	client   *http.Client

	mu      sync.Mutex
	browser *chromedp.Browser
	cancel  context.CancelFunc
}

// NewCDPOpener returns an opener for the DevTools endpoint at httpBase.
func NewCDPOpener(httpBase string) *CDPOpener {
	if httpBase == "" {
		httpBase = DefaultCDPURL
	}
	return &CDPOpener{
		httpBase: strings.TrimRight(httpBase, "/"),
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// OpenTab creates a new foreground page target navigated to url.
func (o *CDPOpener) OpenTab(ctx context.Context, url string) error {
	b, err := o.connect(ctx)
	if err != nil {
		return err
	}
	_, err = target.CreateTarget(url).
		WithBackground(false).
		Do(cdp.WithExecutor(ctx, b))
	if err != nil {
		return fmt.Errorf("cdp: create target: %w", err)
	}
	return nil
}

// Close drops the browser connection. The browser keeps running.
func (o *CDPOpener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
		o.browser = nil
	}
	return nil
}

func (o *CDPOpener) connect(ctx context.Context) (*chromedp.Browser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.browser != nil {
		return o.browser, nil
	}

	wsURL, err := o.browserWSURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("cdp: browser ws url: %w", err)
	}

	// The connection outlives the first call; Close tears it down.
	bctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b, err := chromedp.NewBrowser(bctx, wsURL)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("cdp: dial: %w", err)
	}
	o.browser = b
	o.cancel = cancel
	return b, nil
}

// browserWSURL fetches the WebSocket debugger URL from /json/version.
func (o *CDPOpener) browserWSURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.httpBase+"/json/version", nil)
	if err != nil {
		return "", err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("/json/version: HTTP %d", resp.StatusCode)
	}

	var info struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	if info.WebSocketDebuggerURL == "" {
		return "", fmt.Errorf("empty webSocketDebuggerUrl")
	}
	return info.WebSocketDebuggerURL, nil
}

// Check reports whether the DevTools endpoint answers.
func (o *CDPOpener) Check(ctx context.Context) error {
	_, err := o.browserWSURL(ctx)
	return err
}
