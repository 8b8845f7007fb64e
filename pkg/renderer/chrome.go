package renderer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sangkips/receipt-relay/pkg/document"
	"golang.org/x/sync/semaphore"
)

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// ChromeOptions configures the headless Chrome backend.
type ChromeOptions struct {
	ExecPath      string        // local Chrome binary, empty to let chromedp find one
	RemoteURL     string        // DevTools websocket of a running browser, overrides ExecPath
	MaxConcurrent int64         // open tabs allowed at once
	LoadTimeout   time.Duration // budget for the page to reach network idle
}

type chromeRenderer struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	slots         *semaphore.Weighted
	loadTimeout   time.Duration
}

// NewChromeRenderer starts (or connects to) one browser for the process.
// Each Render opens its own tab in it; at most MaxConcurrent tabs are open.
func NewChromeRenderer(opts ChromeOptions) (Renderer, error) {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 30 * time.Second
	}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.NoSandbox,
			chromedp.DisableGPU,
		)
		if opts.ExecPath != "" {
			allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	}

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("%w: start browser: %v", ErrUnavailable, err)
	}

	return &chromeRenderer{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		slots:         semaphore.NewWeighted(opts.MaxConcurrent),
		loadTimeout:   opts.LoadTimeout,
	}, nil
}

func (r *chromeRenderer) Render(ctx context.Context, doc document.Document) (*Artifact, error) {
	html, err := doc.HTML()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPagination, err)
	}

	if err := r.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: waiting for a rendering slot: %v", ErrUnavailable, err)
	}
	defer r.slots.Release(1)

	tabCtx, closeTab := chromedp.NewContext(r.browserCtx)
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("%w: open tab: %v", ErrUnavailable, err)
	}

	if err := r.load(tabCtx, html); err != nil {
		return nil, err
	}

	var pdf []byte
	err = chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		buf, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(a4Width).
			WithPaperHeight(a4Height).
			Do(ctx)
		pdf = buf
		return err
	}))
	if err := printError(pdf, err); err != nil {
		return nil, err
	}

	return &Artifact{Data: pdf, ContentType: "application/pdf", Extension: "pdf"}, nil
}

// load navigates the tab to the page and blocks until the browser reports
// network idle for that navigation, so remote images such as the logo are in
// the capture. Lifecycle events of the blank page the tab opened on are ignored.
func (r *chromeRenderer) load(tabCtx context.Context, html []byte) error {
	idle := newIdleWatcher()
	chromedp.ListenTarget(tabCtx, idle.observe)

	loadCtx, cancel := context.WithTimeout(tabCtx, r.loadTimeout)
	defer cancel()

	err := chromedp.Run(loadCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}
		_, loaderID, errorText, err := page.Navigate(dataURL(html)).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return errors.New(errorText)
		}
		idle.expect(loaderID)
		return nil
	}))
	if err == nil {
		select {
		case <-idle.done:
		case <-loadCtx.Done():
			err = loadCtx.Err()
		}
	}

	return loadError(err, loadCtx.Err(), r.loadTimeout)
}

// idleWatcher closes done on the networkIdle lifecycle event of one loader.
// Events can arrive before the loader id is known, so they are remembered.
type idleWatcher struct {
	mu   sync.Mutex
	seen map[cdp.LoaderID]bool
	want cdp.LoaderID
	set  bool
	done chan struct{}
	once sync.Once
}

func newIdleWatcher() *idleWatcher {
	return &idleWatcher{seen: make(map[cdp.LoaderID]bool), done: make(chan struct{})}
}

func (w *idleWatcher) observe(ev interface{}) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok || e.Name != "networkIdle" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.set {
		if e.LoaderID == w.want {
			w.fire()
		}
		return
	}
	w.seen[e.LoaderID] = true
}

// expect names the loader of the navigation being waited on.
func (w *idleWatcher) expect(loaderID cdp.LoaderID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.want, w.set = loaderID, true
	if w.seen[loaderID] {
		w.fire()
	}
}

func (w *idleWatcher) fire() {
	w.once.Do(func() { close(w.done) })
}

// loadError maps a failed load onto the renderer error kinds.
func loadError(err, loadCtxErr error, timeout time.Duration) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(loadCtxErr, context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", ErrLoadTimeout, timeout)
	default:
		return fmt.Errorf("%w: load document: %v", ErrUnavailable, err)
	}
}

// printError maps the outcome of Page.printToPDF onto the renderer error kinds.
func printError(pdf []byte, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPagination, err)
	}
	if len(pdf) == 0 {
		return fmt.Errorf("%w: browser returned an empty document", ErrPagination)
	}
	return nil
}

func (r *chromeRenderer) Close() error {
	r.cancelBrowser()
	r.cancelAlloc()
	return nil
}

func dataURL(html []byte) string {
	return "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(html)
}
