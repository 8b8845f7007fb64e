package renderer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/sangkips/receipt-relay/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

func testDocument() document.Document {
	d := document.New("Receipt R1").
		Columns("Description", "Qty", "Price", "Amount").
		Row("Oil Filter", "2", "₹150.00", "₹300.00")
	d.Header.BusinessName = "Acme"
	return *d
}

func TestHTMLRenderer(t *testing.T) {
	r := NewHTMLRenderer()
	defer r.Close()

	art, err := r.Render(context.Background(), testDocument())
	require.NoError(t, err)
	assert.Equal(t, "html", art.Extension)
	assert.Contains(t, art.ContentType, "text/html")
	assert.Contains(t, string(art.Data), "Oil Filter")
}

func TestUnavailableRenderer(t *testing.T) {
	r := NewUnavailableRenderer(errors.New("exec: chromium not found"))

	_, err := r.Render(context.Background(), testDocument())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "chromium not found")
}

func TestNewRendererFromConfig(t *testing.T) {
	r, err := NewRendererFromConfig("html", ChromeOptions{})
	require.NoError(t, err)
	assert.IsType(t, &htmlRenderer{}, r)

	_, err = NewRendererFromConfig("wkhtmltopdf", ChromeOptions{})
	assert.Error(t, err)
}

func TestChromeRenderer_WaitsForSlot(t *testing.T) {
	r := &chromeRenderer{slots: semaphore.NewWeighted(1), loadTimeout: time.Second}
	require.True(t, r.slots.TryAcquire(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Render(ctx, testDocument())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "rendering slot")
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:text/html;charset=utf-8;base64,PHA+aGk8L3A+", dataURL([]byte("<p>hi</p>")))
}

func lifecycle(loaderID, name string) *page.EventLifecycleEvent {
	return &page.EventLifecycleEvent{LoaderID: cdp.LoaderID(loaderID), Name: name}
}

func isDone(w *idleWatcher) bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func TestIdleWatcher_IgnoresBlankPageReplay(t *testing.T) {
	w := newIdleWatcher()

	// the tab replays the idle about:blank document when events are enabled
	w.observe(lifecycle("blank", "networkIdle"))
	w.expect("receipt")
	assert.False(t, isDone(w))

	w.observe(lifecycle("receipt", "load"))
	w.observe(lifecycle("blank", "networkIdle"))
	assert.False(t, isDone(w))

	w.observe(lifecycle("receipt", "networkIdle"))
	assert.True(t, isDone(w))

	// later events are harmless
	w.observe(lifecycle("receipt", "networkIdle"))
}

func TestIdleWatcher_EventBeforeLoaderKnown(t *testing.T) {
	w := newIdleWatcher()

	w.observe(lifecycle("receipt", "networkIdle"))
	w.observe(&page.EventFrameNavigated{})
	assert.False(t, isDone(w))

	w.expect("receipt")
	assert.True(t, isDone(w))
}

func TestLoadError(t *testing.T) {
	assert.NoError(t, loadError(nil, nil, time.Second))

	err := loadError(context.DeadlineExceeded, context.DeadlineExceeded, 30*time.Second)
	assert.ErrorIs(t, err, ErrLoadTimeout)
	assert.Contains(t, err.Error(), "30s")

	// the wait ran out even though navigation itself returned cleanly
	err = loadError(context.Canceled, context.DeadlineExceeded, time.Second)
	assert.ErrorIs(t, err, ErrLoadTimeout)

	err = loadError(errors.New("net::ERR_ABORTED"), nil, time.Second)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "net::ERR_ABORTED")

	err = loadError(context.Canceled, context.Canceled, time.Second)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPrintError(t *testing.T) {
	assert.NoError(t, printError([]byte("%PDF"), nil))
	assert.ErrorIs(t, printError(nil, errors.New("Printing failed")), ErrPagination)
	assert.ErrorIs(t, printError(nil, nil), ErrPagination)
}

func findChrome() string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

func TestChromeRenderer_RendersPDF(t *testing.T) {
	path := findChrome()
	if path == "" {
		t.Skip("no Chrome/Chromium binary available")
	}

	r, err := NewChromeRenderer(ChromeOptions{ExecPath: path, MaxConcurrent: 2, LoadTimeout: 20 * time.Second})
	require.NoError(t, err)
	defer r.Close()

	art, err := r.Render(context.Background(), testDocument())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF")))
}
