package renderer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/receipt-relay/pkg/document"
)

var (
	// ErrUnavailable means the rendering surface could not be reached or a
	// rendering slot could not be obtained.
	ErrUnavailable = errors.New("renderer: rendering surface unavailable")
	// ErrLoadTimeout means the document did not settle before the load timeout.
	ErrLoadTimeout = errors.New("renderer: document load timed out")
	// ErrPagination means the loaded document could not be turned into pages.
	ErrPagination = errors.New("renderer: pagination failed")
)

// Artifact is a rendered receipt. It is not modified after Render returns it.
type Artifact struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Renderer is the interface for turning a receipt document into a paginated file.
type Renderer interface {
	// Render produces the artifact for one document. Any rendering context it
	// acquires is released before it returns.
	Render(ctx context.Context, doc document.Document) (*Artifact, error)
	// Close releases process-wide resources such as the browser.
	Close() error
}

// --- HTML renderer (returns the serialized page as-is) ---

type htmlRenderer struct{}

// NewHTMLRenderer creates a renderer that emits the HTML page itself, for
// environments without a browser.
func NewHTMLRenderer() Renderer {
	return &htmlRenderer{}
}

func (r *htmlRenderer) Render(ctx context.Context, doc document.Document) (*Artifact, error) {
	html, err := doc.HTML()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPagination, err)
	}
	return &Artifact{Data: html, ContentType: "text/html; charset=utf-8", Extension: "html"}, nil
}

func (r *htmlRenderer) Close() error {
	return nil
}

// --- Unavailable renderer (browser failed to start) ---

type unavailableRenderer struct {
	cause error
}

// NewUnavailableRenderer creates a renderer that fails every call with
// ErrUnavailable, reporting why the real backend could not start.
func NewUnavailableRenderer(cause error) Renderer {
	return &unavailableRenderer{cause: cause}
}

func (r *unavailableRenderer) Render(ctx context.Context, doc document.Document) (*Artifact, error) {
	if errors.Is(r.cause, ErrUnavailable) {
		return nil, r.cause
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, r.cause)
}

func (r *unavailableRenderer) Close() error {
	return nil
}

// NewRendererFromConfig creates the appropriate Renderer based on type.
//
//	rendererType: "chrome" or "html"
func NewRendererFromConfig(rendererType string, opts ChromeOptions) (Renderer, error) {
	switch rendererType {
	case "chrome", "":
		return NewChromeRenderer(opts)
	case "html":
		return NewHTMLRenderer(), nil
	default:
		return nil, fmt.Errorf("renderer: unknown renderer type %q (use chrome or html)", rendererType)
	}
}
