package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sangkips/receipt-relay/pkg/renderer"
)

// UploaderOptions holds backend specific settings.
type UploaderOptions struct {
	UploadURL    string
	DownloadBase string

	S3Bucket    string
	S3Region    string
	S3Prefix    string
	S3URLExpiry time.Duration
}

// Uploader is the interface for a remote hosting surface.
type Uploader interface {
	// Upload stores the artifact and returns the provider's raw locator.
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
	// Resolve derives the canonical download URL from a raw locator.
	Resolve(locator string) (string, error)
}

// Reference is a published artifact.
type Reference struct {
	URL       string `json:"url"`
	Locator   string `json:"locator"`
	LocalPath string `json:"local_path"`
}

// Publisher keeps a local copy of every artifact and publishes it remotely.
type Publisher struct {
	store    *LocalStore
	uploader Uploader
}

// NewPublisher creates a publisher.
func NewPublisher(store *LocalStore, uploader Uploader) *Publisher {
	return &Publisher{store: store, uploader: uploader}
}

// Save writes the local copy. No network call is made.
func (p *Publisher) Save(art *renderer.Artifact, owner string) (*SavedArtifact, error) {
	return p.store.Save(art, owner)
}

// Upload sends a saved artifact to the provider and resolves its download URL.
// It can be called again for the same SavedArtifact after an ErrUpload.
func (p *Publisher) Upload(ctx context.Context, saved *SavedArtifact) (*Reference, error) {
	f, err := os.Open(saved.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: reopen local copy: %v", ErrUpload, err)
	}
	defer f.Close()

	locator, err := p.uploader.Upload(ctx, saved.Name, saved.ContentType, f)
	if err != nil {
		if errors.Is(err, ErrUpload) || errors.Is(err, ErrLocatorFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	url, err := p.uploader.Resolve(locator)
	if err != nil {
		if errors.Is(err, ErrLocatorFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrLocatorFormat, err)
	}

	return &Reference{URL: url, Locator: locator, LocalPath: saved.Path}, nil
}

// Publish saves then uploads.
func (p *Publisher) Publish(ctx context.Context, art *renderer.Artifact, owner string) (*Reference, error) {
	saved, err := p.Save(art, owner)
	if err != nil {
		return nil, err
	}
	return p.Upload(ctx, saved)
}

// NewUploaderFromConfig creates the appropriate Uploader based on backend.
//
//	backend: "tmpfiles" or "s3"
func NewUploaderFromConfig(ctx context.Context, backend string, opts UploaderOptions) (Uploader, error) {
	switch backend {
	case "tmpfiles", "":
		if opts.UploadURL == "" {
			return nil, fmt.Errorf("storage: upload URL is required for tmpfiles backend")
		}
		return NewTmpfilesUploader(opts.UploadURL, opts.DownloadBase, nil), nil
	case "s3":
		if opts.S3Bucket == "" {
			return nil, fmt.Errorf("storage: bucket is required for s3 backend")
		}
		cfg, err := LoadAWSConfig(ctx, opts.S3Region)
		if err != nil {
			return nil, err
		}
		return NewS3Uploader(s3.NewFromConfig(cfg), opts.S3Bucket, opts.S3Prefix, opts.S3URLExpiry), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q (use tmpfiles or s3)", backend)
	}
}
