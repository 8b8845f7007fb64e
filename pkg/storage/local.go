package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sangkips/receipt-relay/pkg/renderer"
	"github.com/sangkips/receipt-relay/pkg/utils"
)

var (
	// ErrWrite means the local copy of the artifact could not be written.
	ErrWrite = errors.New("storage: local write failed")
	// ErrUpload means the hosting provider did not accept the artifact.
	ErrUpload = errors.New("storage: upload failed")
	// ErrLocatorFormat means the provider answered with a locator that does
	// not have the expected shape.
	ErrLocatorFormat = errors.New("storage: unexpected locator format")
)

const fallbackOwner = "customer"

// SavedArtifact is the local copy of a rendered artifact.
type SavedArtifact struct {
	Path        string
	Name        string
	ContentType string
}

// LocalStore writes artifacts into one directory, creating it on first use.
// Names are {firstTokenOfOwner}_{uuid}_.{ext} so concurrent saves never collide.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Save writes the artifact and returns where it went.
func (s *LocalStore) Save(art *renderer.Artifact, owner string) (*SavedArtifact, error) {
	if art == nil {
		return nil, fmt.Errorf("%w: no artifact", ErrWrite)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrWrite, s.dir, err)
	}

	ext := art.Extension
	if ext == "" {
		ext = "bin"
	}
	name := fmt.Sprintf("%s_%s_.%s", utils.FileToken(owner, fallbackOwner), utils.NewUUID(), ext)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return &SavedArtifact{Path: path, Name: name, ContentType: art.ContentType}, nil
}
