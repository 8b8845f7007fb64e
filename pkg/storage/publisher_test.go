package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls   int
	failFor int
	err     error
	locator string
	got     []byte
}

func (f *fakeUploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	f.calls++
	if f.calls <= f.failFor {
		return "", f.err
	}
	f.got, _ = io.ReadAll(body)
	return f.locator, nil
}

func (f *fakeUploader) Resolve(locator string) (string, error) {
	return ResolveDownloadURL("https://tmpfiles.org", locator)
}

func TestPublisher_Publish(t *testing.T) {
	up := &fakeUploader{locator: "http://tmpfiles.org/8499799/abc123.pdf"}
	p := NewPublisher(NewLocalStore(t.TempDir()), up)

	ref, err := p.Publish(context.Background(), pdfArtifact(), "Ravi")
	require.NoError(t, err)

	assert.Equal(t, "https://tmpfiles.org/dl/8499799/abc123.pdf", ref.URL)
	assert.Equal(t, "http://tmpfiles.org/8499799/abc123.pdf", ref.Locator)
	assert.Equal(t, "%PDF-1.4 test", string(up.got))

	_, err = os.Stat(ref.LocalPath)
	assert.NoError(t, err)
}

func TestPublisher_UploadRetryReusesLocalCopy(t *testing.T) {
	up := &fakeUploader{failFor: 1, err: errors.New("connection reset"), locator: "http://tmpfiles.org/1/a.pdf"}
	p := NewPublisher(NewLocalStore(t.TempDir()), up)

	saved, err := p.Save(pdfArtifact(), "Ravi")
	require.NoError(t, err)

	_, err = p.Upload(context.Background(), saved)
	assert.ErrorIs(t, err, ErrUpload)

	ref, err := p.Upload(context.Background(), saved)
	require.NoError(t, err)
	assert.Equal(t, saved.Path, ref.LocalPath)
	assert.Equal(t, 2, up.calls)
}

func TestPublisher_BadLocator(t *testing.T) {
	up := &fakeUploader{locator: "tmpfiles.org"}
	p := NewPublisher(NewLocalStore(t.TempDir()), up)

	_, err := p.Publish(context.Background(), pdfArtifact(), "Ravi")
	assert.ErrorIs(t, err, ErrLocatorFormat)
}

func TestPublisher_WriteFailureSkipsUpload(t *testing.T) {
	up := &fakeUploader{locator: "http://tmpfiles.org/1/a.pdf"}
	p := NewPublisher(NewLocalStore(t.TempDir()), up)

	_, err := p.Publish(context.Background(), nil, "Ravi")
	assert.ErrorIs(t, err, ErrWrite)
	assert.Zero(t, up.calls)
}

func TestNewUploaderFromConfig(t *testing.T) {
	u, err := NewUploaderFromConfig(context.Background(), "tmpfiles", UploaderOptions{UploadURL: "https://tmpfiles.org/api/v1/upload"})
	require.NoError(t, err)
	assert.IsType(t, &TmpfilesUploader{}, u)

	_, err = NewUploaderFromConfig(context.Background(), "s3", UploaderOptions{})
	assert.Error(t, err)

	_, err = NewUploaderFromConfig(context.Background(), "ftp", UploaderOptions{})
	assert.Error(t, err)
}
