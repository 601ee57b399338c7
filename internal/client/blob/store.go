// Package blob stores book content remotely. The server hands out presigned
// object-storage URLs and the bytes go straight to the bucket over HTTP.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/myshelf/internal/netx"
)

var (
	ErrUploadRejected = errors.New("upload rejected by storage")
	ErrDownloadFailed = errors.New("download failed")
)

// Presigner issues presigned URLs for the blobs of one owner.
type Presigner interface {
	PresignUpload(ctx context.Context, ownerID, bookID string) (locator, url string, err error)
	PresignDownload(ctx context.Context, ownerID, locator string) (string, error)
}

type Store struct {
	presigner Presigner
	http      *http.Client
}

func NewStore(p Presigner, httpClient *http.Client) *Store {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Store{presigner: p, http: httpClient}
}

// Upload sends size bytes of content for bookID and returns the locator it
// is reachable under. The locator depends only on owner and book, so a
// repeated upload overwrites the same object.
func (s *Store) Upload(ctx context.Context, ownerID, bookID string, content io.Reader, size int64) (string, error) {
	locator, url, err := s.presigner.PresignUpload(ctx, ownerID, bookID)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}

	if err := netx.PutPresigned(ctx, s.http, url, content, size); err != nil {
		if errors.Is(err, netx.ErrUnexpectedStatus) {
			return "", fmt.Errorf("%w: %v", ErrUploadRejected, err)
		}
		return "", err
	}
	return locator, nil
}

// Open streams the blob behind locator. The caller closes the reader.
func (s *Store) Open(ctx context.Context, ownerID, locator string) (io.ReadCloser, error) {
	url, err := s.presigner.PresignDownload(ctx, ownerID, locator)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}

	rc, err := netx.GetPresigned(ctx, s.http, url)
	if err != nil {
		if errors.Is(err, netx.ErrUnexpectedStatus) {
			return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
		}
		return nil, err
	}
	return rc, nil
}
