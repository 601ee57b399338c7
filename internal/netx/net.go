// Package netx moves book content to and from presigned object-storage URLs.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnexpectedStatus is wrapped by transfer errors caused by a non-2xx reply.
var ErrUnexpectedStatus = errors.New("unexpected status")

// maxErrorBody bounds how much of a failed response body ends up in errors.
const maxErrorBody = 512

// PutPresigned streams body to a presigned PUT URL. size must be the exact
// content length; object stores reject chunked uploads to presigned URLs.
func PutPresigned(ctx context.Context, client *http.Client, url string, body io.Reader, size int64) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("upload failed: %s; body: %s: %w", resp.Status, string(b), ErrUnexpectedStatus)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// GetPresigned opens a presigned GET URL. The caller must close the body.
func GetPresigned(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("download failed: %s; body: %s: %w", resp.Status, string(b), ErrUnexpectedStatus)
	}
	return resp.Body, nil
}
