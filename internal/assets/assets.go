// Package assets stores uploaded image files and hands back stable
// descriptors for them.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Descriptor locates one stored asset.
type Descriptor struct {
	AssetID     string `json:"asset_id"`
	Key         string `json:"key"`
	Bucket      string `json:"bucket"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store persists uploaded files.
type Store interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (Descriptor, error)
}

// DiskStore writes assets under a local directory and serves them from
// a base URL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating asset dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return Descriptor{}, err
	}

	id := uuid.NewString()
	key := id + sanitizeExt(filename)

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return Descriptor{}, fmt.Errorf("creating asset file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return Descriptor{}, fmt.Errorf("writing asset file: %w", err)
	}

	return Descriptor{
		AssetID:     id,
		Key:         key,
		Bucket:      "local",
		URL:         s.baseURL + "/" + key,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// sanitizeExt keeps only a plain alphanumeric extension so the storage
// key never carries path or shell metacharacters from the upload name.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
