// Package blob stores uploaded binaries (product images, logo, favicon) on
// the local filesystem and maps them to public URLs served by the HTTP
// layer under /media/.
package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

var ErrExists = errors.New("blob already exists")

type FSStore struct {
	root      string
	publicURL string
}

// NewFSStore creates the root directory if needed. publicURL is the base
// the stored paths are appended to, e.g. "http://localhost:8080/media".
func NewFSStore(root, publicURL string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob root: %w", err)
	}
	return &FSStore{root: root, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (s *FSStore) Upload(_ context.Context, path string, data []byte, overwrite bool) error {
	full := filepath.Join(s.root, filepath.Clean("/"+path))
	if !overwrite {
		if _, err := os.Stat(full); err == nil {
			return ErrExists
		}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (s *FSStore) PublicURL(path string) string {
	return s.publicURL + "/" + strings.TrimPrefix(path, "/")
}

// Root is where the HTTP layer mounts the static file server.
func (s *FSStore) Root() string { return s.root }

var _ usecase.BlobStore = (*FSStore)(nil)
