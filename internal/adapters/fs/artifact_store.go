package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

const (
	addressExt = ".address"
	argsExt    = ".args"
)

// ArtifactStoreAdapter writes deployment results as plain files, one per contract:
// <Name>.address holds the checksummed address and <Name>.args the hex encoded
// constructor arguments. Existing files are overwritten.
type ArtifactStoreAdapter struct {
	dir string
}

// NewArtifactStoreAdapter creates a new ArtifactStoreAdapter
func NewArtifactStoreAdapter(cfg *config.RuntimeConfig) *ArtifactStoreAdapter {
	return &ArtifactStoreAdapter{dir: cfg.ArtifactsDir}
}

// Dir returns the directory artifacts are written to
func (s *ArtifactStoreAdapter) Dir() string {
	return s.dir
}

// WriteAddress writes <Name>.address
func (s *ArtifactStoreAdapter) WriteAddress(_ context.Context, name, address string) error {
	return s.write(name+addressExt, address)
}

// WriteArgs writes <Name>.args. The content is expected without a 0x prefix.
func (s *ArtifactStoreAdapter) WriteArgs(_ context.Context, name, encoded string) error {
	return s.write(name+argsExt, encoded)
}

func (s *ArtifactStoreAdapter) write(file, content string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", domain.ErrArtifactWrite, s.dir, err)
	}

	path := filepath.Join(s.dir, file)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrArtifactWrite, path, err)
	}
	return nil
}

// Ensure ArtifactStoreAdapter implements ArtifactStore
var _ usecase.ArtifactStore = (*ArtifactStoreAdapter)(nil)
