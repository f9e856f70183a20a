package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// ArgsReaderAdapter loads constructor arguments from <contracts_dir>/<Name>.args.
// The file holds a JSON array.
type ArgsReaderAdapter struct {
	dir string
	log *slog.Logger
}

// NewArgsReaderAdapter creates a new ArgsReaderAdapter
func NewArgsReaderAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ArgsReaderAdapter {
	return &ArgsReaderAdapter{
		dir: cfg.ContractsDir,
		log: log.With("component", "ArgsReader"),
	}
}

// ReadArgs returns the arguments for name. A missing or unreadable file yields no
// arguments; the problem is logged rather than returned.
func (r *ArgsReaderAdapter) ReadArgs(_ context.Context, name string) []domain.ArgValue {
	path := filepath.Join(r.dir, name+argsExt)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("failed to read args file", "path", path, "error", err)
		}
		return []domain.ArgValue{}
	}

	var raw []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		r.log.Warn("args file is not a JSON array", "path", path, "error", err)
		return []domain.ArgValue{}
	}

	args, err := domain.ParseArgValues(raw)
	if err != nil {
		r.log.Warn("args file contains unsupported values", "path", path, "error", err)
		return []domain.ArgValue{}
	}

	r.log.Debug("loaded args file", "path", path, "count", len(args))
	return args
}

// Ensure ArgsReaderAdapter implements ArgsFileReader
var _ usecase.ArgsFileReader = (*ArgsReaderAdapter)(nil)
