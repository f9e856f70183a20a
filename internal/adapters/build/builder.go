package build

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// BuilderAdapter compiles the project by running the configured build command in the
// project root
type BuilderAdapter struct {
	projectRoot string
	command     string
	debug       bool
	out         io.Writer
	log         *slog.Logger
}

// NewBuilderAdapter creates a new build adapter
func NewBuilderAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *BuilderAdapter {
	return &BuilderAdapter{
		projectRoot: cfg.ProjectRoot,
		command:     cfg.BuildCommand,
		debug:       cfg.Debug,
		out:         os.Stdout,
		log:         log.With("component", "Builder"),
	}
}

// Build runs the build command. Output is streamed in debug mode and otherwise only
// shown when the build fails.
func (b *BuilderAdapter) Build(ctx context.Context) error {
	if strings.TrimSpace(b.command) == "" {
		return fmt.Errorf("%w: no build command configured", domain.ErrBuildFailed)
	}

	start := time.Now()
	b.log.Debug("running build", "command", b.command, "dir", b.projectRoot)

	cmd := exec.CommandContext(ctx, "sh", "-c", b.command)
	cmd.Dir = b.projectRoot
	cmd.Env = os.Environ()

	// Start with PTY so compilers keep their colored output
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("%w: failed to start %q: %w", domain.ErrBuildFailed, b.command, err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	var output bytes.Buffer
	var sink io.Writer = &output
	if b.debug {
		sink = io.MultiWriter(&output, b.out)
	}
	// Reading a pty after the child exits returns EIO on Linux
	_, _ = io.Copy(sink, ptyFile)

	if err := cmd.Wait(); err != nil {
		b.log.Error("build failed", "command", b.command, "error", err, "duration", time.Since(start))
		if !b.debug {
			_, _ = b.out.Write(output.Bytes())
		}
		return fmt.Errorf("%w: %q: %w", domain.ErrBuildFailed, b.command, err)
	}

	b.log.Debug("build completed", "duration", time.Since(start))
	return nil
}

// Ensure the adapter implements the interface
var _ usecase.ContractBuilder = (*BuilderAdapter)(nil)
