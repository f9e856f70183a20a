package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// SpinnerProgressReporter prints one line per deployment milestone and animates a
// spinner while waiting on the build or the chain
type SpinnerProgressReporter struct {
	spinner *spinner.Spinner
	animate bool
	out     io.Writer
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter. The
// spinner is disabled in non-interactive mode.
func NewSpinnerProgressReporter(cfg *config.RuntimeConfig) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		animate: !cfg.NonInteractive,
		out:     color.Output,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if !event.Spinner {
		r.stop()
	}

	switch event.Stage {
	case usecase.StageBuilding:
		r.start(event.Message)
	case usecase.StageResolving:
		fmt.Fprintf(r.out, " 🛰  Deploying: %s\n", event.Message)
	case usecase.StageDeploying:
		r.start(fmt.Sprintf("waiting for %s (%d/%d)", event.Message, event.Current, event.Total))
	case usecase.StageDeployed:
		outcome, ok := event.Metadata.(*domain.DeploymentOutcome)
		if !ok {
			return
		}
		fmt.Fprintf(r.out, " 📄 %s deployed to: %s\n",
			color.CyanString(event.Message),
			color.MagentaString(outcome.Contract.Address.Hex()))
	case usecase.StageCompleted:
		fmt.Fprintf(r.out, " 💾  Artifacts (address, abi, and args) saved to: %s\n\n",
			color.BlueString(event.Message))
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	wasActive := r.stop()
	fmt.Fprintln(r.out, message)
	if wasActive {
		r.spinner.Start()
	}
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	wasActive := r.stop()
	fmt.Fprintln(r.out, color.RedString(message))
	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) start(suffix string) {
	if !r.animate {
		return
	}
	r.spinner.Suffix = " " + suffix
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// stop halts the spinner and reports whether it was running
func (r *SpinnerProgressReporter) stop() bool {
	if r.spinner == nil || !r.spinner.Active() {
		return false
	}
	r.spinner.Stop()
	return true
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
