package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/treb-deploy/internal/domain/config"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// ConfirmerAdapter asks for a yes/no answer before broadcasting
type ConfirmerAdapter struct {
	nonInteractive bool
}

// NewConfirmerAdapter creates a new confirmer
func NewConfirmerAdapter(cfg *config.RuntimeConfig) *ConfirmerAdapter {
	return &ConfirmerAdapter{nonInteractive: cfg.NonInteractive}
}

// Confirm returns false when the user declines. It errors in non-interactive mode,
// where the caller must skip confirmation explicitly.
func (c *ConfirmerAdapter) Confirm(ctx context.Context, label string) (bool, error) {
	if c.nonInteractive {
		return false, fmt.Errorf("confirmation required in non-interactive mode, pass --yes to deploy")
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return true, nil
}

// Ensure the adapter implements the interface
var _ usecase.BroadcastConfirmer = (*ConfirmerAdapter)(nil)
