package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-deploy/internal/domain"
	"github.com/trebuchet-org/treb-deploy/internal/usecase"
)

// EncodeRenderer prints encoded constructor arguments. Raw output prints only the
// hex so it can be piped into a verifier.
type EncodeRenderer struct {
	out io.Writer
	raw bool
}

// NewEncodeRenderer creates a new encode renderer
func NewEncodeRenderer(out io.Writer, raw bool) *EncodeRenderer {
	return &EncodeRenderer{out: out, raw: raw}
}

// Render prints the encoding of a contract's constructor arguments
func (r *EncodeRenderer) Render(result *usecase.EncodeConstructorArgsResult) error {
	if r.raw {
		fmt.Fprintln(r.out, result.Encoded)
		return nil
	}

	fmt.Fprintf(r.out, "Contract: %s\n", color.CyanString(result.Contract.Key()))
	fmt.Fprintf(r.out, "Args:     %s\n", formatArgList(result.Args))
	if result.Encoded == "" {
		fmt.Fprintln(r.out, "Encoded:  (no constructor arguments)")
		return nil
	}
	fmt.Fprintf(r.out, "Encoded:  %s\n", result.Encoded)
	return nil
}

// ArgsRenderer prints the arguments read from an args file
type ArgsRenderer struct {
	out io.Writer
}

// NewArgsRenderer creates a new args renderer
func NewArgsRenderer(out io.Writer) *ArgsRenderer {
	return &ArgsRenderer{out: out}
}

// Render prints each argument with its inferred kind
func (r *ArgsRenderer) Render(args []domain.ArgValue) error {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "No arguments")
		return nil
	}
	for i, arg := range args {
		fmt.Fprintf(r.out, "  [%d] %s %s\n", i, color.YellowString("%-7s", arg.Kind), arg.String())
	}
	return nil
}

func formatArgList(args []domain.ArgValue) string {
	if len(args) == 0 {
		return "[]"
	}
	return domain.NewList(args...).String()
}

var (
	_ Renderer[*usecase.EncodeConstructorArgsResult] = (*EncodeRenderer)(nil)
	_ Renderer[[]domain.ArgValue]                    = (*ArgsRenderer)(nil)
)
