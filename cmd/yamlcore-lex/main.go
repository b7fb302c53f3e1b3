// Command yamlcore-lex dumps the token stream of a YAML document, one
// line per token, driving scanner.Scanner.Advance directly rather than
// building a document tree.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/latticeyaml/yamlcore/internal/clilog"
	"github.com/latticeyaml/yamlcore/scanner"
	"github.com/latticeyaml/yamlcore/token"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type flags struct {
	maxDepth     int
	readComments bool
	noColor      bool
	logFormat    string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "yamlcore-lex [file]",
		Short: "Print the token stream of a YAML document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}

	registerFlags(cmd.Flags(), f)
	return cmd
}

func registerFlags(fs *pflag.FlagSet, f *flags) {
	fs.IntVar(&f.maxDepth, "max-depth", scanner.DefaultOptions().MaxDepth, "maximum flow/block nesting depth")
	fs.BoolVar(&f.readComments, "read-comments", false, "surface '#' comments as Comment tokens")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colorized output")
	fs.StringVar(&f.logFormat, "log-format", "text", fmt.Sprintf("log format, one of: %v", clilog.AllFormats()))
}

func run(cmd *cobra.Command, args []string, f *flags) error {
	if _, err := clilog.ParseFormat(f.logFormat); err != nil {
		return err
	}
	logger := slog.New(clilog.NewHandler(cmd.ErrOrStderr(), f.logFormat))

	var r *os.File
	if len(args) == 0 || args[0] == "-" {
		r = os.Stdin
	} else {
		var err error
		r, err = os.Open(args[0])
		if err != nil {
			return err
		}
		defer r.Close()
	}

	opts := scanner.DefaultOptions()
	opts.MaxDepth = f.maxDepth
	opts.ReadComments = f.readComments

	out := cmd.OutOrStdout()
	var w = out
	useColor := !f.noColor
	if useColor {
		if cw, ok := out.(*os.File); ok {
			w = colorable.NewColorable(cw)
		}
	}

	sc := scanner.NewWithOptions(r, opts)
	for {
		tok, res, err := sc.Advance()
		if err != nil {
			logger.Error("scan failed", "mark", tok.Mark.String(), "err", err)
			return err
		}
		if res == scanner.End {
			return nil
		}
		fmt.Fprintln(w, formatToken(tok, useColor))
	}
}

func formatToken(tok token.Token, useColor bool) string {
	line := fmt.Sprintf("%-14s %s", tok.Kind, tok.Mark)
	if len(tok.Value) > 0 {
		line += fmt.Sprintf(" %q", tok.Value)
	}
	if !useColor {
		return line
	}
	return kindColor(tok.Kind).Sprint(line)
}

func kindColor(k token.Kind) *color.Color {
	switch k {
	case token.Scalar:
		return color.New(color.FgHiGreen)
	case token.Key:
		return color.New(color.FgHiCyan)
	case token.Anchor, token.Alias:
		return color.New(color.FgHiYellow)
	case token.MappingStart, token.MappingEnd, token.SequenceStart, token.SequenceEnd:
		return color.New(color.FgHiMagenta)
	case token.DocumentStart, token.DocumentEnd, token.StreamStart, token.StreamEnd:
		return color.New(color.Bold, color.FgHiWhite)
	default:
		return color.New(color.Reset)
	}
}
