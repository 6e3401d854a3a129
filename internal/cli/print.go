package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/woql"
)

// PrintOptions holds flags for the print command.
type PrintOptions struct {
	*RootOptions
	Fluent bool // chain chainable Ands as method calls
	Indent int  // starting tab depth
}

// PrintedQuery is one printed document.
type PrintedQuery struct {
	File   string `json:"file"`
	Source string `json:"source"`
	Hash   string `json:"hash"`
}

// printError ties a failure to the file it came from.
type printError struct {
	file string
	err  error
}

func (e *printError) Error() string { return fmt.Sprintf("%s: %v", e.file, e.err) }
func (e *printError) Unwrap() error { return e.err }

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "print <query.json>...",
		Short: "Print JSON-LD queries as Go builder expressions",
		Long: `Decode one or more JSON-LD query documents and print each as the Go
expression that builds it. Use "-" to read a document from stdin.

Files are decoded in parallel; output follows argument order. With more
than one file each expression is preceded by a "// <file>" line.

Examples:
  woql print query.json
  woql print --fluent a.json b.json
  cat query.json | woql print -`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Fluent, "fluent", false, "print chainable conjunctions as method chains")
	cmd.Flags().IntVar(&opts.Indent, "indent", 0, "starting tab depth")

	return cmd
}

func runPrint(opts *PrintOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	if opts.Indent < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--indent must be non-negative", nil)
	}

	if stdinArgs(files) > 1 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, `stdin ("-") can be read only once`, nil)
	}

	results := make([]PrintedQuery, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := readInput(file, cmd.InOrStdin())
			if err != nil {
				return &printError{file: file, err: err}
			}
			printed, err := printDocument(data, opts.Indent, opts.Fluent)
			if err != nil {
				return &printError{file: file, err: err}
			}
			printed.File = file
			results[i] = printed
			logger.Debug("query printed", "file", file, "hash", printed.Hash)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var pe *printError
		if !errors.As(err, &pe) {
			return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
		}
		if errors.Is(pe.err, os.ErrNotExist) || !isWoqlError(pe.err) {
			return inputError(formatter, pe.file, pe.err)
		}
		return formatter.Fail(ExitFailure, ErrCodeDecode, pe.Error(), errorDetails(pe.file, pe.err))
	}

	if opts.Format == "json" {
		return formatter.Success(results)
	}

	w := cmd.OutOrStdout()
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "// %s\n", r.File)
		}
		fmt.Fprintln(w, r.Source)
	}
	return nil
}

func stdinArgs(files []string) int {
	n := 0
	for _, f := range files {
		if f == "-" {
			n++
		}
	}
	return n
}

// printDocument decodes, prints and hashes one query document.
func printDocument(data []byte, indent int, fluent bool) (PrintedQuery, error) {
	q, err := woql.Decode(data)
	if err != nil {
		return PrintedQuery{}, err
	}
	source, err := woql.Print(q, indent, fluent)
	if err != nil {
		return PrintedQuery{}, err
	}
	ast, err := q.ToIR()
	if err != nil {
		return PrintedQuery{}, err
	}
	hash, err := ir.QueryHash(ast)
	if err != nil {
		return PrintedQuery{}, err
	}
	return PrintedQuery{Source: source, Hash: hash}, nil
}

func isWoqlError(err error) bool {
	var we *woql.Error
	return errors.As(err, &we)
}

// shortHash abbreviates a query hash for text output.
func shortHash(hash string) string {
	const n = 12
	if len(hash) <= n {
		return hash
	}
	return hash[:n]
}

// indentLines prefixes every line of s.
func indentLines(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
