package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/woql"
)

// PathOptions holds flags for the path command.
type PathOptions struct {
	*RootOptions
	Subject string
	Object  string
	Edges   string // variable bound to the traversed edges
	Expand  bool   // expand known prefixes in subject and object
}

// PathResult is the compiled pattern and the Path query built around it.
type PathResult struct {
	Pattern string          `json:"pattern"`
	Query   json.RawMessage `json:"query"`
}

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PathOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "path <pattern>",
		Short: "Compile a path pattern into a Path query",
		Long: `Compile a path pattern and print its normalized text and the JSON-LD
Path query that traverses it.

Pattern syntax: predicates (knows, @schema:knows), inverse steps (<knows),
sequences (a,b or a b), alternation (a|b), grouping, and repetition
(a*, a+, a{2,5}).

Examples:
  woql path "knows+,(likes|<hates)"
  woql path "foaf:knows*" --subject foaf:alice --expand --vocab vocab.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "subject", "v:Subject", "path start")
	cmd.Flags().StringVar(&opts.Object, "object", "v:Object", "path end")
	cmd.Flags().StringVar(&opts.Edges, "edges", "", "variable bound to the traversed edges")
	cmd.Flags().BoolVar(&opts.Expand, "expand", false, "expand known prefixes in subject and object")

	return cmd
}

func runPath(opts *PathOptions, src string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	pattern, err := woql.CompilePath(src)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodePath, err.Error(), errorDetails("", err))
	}

	vocab, err := opts.vocabulary()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	builderOpts := []woql.Option{woql.WithVocabulary(vocab)}
	if opts.Expand {
		builderOpts = append(builderOpts, woql.WithExpandedPrefixes())
	}

	var edges []any
	if opts.Edges != "" {
		edges = append(edges, opts.Edges)
	}
	q, err := woql.New(builderOpts...).Path(opts.Subject, pattern, opts.Object, edges...).Query()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeDecode, err.Error(), errorDetails("", err))
	}

	data, err := json.Marshal(q)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	result := PathResult{
		Pattern: woql.DecompilePath(pattern),
		Query:   data,
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}

	indented, err := json.MarshalIndent(result.Query, "", "  ")
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "pattern: %s\n", result.Pattern)
	fmt.Fprintln(w, string(indented))
	return nil
}
