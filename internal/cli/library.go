package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/store"
	"github.com/roach88/woql/woql"
)

const defaultDB = "woql.db"

// SaveResult is the saved record plus the other names the same query is
// stored under.
type SaveResult struct {
	Saved      store.SavedQuery `json:"saved"`
	Duplicates []string         `json:"duplicates,omitempty"`
}

// openStore opens the library at db. Unless create is set the database
// must already exist.
func openStore(opts *RootOptions, f *OutputFormatter, db string, create bool) (*store.Store, error) {
	if !create {
		if _, err := os.Stat(db); os.IsNotExist(err) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", db), nil)
		}
	}
	st, err := store.Open(db, store.WithLogger(opts.logger(f.GetErrWriter())))
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	return st, nil
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var db, description string

	cmd := &cobra.Command{
		Use:   "save <name> <query.json>",
		Short: "Save a query under a name",
		Long: `Decode a JSON-LD query document and save it in the query library under
name, replacing any query already saved there. The library stores the
canonical JSON, its content hash and the printed builder expression.

Examples:
  woql save people query.json -d "every person"
  cat query.json | woql save people -`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(rootOpts, db, args[0], description, args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&db, "db", defaultDB, "query library database")
	cmd.Flags().StringVarP(&description, "description", "d", "", "query description")

	return cmd
}

func runSave(opts *RootOptions, db, name, description, file string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	data, err := readInput(file, cmd.InOrStdin())
	if err != nil {
		return inputError(formatter, file, err)
	}
	q, err := woql.Decode(data)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeDecode, err.Error(), errorDetails(file, err))
	}

	st, err := openStore(opts, formatter, db, true)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	saved, err := st.Save(ctx, name, description, q)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, err.Error(), nil)
	}
	same, err := st.FindByHash(ctx, saved.Hash)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, err.Error(), nil)
	}

	result := SaveResult{Saved: saved}
	for _, sq := range same {
		if sq.Name != name {
			result.Duplicates = append(result.Duplicates, sq.Name)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	formatter.Status(true, "Saved %s (hash %s, seq %d)", saved.Name, shortHash(saved.Hash), saved.Seq)
	if len(result.Duplicates) > 0 {
		fmt.Fprintf(formatter.Writer, "  same query as: %s\n", strings.Join(result.Duplicates, ", "))
	}
	return nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved queries",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, db, cmd)
		},
	}

	cmd.Flags().StringVar(&db, "db", defaultDB, "query library database")

	return cmd
}

func runList(opts *RootOptions, db string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openStore(opts, formatter, db, false)
	if err != nil {
		return err
	}
	defer st.Close()

	queries, err := st.List(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, err.Error(), nil)
	}

	if opts.Format == "json" {
		return formatter.Success(queries)
	}

	w := cmd.OutOrStdout()
	if len(queries) == 0 {
		fmt.Fprintln(w, "No saved queries.")
		return nil
	}
	renderQueryTable(w, queries)
	return nil
}

// renderQueryTable writes the library as a markdown table.
func renderQueryTable(w io.Writer, queries []store.SavedQuery) {
	alignment := []tw.Align{tw.AlignNone, tw.AlignNone, tw.AlignNone, tw.AlignNone}
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"Name", "Hash", "Seq", "Description"})
	for _, sq := range queries {
		table.Append([]string{sq.Name, shortHash(sq.Hash), strconv.FormatInt(sq.Seq, 10), sq.Description})
	}
	table.Render()
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var db string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved query",
		Long: `Show the builder expression of a saved query, or its JSON-LD document
with --json.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, db, args[0], asJSON, cmd)
		},
	}

	cmd.Flags().StringVar(&db, "db", defaultDB, "query library database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON-LD document instead of the builder expression")

	return cmd
}

func runShow(opts *RootOptions, db, name string, asJSON bool, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openStore(opts, formatter, db, false)
	if err != nil {
		return err
	}
	defer st.Close()

	sq, err := st.Get(cmd.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no saved query named %q", name), nil)
	}
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, err.Error(), nil)
	}

	if opts.Format == "json" {
		return formatter.Success(sq)
	}

	w := cmd.OutOrStdout()
	if !asJSON {
		fmt.Fprintln(w, sq.Source)
		return nil
	}
	data, err := json.MarshalIndent(sq.AST, "", "  ")
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a saved query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, db, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&db, "db", defaultDB, "query library database")

	return cmd
}

func runDelete(opts *RootOptions, db, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openStore(opts, formatter, db, false)
	if err != nil {
		return err
	}
	defer st.Close()

	err = st.Delete(cmd.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no saved query named %q", name), nil)
	}
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, err.Error(), nil)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]string{"deleted": name})
	}
	formatter.Status(true, "Deleted %s", name)
	return nil
}
