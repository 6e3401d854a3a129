package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/schema"
	"github.com/roach88/woql/woql"
)

// FileValidation holds the violations found in one document.
type FileValidation struct {
	File       string             `json:"file"`
	Valid      bool               `json:"valid"`
	Violations []schema.Violation `json:"violations,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query.json>...",
		Short: "Check JSON-LD queries against the schema",
		Long: `Check JSON-LD query documents against the CUE schema generated from the
operator table, then decode them to check literal datatypes.

The schema is closed: keys the decoder would ignore are violations here.

Exit codes:
  0 - All documents valid
  1 - One or more documents invalid
  2 - Command error (missing file, etc.)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := schema.New()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		data, err := readInput(file, cmd.InOrStdin())
		if err != nil {
			return inputError(formatter, file, err)
		}
		formatter.VerboseLog("Validating %s", file)

		fv := validateDocument(s, file, data)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)

		if fv.Valid {
			formatter.Status(true, "%s", file)
			continue
		}
		formatter.Status(false, "%s: %d violation(s)", file, len(fv.Violations))
		if opts.Format != "json" {
			for _, v := range fv.Violations {
				fmt.Fprintf(formatter.Writer, "  %s\n", v)
			}
		}
	}

	if !result.Valid {
		invalid := 0
		for _, fv := range result.Files {
			if !fv.Valid {
				invalid++
			}
		}
		msg := fmt.Sprintf("%d of %d document(s) invalid", invalid, len(result.Files))
		if opts.Format == "json" {
			return formatter.Fail(ExitFailure, ErrCodeSchema, msg, result.Files)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("[%s] %s", ErrCodeSchema, msg))
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	formatter.Status(true, "All queries valid")
	return nil
}

// validateDocument runs the schema and then the decoder. Decode errors are
// reported only for documents the schema accepts.
func validateDocument(s *schema.Schema, file string, data []byte) FileValidation {
	fv := FileValidation{File: file}

	violations, err := s.Validate(data)
	if err != nil {
		fv.Violations = []schema.Violation{{Message: err.Error()}}
		return fv
	}
	if len(violations) > 0 {
		fv.Violations = violations
		return fv
	}
	if _, err := woql.Decode(data); err != nil {
		fv.Violations = []schema.Violation{{Message: err.Error()}}
		return fv
	}

	fv.Valid = true
	return fv
}
