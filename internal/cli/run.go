package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/recq/errors"
	"github.com/kbukum/recq/plan"
	"github.com/kbukum/recq/source"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Plan     string
	Records  string
	Previous string
	SQLite   string
	SQL      string
	Compact  bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a plan and print the result as JSON",
		Long: `Execute a query plan over records read from a JSON or NDJSON file, or
from a SQLite query, and print the result to stdout.

Example:
  recq run --plan top.yml --records accounts.json
  recq run --plan changes.yml --records today.ndjson --previous yesterday.ndjson
  recq run --plan top.yml --sqlite ./crm.db --sql 'SELECT * FROM accounts'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Plan, "plan", "p", "", "plan file, YAML or JSON (required)")
	cmd.Flags().StringVarP(&opts.Records, "records", "r", "", "records file (.json, .ndjson or .jsonl)")
	cmd.Flags().StringVar(&opts.Previous, "previous", "", "previous records file for diff output")
	cmd.Flags().StringVar(&opts.SQLite, "sqlite", "", "SQLite DSN to read records from (default: source.sqlite)")
	cmd.Flags().StringVar(&opts.SQL, "sql", "", "SQL query selecting the records")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "print compact JSON")
	_ = cmd.MarkFlagRequired("plan")
	cmd.MarkFlagsMutuallyExclusive("records", "sql")

	return cmd
}

func runPlan(ctx context.Context, opts *RunOptions, cmd *cobra.Command) error {
	p, err := plan.Load(opts.Plan)
	if err != nil {
		return err
	}
	in, err := loadInput(ctx, opts)
	if err != nil {
		return err
	}
	exec := plan.NewExecutor(
		plan.WithLogger(opts.Log),
		plan.WithMaxRecords(opts.Config.Server.MaxRecords),
	)
	res, err := exec.Execute(ctx, p, in)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), res, opts.Compact)
}

func loadInput(ctx context.Context, opts *RunOptions) (plan.Input, error) {
	switch {
	case opts.SQL != "":
		dsn := opts.SQLite
		if dsn == "" {
			dsn = opts.Config.Source.SQLite
		}
		if dsn == "" {
			return plan.Input{}, errors.InvalidInput("sqlite", "a SQLite DSN is required with --sql")
		}
		records, err := source.QuerySQLite(ctx, dsn, opts.SQL)
		if err != nil {
			return plan.Input{}, err
		}
		in := plan.Input{Records: records}
		if opts.Previous != "" {
			if in.Previous, err = source.LoadFile(ctx, opts.Previous); err != nil {
				return plan.Input{}, err
			}
		}
		return in, nil
	case opts.Records != "":
		if opts.Previous != "" {
			snap, err := source.LoadSnapshot(ctx, opts.Previous, opts.Records)
			if err != nil {
				return plan.Input{}, err
			}
			return plan.Input{Records: snap.After, Previous: snap.Before}, nil
		}
		records, err := source.LoadFile(ctx, opts.Records)
		if err != nil {
			return plan.Input{}, err
		}
		return plan.Input{Records: records}, nil
	default:
		return plan.Input{}, errors.InvalidInput("records", "one of --records or --sql is required")
	}
}
