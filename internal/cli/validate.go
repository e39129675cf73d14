package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/recq/plan"
)

// PlanSummary describes a plan that passed validation.
type PlanSummary struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Steps       int    `json:"steps"`
	Fingerprint string `json:"fingerprint"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <plan-file>...",
		Short: "Validate plan files and print their fingerprints",
		Long: `Validate one or more plan files without running them.

A plan is valid when its steps and output are well formed. Sequencing errors,
such as a take after a rollup, are only reported by run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries := make([]PlanSummary, 0, len(args))
			for _, path := range args {
				p, err := plan.Load(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fp, err := p.Fingerprint()
				if err != nil {
					return err
				}
				summaries = append(summaries, PlanSummary{Path: path, Name: p.Name, Steps: len(p.Steps), Fingerprint: fp})
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaries, false)
			}
			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "ok  %s  %s  steps=%d  %s\n", s.Path, s.Name, s.Steps, s.Fingerprint)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
