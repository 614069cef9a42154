package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/strbench/internal/compare"
	sberrors "github.com/Aman-CERP/strbench/internal/errors"
)

func newCompareCmd() *cobra.Command {
	var (
		threshold  float64
		jsonOutput bool
		verbose    bool
		fail       bool
	)

	cmd := &cobra.Command{
		Use:   "compare <current.json> <baseline.json>",
		Short: "Detect regressions between two saved reports",
		Long: `Compare every timing of a report saved with 'strbench run -f json'
against a baseline report. A timing more than --threshold slower is a
regression and, with --fail (the default), makes the command fail.`,
		Example: `  strbench run -f json > baseline.json
  # ...change something...
  strbench run -f json > current.json
  strbench compare current.json baseline.json --threshold 0.3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := compare.Load(args[0])
			if err != nil {
				return sberrors.New(sberrors.ErrCodeInvalidInput, err.Error(), err)
			}
			baseline, err := compare.Load(args[1])
			if err != nil {
				return sberrors.New(sberrors.ErrCodeInvalidInput, err.Error(), err)
			}

			res := compare.Compare(current, baseline, threshold)
			if jsonOutput {
				err = compare.WriteJSON(cmd.OutOrStdout(), res)
			} else {
				err = compare.WriteText(cmd.OutOrStdout(), res, verbose)
			}
			if err != nil {
				return err
			}

			if fail && res.Failed() {
				return sberrors.New(sberrors.ErrCodeBenchFailed,
					fmt.Sprintf("%d timing(s) regressed", res.Regressions), nil)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", compare.DefaultThreshold, "Regression threshold (0.0-1.0)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show unchanged timings too")
	cmd.Flags().BoolVar(&fail, "fail", true, "Fail on regression")

	return cmd
}
