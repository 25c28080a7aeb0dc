package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quant.com/pkg/dataset"
)

func (a *app) datasetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect tabular CSV data",
	}

	var (
		numeric []string
		asCSV   bool
	)
	describe := &cobra.Command{
		Use:   "describe <file>",
		Short: "Summary statistics (count, mean, stddev, min, max) of each numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := dataset.Load(args[0], dataset.Options{NumericColumns: numeric})
			if err != nil {
				return err
			}
			summaries, err := table.Describe()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case a.jsonOut:
				return printJSON(out, summaries)
			case asCSV:
				return dataset.WriteSummaryCSV(out, summaries)
			}

			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					s.Column,
					fmt.Sprint(s.Count),
					formatFloat(s.Mean),
					formatFloat(s.StdDev),
					formatFloat(s.Min),
					formatFloat(s.Max),
				})
			}
			renderTable(out, []string{"Column", "Count", "Mean", "StdDev", "Min", "Max"}, rows)
			fmt.Fprintf(out, "%d rows kept, %d dropped\n", table.Len(), table.Dropped())
			return nil
		},
	}
	describe.Flags().StringSliceVar(&numeric, "numeric", nil, "numeric columns (default: inferred)")
	describe.Flags().BoolVar(&asCSV, "csv", false, "print the summary as CSV")

	cmd.AddCommand(describe)
	return cmd
}
