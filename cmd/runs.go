package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/prosperian/prosperian-api/internal/store"
)

var (
	runsLimit     int
	runsOperation string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded aggregation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Store == nil {
			return eris.New("run history is disabled (store.driver is empty)")
		}

		runs, err := env.Store.ListRuns(ctx, store.RunFilter{
			Operation: runsOperation,
			Limit:     runsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list runs")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tOPERATION\tSEARCHES\tLEADS\tFILTERED\tCOMPANIES\tSECONDS\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.2f\t%s\n",
				r.ID, r.Operation, r.TotalSearches, r.TotalLeads, r.FilteredLeads,
				r.UniqueCompanies, r.ProcessingTime, r.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	runsCmd.Flags().StringVar(&runsOperation, "operation", "", "filter by operation name")
	rootCmd.AddCommand(runsCmd)
}
