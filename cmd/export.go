package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prosperian/prosperian-api/internal/aggregate"
	"github.com/prosperian/prosperian-api/internal/export"
)

var (
	exportOutput          string
	exportLimit           int
	exportCompanyFilter   string
	exportTitleFilter     string
	exportLocationFilter  string
	exportIndustryFilter  string
	exportEmployeeFilter  string
	exportCompanyLocation string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the global-results workflow and export leads to XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Agg.WorkflowGlobalResults(ctx, aggregate.WorkflowParams{
			Filters: aggregate.FilterSet{
				CompanyNames:     aggregate.ParseAlternatives(exportCompanyFilter),
				Titles:           aggregate.ParseAlternatives(exportTitleFilter),
				LeadLocations:    aggregate.ParseAlternatives(exportLocationFilter),
				EmployeeRanges:   aggregate.ParseAlternatives(exportEmployeeFilter),
				CompanyLocations: aggregate.ParseAlternatives(exportCompanyLocation),
				Industries:       aggregate.ParseAlternatives(exportIndustryFilter),
			},
			Limit: exportLimit,
		})
		if err != nil {
			return eris.Wrap(err, "run workflow")
		}

		if err := export.WriteLeadsXLSX(exportOutput, result.Leads); err != nil {
			return err
		}

		zap.L().Info("exported leads",
			zap.String("output", exportOutput),
			zap.Int("leads", len(result.Leads)),
			zap.Int("unique_companies", result.UniqueCompanies),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "leads.xlsx", "output file path")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "max leads to export (default from config)")
	exportCmd.Flags().StringVar(&exportCompanyFilter, "company-filter", "", "comma-separated company name filters")
	exportCmd.Flags().StringVar(&exportTitleFilter, "title-filter", "", "comma-separated title filters")
	exportCmd.Flags().StringVar(&exportLocationFilter, "lead-location-filter", "", "comma-separated lead location filters")
	exportCmd.Flags().StringVar(&exportEmployeeFilter, "employee-range-filter", "", "comma-separated employee range filters")
	exportCmd.Flags().StringVar(&exportCompanyLocation, "company-location-filter", "", "comma-separated company location filters")
	exportCmd.Flags().StringVar(&exportIndustryFilter, "industry-filter", "", "comma-separated industry filters")
	rootCmd.AddCommand(exportCmd)
}
