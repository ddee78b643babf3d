package cli

import (
	"careercompass/internal/common"
	"careercompass/internal/search"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [role] [location]",
	Short: "Search current job listings for a role",
	Long: `Search live job listings for a role via the jobs search API. The
location defaults to India. Results are deduplicated by title and
company, capped at 15 listings.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return common.ValidateOutputFormat(jobsConfig.OutputFormat)
	},
	RunE: runJobs,
}

var jobsConfig common.CommandConfig

func init() {
	jobsCmd.Flags().StringVarP(&jobsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	jobsCmd.Flags().StringVar(&jobsConfig.OutputFormat, "format", "", "Output format: text or json")
}

func runJobs(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	role := args[0]
	location := "India"
	if len(args) == 2 {
		location = args[1]
	}

	logger.Info("Searching job listings", "role", role, "location", location)

	aggregator := search.NewJobAggregator(newSearchClient(cfg, logger), logger)
	jobs := aggregator.SearchJobs(cmd.Context(), role, location)

	logger.Info("Job search completed", "listings", len(jobs))

	outputHandler := common.NewOutputHandler(logger)
	return outputHandler.HandleOutput(jobs, jobsConfig)
}
