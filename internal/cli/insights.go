package cli

import (
	"fmt"

	"careercompass/internal/ai"
	"careercompass/internal/common"
	"careercompass/internal/formatters"
	"careercompass/internal/types"

	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights [category] [subcareer]",
	Short: "Generate career insights and a learning roadmap for a role",
	Long: `Generate a professional career analysis for a role: key responsibilities,
required skills, a phased learning roadmap, certifications, and salary
progression for the Indian market. Output is markdown.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return common.ValidateOutputFormat(insightsConfig.OutputFormat)
	},
	RunE: runInsights,
}

var insightsConfig common.CommandConfig

func init() {
	insightsCmd.Flags().StringVarP(&insightsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	insightsCmd.Flags().StringVar(&insightsConfig.OutputFormat, "format", "", "Output format: markdown, text, or json")
}

func runInsights(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	category, subcareer := args[0], args[1]
	logger.Info("Generating career insights",
		"category", category,
		"subcareer", subcareer)

	prompt := ai.BuildCareerInsightsPrompt(types.CareerInsightsInput{
		Category:  category,
		Subcareer: subcareer,
	})

	response, err := runCompletion(cmd.Context(), cfg, logger, "career_insights", prompt)
	if err != nil {
		return fmt.Errorf("failed to generate career insights: %w", err)
	}

	result := formatters.NormalizeResult(response.Raw())

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(result, insightsConfig); err != nil {
		return err
	}

	logger.Info("Career insights generated successfully")
	return nil
}
