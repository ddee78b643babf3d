package cli

import (
	"fmt"

	"careercompass/internal/ai"
	"careercompass/internal/common"
	"careercompass/internal/formatters"
	"careercompass/internal/types"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume [resume-file]",
	Short: "Analyze a resume and get improvement feedback",
	Long: `Analyze a resume file (.txt, .pdf, .doc, or .docx) and get structured
feedback: strengths, improvement areas, missing skills, and ATS
optimization tips. Use --target-role to tailor the feedback to a role.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return common.ValidateOutputFormat(resumeConfig.OutputFormat)
	},
	RunE: runResume,
}

var (
	resumeConfig     common.CommandConfig
	resumeTargetRole string
)

func init() {
	resumeCmd.Flags().StringVarP(&resumeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	resumeCmd.Flags().StringVar(&resumeConfig.OutputFormat, "format", "", "Output format: markdown, text, or json")
	resumeCmd.Flags().StringVar(&resumeTargetRole, "target-role", "", "Role to tailor the feedback towards")
}

func runResume(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	resumeText, err := fileProcessor.ReadResumeFile(args[0])
	if err != nil {
		return err
	}

	logger.Info("Analyzing resume",
		"file", args[0],
		"resume_chars", len(resumeText),
		"target_role", resumeTargetRole)

	prompt := ai.BuildResumeFeedbackPrompt(types.ResumeFeedbackInput{
		ResumeText: resumeText,
		TargetRole: resumeTargetRole,
	})

	response, err := runCompletion(cmd.Context(), cfg, logger, "resume_feedback", prompt)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	result := formatters.NormalizeResult(response.Raw())

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(result, resumeConfig); err != nil {
		return err
	}

	logger.Info("Resume analysis completed successfully")
	return nil
}
