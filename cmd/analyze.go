package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-analyzer/internal/config"
	"github.com/naka-gawa/repo-analyzer/internal/domain"
	"github.com/naka-gawa/repo-analyzer/internal/gateway"
	"github.com/naka-gawa/repo-analyzer/internal/output"
	"github.com/naka-gawa/repo-analyzer/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo-url>",
	Short: "Summarizes contributors, pull requests and issues of a repository",
	Long: `Fetches commits, pull requests and issues of a GitHub repository, ranks the
most active contributors and counts opened, closed and stale pull requests and
issues. Set GITHUB_TOKEN (or the variable named by github.token_env) to avoid
the anonymous rate limit.`,
	Example: `  repo-analyzer analyze https://github.com/fastlane/fastlane -f 2018-02-23 -t 2018-03-08 -b master`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := newLogger(os.Stderr, verbose)

		if err := runAnalyze(cmd, args[0], logger, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addAnalyzeFlags(analyzeCmd)
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("from", "f", "", "Floor date filter (YYYY-MM-DD)")
	cmd.Flags().StringP("to", "t", "", "Ceiling date filter (YYYY-MM-DD)")
	cmd.Flags().StringP("branch", "b", "", "Branch to analyze (repository default branch when empty)")
	cmd.Flags().IntP("contributors-max", "c", 0, "Max number of contributors to show (config default 30)")
	cmd.Flags().IntP("old-pulls-days", "p", 0, "Days after which an open pull request is stale (config default 30)")
	cmd.Flags().IntP("old-issues-days", "i", 0, "Days after which an open issue is stale (config default 14)")
	cmd.Flags().StringP("output", "o", "", "Output format: text or json")
}

// runAnalyze wires configuration, gateway and use case together and writes the report to w.
func runAnalyze(cmd *cobra.Command, repoURL string, logger *log.Logger, w io.Writer) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	runID := uuid.NewString()
	logger = logger.With("run", runID)

	repo, err := domain.ParseRepositoryURL(repoURL)
	if err != nil {
		return err
	}

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	branch, _ := cmd.Flags().GetString("branch")
	filters, warnings := domain.NewFilters(fromStr, toStr, branch)
	for _, warning := range warnings {
		logger.Warn(warning.Error())
	}

	token := cfg.Token()
	if token == "" {
		logger.Debug("no access token set, using anonymous access", "env", cfg.GitHub.TokenEnv)
	}

	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:            token,
		APIEndpoint:      cfg.GitHub.APIEndpoint,
		GraphQLEndpoint:  cfg.GitHub.GraphQLEndpoint,
		RequestTimeout:   cfg.GitHub.RequestTimeout,
		RateLimitMaxWait: cfg.GitHub.RateLimitMaxWait,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	aggregator := usecase.NewAggregator(githubGateway, usecase.Settings{
		DefaultBranch:   cfg.Analysis.DefaultBranch,
		MaxContributors: cfg.Analysis.MaxContributors,
		StalePullDays:   cfg.Analysis.StalePullDays,
		StaleIssueDays:  cfg.Analysis.StaleIssueDays,
	}, logger)

	report, err := aggregator.Aggregate(context.Background(), usecase.Request{
		RunID:      runID,
		Repository: repo,
		Filters:    filters,
	})
	if err != nil {
		return err
	}

	return output.Write(w, cfg.Output.Format, report)
}

// applyFlagOverrides copies explicitly set flags over the loaded configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("contributors-max") {
		cfg.Analysis.MaxContributors, _ = flags.GetInt("contributors-max")
	}
	if flags.Changed("old-pulls-days") {
		cfg.Analysis.StalePullDays, _ = flags.GetInt("old-pulls-days")
	}
	if flags.Changed("old-issues-days") {
		cfg.Analysis.StaleIssueDays, _ = flags.GetInt("old-issues-days")
	}
	if flags.Changed("output") {
		cfg.Output.Format, _ = flags.GetString("output")
	}
}
