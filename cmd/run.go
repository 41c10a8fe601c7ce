package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/investor-matcher/internal/ai"
	"github.com/spigell/investor-matcher/internal/ai/gemini"
	"github.com/spigell/investor-matcher/internal/logger"
	"github.com/spigell/investor-matcher/internal/matching"
	"github.com/spigell/investor-matcher/internal/presenter"
	"github.com/spigell/investor-matcher/internal/profiles"
	"github.com/spigell/investor-matcher/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExit        = "Exit"
	PromptShowAll     = "Show all matches"
	PromptDumpToFile  = "Dump results to file"
	selectFounderSize = 10
)

var errExit = errors.New("exit requested")

var actionPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptExit, PromptShowAll, PromptDumpToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the investor-matcher main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("founder", "f", "", "founder id to match. When unset, an interactive selection is shown.")
	runCmd.Flags().IntP("top", "t", 0, "number of top matches to display")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask what to do with the results, just print them")

	viper.BindPFlag("top-n", runCmd.Flags().Lookup("top"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the investor-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.FoundersFile == "" || config.InvestorsFile == "" {
		logger.Fatal("both founders-file and investors-file are required in the configuration")
	}

	founders, err := profiles.LoadFounders(config.FoundersFile, logger)
	if err != nil {
		logger.Fatal("loading founders", zap.Error(err), zap.String("path", config.FoundersFile))
	}

	investors, err := profiles.LoadInvestors(config.InvestorsFile, logger)
	if err != nil {
		logger.Fatal("loading investors", zap.Error(err), zap.String("path", config.InvestorsFile))
	}

	logger.Info("loaded profiles",
		zap.Int("founders", founders.Len()),
		zap.Int("investors", investors.Len()),
	)

	if founders.Len() == 0 {
		logger.Fatal("no founders found in the founders file")
	}

	if investors.Len() == 0 {
		logger.Fatal("no investors found to match against")
	}

	founder, err := selectFounder(cmd, founders)
	if err != nil {
		logger.Fatal("selecting a founder", zap.Error(err))
	}

	matcher, err := newAIMatcher(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building ai matcher",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file in the configuration file or the GEMINI_API_KEY_FILE environment variable"),
		)
	}

	logger.Info("starting the match process", zap.String("founder", founder.Label()))

	dispatcher := matching.NewDispatcher(matcher, config.Concurrency, logger)
	results := dispatcher.Run(ctx, founder, investors)

	ranked := matching.Rank(results, config.TopN)
	presenter.Render(os.Stdout, founder.Label(), ranked, countOK(results))

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := actionPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, founder, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, founder *profiles.Founder, results []*ai.MatchResult) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptShowAll:
		presenter.Render(os.Stdout, founder.Label(), matching.Rank(results, len(results)), countOK(results))
		return nil
	case PromptDumpToFile:
		filename, err := presenter.DumpToTmpFile(results)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func selectFounder(cmd *cobra.Command, founders *profiles.Founders) (*profiles.Founder, error) {
	id := strings.TrimSpace(cmd.Flag("founder").Value.String())
	if id != "" {
		founder := founders.FindByID(id)
		if founder == nil {
			return nil, fmt.Errorf("founder with id %q not found", id)
		}
		return founder, nil
	}

	sorted := founders.SortedByLabel()
	labels := make([]string, 0, len(sorted))
	for _, founder := range sorted {
		labels = append(labels, founder.Label())
	}

	founderPrompt := promptui.Select{
		Label: "Choose a founder and press ENTER",
		Items: labels,
		Size:  selectFounderSize,
	}

	idx, _, err := founderPrompt.Run()
	if err != nil {
		return nil, err
	}

	return sorted[idx], nil
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Matcher, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	retry := gemini.RetryPolicy{
		MaxAttempts: cfg.Gemini.MaxRetries,
		BaseDelay:   cfg.Gemini.BaseRetryDelay,
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, retry, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewMatcher(generator, cfg.Gemini.MaxLogLength, logger), nil
}

func countOK(results []*ai.MatchResult) int {
	count := 0
	for _, result := range results {
		if result.OK() {
			count++
		}
	}
	return count
}
