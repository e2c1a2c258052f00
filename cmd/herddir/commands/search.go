package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/herddir/herddir/internal/directory"
	"github.com/herddir/herddir/internal/llm"
	"github.com/herddir/herddir/internal/logger"
	"github.com/herddir/herddir/internal/output"
	"github.com/herddir/herddir/internal/resolver"
	"github.com/herddir/herddir/internal/scraper"
	"github.com/herddir/herddir/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the member directory",
	Long: `Search the member directory with explicit filters or with a
natural-language sentence.

Filters left unset are simply not sent to the site, so an invocation
with no filters lists the entire directory.`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("state", "", "filter by state")
	searchCmd.Flags().String("member", "", "filter by member name")
	searchCmd.Flags().String("breed", "", "filter by breed")
	searchCmd.Flags().StringP("natural", "n", "", "natural-language query (resolved by a language model)")

	searchCmd.Flags().StringP("provider", "p", "", "LLM provider (anthropic, openai, openrouter; auto-detected from API keys)")
	searchCmd.Flags().StringP("model", "m", "", "model to use (provider default if unset)")
	searchCmd.Flags().StringP("api-key", "k", "", "API key (or OPENROUTER_API_KEY / ANTHROPIC_API_KEY / OPENAI_API_KEY)")
	searchCmd.Flags().String("base-url", "", "custom provider endpoint URL")

	searchCmd.Flags().String("site-url", "", "directory search endpoint (default: AMGR directory)")
	searchCmd.Flags().String("fetch-mode", "static", "page fetch mode: auto, static or dynamic (headless browser)")
	searchCmd.Flags().Duration("delay", time.Second, "pause between page fetches")
	searchCmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout")
	searchCmd.Flags().Int("max-pages", 0, "stop after this many pages (0 = all)")

	searchCmd.Flags().StringP("format", "f", "table", "output format: table, json, yaml")
	searchCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")

	_ = viper.BindPFlag("provider", searchCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("model", searchCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("api_key", searchCmd.Flags().Lookup("api-key"))
	_ = viper.BindPFlag("base_url", searchCmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("site_url", searchCmd.Flags().Lookup("site-url"))
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	natural, _ := cmd.Flags().GetString("natural")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	var nl *resolver.Resolver
	if natural != "" {
		var err error
		nl, err = buildResolver(timeout)
		if err != nil {
			logError("%v", err)
			return err
		}
	}

	searcher, err := buildSearcher(cmd, nl)
	if err != nil {
		logError("%v", err)
		return err
	}
	defer searcher.Close()

	var res search.Result
	if natural != "" {
		res, err = searcher.SearchNatural(ctx, natural)
	} else {
		state, _ := cmd.Flags().GetString("state")
		member, _ := cmd.Flags().GetString("member")
		breed, _ := cmd.Flags().GetString("breed")
		res, err = searcher.Search(ctx, directory.NewFilterSet(state, member, breed))
	}
	if err != nil {
		logError("%v", err)
		return err
	}

	if res.Warning != nil {
		logger.Warn("results are incomplete", "cause", res.Warning.String())
	}

	return writeResult(cmd, res)
}

// buildResolver assembles the natural-language resolver. Missing
// credentials are a hard error, raised before any model call or scrape.
func buildResolver(timeout time.Duration) (*resolver.Resolver, error) {
	providerName := viper.GetString("provider")
	apiKey := viper.GetString("api_key")

	if providerName == "" {
		detected, detectedKey := llm.DetectProvider()
		providerName = detected
		if apiKey == "" {
			apiKey = detectedKey
		}
	}
	if providerName == "" || apiKey == "" {
		return nil, search.ErrNoResolver
	}

	model := viper.GetString("model")
	if model == "" {
		model = llm.GetDefaultModel(providerName)
	}

	cfg := llm.DefaultProviderConfig()
	cfg.APIKey = apiKey
	cfg.Model = model
	cfg.BaseURL = viper.GetString("base_url")
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	provider, err := llm.NewProvider(providerName, cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("using language model", "provider", providerName, "model", model)
	return resolver.New(provider), nil
}

func buildFetcher(cmd *cobra.Command) (scraper.Fetcher, error) {
	mode, _ := cmd.Flags().GetString("fetch-mode")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := scraper.DefaultFetcherConfig()
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	return scraper.NewFetcher(scraper.FetchMode(mode), cfg)
}

func buildSearcher(cmd *cobra.Command, nl *resolver.Resolver) (*search.Searcher, error) {
	fetcher, err := buildFetcher(cmd)
	if err != nil {
		return nil, err
	}

	cfg := search.DefaultConfig()
	if siteURL := viper.GetString("site_url"); siteURL != "" {
		cfg.BaseURL = siteURL
	}
	if cmd.Flags().Changed("delay") {
		cfg.Delay, _ = cmd.Flags().GetDuration("delay")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	cfg.MaxPages, _ = cmd.Flags().GetInt("max-pages")

	searcher, err := search.New(cfg, fetcher, nl)
	if err != nil {
		fetcher.Close()
		return nil, err
	}
	return searcher, nil
}

func writeResult(cmd *cobra.Command, res search.Result) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")

	dest := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		dest = f
	}

	w, err := output.NewWriter(dest, output.Format(format))
	if err != nil {
		return err
	}
	if err := w.Write(res); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if outPath != "" {
		logger.Info("results written", "path", outPath)
	}
	return nil
}
