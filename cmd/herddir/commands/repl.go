package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/herddir/herddir/internal/logger"
	"github.com/herddir/herddir/internal/output"
	"github.com/herddir/herddir/internal/resolver"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive natural-language search session",
	Long: `Start an interactive session. Each line you type is resolved into
directory filters by a language model and the matching members are
printed. A failed query leaves the session running.

Type "quit", "exit" or "q" to leave.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringP("provider", "p", "", "LLM provider (anthropic, openai, openrouter; auto-detected from API keys)")
	replCmd.Flags().StringP("model", "m", "", "model to use (provider default if unset)")
	replCmd.Flags().StringP("api-key", "k", "", "API key (or OPENROUTER_API_KEY / ANTHROPIC_API_KEY / OPENAI_API_KEY)")
	replCmd.Flags().String("base-url", "", "custom provider endpoint URL")

	replCmd.Flags().String("site-url", "", "directory search endpoint (default: AMGR directory)")
	replCmd.Flags().String("fetch-mode", "static", "page fetch mode: auto, static or dynamic (headless browser)")
	replCmd.Flags().Duration("delay", time.Second, "pause between page fetches")
	replCmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout")
	replCmd.Flags().Int("max-pages", 0, "stop after this many pages (0 = all)")
	replCmd.Flags().StringP("format", "f", "table", "output format: table, json, yaml")

	_ = viper.BindPFlag("provider", replCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("model", replCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("api_key", replCmd.Flags().Lookup("api-key"))
	_ = viper.BindPFlag("base_url", replCmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("site_url", replCmd.Flags().Lookup("site-url"))
}

func runRepl(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout, _ := cmd.Flags().GetDuration("timeout")

	// The session is pointless without a resolver, so credentials are
	// checked up front rather than on the first query.
	nl, err := buildResolver(timeout)
	if err != nil {
		logError("%v", err)
		return err
	}

	searcher, err := buildSearcher(cmd, nl)
	if err != nil {
		logError("%v", err)
		return err
	}
	defer searcher.Close()

	format, _ := cmd.Flags().GetString("format")
	writer, err := output.NewWriter(os.Stdout, output.Format(format))
	if err != nil {
		logError("%v", err)
		return err
	}

	fmt.Println("Ask about directory members in plain language. Type \"quit\" to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		switch line {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		}

		res, err := searcher.SearchNatural(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			reportQueryError(err)
			continue
		}

		fmt.Printf("Filters: %s\n", res.Filters)
		if res.Warning != nil {
			fmt.Printf("Warning: %s\n", res.Warning)
		}
		if err := writer.Write(res); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// reportQueryError explains a failed query without ending the session.
func reportQueryError(err error) {
	var (
		endpointErr *resolver.EndpointError
		parseErr    *resolver.ResponseParseError
	)
	switch {
	case errors.As(err, &endpointErr):
		fmt.Printf("Could not reach the language model: %v\n", endpointErr.Err)
	case errors.As(err, &parseErr):
		fmt.Printf("The model's answer was not usable: %s\n", parseErr.Reason)
	default:
		fmt.Printf("Query failed: %v\n", err)
	}
	fmt.Println("Try rephrasing your question.")
}
