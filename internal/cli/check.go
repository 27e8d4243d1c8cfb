package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/factlens/factlens/internal/config"
)

var (
	checkTimeout time.Duration
	checkLimit   int
	checkSources []string
	fetchBody    bool
	noCache      bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <video-url>",
	Short: "Verify the central claim of a video against the literature",
	Long: `Check transcribes a video, extracts its central claim, collects
scholarly papers around the claim's keywords, indexes them, and judges
the claim against the most similar passages.

Requires OPENAI_API_KEY in the environment and a reachable Qdrant
instance (default http://localhost:6333).

Example:
  factlens check https://www.youtube.com/watch?v=dQw4w9WgXcQ
  factlens check https://youtu.be/abc123 --sources arxiv,pubmed --limit 8`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 15*time.Minute, "overall run timeout (transcription dominates)")
	checkCmd.Flags().IntVar(&checkLimit, "limit", 0, "passages to retrieve (default from config)")
	checkCmd.Flags().StringSliceVar(&checkSources, "sources", nil, "literature sources to query (arxiv, pubmed)")
	checkCmd.Flags().BoolVar(&fetchBody, "fetch-body", false, "fetch full paper pages instead of abstracts")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable collection cache (force fresh queries)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	videoURL := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if checkLimit > 0 {
		cfg.Search.Limit = checkLimit
	}
	if len(checkSources) > 0 {
		cfg.Collect.Sources = checkSources
	}
	if fetchBody {
		cfg.Collect.FetchBody = true
	}
	if noCache {
		cfg.Collect.CacheTTL = 0
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger()
	progress := func(stage, detail string) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", stage, detail)
	}

	p, err := buildPipeline(cfg, progress, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	result, err := p.Run(ctx, videoURL)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Claim:")
	fmt.Printf("  %s\n", result.ClaimEvidence.Claim)
	if len(result.ClaimEvidence.Evidence) > 0 {
		fmt.Println("Stated evidence:")
		for _, ev := range result.ClaimEvidence.Evidence {
			fmt.Printf("  - %s\n", ev)
		}
	}
	fmt.Printf("Keywords: %s\n", strings.Join(result.Keywords.Keywords, ", "))
	fmt.Printf("Corpus: %d documents, %d indexed points\n", len(result.Documents), result.PointsIndexed)

	if verbose {
		fmt.Println("Passages:")
		for i, passage := range result.Passages {
			fmt.Printf("  [%d] %s\n", i+1, passage.PaperID)
		}
	}

	fmt.Println()
	fmt.Println(result.Verdict)
	fmt.Printf("\nCompleted in %s\n", result.Elapsed.Round(time.Second))

	return nil
}
