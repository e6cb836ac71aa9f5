package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aws-tutor/internal/crawler"
	"aws-tutor/internal/worker"
)

var (
	crawlStart    string
	crawlMaxPages int
	crawlDelay    time.Duration
	crawlOut      string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the AWS documentation site into JSON Lines",
	Long: `Walks the documentation site breadth-first from --start, staying on its host
and honouring robots.txt, and writes one JSON object per page in the format
"aws-tutor ingest" reads.`,
	Args: cobra.NoArgs,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().StringVar(&crawlStart, "start", crawler.DefaultStartURL, "page the crawl starts from")
	crawlCmd.Flags().IntVar(&crawlMaxPages, "max-pages", 100, "maximum number of pages to fetch")
	crawlCmd.Flags().DurationVar(&crawlDelay, "delay", time.Second, "pause between page fetches")
	crawlCmd.Flags().StringVarP(&crawlOut, "out", "o", "-", `output file, "-" for stdout`)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	c, err := crawler.New(crawler.Options{
		StartURL: crawlStart,
		MaxPages: crawlMaxPages,
		Delay:    crawlDelay,
	}, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	var out io.Writer = cmd.OutOrStdout()
	if crawlOut != "-" {
		file, err := os.Create(crawlOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := c.Crawl(ctx, worker.NewJSONLWriter(out).Write)
	logger.Info("crawl finished",
		zap.Int("fetched", stats.Fetched),
		zap.Int("emitted", stats.Emitted),
		zap.Int("failed", stats.Failed),
	)
	return err
}
