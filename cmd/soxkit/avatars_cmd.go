package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/junjidragonfox/soxkit/internal/avatar"
	"github.com/junjidragonfox/soxkit/internal/jsonio"
)

var (
	destDir  string
	scanOnly bool
)

func init() {
	avatarsCmd.Flags().StringVarP(&destDir, "dest", "d", ".", "directory for downloaded images")
	avatarsCmd.Flags().BoolVar(&scanOnly, "scan-only", false, "list found URLs without downloading")
	rootCmd.AddCommand(avatarsCmd)
}

var avatarsCmd = &cobra.Command{
	Use:   "avatars <export.json>...",
	Short: "Scan exports for avatar image URLs and download them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seen := map[string]struct{}{}
		var urls []string
		for _, path := range args {
			doc, err := jsonio.Load(path)
			if err != nil {
				return err
			}
			for _, u := range avatar.Scan(doc, cfg.MaxScanDepth, cfg.Loose()) {
				if _, dup := seen[u]; dup {
					continue
				}
				seen[u] = struct{}{}
				urls = append(urls, u)
			}
		}

		if scanOnly {
			for _, u := range urls {
				fmt.Println(u)
			}
			fmt.Printf("found %d image URL(s)\n", len(urls))
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dl := avatar.NewDownloader(destDir,
			avatar.WithTimeout(time.Duration(cfg.DownloadTimeoutSecs)*time.Second),
			avatar.WithProgress(func(done, total int) {
				fmt.Printf("\r%d/%d", done, total)
			}),
		)
		summary := dl.Run(ctx, urls)
		fmt.Println()
		fmt.Println(summary.Render(cfg.ErrorDetailLimit))
		return nil
	},
}
