package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/nathantheresa/portfolio/internal/service"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Fetch one page of channel videos and print it",
	Long: `Fetch one page of the configured channel's videos through the same code
path the API uses. Useful to check YOUTUBE_API_KEY and the channel handle.

Example:
  portfolio videos
  portfolio videos --page-token CAoQAA`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pageToken, _ := cmd.Flags().GetString("page-token")

		videoService, err := service.NewVideoService(cmd.Context(), cfg.YouTubeAPIKey, cfg.YouTubeChannelHandle, cfg.YouTubeMaxResults, logger)
		if err != nil {
			return err
		}

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = fmt.Sprintf(" Fetching videos for @%s...", cfg.YouTubeChannelHandle)
		s.Start()
		page, err := videoService.Fetch(cmd.Context(), pageToken)
		s.Stop()

		if err != nil {
			return fmt.Errorf("failed to fetch videos: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, v := range page.Videos {
			fmt.Fprintf(out, "%s  %-10s %8s views  %s\n", v.PublishedAt, v.Duration, v.ViewCount, v.Title)
		}
		if page.NextPageToken != nil {
			fmt.Fprintf(out, "\nnext page: --page-token %s\n", *page.NextPageToken)
		}
		return nil
	},
}

func init() {
	videosCmd.Flags().String("page-token", "", "Page token returned by a previous call")
}
