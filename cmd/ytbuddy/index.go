package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/ytbuddy/internal/app"
	"github.com/johnquangdev/ytbuddy/pkg/youtubeurl"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index <video>",
	Short: "Fetch a video transcript and build its search index",
	Long: `Fetch the transcript of a video and build its search index ahead of
the first question. Nothing is rebuilt when the index already exists.

Example:
  ytbuddy index https://youtu.be/dQw4w9WgXcQ`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

type indexResponse struct {
	VideoID string `json:"video_id"`
	Indexed bool   `json:"indexed"`
	Existed bool   `json:"existed"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	videoID, err := youtubeurl.ExtractVideoID(args[0])
	if err != nil {
		return err
	}

	return withContainer(cmd.Context(), func(c *app.Container) error {
		existed, err := c.Indexes.Exists(cmd.Context(), videoID)
		if err != nil {
			return err
		}
		if _, err := c.Indexes.EnsureIndex(cmd.Context(), videoID); err != nil {
			return err
		}

		if humanOutput {
			if existed {
				fmt.Printf("%s already indexed\n", videoID)
			} else {
				fmt.Printf("%s indexed\n", videoID)
			}
			return nil
		}
		return outputJSON(indexResponse{VideoID: videoID, Indexed: true, Existed: existed})
	})
}
