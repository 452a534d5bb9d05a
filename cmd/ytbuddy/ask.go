package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/ytbuddy/internal/adapter/presenter"
	"github.com/johnquangdev/ytbuddy/internal/app"
	"github.com/johnquangdev/ytbuddy/pkg/youtubeurl"
)

func init() {
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask <video> <question>",
	Short: "Ask a question about a video",
	Long: `Ask a question about a video. <video> is a video id or any YouTube URL.

Questions mentioning "buddy" are answered from general knowledge.
Questions starting with "beyond the transcript" get a transcript answer
plus a general supplement when the transcript falls short.

Example:
  ytbuddy ask dQw4w9WgXcQ "What is the song about?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	videoID, err := youtubeurl.ExtractVideoID(args[0])
	if err != nil {
		return err
	}
	question := strings.Join(args[1:], " ")

	return withContainer(cmd.Context(), func(c *app.Container) error {
		result, err := c.QA.AnswerQuestion(cmd.Context(), videoID, question)
		if err != nil {
			return err
		}

		if humanOutput {
			fmt.Println(result.Text)
			return nil
		}
		return outputJSON(presenter.ToAskResponse(result))
	})
}
