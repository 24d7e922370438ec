package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dairylabs/milkmob/internal/engine"
)

// NewSubmitCommand processes one submission through the pipeline.
func NewSubmitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate and classify one video submission",
		Example: `  # Submit against the configured provider
  mobctl submit --video-id vid-123 --caption "pouring milk #gotmilk"

  # Offline run with a canned analysis file
  mobctl submit --video-id vid-123 --analysis analysis.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, _ := cmd.Flags().GetString("video-id")
			if videoID == "" {
				return fmt.Errorf("--video-id is required")
			}
			caption, _ := cmd.Flags().GetString("caption")
			hashtags, _ := cmd.Flags().GetStringSlice("hashtag")
			analysisPath, _ := cmd.Flags().GetString("analysis")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			eng, store, err := openEngine(cmd.Context(), cfg, analysisPath)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := eng.Process(cmd.Context(), engine.Submission{
				VideoID:  videoID,
				Caption:  caption,
				Hashtags: hashtags,
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().String("video-id", "", "provider video id of the submission")
	cmd.Flags().String("caption", "", "post caption text")
	cmd.Flags().StringSlice("hashtag", nil, "explicit post hashtags (repeatable)")
	cmd.Flags().String("analysis", "", "path to a canned analysis JSON file (skips the provider)")
	return cmd
}
