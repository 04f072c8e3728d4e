package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindcare-ai/mindcare/internal/emotion"
)

var detectCmd = &cobra.Command{
	Use:     "detect <text...>",
	Short:   "Detect the emotion of a message",
	Args:    cobra.MinimumNArgs(1),
	Example: "  mindcare detect I finally slept well last night",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		client := emotion.NewClient(rt.cfg.Services.EmotionURL,
			rt.httpClient(emotion.DetectService, serviceTimeout))
		d, err := client.Detect(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("%s: %w", emotion.DetectFailure, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.Message())
		return nil
	},
}
