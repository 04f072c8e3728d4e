package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/mindcare-ai/mindcare/internal/emotion"
	"github.com/mindcare-ai/mindcare/internal/screens/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal <video>",
	Short: "Upload a video journal entry and print its analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		client := emotion.NewJournalClient(rt.cfg.Services.JournalURL,
			rt.httpClient(emotion.JournalService, journalTimeout))
		fmt.Fprintf(cmd.ErrOrStderr(), "Uploading %s...\n", args[0])
		analysis, err := client.AnalyzeFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("analyze journal: %w", err)
		}
		_, err = lipgloss.Fprintln(cmd.OutOrStdout(), journal.RenderAnalysis(analysis, cliWidth))
		return err
	},
}
