package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindcare-ai/mindcare/internal/app"
	"github.com/mindcare-ai/mindcare/internal/chat"
	"github.com/mindcare-ai/mindcare/internal/emotion"
	"github.com/mindcare-ai/mindcare/internal/prediction"
	"github.com/mindcare-ai/mindcare/internal/questionnaire"
	"github.com/mindcare-ai/mindcare/internal/screens/home"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	svc := rt.cfg.Services
	deps := home.Deps{
		Battery:  questionnaire.DefaultBattery(),
		Scorer:   prediction.NewClient(svc.PredictionURL, rt.httpClient(prediction.ServiceName, serviceTimeout)),
		Detector: emotion.NewClient(svc.EmotionURL, rt.httpClient(emotion.DetectService, serviceTimeout)),
		Analyzer: emotion.NewJournalClient(svc.JournalURL, rt.httpClient(emotion.JournalService, journalTimeout)),
		Events:   rt.store.EventRepo(),
		Logger:   rt.logger,
	}

	provider, err := rt.provider(ctx)
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The chat assistant will be unavailable.")
		rt.logger.Warn("llm provider init failed", zap.Error(err))
	case provider != nil:
		deps.Assistant = chat.NewAssistant(provider, rt.logger.Named("chat"))
		deps.Model = provider.ModelID()
	}

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	rt.logger.Info("starting tui", zap.Bool("assistant", deps.Assistant != nil))
	return app.Run(app.Options{Home: deps, SkipWelcome: noSplash})
}
