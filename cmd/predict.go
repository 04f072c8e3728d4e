package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mindcare-ai/mindcare/internal/prediction"
	"github.com/mindcare-ai/mindcare/internal/questionnaire"
	"github.com/mindcare-ai/mindcare/internal/screens/results"
)

// cliWidth is the content width used for text output.
const cliWidth = 72

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit questionnaire answers and print the predicted risks",
	Long: "Submit a complete answer set to the prediction service.\n\n" +
		"Answers come from a YAML or JSON file mapping question id to value\n" +
		"(--answers, \"-\" for stdin) and/or --set id=value flags. Questions not\n" +
		"mentioned are answered 0; unknown ids are rejected.",
	Example: "  mindcare predict --answers answers.yaml\n  mindcare predict --set q1=30 --set q11=1",
	RunE: func(cmd *cobra.Command, args []string) error {
		answersPath, _ := cmd.Flags().GetString("answers")
		sets, _ := cmd.Flags().GetStringArray("set")

		answers := questionnaire.NewAnswerSet(questionnaire.DefaultBattery())
		if answersPath != "" {
			values, err := readAnswers(cmd.InOrStdin(), answersPath)
			if err != nil {
				return err
			}
			if err := answers.Apply(values); err != nil {
				return err
			}
		}
		overrides, err := parseSets(sets)
		if err != nil {
			return err
		}
		if err := answers.Apply(overrides); err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		client := prediction.NewClient(rt.cfg.Services.PredictionURL,
			rt.httpClient(prediction.ServiceName, serviceTimeout))
		out, err := prediction.NewSubmitter().Submit(cmd.Context(), client, answers.Map())
		if err != nil {
			return err
		}
		if out.Err != nil {
			return out.Err
		}
		return printResult(cmd.OutOrStdout(), out.Result)
	},
}

func init() {
	predictCmd.Flags().StringP("answers", "a", "", "YAML or JSON answer file (\"-\" for stdin)")
	predictCmd.Flags().StringArray("set", nil, "Set one answer as id=value (repeatable)")
}

// readAnswers decodes a flat id → value mapping. JSON is valid YAML, so
// one decoder serves both formats.
func readAnswers(stdin io.Reader, path string) (map[string]int, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	values := map[string]int{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return values, nil
}

// parseSets turns repeated id=value flags into a mapping.
func parseSets(sets []string) (map[string]int, error) {
	values := make(map[string]int, len(sets))
	for _, s := range sets {
		id, raw, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid --set %q: want id=value", s)
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", s, err)
		}
		values[strings.TrimSpace(id)] = v
	}
	return values, nil
}

// printResult writes the listing and both chart projections. A response
// without probabilities prints the awaiting notice.
func printResult(w io.Writer, res prediction.Result) error {
	if res == nil {
		_, err := lipgloss.Fprintln(w, prediction.AwaitingResult)
		return err
	}
	sections := []string{
		results.RenderListing(res, cliWidth),
		results.RenderInlineChart(res, cliWidth),
		results.RenderStandaloneChart(res, cliWidth),
	}
	_, err := lipgloss.Fprintln(w, strings.Join(sections, "\n\n"))
	return err
}
