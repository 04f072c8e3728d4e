package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindcare-ai/mindcare/internal/llm"
	"github.com/mindcare-ai/mindcare/internal/store"
)

// kindAll lists both event kinds.
const kindAll = "all"

const timeLayout = "2006-01-02 15:04:05"

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the request log of backend and LLM calls",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent events, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		var kinds []string
		if kind != kindAll {
			kinds = append(kinds, kind)
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		events, err := store.Recent(cmd.Context(), rt.store.EventRepo(), store.QueryOpts{Limit: limit}, kinds...)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

// eventSummary returns the target and detail columns for one event.
func eventSummary(e store.Event) (target, detail string, latency int64) {
	if e.LLM != nil {
		return e.LLM.Model, fmt.Sprintf("%s %d/%d tok", e.LLM.Purpose, e.LLM.InputTokens, e.LLM.OutputTokens), e.LLM.LatencyMs
	}
	return e.Service.Service, fmt.Sprintf("%s %d", e.Service.Method, e.Service.StatusCode), e.Service.LatencyMs
}

func printEvents(w io.Writer, events []store.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-19s  %-7s  %-24s  %-22s  %-7s  %s\n",
		"Seq", "Timestamp", "Kind", "Target", "Detail", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, e := range events {
		ok := "✓"
		if !e.Success() {
			ok = "✗"
		}
		target, detail, latency := eventSummary(e)
		fmt.Fprintf(w, "%-5d  %-19s  %-7s  %-24s  %-22s  %-7d  %s\n",
			e.Sequence, e.Timestamp.Local().Format(timeLayout), e.Kind(),
			truncate(target, 24), truncate(detail, 22), latency, ok)
	}
}

var eventsViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "Show one event by sequence number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sequence %q: %w", args[0], err)
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		repo := rt.store.EventRepo()
		w := cmd.OutOrStdout()

		e, err := repo.GetLLMEvent(ctx, seq)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e != nil {
			fmt.Fprintf(w, "Seq:       %d\n", e.Sequence)
			fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
			fmt.Fprintf(w, "Kind:      %s\n", store.KindLLM)
			fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
			fmt.Fprintf(w, "Model:     %s\n", e.Model)
			fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
			fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
			fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
			fmt.Fprintf(w, "Success:   %v\n", e.Success)
			if e.ErrorMessage != "" {
				fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
			}
			return nil
		}

		c, err := repo.GetServiceCall(ctx, seq)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if c == nil {
			return fmt.Errorf("event %d not found", seq)
		}
		fmt.Fprintf(w, "Seq:       %d\n", c.Sequence)
		fmt.Fprintf(w, "Time:      %s\n", c.Timestamp.Local().Format(timeLayout))
		fmt.Fprintf(w, "Kind:      %s\n", store.KindService)
		fmt.Fprintf(w, "Service:   %s\n", c.Service)
		fmt.Fprintf(w, "Request:   %s %s\n", c.Method, c.URL)
		fmt.Fprintf(w, "Status:    %d\n", c.StatusCode)
		fmt.Fprintf(w, "Latency:   %dms\n", c.LatencyMs)
		fmt.Fprintf(w, "Success:   %v\n", c.Success)
		if c.ErrorMessage != "" {
			fmt.Fprintf(w, "Error:     %s\n", c.ErrorMessage)
		}
		return nil
	},
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		usage, err := rt.store.EventRepo().LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printUsage(cmd.OutOrStdout(), usage)
		return nil
	},
}

func printUsage(w io.Writer, usage []store.LLMUsage) {
	if len(usage) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %6s  %10s\n",
		"Model", "Calls", "Input", "Output", "Avg Ms", "Cost")
	fmt.Fprintln(w, strings.Repeat("─", 80))

	var totalCost float64
	var unknownModels []string
	for _, mu := range usage {
		cost := llm.LookupCost(mu.Model)
		if cost == nil {
			unknownModels = append(unknownModels, mu.Model)
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %6d  %10s\n",
				truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, mu.AvgLatencyMs, "?")
			continue
		}
		c := cost.Cost(mu.InputTokens, mu.OutputTokens)
		totalCost += c
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %6d  %10s\n",
			truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, mu.AvgLatencyMs, formatCost(c))
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	label := "TOTAL"
	if len(unknownModels) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %6s  %10s\n", label, "", "", "", "", formatCost(totalCost))

	if len(unknownModels) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
	}
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsListCmd.Flags().StringP("kind", "k", kindAll, "Event kind: all, llm or service")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsViewCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
}
