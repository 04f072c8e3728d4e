package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mindcare-ai/mindcare/internal/emotion"
	"github.com/mindcare-ai/mindcare/internal/llm"
	"github.com/mindcare-ai/mindcare/internal/prediction"
)

const probeTimeout = 5 * time.Second

// probe is the outcome of checking one dependency.
type probe struct {
	Name   string
	Target string
	OK     bool
	Detail string

	// Optional checks are reported but never fail the command.
	Optional bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the backend services and LLM are reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		svc := rt.cfg.Services
		targets := []struct{ name, url string }{
			{prediction.ServiceName, svc.PredictionURL},
			{emotion.DetectService, svc.EmotionURL},
			{emotion.JournalService, svc.JournalURL},
		}

		probes := make([]probe, len(targets)+1)
		g, ctx := errgroup.WithContext(cmd.Context())
		for i, t := range targets {
			client := rt.httpClient(t.name, probeTimeout)
			g.Go(func() error {
				probes[i] = probeURL(ctx, client, t.name, t.url)
				return nil
			})
		}
		g.Go(func() error {
			probes[len(targets)] = probeLLM(rt.cfg.LLM)
			return nil
		})
		_ = g.Wait()

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-12s  %-36s  %-4s  %s\n", "Service", "Target", "OK", "Detail")
		fmt.Fprintln(w, strings.Repeat("─", 72))
		down := 0
		for _, p := range probes {
			mark := "✓"
			switch {
			case p.OK:
			case p.Optional:
				mark = "–"
			default:
				mark = "✗"
				down++
			}
			fmt.Fprintf(w, "%-12s  %-36s  %-4s  %s\n", p.Name, truncate(p.Target, 36), mark, p.Detail)
		}
		if down > 0 {
			return fmt.Errorf("%d of %d services unreachable", down, len(targets))
		}
		return nil
	},
}

// probeURL reports a base URL as reachable when it answers at all; the
// backend has no health route, so any HTTP status counts.
func probeURL(ctx context.Context, client *http.Client, name, url string) probe {
	p := probe{Name: name, Target: url}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		p.Detail = err.Error()
		return p
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		p.Detail = err.Error()
		return p
	}
	resp.Body.Close()
	p.OK = true
	p.Detail = fmt.Sprintf("HTTP %d in %dms", resp.StatusCode, time.Since(start).Milliseconds())
	return p
}

// probeLLM checks the LLM configuration without spending tokens.
func probeLLM(cfg llm.Config) probe {
	p := probe{Name: "llm", Optional: true}
	if !cfg.Discover() {
		p.Target = "(none)"
		p.Detail = "no API key found; chat assistant disabled"
		return p
	}
	p.Target = cfg.Provider + "/" + cfg.ModelName()
	if err := cfg.Validate(); err != nil {
		p.Detail = err.Error()
		return p
	}
	p.OK = true
	p.Detail = "configured"
	return p
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
