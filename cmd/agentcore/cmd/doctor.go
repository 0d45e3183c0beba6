package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/internal/config"
	"github.com/Aman-CERP/agentcore/internal/gateway"
	"github.com/Aman-CERP/agentcore/internal/ui"
)

type doctorCheck struct {
	Name string `json:"name"`
	Status string `json:"status"`
	Message string `json:"message"`
	Required bool `json:"required"`
}

func newDoctorCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
 Use: "doctor",
 Short: "Check system requirements and diagnose issues",
 Long: `Doctor runs a small set of diagnostics before anything expensive:

 - workspace and project directories are writable
 - the workspace has not grown past its configured cap
 - free RAM has not dropped below the configured floor
 - the configured embedding backend is reachable

Embedder reachability is a warning, not a failure: agentcore falls back
to keyword-only retrieval when no embedder answers.`,
 RunE: func(cmd *cobra.Command, _ []string) error {
 return runDoctor(cmd, jsonOutput)
 },
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func runDoctor(cmd *cobra.Command, jsonOutput bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := newDeps(".")
	if err != nil {
 return err
	}
	defer func() { _ = d.metrics.Close() }()

	var checks []doctorCheck
	critical := false

	if toolErr := d.sandbox.CheckResources(); toolErr != nil {
 checks = append(checks, doctorCheck{Name: "resources", Status: "fail", Message: toolErr.Error(), Required: true})
 critical = true
	} else {
 checks = append(checks, doctorCheck{Name: "resources", Status: "pass", Message: "workspace size and free RAM within limits", Required: true})
	}

	if _, statErr := os.Stat(dataDirFor(d.cfg)); statErr != nil {
 checks = append(checks, doctorCheck{Name: "data-dir", Status: "fail", Message: statErr.Error(), Required: true})
 critical = true
	} else {
 checks = append(checks, doctorCheck{Name: "data-dir", Status: "pass", Message: dataDirFor(d.cfg), Required: true})
	}

	checks = append(checks, embedderCheck(ctx, d.cfg))

	if jsonOutput {
 enc := json.NewEncoder(cmd.OutOrStdout())
 enc.SetIndent("", " ")
 if err := enc.Encode(checks); err != nil {
 return err
 }
	} else {
 styles := ui.StylesFor(cmd.OutOrStdout())
 for _, c := range checks {
 label := styles.OK.Render(c.Status)
 switch c.Status {
 case "warn":
 label = styles.Warn.Render(c.Status)
 case "fail":
 label = styles.Fail.Render(c.Status)
 }
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %-12s %s\n", label, c.Name, c.Message)
 }
	}

	if critical {
 return fmt.Errorf("doctor: one or more required checks failed")
	}
	return nil
}

func embedderCheck(ctx context.Context, cfg *config.Config) doctorCheck {
	if cfg.Embeddings.Provider == "" {
 return doctorCheck{Name: "embedder", Status: "warn", Message: "no embedding provider configured; retrieval is keyword-only", Required: false}
	}
	if cfg.Embeddings.Provider == "static" {
 return doctorCheck{Name: "embedder", Status: "pass", Message: "static embedder (no network dependency)", Required: false}
	}

	host := cfg.Embeddings.OllamaHost
	if host == "" {
 host = gateway.DefaultOllamaHost
	}
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, host+"/api/tags", nil)
	if err != nil {
 return doctorCheck{Name: "embedder", Status: "warn", Message: err.Error(), Required: false}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
 return doctorCheck{Name: "embedder", Status: "warn", Message: fmt.Sprintf("%s unreachable: %s", host, err), Required: false}
	}
	defer func() { _ = resp.Body.Close() }()
	return doctorCheck{Name: "embedder", Status: "pass", Message: fmt.Sprintf("%s reachable", host), Required: false}
}
