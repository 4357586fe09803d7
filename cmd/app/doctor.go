package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/CommentGarden_Go/internal/bootstrap"
	"github.com/osse101/CommentGarden_Go/internal/config"
	"github.com/osse101/CommentGarden_Go/internal/event"
)

const doctorTimeout = 5 * time.Second

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment issues (env, store, detection settings, backend)",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
	defer cancel()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			hasError = true
			fmt.Fprintf(out, "FAIL  %s: %v\n", name, err)
			return
		}
		fmt.Fprintf(out, "OK    %s\n", name)
	}

	warnings, err := config.ValidateEnvWithWarnings()
	report("environment", err)
	for _, w := range warnings {
		fmt.Fprintf(out, "WARN  %s\n", w)
	}

	cfg, err := loadConfig()
	report("configuration", err)
	if err != nil {
		return fmt.Errorf("doctor found issues")
	}

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err == nil {
		err = store.Ping(ctx)
		_ = store.Close()
	}
	report("snapshot store ("+cfg.StorageDriver+")", err)

	_, err = config.NewDetectionSettings(cfg.DetectionConfigPath).Load(ctx)
	report("detection settings", err)

	entries, skipped, err := event.ReadDeadLetters(cfg.DeadLetterPath)
	report("event dead-letter file", err)
	if n := len(entries) + skipped; n > 0 {
		fmt.Fprintf(out, "WARN  %d undelivered events in %s\n", n, cfg.DeadLetterPath)
	}

	if cfg.BackendEnabled() {
		report("backend", checkReachable(ctx, cfg.BackendURL))
	}

	if hasError {
		return fmt.Errorf("doctor found issues")
	}
	fmt.Fprintln(out, "All systems operational!")
	return nil
}

// checkReachable treats any HTTP answer as reachable; auth is checked at runtime
func checkReachable(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
