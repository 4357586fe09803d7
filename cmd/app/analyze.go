package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/osse101/CommentGarden_Go/internal/bootstrap"
	"github.com/osse101/CommentGarden_Go/internal/config"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analyze <text>",
		Short:   "Classify text with the detection cascade and print the result",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: bindFlags,
		RunE:    runAnalyze,
	}
	cmd.Flags().String("detection-config", config.DefaultDetectionConfigPath, "detection settings file")
	cmd.Flags().String("detector", "", "model worker address (ws://host:port/ws)")
	return cmd
}

// runAnalyze does not need API_KEY or a store, so it skips config.Load
func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := &config.Config{
		DetectionConfigPath: viper.GetString(keyDetectionConfig),
		DetectorAddr:        viper.GetString(keyDetectorAddr),
	}

	mw := bootstrap.NewModelWorker(cfg)
	defer mw.Shutdown(ctx)

	detector, err := bootstrap.NewDetector(ctx, config.NewDetectionSettings(cfg.DetectionConfigPath), mw)
	if err != nil {
		return err
	}

	result := detector.Analyze(ctx, strings.Join(args, " "))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}
	return nil
}
