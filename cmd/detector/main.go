// Command detector runs the model worker: a websocket server on loopback that
// classifies text for the main process.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/modelworker"
)

const (
	keyAddr      = "addr"
	keyModel     = "model"
	keyVocab     = "vocab"
	keyLabels    = "labels"
	keyORTLib    = "ort-lib"
	keyThreads   = "threads"
	keyHeuristic = "heuristic"
	keyLogLevel  = "log-level"

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

var rootCmd = &cobra.Command{
	Use:          "detector",
	Short:        "Serve a comment classification model over websocket",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.String(keyAddr, modelworker.DefaultListenAddr, "listen address")
	flags.String(keyModel, "", "ONNX sequence classifier (env DETECTOR_MODEL_PATH)")
	flags.String(keyVocab, "", "WordPiece vocabulary file (env DETECTOR_VOCAB_PATH)")
	flags.String(keyLabels, "", "label file, one per line (env DETECTOR_LABELS_PATH)")
	flags.String(keyORTLib, "", "onnxruntime shared library (env ONNXRUNTIME_LIB)")
	flags.Int(keyThreads, 1, "intra-op threads")
	flags.Bool(keyHeuristic, false, "serve the keyword heuristic instead of an ONNX model")
	flags.String(keyLogLevel, "info", "log level")

	_ = viper.BindPFlags(flags)
	_ = viper.BindEnv(keyModel, "DETECTOR_MODEL_PATH")
	_ = viper.BindEnv(keyVocab, "DETECTOR_VOCAB_PATH")
	_ = viper.BindEnv(keyLabels, "DETECTOR_LABELS_PATH")
	_ = viper.BindEnv(keyORTLib, "ONNXRUNTIME_LIB")
}

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadModel(ctx context.Context) (modelworker.Model, error) {
	if viper.GetBool(keyHeuristic) || viper.GetString(keyModel) == "" {
		slog.Info("Serving keyword heuristic model")
		return modelworker.NewHeuristicModel(), nil
	}

	model, err := modelworker.NewONNXModel(modelworker.ONNXConfig{
		ModelPath:   viper.GetString(keyModel),
		VocabPath:   viper.GetString(keyVocab),
		LabelsPath:  viper.GetString(keyLabels),
		LibraryPath: viper.GetString(keyORTLib),
		Threads:     viper.GetInt(keyThreads),
	})
	if err != nil {
		return nil, err
	}
	if err := model.Warmup(ctx); err != nil {
		_ = model.Close()
		return nil, fmt.Errorf("model warm-up: %w", err)
	}
	return model, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := logger.DefaultConfig(logger.ServiceNameDetector)
	cfg.Level = viper.GetString(keyLogLevel)
	logger.InitLogger(cfg)

	ctx := cmd.Context()
	model, err := loadModel(ctx)
	if err != nil {
		return err
	}
	defer model.Close()

	mux := http.NewServeMux()
	mux.Handle(modelworker.WorkerPath, modelworker.NewServer(model))
	srv := &http.Server{
		Addr:              viper.GetString(keyAddr),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Model worker listening", "addr", srv.Addr, "path", modelworker.WorkerPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		slog.Error("Model worker forced to shutdown", "error", serr)
	}
	return err
}
