package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"trivia-gen/internal/adapter/backend"
	"trivia-gen/internal/config"
	"trivia-gen/internal/domain"
	"trivia-gen/internal/logger"
	"trivia-gen/internal/service"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

func main() {
	filePath := flag.String("file", "", "path of the PDF to upload")
	numQuestions := flag.Int("n", 0, "number of questions to request (0 uses the configured value)")
	outPath := flag.String("out", "", "also write a YAML report to this path (- for stdout)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		color.Red("Failed to load config: %v", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		color.Red("Failed to initialize logger: %v", err)
		os.Exit(1)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	if *numQuestions > 0 {
		cfg.Generation.NumQuestions = *numQuestions
	}

	client, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Generation.NumQuestions, &http.Client{}, appLogger)
	if err != nil {
		color.Red("Failed to create backend client: %v", err)
		os.Exit(1)
	}

	upload, err := loadUpload(*filePath)
	if err != nil {
		color.Red("%s", userMessage(err))
		if domain.HasCode(err, domain.ErrMissingInput) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller := service.NewPipelineController(client, client, service.PipelineOptions{
		ExtractTimeout:  cfg.Backend.ExtractTimeout,
		GenerateTimeout: cfg.Backend.GenerateTimeout,
	}, appLogger)

	color.Cyan(domain.MsgProcessing)
	outcome, err := controller.Submit(ctx, upload)
	if err != nil {
		color.Red("%s", userMessage(err))
		os.Exit(1)
	}

	state := controller.Snapshot()
	if outcome.Context != nil {
		color.Yellow("\nExtracted text")
		fmt.Println(*outcome.Context)
	}
	if outcome.Questions != nil {
		color.Yellow("\nQuestions")
		fmt.Println(*outcome.Questions)
	}

	if *outPath != "" {
		if err := saveReport(*outPath, newReport(upload.FileName, state, outcome)); err != nil {
			color.Red("Failed to write report: %v", err)
		}
	}

	fmt.Println()
	if !outcome.Succeeded() {
		appLogger.Debug("Submission failed",
			zap.String("stage", string(outcome.Failure.Stage)),
			zap.Error(outcome.Failure.Cause),
		)
		color.Red("%s (%v)", state.Status.Text, outcome.Failure.Cause)
		os.Exit(1)
	}
	color.Green("%s", state.Status.Text)
}

// loadUpload reads the PDF at path. An empty path is a missing input and is
// reported before anything is printed or sent.
func loadUpload(path string) (*domain.UploadRequest, error) {
	if path == "" {
		return nil, domain.NewMissingInputError()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &domain.UploadRequest{
		FileName:    filepath.Base(path),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func userMessage(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
