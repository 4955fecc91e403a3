package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tensorbridge/internal/domain"
	"tensorbridge/internal/infra"
	"tensorbridge/internal/providers/tensorart"
)

// apicheck verifies credentials and connectivity against the remote API:
// it lists a page of the model catalog and, with -submit, runs one small
// generation job end to end.
func main() {
	var (
		submitFlag bool
		promptFlag string
	)
	flag.BoolVar(&submitFlag, "submit", false, "submit a small test job and poll it to completion")
	flag.StringVar(&promptFlag, "prompt", "A beautiful sunset over mountains", "prompt for the test job")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	scheme, err := tensorart.SchemeByName(cfg.TamsSigningScheme)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	keyPEM, err := tensorart.LoadKeyMaterial(cfg.TamsPrivateKeyPath, cfg.TamsPrivateKeyBase64)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	client, err := tensorart.NewClient(tensorart.Options{
		AppID:          cfg.TamsAppID,
		APIKey:         cfg.TamsAPIKey,
		PrivateKeyPEM:  keyPEM,
		Endpoint:       cfg.TamsEndpoint,
		Scheme:         scheme,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	models, err := client.ListModels(ctx, 1, 5, "CHECKPOINT")
	if err != nil {
		fmt.Fprintf(os.Stderr, "list models failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("listed %d models\n", len(models))
	for _, m := range models {
		fmt.Printf("  %s  %s (%s)\n", m.ID, m.Name, m.Type)
	}

	if !submitFlag {
		return
	}

	orchestrator := tensorart.NewOrchestrator(tensorart.OrchestratorOptions{
		Client:       client,
		PollInterval: cfg.PollInterval,
		MaxAttempts:  cfg.PollMaxAttempts,
		Logger:       &logger,
	})

	req := domain.JobRequest{
		RequestID: fmt.Sprintf("apicheck-%d", time.Now().UnixNano()),
		Prompt:    promptFlag,
		ModelID:   cfg.TamsModelID,
		Width:     512,
		Height:    512,
		Steps:     20,
	}
	jobID, err := orchestrator.Submit(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "submit failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("submitted job %s\n", jobID)

	job, err := orchestrator.AwaitCompletion(ctx, jobID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "job did not complete: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("job completed: %s\n", job.FirstResourceURL())
}
