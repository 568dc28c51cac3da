package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/viant/classmodel/runner"
)

const (
	exitFailed    = 1
	exitUsage     = 2
	exitCancelled = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config, err := loadConfig(ctx, os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		log.Printf("invalid configuration: %v", err)
		return exitUsage
	}

	progress := make(chan runner.Progress)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range progress {
			if event.Completed == event.Total {
				log.Printf("%s completed", event.Phase)
			}
		}
	}()
	result, err := runner.New(config, runner.WithProgress(progress)).Run(ctx)
	close(progress)
	<-done

	switch result.Status {
	case runner.StatusCancelled:
		log.Printf("cancelled: %v", err)
		return exitCancelled
	case runner.StatusFailed:
		log.Printf("failed: %v", err)
		return exitFailed
	}
	if len(result.Skipped) > 0 {
		log.Printf("WARNING: skipped %d undecodable class entries", len(result.Skipped))
	}
	log.Printf("model %s: %d types from %d primary and %d classpath records", result.Model.Name, result.Model.Len(), result.Primary, result.Classpath)
	if config.Output != "" {
		if result.Saved {
			log.Printf("saved %s (fingerprint %s)", config.Output, result.Fingerprint)
		} else {
			log.Printf("%s is up to date", config.Output)
		}
	}
	return 0
}
