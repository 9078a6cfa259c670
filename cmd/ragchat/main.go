// Command ragchat is a retrieval-augmented chatbot for the UCSB nanofab
// wiki. It wires the config store, corpus storage, AI providers, and
// core services together and hands them to the CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/adapters/driven/ai"
	configfile "github.com/SamiaIslam22/ucsb-rag-chatbot/internal/adapters/driven/config/file"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/adapters/driven/storage/csvfile"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/adapters/driven/storage/sqlite"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/adapters/driven/storage/watch"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/adapters/driving/cli"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/services"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("init config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	chunkStore, err := sqlite.NewStore(settings.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("open corpus store: %w", err)
	}
	defer func() {
		if err := chunkStore.Close(); err != nil {
			logger.Warn("Closing corpus store: %v", err)
		}
	}()

	// Providers are optional; unconfigured ones come back nil and the
	// services degrade to clear errors for the operations that need them.
	embedService, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		return fmt.Errorf("init embedding provider: %w", err)
	}
	if embedService != nil {
		defer embedService.Close()
	}

	llmService, err := ai.CreateLLMService(settings.LLM)
	if err != nil {
		return fmt.Errorf("init LLM provider: %w", err)
	}
	if llmService != nil {
		defer llmService.Close()
	}

	formatter := services.NewFormatter()
	retrieval := services.NewRetrievalEngine(chunkStore, embedService)
	answer := services.NewAnswerService(retrieval, llmService, formatter)
	corpus := services.NewCorpusService(chunkStore, csvfile.NewLoader(), embedService)

	// Auto-reload the corpus when a configured CSV export changes.
	if settings.Storage.Watch && settings.Storage.CSVPath != "" {
		watcher, err := watch.NewWatcher(settings.Storage.CSVPath, func(path string) {
			if _, err := corpus.LoadCSV(ctx, path); err != nil {
				logger.Warn("Reloading %s: %v", path, err)
			}
		})
		if err != nil {
			logger.Warn("Corpus watcher disabled: %v", err)
		} else {
			watcher.Start()
			defer watcher.Stop()
		}
	}

	cli.SetVersion(version)
	cli.SetSearchService(retrieval)
	cli.SetAnswerService(answer)
	cli.SetCorpusService(corpus)
	cli.SetSettingsService(settingsService)
	cli.SetFormatter(formatter)
	cli.SetProviderValidators(
		func(s domain.EmbeddingSettings) error {
			svc, err := ai.CreateAndValidateEmbeddingService(s)
			if err != nil {
				return err
			}
			if svc != nil {
				svc.Close()
			}
			return nil
		},
		func(s domain.LLMSettings) error {
			svc, err := ai.CreateAndValidateLLMService(s)
			if err != nil {
				return err
			}
			if svc != nil {
				svc.Close()
			}
			return nil
		},
	)

	return cli.Execute(ctx)
}
