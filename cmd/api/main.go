package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"questboard/config"
	_ "questboard/docs" // Swagger docs
	"questboard/internal/agent"
	"questboard/internal/agent/orchestrator"
	"questboard/internal/agent/tools"
	"questboard/internal/httpserver"
	questHTTP "questboard/internal/quest/delivery/http"
	questUC "questboard/internal/quest/usecase"
	"questboard/internal/session"
	sessionSqlite "questboard/internal/session/repository/sqlite"
	"questboard/internal/stream"
	"questboard/pkg/gcalendar"
	"questboard/pkg/log"
	"questboard/pkg/ollama"
)

// @title       Questboard API
// @description Gamified task tracker with streaks, XP and an LLM chat surface.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Questboard...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Session store and actor registry
	repo, err := sessionSqlite.New(logger, cfg.Storage.SQLitePath)
	if err != nil {
		logger.Errorf(ctx, "Failed to open session store: %v", err)
		return
	}
	defer repo.Close()

	registry, err := session.NewRegistry(logger, repo, cfg.Session.MaxActive)
	if err != nil {
		logger.Errorf(ctx, "Failed to create session registry: %v", err)
		return
	}
	defer registry.Close()

	// 4. Google Calendar client (optional)
	var calendarClient questUC.CalendarClient
	if cfg.GoogleCalendar.CredentialsPath != "" {
		gc, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
		} else {
			logger.Info(ctx, "Google Calendar initialized")
			calendarClient = gc
		}
	}

	// 5. Quest UseCase
	uc := questUC.New(logger, registry, calendarClient, questUC.Config{
		NameMaxLen:        cfg.Session.NameMaxLen,
		DescriptionMaxLen: cfg.Session.DescriptionMaxLen,
		CalendarID:        cfg.GoogleCalendar.CalendarID,
	})

	// 6. Agent: LLM client, tools, orchestrator
	llm := ollama.New(ollama.Config{
		BaseURL:           cfg.Ollama.BaseURL,
		Model:             cfg.Ollama.Model,
		RequestsPerMinute: cfg.Ollama.RequestsPerMinute,
	})

	toolRegistry := agent.NewRegistry()
	toolRegistry.Register(tools.NewGetCurrentTimeTool(uc))
	toolRegistry.Register(tools.NewCreateTaskTool(uc))
	toolRegistry.Register(tools.NewViewTasksTool(uc))

	orch := orchestrator.New(logger, llm, toolRegistry)

	// 7. Stream compositor and HTTP delivery
	compositor := stream.New(logger, stream.Config{
		SettleTimeout: cfg.Session.SettleTimeout,
		MaxBuffer:     cfg.Session.MaxStreamBuffer,
	})
	questHandler := questHTTP.New(logger, uc, orch, compositor)

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:         cfg.HTTPServer.Port,
		Mode:         cfg.HTTPServer.Mode,
		Environment:  cfg.Environment.Name,
		QuestHandler: questHandler,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
