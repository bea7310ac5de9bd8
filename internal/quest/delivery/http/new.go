package http

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"questboard/internal/agent"
	"questboard/internal/model"
	"questboard/internal/quest"
	"questboard/internal/stream"
	pkgLog "questboard/pkg/log"
)

// Handler is the public interface for the quest HTTP delivery layer.
type Handler interface {
	Get(c *gin.Context)
	Post(c *gin.Context)
}

// ChatOrchestrator runs one agent turn and returns the answer stream.
// Satisfied by *orchestrator.Orchestrator.
type ChatOrchestrator interface {
	ChatTurn(ctx context.Context, sc model.Scope, rec *agent.TurnRecorder, message string) (io.ReadCloser, error)
}

type handler struct {
	l          pkgLog.Logger
	uc         quest.UseCase
	orch       ChatOrchestrator
	compositor *stream.Compositor
}

// New creates a new HTTP handler for the quest domain.
func New(l pkgLog.Logger, uc quest.UseCase, orch ChatOrchestrator, compositor *stream.Compositor) *handler {
	return &handler{
		l:          l,
		uc:         uc,
		orch:       orch,
		compositor: compositor,
	}
}
