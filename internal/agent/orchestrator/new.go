package orchestrator

import (
	"questboard/internal/agent"
	"questboard/pkg/log"
	"questboard/pkg/ollama"
)

// Orchestrator runs one chat turn: a bounded tool-calling loop against the
// LLM, then a streaming answer pass whose raw body feeds the compositor.
type Orchestrator struct {
	l        log.Logger
	llm      ollama.Client
	registry *agent.Registry
}

// New creates a new Orchestrator.
func New(l log.Logger, llm ollama.Client, registry *agent.Registry) *Orchestrator {
	return &Orchestrator{
		l:        l,
		llm:      llm,
		registry: registry,
	}
}
