package http

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"questboard/internal/agent"
	"questboard/internal/model"
	"questboard/internal/quest"
	"questboard/pkg/response"
)

// maxChatBody caps raw chat bodies.
const maxChatBody = 64 << 10

// scope builds the session scope from the routed key and persists the
// x-timezone header if the session has none yet.
func (h *handler) scope(c *gin.Context) model.Scope {
	sc := model.Scope{SessionKey: c.Param("session")}
	if tz := c.GetHeader("x-timezone"); tz != "" {
		if err := h.uc.EnsureTimezone(c.Request.Context(), sc, tz); err != nil {
			h.l.Warnf(c.Request.Context(), "EnsureTimezone: %v", err)
		}
	}
	return sc
}

// Get godoc
// @Summary     Session snapshot or history
// @Description Returns the live quests and progression counters, or with
// @Description ?history=1 the completed-quest ledger plus statistics.
// @Tags        Quest
// @Produce     json
// @Param       session path  string true  "Session key"
// @Param       history query string false "Any non-empty value selects history"
// @Success     200 {object} snapshotResp
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/sessions/{session} [GET]
func (h *handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	sc := h.scope(c)

	if c.Query("history") != "" {
		out, err := h.uc.History(ctx, sc)
		if err != nil {
			h.l.Errorf(ctx, "uc.History: %v", err)
			h.respondError(c, err)
			return
		}
		c.JSON(200, newHistoryResp(out))
		return
	}

	snap, err := h.uc.Snapshot(ctx, sc)
	if err != nil {
		h.l.Errorf(ctx, "uc.Snapshot: %v", err)
		h.respondError(c, err)
		return
	}
	c.JSON(200, newSnapshotResp(snap))
}

// Post godoc
// @Summary     Tool dispatch or chat turn
// @Description JSON bodies invoke a lifecycle tool directly; any other body
// @Description is a chat message answered over SSE.
// @Tags        Quest
// @Accept      json
// @Produce     json
// @Param       session path string true "Session key"
// @Success     200 {object} toolResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/sessions/{session} [POST]
func (h *handler) Post(c *gin.Context) {
	sc := h.scope(c)

	if strings.HasPrefix(c.ContentType(), "application/json") {
		h.dispatch(c, sc)
		return
	}
	h.chat(c, sc)
}

// dispatch invokes a lifecycle operation directly, bypassing the LLM.
func (h *handler) dispatch(c *gin.Context, sc model.Scope) {
	ctx := c.Request.Context()

	var req toolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, fmt.Errorf("invalid request body: %w", err))
		return
	}

	switch req.Tool {
	case "createTask":
		var input quest.CreateInput
		if err := unmarshalParams(req.Params, &input); err != nil {
			response.Error(c, err)
			return
		}
		task, err := h.uc.Create(ctx, sc, input)
		if err != nil {
			h.l.Warnf(ctx, "uc.Create: %v", err)
			h.respondError(c, err)
			return
		}
		c.JSON(200, newToolResp(&task))

	case "updateTask":
		var input quest.UpdateInput
		if err := unmarshalParams(req.Params, &input); err != nil {
			response.Error(c, err)
			return
		}
		task, err := h.uc.Update(ctx, sc, input)
		if err != nil {
			h.l.Warnf(ctx, "uc.Update: %v", err)
			h.respondError(c, err)
			return
		}
		c.JSON(200, newToolResp(&task))

	case "deleteTask":
		var input quest.DeleteInput
		if err := unmarshalParams(req.Params, &input); err != nil {
			response.Error(c, err)
			return
		}
		if err := h.uc.Delete(ctx, sc, input); err != nil {
			h.l.Warnf(ctx, "uc.Delete: %v", err)
			h.respondError(c, err)
			return
		}
		c.JSON(200, newToolResp(nil))

	default:
		response.Error(c, fmt.Errorf("unknown tool %q", req.Tool))
	}
}

func unmarshalParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("params is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

// chat runs a full agent turn and streams the answer as SSE.
func (h *handler) chat(c *gin.Context, sc model.Scope) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxChatBody))
	if err != nil {
		response.Error(c, fmt.Errorf("reading body: %w", err))
		return
	}
	message := strings.TrimSpace(string(body))
	if message == "" {
		response.Error(c, fmt.Errorf("empty chat message"))
		return
	}

	rec := agent.NewTurnRecorder()
	upstream, err := h.orch.ChatTurn(ctx, sc, rec, message)
	if err != nil {
		h.l.Errorf(ctx, "orchestrator.ChatTurn: %v", err)
		c.JSON(502, response.Resp{Success: false, Error: "upstream unavailable"})
		return
	}
	defer upstream.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(200)
	c.Writer.Flush()

	sink := &sseWriter{c: c}
	if err := h.compositor.Run(ctx, upstream, rec, nil, sink); err != nil {
		// The stream just ends early; headers are long gone.
		h.l.Errorf(ctx, "compositor.Run: %v", err)
	}
}

// sseWriter emits SSE data frames on a gin response writer.
type sseWriter struct {
	c *gin.Context
}

func (w *sseWriter) Emit(data string) error {
	if _, err := fmt.Fprintf(w.c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	w.c.Writer.Flush()
	return nil
}
