package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"studio/backend/internal/interfaces"
	"studio/backend/internal/model"
)

const streamBufferSize = 4096

// ChatHandler serves the demo chat endpoint.
type ChatHandler struct {
	service interfaces.ChatService
}

func NewChatHandler(svc interfaces.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// HandleDemoChat godoc
// @Summary      Stream a demo chat reply
// @Description  Proxies the conversation to the AI gateway with the tier's system prompt and relays the gateway's event stream unchanged.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body      model.DemoChatRequest  true  "Conversation and tier"
// @Success      200      {string}  string                 "OpenAI-compatible chat completion chunks"
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      402      {object}  ErrorResponse
// @Failure      429      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/demo-chat [post]
func (h *ChatHandler) HandleDemoChat(w http.ResponseWriter, r *http.Request) {
	var req model.DemoChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	body, err := h.service.OpenStream(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	defer func() {
		if err := body.Close(); err != nil {
			slog.Warn("Failed to close gateway stream", "error", err)
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	written, err := relay(w, r, body)
	switch {
	case r.Context().Err() != nil:
		slog.Info("Client disconnected from demo chat stream", "bytes", written)
	case err != nil:
		slog.Error("Demo chat stream interrupted", "bytes", written, "error", err)
	default:
		slog.Debug("Finished relaying demo chat stream", "bytes", written)
	}
}

// relay copies src to w, flushing after every write so each gateway chunk
// reaches the client as soon as it arrives.
func relay(w http.ResponseWriter, r *http.Request, src io.Reader) (int64, error) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, streamBufferSize)
	var written int64
	for {
		if r.Context().Err() != nil {
			return written, r.Context().Err()
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			m, werr := w.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, werr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if errors.Is(rerr, io.EOF) {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
