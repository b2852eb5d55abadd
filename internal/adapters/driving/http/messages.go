package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

// streamErrorTrailer carries a failure that happened after the answer
// stream started, when the status code is already sent.
const streamErrorTrailer = "X-Stream-Error"

// MessagePageResponse is one page of history, newest first
// @Description Page of messages
type MessagePageResponse struct {
	Messages   []*domain.Message `json:"messages"`
	NextCursor *string           `json:"nextCursor"`
}

// handleListMessages godoc
// @Summary      List messages
// @Description  Keyset-paginated history of a document, newest first
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "Document ID"
// @Param        limit   query  int     false  "Page size (1-100, default 10)"
// @Param        cursor  query  string  false  "ID of the last message of the previous page"
// @Success      200  {object}  MessagePageResponse
// @Failure      400  {object}  ErrorResponse  "Invalid limit or cursor"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id}/messages [get]
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	page, err := s.chatService.ListMessages(r.Context(), authCtx.UserID, r.PathValue("id"), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := MessagePageResponse{Messages: page.Messages, NextCursor: page.NextCursor}
	if resp.Messages == nil {
		resp.Messages = []*domain.Message{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSendMessage godoc
// @Summary      Ask a question
// @Description  Stores the question and streams the answer as plain text. A failure after streaming began is reported in the X-Stream-Error trailer.
// @Tags         Chat
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        request  body  domain.SendMessageRequest  true  "Question"
// @Success      200  {string}  string  "Answer text, streamed"
// @Failure      400  {object}  ErrorResponse  "Invalid request body"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      422  {object}  ErrorResponse  "Document has not finished ingestion"
// @Failure      502  {object}  ErrorResponse  "Retrieval or generation failed"
// @Router       /messages [post]
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stream, err := s.chatService.SendMessage(r.Context(), authCtx.UserID, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer func() { _ = stream.Close() }()

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Trailer", streamErrorTrailer)
	w.WriteHeader(http.StatusOK)
	_ = rc.Flush()

	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			s.logger.Warn("answer stream interrupted", "file_id", req.FileID, "error", err)
			w.Header().Set(streamErrorTrailer, err.Error())
			return
		}
		if _, err := io.WriteString(w, delta); err != nil {
			// Client went away; Close commits what was generated.
			return
		}
		_ = rc.Flush()
	}
}
