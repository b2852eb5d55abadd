package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/custodia-labs/documentor/internal/core/domain"
)

const (
	uploadFormField = "file"
	signatureHeader = "X-Signature"
	maxWebhookBytes = 64 << 10
	multipartMemory = 1 << 20
	multipartSlack  = 1 << 20
)

// UploadResponse is returned once an upload is stored and queued
// @Description Accepted upload
type UploadResponse struct {
	Key  string `json:"key" example:"6f1c0e0a-1f7e-4c57-9d55-0d6c2b0b4a8e"`
	Name string `json:"name" example:"report.pdf"`
	URL  string `json:"url"`
}

// UploadStatusResponse reports the ingestion state of a document
// @Description Ingestion state
type UploadStatusResponse struct {
	Status domain.UploadStatus `json:"status" example:"PROCESSING"`
}

// uploadCompleteRequest is the storage callback body
type uploadCompleteRequest struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	UserID string `json:"userId"`
}

// handleUpload godoc
// @Summary      Upload a PDF
// @Description  Stores the file and queues ingestion. The size limit depends on the caller's plan.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "PDF file"
// @Success      202   {object}  UploadResponse
// @Failure      400   {object}  ErrorResponse  "Missing file"
// @Failure      401   {object}  ErrorResponse  "Unauthorized"
// @Failure      413   {object}  ErrorResponse  "File too large for plan"
// @Router       /documents [post]
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartSlack)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, domain.ErrFileTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer func() { _ = file.Close() }()

	ref, err := s.docService.Upload(r.Context(), authCtx.UserID, header.Filename, file, header.Size)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, UploadResponse{Key: ref.Key, Name: ref.Name, URL: ref.URL})
}

// handleUploadComplete godoc
// @Summary      Storage upload callback
// @Description  Queues ingestion for a file the storage provider has accepted. The body must be signed with the webhook key.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        X-Signature  header  string  true  "hex HMAC-SHA256 of the body"
// @Success      202  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse  "Invalid request body"
// @Failure      401  {object}  ErrorResponse  "Bad signature"
// @Router       /uploads/complete [post]
func (s *Server) handleUploadComplete(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.webhooks == nil || !s.webhooks.VerifyWebhook(body, r.Header.Get(signatureHeader)) {
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var req uploadCompleteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ref := domain.FileRef{Key: req.Key, Name: req.Name, URL: req.URL}
	if err := s.docService.CompleteUpload(r.Context(), req.UserID, ref); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, StatusResponse{Status: "queued"})
}

// handleListDocuments godoc
// @Summary      List documents
// @Description  Returns the caller's documents, newest first
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Document
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docs, err := s.docService.List(r.Context(), authCtx.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if docs == nil {
		docs = []*domain.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// handleGetDocumentByKey godoc
// @Summary      Get document by storage key
// @Description  Returns 404 until ingestion has created the row
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Storage key"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  ErrorResponse  "Not found"
// @Router       /uploads/{key}/document [get]
func (s *Server) handleGetDocumentByKey(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := s.docService.GetByKey(r.Context(), authCtx.UserID, r.PathValue("key"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocument godoc
// @Summary      Get document
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  ErrorResponse  "Not found"
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := s.docService.Get(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleDocumentStatus godoc
// @Summary      Ingestion status
// @Description  PENDING until the caller's document row exists
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  UploadStatusResponse
// @Router       /documents/{id}/status [get]
func (s *Server) handleDocumentStatus(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := s.docService.Status(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadStatusResponse{Status: status})
}

// handleDeleteDocument godoc
// @Summary      Delete document
// @Description  Removes the row, then its vectors and stored file
// @Tags         Documents
// @Security     BearerAuth
// @Param        id   path  string  true  "Document ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse  "Not found"
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.docService.Delete(r.Context(), authCtx.UserID, r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
