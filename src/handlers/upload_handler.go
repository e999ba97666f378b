package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/anchorcomply/backend/src/config"
	"github.com/username/anchorcomply/backend/src/logger"
	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/security/validation"
	"github.com/username/anchorcomply/backend/src/services"
	"github.com/username/anchorcomply/backend/src/utils"
)

type UploadHandler struct {
	auditService services.AuditService
}

func NewUploadHandler(service services.AuditService) *UploadHandler {
	return &UploadHandler{auditService: service}
}

// HandleUpload receives one dataset (sales, gstr1 or gstr3b) as a multipart
// file, validates it, and returns the session ID plus the suggested mapping
// and a preview for the mapping UI. The caller passes an existing session ID
// in the "session_id" form field to add further datasets to the same session.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	kind := models.DatasetKind(r.PathValue("kind"))
	if !kind.Valid() {
		utils.SendJSONError(w, fmt.Sprintf("unknown dataset kind %q; expected sales, gstr1 or gstr3b", kind), http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "kind", kind, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)",
			config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "kind", kind, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB",
			config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	format, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		logger.L.Warn("File content validation failed", "kind", kind, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := r.FormValue("session_id")
	result, err := h.auditService.UploadDataset(sessionID, kind, format, file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParsingFailed):
			logger.L.Warn("Upload parsing failed", "kind", kind, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing file: %v", err), http.StatusBadRequest)
		case errors.Is(err, services.ErrSessionNotFound):
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		default:
			logger.L.Error("Internal error processing upload", "kind", kind, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding upload result", "sessionID", result.SessionID, "error", err)
	}
}
