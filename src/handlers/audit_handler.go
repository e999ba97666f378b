package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/anchorcomply/backend/src/logger"
	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/services"
	"github.com/username/anchorcomply/backend/src/utils"
)

type AuditHandler struct {
	auditService services.AuditService
}

func NewAuditHandler(service services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: service}
}

type mappingOverrideRequest struct {
	Overrides map[string]string `json:"overrides"`
}

// HandleSetMapping applies explicit per-field column choices on top of the
// suggested mapping for one of the session's datasets.
func (h *AuditHandler) HandleSetMapping(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	kind := models.DatasetKind(r.PathValue("kind"))

	var req mappingOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid JSON body; expected {\"overrides\": {field: column}}", http.StatusBadRequest)
		return
	}

	mapping, err := h.auditService.SetMappingOverrides(sessionID, kind, req.Overrides)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrUnknownDataset), errors.Is(err, services.ErrInvalidMapping):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			logger.L.Error("Internal error applying mapping overrides", "sessionID", sessionID, "error", err)
			utils.SendJSONError(w, "An internal error occurred.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(mapping)
}

// HandleRunAudit runs all reconciliation checks for a session and returns the
// finding groups plus the summary as JSON, for programmatic consumers.
func (h *AuditHandler) HandleRunAudit(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	result, err := h.auditService.RunAudit(sessionID)
	if err != nil {
		h.sendAuditError(w, sessionID, err)
		return
	}

	if etag, err := utils.GenerateETag(result); err == nil {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding audit result", "sessionID", sessionID, "error", err)
	}
}

// HandleGetReport runs the audit and streams the rendered PDF.
func (h *AuditHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	pdfBytes, err := h.auditService.BuildReport(sessionID)
	if err != nil {
		h.sendAuditError(w, sessionID, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="anchorcomply_report.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	if _, err := w.Write(pdfBytes); err != nil {
		logger.L.Error("Error writing PDF response", "sessionID", sessionID, "error", err)
	}
}

func (h *AuditHandler) sendAuditError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrNoSalesData):
		utils.SendJSONError(w, "Please upload and map your sales/invoices file before running the audit.", http.StatusBadRequest)
	default:
		logger.L.Error("Internal error running audit", "sessionID", sessionID, "error", err)
		utils.SendJSONError(w, "An internal error occurred while running the audit.", http.StatusInternalServerError)
	}
}
