package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/anchorcomply/backend/src/audit"
	"github.com/username/anchorcomply/backend/src/config"
	"github.com/username/anchorcomply/backend/src/logger"
	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/report"
	"github.com/username/anchorcomply/backend/src/services"
)

func TestMain(m *testing.M) {
	config.LoadConfig()
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const salesCSV = `invoice_no,date,customer_gstin,taxable_value
INV-1,2024-01-05,29ABC,1000
INV-2,2024-01-09,29ABC,2000
`

const filingCSV = `invoice_no,date,taxable_value
INV-1,2024-01-05,1000
`

// newTestMux wires the handlers with the same route patterns main registers,
// so r.PathValue resolves the way it does in production.
func newTestMux() *http.ServeMux {
	store := cache.New(time.Minute, time.Minute)
	svc := services.NewAuditService(store,
		audit.NewEngine(audit.DefaultConfig()),
		report.NewAssembler(report.Options{}),
		config.Cfg.FuzzyMatchCutoff)

	uploadHandler := NewUploadHandler(svc)
	auditHandler := NewAuditHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/datasets/{kind}", uploadHandler.HandleUpload)
	mux.HandleFunc("PUT /api/sessions/{id}/datasets/{kind}/mapping", auditHandler.HandleSetMapping)
	mux.HandleFunc("POST /api/sessions/{id}/audit", auditHandler.HandleRunAudit)
	mux.HandleFunc("GET /api/sessions/{id}/report", auditHandler.HandleGetReport)
	return mux
}

func multipartUpload(t *testing.T, sessionID, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if sessionID != "" {
		require.NoError(t, writer.WriteField("session_id", sessionID))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func uploadDataset(t *testing.T, mux *http.ServeMux, sessionID string, kind models.DatasetKind, content string) services.UploadResult {
	t.Helper()
	body, contentType := multipartUpload(t, sessionID, string(kind)+".csv", content)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+string(kind), body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result services.UploadResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	return result
}

func TestHandleUpload(t *testing.T) {
	mux := newTestMux()

	result := uploadDataset(t, mux, "", models.DatasetSales, salesCSV)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, models.DatasetSales, result.Kind)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, "customer_gstin", result.Suggested.Column(models.FieldCustomerID))
	assert.Len(t, result.Preview, 2)
}

func TestHandleUpload_UnknownKind(t *testing.T) {
	mux := newTestMux()
	body, contentType := multipartUpload(t, "", "payroll.csv", salesCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/payroll", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown dataset kind")
}

func TestHandleUpload_UnknownSession(t *testing.T) {
	mux := newTestMux()
	body, contentType := multipartUpload(t, "no-such-session", "sales.csv", salesCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/sales", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleUpload_RejectsBinaryGarbage(t *testing.T) {
	mux := newTestMux()
	// A PNG signature is neither a ZIP container nor text.
	body, contentType := multipartUpload(t, "", "sales.csv", "\x89PNG\r\n\x1a\n0000")
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/sales", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleSetMapping(t *testing.T) {
	mux := newTestMux()
	uploaded := uploadDataset(t, mux, "", models.DatasetSales, salesCSV)

	payload := `{"overrides":{"customer_id":"invoice_no"}}`
	url := fmt.Sprintf("/api/sessions/%s/datasets/sales/mapping", uploaded.SessionID)
	req := httptest.NewRequest(http.MethodPut, url, strings.NewReader(payload))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var mapping models.FieldMapping
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&mapping))
	assert.Equal(t, "invoice_no", mapping.Column(models.FieldCustomerID))
}

func TestHandleSetMapping_BadRequests(t *testing.T) {
	mux := newTestMux()
	uploaded := uploadDataset(t, mux, "", models.DatasetSales, salesCSV)

	// Malformed body.
	url := fmt.Sprintf("/api/sessions/%s/datasets/sales/mapping", uploaded.SessionID)
	req := httptest.NewRequest(http.MethodPut, url, strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Column that does not exist in the uploaded table.
	req = httptest.NewRequest(http.MethodPut, url, strings.NewReader(`{"overrides":{"customer_id":"ghost"}}`))
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown session.
	req = httptest.NewRequest(http.MethodPut, "/api/sessions/gone/datasets/sales/mapping",
		strings.NewReader(`{"overrides":{}}`))
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleRunAudit(t *testing.T) {
	mux := newTestMux()
	uploaded := uploadDataset(t, mux, "", models.DatasetSales, salesCSV)
	uploadDataset(t, mux, uploaded.SessionID, models.DatasetFilingExtract, filingCSV)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/sessions/%s/audit", uploaded.SessionID), nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("ETag"))

	var result models.AuditResult
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	// INV-2 has no counterpart in the filing extract.
	assert.Equal(t, 1, result.Summary.TotalMismatches)
	assert.Equal(t, 2, result.Summary.SalesRecords)
}

func TestHandleRunAudit_WithoutSalesDataset(t *testing.T) {
	mux := newTestMux()
	uploaded := uploadDataset(t, mux, "", models.DatasetFilingExtract, filingCSV)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/sessions/%s/audit", uploaded.SessionID), nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "sales")
}

func TestHandleGetReport(t *testing.T) {
	mux := newTestMux()
	uploaded := uploadDataset(t, mux, "", models.DatasetSales, salesCSV)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/sessions/%s/report", uploaded.SessionID), nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "anchorcomply_report.pdf")
	assert.Equal(t, "%PDF", rr.Body.String()[:4])
}

func TestHandleGetReport_UnknownSession(t *testing.T) {
	mux := newTestMux()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/gone/report", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
