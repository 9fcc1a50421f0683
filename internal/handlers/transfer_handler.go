package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/white/crm-backend/internal/cache"
	"github.com/white/crm-backend/internal/events"
	"github.com/white/crm-backend/internal/transfer"
)

const maxImportSize = 10 << 20 // 10 MB multipart memory cap

// ImportResult reports the outcome of a bulk import. The contract is
// best-effort per row: valid rows persist, failures are listed with their
// source row number.
type ImportResult struct {
	Imported int                 `json:"imported"`
	Failed   int                 `json:"failed"`
	Errors   []transfer.RowError `json:"errors,omitempty"`
}

// TransferHandler handles CSV import and export requests
type TransferHandler struct {
	accounts   AccountStore
	contacts   ContactStore
	activities ActivityStore
	events     *events.Publisher
	cache      *cache.DashboardCache
}

// NewTransferHandler creates a new transfer handler. The cache may be nil.
func NewTransferHandler(accounts AccountStore, contacts ContactStore, activities ActivityStore, publisher *events.Publisher, dashboardCache *cache.DashboardCache) *TransferHandler {
	return &TransferHandler{
		accounts:   accounts,
		contacts:   contacts,
		activities: activities,
		events:     publisher,
		cache:      dashboardCache,
	}
}

// ImportAccounts godoc
// @Summary Import accounts from CSV
// @Description Multipart CSV upload; rows import best-effort with per-row errors
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string "Missing or unreadable file"
// @Router /import/accounts/ [post]
func (h *TransferHandler) ImportAccounts(w http.ResponseWriter, r *http.Request) {
	file, ok := openImportFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	rows, rowErrs, err := transfer.ReadAccounts(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := ImportResult{Errors: rowErrs}
	for _, row := range rows {
		if err := row.Input.Validate(); err != nil {
			result.Errors = append(result.Errors, transfer.RowError{Row: row.Row, Err: err.Error()})
			continue
		}
		if _, err := h.accounts.Create(r.Context(), row.Input); err != nil {
			result.Errors = append(result.Errors, transfer.RowError{Row: row.Row, Err: err.Error()})
			continue
		}
		result.Imported++
	}
	result.Failed = len(result.Errors)

	h.events.PublishImport(events.ActionAccountsImported, result.Imported, result.Failed)
	h.invalidateDashboard(r)

	respondWithJSON(w, http.StatusOK, result)
}

// ImportContacts godoc
// @Summary Import contacts from CSV
// @Description Multipart CSV upload; rows import best-effort with per-row errors
// @Tags Transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string "Missing or unreadable file"
// @Router /import/contacts/ [post]
func (h *TransferHandler) ImportContacts(w http.ResponseWriter, r *http.Request) {
	file, ok := openImportFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	rows, rowErrs, err := transfer.ReadContacts(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := ImportResult{Errors: rowErrs}
	for _, row := range rows {
		if err := row.Input.Validate(); err != nil {
			result.Errors = append(result.Errors, transfer.RowError{Row: row.Row, Err: err.Error()})
			continue
		}
		if _, err := h.contacts.Create(r.Context(), row.Input); err != nil {
			result.Errors = append(result.Errors, transfer.RowError{Row: row.Row, Err: err.Error()})
			continue
		}
		result.Imported++
	}
	result.Failed = len(result.Errors)

	h.events.PublishImport(events.ActionContactsImported, result.Imported, result.Failed)
	h.invalidateDashboard(r)

	respondWithJSON(w, http.StatusOK, result)
}

// ExportAccounts godoc
// @Summary Export all accounts as CSV
// @Tags Transfer
// @Produce text/csv
// @Success 200 {string} string "CSV attachment"
// @Router /export/accounts/ [get]
func (h *TransferHandler) ExportAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAll(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeCSVHeaders(w, "accounts.csv")
	if err := transfer.WriteAccounts(w, accounts); err != nil {
		log.Printf("failed to stream accounts export: %v", err)
	}
}

// ExportContacts godoc
// @Summary Export all contacts as CSV
// @Tags Transfer
// @Produce text/csv
// @Success 200 {string} string "CSV attachment"
// @Router /export/contacts/ [get]
func (h *TransferHandler) ExportContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.ListAll(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeCSVHeaders(w, "contacts.csv")
	if err := transfer.WriteContacts(w, contacts); err != nil {
		log.Printf("failed to stream contacts export: %v", err)
	}
}

// ExportActivities godoc
// @Summary Export all activities as CSV
// @Tags Transfer
// @Produce text/csv
// @Success 200 {string} string "CSV attachment"
// @Router /export/activities/ [get]
func (h *TransferHandler) ExportActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activities.ListAll(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeCSVHeaders(w, "activities.csv")
	if err := transfer.WriteActivities(w, activities); err != nil {
		log.Printf("failed to stream activities export: %v", err)
	}
}

// openImportFile extracts the uploaded CSV from the multipart form, writing
// the error response itself on failure
func openImportFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, false
	}

	f, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field")
		return nil, false
	}

	return f, true
}

// writeCSVHeaders marks the response as a downloadable CSV attachment. The
// export streams straight to the response; no shared server-side file.
func writeCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
}

// invalidateDashboard drops the cached summary after bulk writes
func (h *TransferHandler) invalidateDashboard(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		log.Printf("failed to invalidate dashboard cache: %v", err)
	}
}
