package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/white/crm-backend/internal/models"
)

func newTransferFixture() (*TransferHandler, *fakeAccountStore, *fakeContactStore, *fakeActivityStore) {
	accounts := &fakeAccountStore{}
	contacts := &fakeContactStore{accounts: accounts}
	activities := &fakeActivityStore{accounts: accounts, contacts: contacts}
	return NewTransferHandler(accounts, contacts, activities, nil, nil), accounts, contacts, activities
}

// multipartCSV builds a multipart body with the CSV under the "file" field
func multipartCSV(t *testing.T, csvBody string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doImport(t *testing.T, handler http.HandlerFunc, target, csvBody string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartCSV(t, csvBody)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestImportAccountsBestEffort(t *testing.T) {
	h, accounts, _, _ := newTransferFixture()

	csvBody := strings.Join([]string{
		"name,industry,status,notes",
		"Acme,Software,IN_PROGRESS,good fit",
		",Retail,NEW,missing name",
		"Globex,Energy,SOMETHING_ELSE,",
	}, "\n")

	rec := doImport(t, h.ImportAccounts, "/import/accounts/", csvBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var result ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row, "row numbers count data rows from 1")
	assert.Contains(t, result.Errors[0].Err, "name")

	stored, err := accounts.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, models.StatusInProgress, stored[0].Status)
	assert.Equal(t, models.StatusNew, stored[1].Status, "unknown status falls back to NEW")
}

func TestImportContactsDanglingAccountRow(t *testing.T) {
	h, accounts, contacts, _ := newTransferFixture()

	account, err := accounts.Create(context.Background(), &models.AccountInput{Name: "Acme", Status: models.StatusNew})
	require.NoError(t, err)

	csvBody := strings.Join([]string{
		"account_id,name,email,status",
		account.ID + ",Dana,dana@acme.test,NEW",
		"nope,Fox,fox@acme.test,NEW",
	}, "\n")

	rec := doImport(t, h.ImportContacts, "/import/contacts/", csvBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var result ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Err, "account_id")

	stored, err := contacts.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Dana", stored[0].Name)
}

func TestImportMissingFileField(t *testing.T) {
	h, _, _, _ := newTransferFixture()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/accounts/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ImportAccounts(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file")
}

func TestExportAccountsAttachment(t *testing.T) {
	h, accounts, _, _ := newTransferFixture()

	_, err := accounts.Create(context.Background(), &models.AccountInput{Name: "Acme", Industry: "Software", Status: models.StatusNurturing, Notes: "key account"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/export/accounts/", nil)
	rec := httptest.NewRecorder()
	h.ExportAccounts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "accounts.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,name,industry,location,status,notes,created_at,updated_at,last_activity_at", lines[0])
	assert.Contains(t, lines[1], "Acme")
	assert.Contains(t, lines[1], "NURTURING")
}

func TestExportImportRoundTrip(t *testing.T) {
	h, accounts, _, _ := newTransferFixture()

	seed := []models.AccountInput{
		{Name: "Acme", Industry: "Software", Location: "Berlin", Status: models.StatusInProgress, Notes: "notes, with comma"},
		{Name: "Globex", Status: models.StatusNew},
	}
	for i := range seed {
		_, err := accounts.Create(context.Background(), &seed[i])
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/export/accounts/", nil)
	rec := httptest.NewRecorder()
	h.ExportAccounts(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	fresh, freshAccounts, _, _ := newTransferFixture()
	importRec := doImport(t, fresh.ImportAccounts, "/import/accounts/", rec.Body.String())
	require.Equal(t, http.StatusOK, importRec.Code)

	var result ImportResult
	require.NoError(t, json.Unmarshal(importRec.Body.Bytes(), &result))
	require.Equal(t, 2, result.Imported)
	require.Equal(t, 0, result.Failed)

	restored, err := freshAccounts.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, restored, 2)
	for i, account := range restored {
		assert.Equal(t, seed[i].Name, account.Name)
		assert.Equal(t, seed[i].Industry, account.Industry)
		assert.Equal(t, seed[i].Location, account.Location)
		assert.Equal(t, seed[i].Status, account.Status)
		assert.Equal(t, seed[i].Notes, account.Notes)
	}
}
