// Package transfer maps CRM entities to and from row-oriented CSV for the
// bulk import/export endpoints.
package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/white/crm-backend/internal/models"
)

// RowError reports a single malformed import row. Row is 1-based over data
// rows; the header row is not counted.
type RowError struct {
	Row int    `json:"row"`
	Err string `json:"error"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Err)
}

// AccountRow pairs a parsed import payload with its source row number
type AccountRow struct {
	Row   int
	Input *models.AccountInput
}

// ContactRow pairs a parsed import payload with its source row number
type ContactRow struct {
	Row   int
	Input *models.ContactInput
}

// ReadAccounts parses a header-driven accounts CSV. Rows that cannot be read
// are reported individually; the rest parse. Optional columns default to
// empty, and an unknown status value falls back to NEW.
func ReadAccounts(r io.Reader) ([]AccountRow, []RowError, error) {
	records, rowErrs, header, err := readRows(r)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]AccountRow, 0, len(records))
	for _, rec := range records {
		in := &models.AccountInput{
			Name:     rec.get(header, "name"),
			Industry: rec.get(header, "industry"),
			Location: rec.get(header, "location"),
			Status:   lenientStatus(rec.get(header, "status")),
			Notes:    rec.get(header, "notes"),
		}
		rows = append(rows, AccountRow{Row: rec.row, Input: in})
	}

	return rows, rowErrs, nil
}

// ReadContacts parses a header-driven contacts CSV with the same per-row
// leniency rules as ReadAccounts
func ReadContacts(r io.Reader) ([]ContactRow, []RowError, error) {
	records, rowErrs, header, err := readRows(r)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]ContactRow, 0, len(records))
	for _, rec := range records {
		in := &models.ContactInput{
			AccountID:  rec.get(header, "account_id"),
			Name:       rec.get(header, "name"),
			RoleTitle:  rec.get(header, "role_title"),
			Department: rec.get(header, "department"),
			Email:      rec.get(header, "email"),
			Phone:      rec.get(header, "phone"),
			Seniority:  rec.get(header, "seniority"),
			Status:     lenientStatus(rec.get(header, "status")),
		}
		rows = append(rows, ContactRow{Row: rec.row, Input: in})
	}

	return rows, rowErrs, nil
}

// WriteAccounts writes every account as CSV, enum and timestamp fields
// rendered as their bare string forms
func WriteAccounts(w io.Writer, accounts []*models.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "name", "industry", "location", "status", "notes", "created_at", "updated_at", "last_activity_at"}); err != nil {
		return fmt.Errorf("error writing accounts header: %w", err)
	}

	for _, a := range accounts {
		record := []string{
			a.ID,
			a.Name,
			a.Industry,
			a.Location,
			string(a.Status),
			a.Notes,
			formatTime(a.CreatedAt),
			formatTime(a.UpdatedAt),
			formatTimePtr(a.LastActivityAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing account row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteContacts writes every contact as CSV
func WriteContacts(w io.Writer, contacts []*models.Contact) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "account_id", "name", "role_title", "department", "email", "phone", "seniority", "status", "created_at", "updated_at"}); err != nil {
		return fmt.Errorf("error writing contacts header: %w", err)
	}

	for _, c := range contacts {
		record := []string{
			c.ID,
			c.AccountID,
			c.Name,
			c.RoleTitle,
			c.Department,
			c.Email,
			c.Phone,
			c.Seniority,
			string(c.Status),
			formatTime(c.CreatedAt),
			formatTime(c.UpdatedAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing contact row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteActivities writes every activity as CSV
func WriteActivities(w io.Writer, activities []*models.Activity) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "account_id", "contact_id", "type", "outcome", "remarks", "follow_up_at", "priority", "created_at"}); err != nil {
		return fmt.Errorf("error writing activities header: %w", err)
	}

	for _, a := range activities {
		record := []string{
			a.ID,
			a.AccountID,
			a.ContactID,
			string(a.Type),
			string(a.Outcome),
			a.Remarks,
			formatTimePtr(a.FollowUpAt),
			string(a.Priority),
			formatTime(a.CreatedAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing activity row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

type record struct {
	row    int
	fields []string
}

// get returns the named column's value for this record, or "" when the
// column is absent
func (r record) get(header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

// readRows reads the header and all data rows, reporting unreadable rows
// individually instead of aborting the batch
func readRows(r io.Reader) ([]record, []RowError, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headerFields, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	header := make(map[string]int, len(headerFields))
	for i, name := range headerFields {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var records []record
	var rowErrs []RowError
	row := 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: row, Err: err.Error()})
			continue
		}
		records = append(records, record{row: row, fields: fields})
	}

	return records, rowErrs, header, nil
}

// lenientStatus upper-cases and parses a status cell, falling back to NEW
// when the value does not name an enum member. The parse itself stays strict;
// the default is applied here, at the import boundary.
func lenientStatus(value string) models.Status {
	if value == "" {
		return models.StatusNew
	}
	status, err := models.ParseStatus(strings.ToUpper(value))
	if err != nil {
		return models.StatusNew
	}
	return status
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
