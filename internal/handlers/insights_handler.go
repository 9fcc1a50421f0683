package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/white/crm-backend/internal/cache"
	"github.com/white/crm-backend/internal/models"
)

// followUpExcluded lists the statuses that take a contact off the follow-up
// list regardless of due activities
var followUpExcluded = []models.Status{models.StatusConverted, models.StatusDropped}

// DashboardSummary is the aggregation payload for the dashboard endpoint.
// Status maps carry only statuses that actually occur; absent means zero.
type DashboardSummary struct {
	Accounts            map[string]int64 `json:"accounts"`
	Contacts            map[string]int64 `json:"contacts"`
	ActivitiesLast7Days int64            `json:"activities_last_7_days"`
}

// InsightsHandler serves the cross-entity queries: follow-ups and the
// dashboard aggregation
type InsightsHandler struct {
	accounts   AccountStore
	contacts   ContactStore
	activities ActivityStore
	cache      *cache.DashboardCache
	now        func() time.Time
}

// NewInsightsHandler creates a new insights handler. The cache may be nil.
func NewInsightsHandler(accounts AccountStore, contacts ContactStore, activities ActivityStore, dashboardCache *cache.DashboardCache) *InsightsHandler {
	return &InsightsHandler{
		accounts:   accounts,
		contacts:   contacts,
		activities: activities,
		cache:      dashboardCache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetFollowUps godoc
// @Summary List contacts due for follow-up
// @Description Contacts with an activity whose follow_up_at falls on or before the end of as_of's day, excluding CONVERTED and DROPPED contacts. Distinct by contact.
// @Tags Insights
// @Produce json
// @Param as_of query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {array} models.Contact
// @Failure 400 {object} map[string]string "Invalid as_of date"
// @Router /followups/ [get]
func (h *InsightsHandler) GetFollowUps(w http.ResponseWriter, r *http.Request) {
	asOf := h.now()
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	ids, err := h.activities.ContactIDsWithFollowUpDue(r.Context(), endOfDay(asOf))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	contacts, err := h.contacts.ListForFollowUp(r.Context(), ids, followUpExcluded)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, contacts)
}

// GetDashboard godoc
// @Summary Dashboard aggregation
// @Description Status counts for accounts and contacts plus the number of activities created in the last 7 days
// @Tags Insights
// @Produce json
// @Success 200 {object} DashboardSummary
// @Router /dashboard/ [get]
func (h *InsightsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached DashboardSummary
		if err := h.cache.Get(ctx, &cached); err == nil {
			respondWithJSON(w, http.StatusOK, cached)
			return
		}
	}

	accountCounts, err := h.accounts.CountByStatus(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	contactCounts, err := h.contacts.CountByStatus(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := h.now()
	recentActivities, err := h.activities.CountCreatedBetween(ctx, now.AddDate(0, 0, -7), now)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := DashboardSummary{
		Accounts:            accountCounts,
		Contacts:            contactCounts,
		ActivitiesLast7Days: recentActivities,
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, summary); err != nil {
			log.Printf("failed to cache dashboard summary: %v", err)
		}
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// endOfDay returns the last representable instant of t's UTC day at
// microsecond precision (23:59:59.999999)
func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start.Add(24*time.Hour - time.Microsecond)
}
