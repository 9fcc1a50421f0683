package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/white/crm-backend/internal/events"
	"github.com/white/crm-backend/internal/models"
)

const activityNotFound = "Activity not found"

// ActivityHandler handles activity-related HTTP requests
type ActivityHandler struct {
	store  ActivityStore
	events *events.Publisher
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(store ActivityStore, publisher *events.Publisher) *ActivityHandler {
	return &ActivityHandler{
		store:  store,
		events: publisher,
	}
}

// Create godoc
// @Summary Log a new activity
// @Description Creates an activity and stamps the owning account's last_activity_at
// @Tags Activities
// @Accept json
// @Produce json
// @Param activity body models.ActivityInput true "Activity creation request"
// @Success 201 {object} models.Activity
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Failure 422 {object} map[string]string "Validation or reference error"
// @Router /activities/ [post]
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ActivityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := in.Validate(); err != nil {
		respondWithValidationError(w, err)
		return
	}

	activity, err := h.store.Create(r.Context(), &in)
	if err != nil {
		respondWithStoreError(w, err, activityNotFound)
		return
	}

	h.events.PublishChange(events.ActionActivityLogged, events.EntityActivity, activity.ID, "Activity logged for account "+activity.AccountID)

	respondWithJSON(w, http.StatusCreated, activity)
}

// List godoc
// @Summary List activities
// @Tags Activities
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {array} models.Activity
// @Router /activities/ [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	activities, err := h.store.List(r.Context(), skip, limit)
	if err != nil {
		respondWithStoreError(w, err, activityNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, activities)
}

// Get godoc
// @Summary Get an activity by id
// @Tags Activities
// @Produce json
// @Param id path string true "Activity id"
// @Success 200 {object} models.Activity
// @Failure 404 {object} map[string]string "Activity not found"
// @Router /activities/{id} [get]
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	activity, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, err, activityNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, activity)
}

// Update godoc
// @Summary Replace an activity
// @Description Full-field replace; activities keep no updated_at
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path string true "Activity id"
// @Param activity body models.ActivityInput true "Replacement fields"
// @Success 200 {object} models.Activity
// @Failure 404 {object} map[string]string "Activity not found"
// @Router /activities/{id} [put]
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in models.ActivityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := in.Validate(); err != nil {
		respondWithValidationError(w, err)
		return
	}

	activity, err := h.store.Update(r.Context(), id, &in)
	if err != nil {
		respondWithStoreError(w, err, activityNotFound)
		return
	}

	h.events.PublishChange(events.ActionActivityUpdated, events.EntityActivity, activity.ID, "Activity updated")

	respondWithJSON(w, http.StatusOK, activity)
}

// Delete godoc
// @Summary Delete an activity
// @Tags Activities
// @Produce json
// @Param id path string true "Activity id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Activity not found"
// @Router /activities/{id} [delete]
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondWithStoreError(w, err, activityNotFound)
		return
	}

	h.events.PublishChange(events.ActionActivityDeleted, events.EntityActivity, id, "Activity deleted")

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Activity deleted"})
}
