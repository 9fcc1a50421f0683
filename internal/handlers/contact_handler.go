package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/white/crm-backend/internal/events"
	"github.com/white/crm-backend/internal/models"
)

const contactNotFound = "Contact not found"

// ContactHandler handles contact-related HTTP requests
type ContactHandler struct {
	store  ContactStore
	events *events.Publisher
}

// NewContactHandler creates a new contact handler
func NewContactHandler(store ContactStore, publisher *events.Publisher) *ContactHandler {
	return &ContactHandler{
		store:  store,
		events: publisher,
	}
}

// Create godoc
// @Summary Create a new contact
// @Description Creates a contact; the referenced account must exist
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contact body models.ContactInput true "Contact creation request"
// @Success 201 {object} models.Contact
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Failure 422 {object} map[string]string "Validation or reference error"
// @Router /contacts/ [post]
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := in.Validate(); err != nil {
		respondWithValidationError(w, err)
		return
	}

	contact, err := h.store.Create(r.Context(), &in)
	if err != nil {
		respondWithStoreError(w, err, contactNotFound)
		return
	}

	h.events.PublishChange(events.ActionContactCreated, events.EntityContact, contact.ID, "Contact created: "+contact.Name)

	respondWithJSON(w, http.StatusCreated, contact)
}

// List godoc
// @Summary List contacts
// @Tags Contacts
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {array} models.Contact
// @Router /contacts/ [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	contacts, err := h.store.List(r.Context(), skip, limit)
	if err != nil {
		respondWithStoreError(w, err, contactNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, contacts)
}

// Get godoc
// @Summary Get a contact by id
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact id"
// @Success 200 {object} models.Contact
// @Failure 404 {object} map[string]string "Contact not found"
// @Router /contacts/{id} [get]
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	contact, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, err, contactNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, contact)
}

// Update godoc
// @Summary Replace a contact
// @Description Full-field replace; the referenced account must exist
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact id"
// @Param contact body models.ContactInput true "Replacement fields"
// @Success 200 {object} models.Contact
// @Failure 404 {object} map[string]string "Contact not found"
// @Router /contacts/{id} [put]
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in models.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := in.Validate(); err != nil {
		respondWithValidationError(w, err)
		return
	}

	contact, err := h.store.Update(r.Context(), id, &in)
	if err != nil {
		respondWithStoreError(w, err, contactNotFound)
		return
	}

	h.events.PublishChange(events.ActionContactUpdated, events.EntityContact, contact.ID, "Contact updated: "+contact.Name)

	respondWithJSON(w, http.StatusOK, contact)
}

// Delete godoc
// @Summary Delete a contact
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Contact not found"
// @Router /contacts/{id} [delete]
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondWithStoreError(w, err, contactNotFound)
		return
	}

	h.events.PublishChange(events.ActionContactDeleted, events.EntityContact, id, "Contact deleted")

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Contact deleted"})
}

// Search godoc
// @Summary Search contacts by name
// @Description Case-insensitive substring match on the name field
// @Tags Contacts
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} models.Contact
// @Router /contacts/search/ [get]
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	contacts, err := h.store.SearchByName(r.Context(), term)
	if err != nil {
		respondWithStoreError(w, err, contactNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, contacts)
}

// Filter godoc
// @Summary Filter contacts by status and role
// @Description Exact status match plus case-insensitive role_title substring; criteria compose with AND
// @Tags Contacts
// @Produce json
// @Param status query string false "Pipeline status"
// @Param role query string false "Role title substring"
// @Success 200 {array} models.Contact
// @Router /contacts/filter/ [get]
func (h *ContactHandler) Filter(w http.ResponseWriter, r *http.Request) {
	status := models.Status(r.URL.Query().Get("status"))
	role := r.URL.Query().Get("role")

	contacts, err := h.store.Filter(r.Context(), status, role)
	if err != nil {
		respondWithStoreError(w, err, contactNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, contacts)
}
