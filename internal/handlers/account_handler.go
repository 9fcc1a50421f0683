package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/white/crm-backend/internal/events"
	"github.com/white/crm-backend/internal/models"
)

const accountNotFound = "Account not found"

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	store  AccountStore
	events *events.Publisher
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(store AccountStore, publisher *events.Publisher) *AccountHandler {
	return &AccountHandler{
		store:  store,
		events: publisher,
	}
}

// Create godoc
// @Summary Create a new account
// @Description Creates an account with status defaulting to NEW
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account body models.AccountInput true "Account creation request"
// @Success 201 {object} models.Account
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Failure 422 {object} map[string]string "Validation error"
// @Router /accounts/ [post]
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := in.Validate(); err != nil {
		respondWithValidationError(w, err)
		return
	}

	account, err := h.store.Create(r.Context(), &in)
	if err != nil {
		respondWithStoreError(w, err, accountNotFound)
		return
	}

	h.events.PublishChange(events.ActionAccountCreated, events.EntityAccount, account.ID, "Account created: "+account.Name)

	respondWithJSON(w, http.StatusCreated, account)
}

// List godoc
// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {array} models.Account
// @Router /accounts/ [get]
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	accounts, err := h.store.List(r.Context(), skip, limit)
	if err != nil {
		respondWithStoreError(w, err, accountNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, accounts)
}

// Get godoc
// @Summary Get an account by id
// @Tags Accounts
// @Produce json
// @Param id path string true "Account id"
// @Success 200 {object} models.Account
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{id} [get]
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	account, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, err, accountNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

// Update godoc
// @Summary Replace an account
// @Description Full-field replace; there are no partial updates
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account id"
// @Param account body models.AccountInput true "Replacement fields"
// @Success 200 {object} models.Account
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{id} [put]
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in models.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := in.Validate(); err != nil {
		respondWithValidationError(w, err)
		return
	}

	account, err := h.store.Update(r.Context(), id, &in)
	if err != nil {
		respondWithStoreError(w, err, accountNotFound)
		return
	}

	h.events.PublishChange(events.ActionAccountUpdated, events.EntityAccount, account.ID, "Account updated: "+account.Name)

	respondWithJSON(w, http.StatusOK, account)
}

// Delete godoc
// @Summary Delete an account
// @Description Deleting an account also removes its contacts and activities
// @Tags Accounts
// @Produce json
// @Param id path string true "Account id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{id} [delete]
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondWithStoreError(w, err, accountNotFound)
		return
	}

	h.events.PublishChange(events.ActionAccountDeleted, events.EntityAccount, id, "Account deleted")

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// Search godoc
// @Summary Search accounts by name
// @Description Case-insensitive substring match on the name field
// @Tags Accounts
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} models.Account
// @Router /accounts/search/ [get]
func (h *AccountHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	accounts, err := h.store.SearchByName(r.Context(), term)
	if err != nil {
		respondWithStoreError(w, err, accountNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, accounts)
}

// Filter godoc
// @Summary Filter accounts by status
// @Description Exact status match; an absent status imposes no constraint
// @Tags Accounts
// @Produce json
// @Param status query string false "Pipeline status"
// @Success 200 {array} models.Account
// @Router /accounts/filter/ [get]
func (h *AccountHandler) Filter(w http.ResponseWriter, r *http.Request) {
	status := models.Status(r.URL.Query().Get("status"))

	accounts, err := h.store.FilterByStatus(r.Context(), status)
	if err != nil {
		respondWithStoreError(w, err, accountNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, accounts)
}
