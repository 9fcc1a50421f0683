package handlers

import (
	"context"
	"time"

	"github.com/white/crm-backend/internal/models"
)

// The store interfaces are the handlers' view of the persistence gateway.
// The mongo repositories satisfy them; tests substitute in-memory fakes.

// AccountStore is the gateway surface for accounts
type AccountStore interface {
	Create(ctx context.Context, in *models.AccountInput) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, skip, limit int) ([]*models.Account, error)
	ListAll(ctx context.Context) ([]*models.Account, error)
	Update(ctx context.Context, id string, in *models.AccountInput) (*models.Account, error)
	Delete(ctx context.Context, id string) error
	SearchByName(ctx context.Context, term string) ([]*models.Account, error)
	FilterByStatus(ctx context.Context, status models.Status) ([]*models.Account, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ContactStore is the gateway surface for contacts
type ContactStore interface {
	Create(ctx context.Context, in *models.ContactInput) (*models.Contact, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	List(ctx context.Context, skip, limit int) ([]*models.Contact, error)
	ListAll(ctx context.Context) ([]*models.Contact, error)
	Update(ctx context.Context, id string, in *models.ContactInput) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
	SearchByName(ctx context.Context, term string) ([]*models.Contact, error)
	Filter(ctx context.Context, status models.Status, role string) ([]*models.Contact, error)
	ListForFollowUp(ctx context.Context, ids []string, excluded []models.Status) ([]*models.Contact, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ActivityStore is the gateway surface for activities
type ActivityStore interface {
	Create(ctx context.Context, in *models.ActivityInput) (*models.Activity, error)
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	List(ctx context.Context, skip, limit int) ([]*models.Activity, error)
	ListAll(ctx context.Context) ([]*models.Activity, error)
	Update(ctx context.Context, id string, in *models.ActivityInput) (*models.Activity, error)
	Delete(ctx context.Context, id string) error
	CountCreatedBetween(ctx context.Context, since, until time.Time) (int64, error)
	ContactIDsWithFollowUpDue(ctx context.Context, until time.Time) ([]string, error)
}
