package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/white/crm-backend/internal/models"
	"github.com/white/crm-backend/pkg/mongodb"
	"github.com/white/crm-backend/pkg/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContactRepository handles contact data access with MongoDB. It holds
// the accounts collection so it can enforce the account_id reference on
// create and replace.
type MongoContactRepository struct {
	client             *mongodb.Client
	collection         *mongo.Collection
	accountsCollection *mongo.Collection
}

// NewMongoContactRepository creates a new MongoContactRepository
func NewMongoContactRepository(client *mongodb.Client) *MongoContactRepository {
	return &MongoContactRepository{
		client:             client,
		collection:         client.Collection("contacts"),
		accountsCollection: client.Collection("accounts"),
	}
}

// Create assigns id and timestamps, persists, and returns the stored contact.
// The referenced account must exist.
func (r *MongoContactRepository) Create(ctx context.Context, in *models.ContactInput) (*models.Contact, error) {
	if err := r.checkAccountRef(ctx, in.AccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	contact := &models.Contact{
		ID:        uuid.MustNewUUID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(contact)

	if _, err := r.collection.InsertOne(ctx, contact); err != nil {
		return nil, fmt.Errorf("error creating contact: %w", err)
	}

	return contact, nil
}

// GetByID retrieves a contact by its id
func (r *MongoContactRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	var contact models.Contact
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, WrapNotFound(err, ErrContactNotFound)
		}
		return nil, fmt.Errorf("error querying contact: %w", err)
	}

	return &contact, nil
}

// List retrieves contacts in insertion order with offset-limit pagination
func (r *MongoContactRepository) List(ctx context.Context, skip, limit int) ([]*models.Contact, error) {
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	return r.find(ctx, bson.M{}, opts)
}

// ListAll retrieves every contact unpaginated, for export
func (r *MongoContactRepository) ListAll(ctx context.Context) ([]*models.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

// Update replaces every input-shaped field and refreshes updated_at.
// The referenced account must exist.
func (r *MongoContactRepository) Update(ctx context.Context, id string, in *models.ContactInput) (*models.Contact, error) {
	contact, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.checkAccountRef(ctx, in.AccountID); err != nil {
		return nil, err
	}

	in.Apply(contact)
	contact.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, contact)
	if err != nil {
		return nil, fmt.Errorf("error updating contact: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, WrapNotFound(mongo.ErrNoDocuments, ErrContactNotFound)
	}

	return contact, nil
}

// Delete removes a contact by id
func (r *MongoContactRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting contact: %w", err)
	}
	if result.DeletedCount == 0 {
		return WrapNotFound(mongo.ErrNoDocuments, ErrContactNotFound)
	}

	return nil
}

// SearchByName retrieves contacts whose name contains the term, case-insensitively
func (r *MongoContactRepository) SearchByName(ctx context.Context, term string) ([]*models.Contact, error) {
	filter := bson.M{
		"name": bson.M{
			"$regex":   escapeRegex(term),
			"$options": "i",
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

// Filter retrieves contacts matching an exact status and/or a case-insensitive
// role_title substring. Absent criteria impose no constraint; present criteria
// compose with AND semantics.
func (r *MongoContactRepository) Filter(ctx context.Context, status models.Status, role string) ([]*models.Contact, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if role != "" {
		filter["role_title"] = bson.M{
			"$regex":   escapeRegex(role),
			"$options": "i",
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

// ListForFollowUp retrieves the contacts with the given ids whose status is
// not in the excluded set, in insertion order
func (r *MongoContactRepository) ListForFollowUp(ctx context.Context, ids []string, excluded []models.Status) ([]*models.Contact, error) {
	if len(ids) == 0 {
		return []*models.Contact{}, nil
	}

	filter := bson.M{
		"_id":    bson.M{"$in": ids},
		"status": bson.M{"$nin": excluded},
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

// CountByStatus group-counts contacts by status. Statuses with no rows are
// absent from the map, not zero.
func (r *MongoContactRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.collection, "contact")
}

func (r *MongoContactRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Contact, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := []*models.Contact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("error decoding contacts: %w", err)
	}

	return contacts, nil
}

// checkAccountRef verifies the referenced account exists
func (r *MongoContactRepository) checkAccountRef(ctx context.Context, accountID string) error {
	count, err := r.accountsCollection.CountDocuments(ctx, bson.M{"_id": accountID})
	if err != nil {
		return fmt.Errorf("error checking account reference: %w", err)
	}
	if count == 0 {
		return wrapInvalidReference("account_id", accountID)
	}
	return nil
}
