package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/white/crm-backend/internal/models"
	"github.com/white/crm-backend/pkg/mongodb"
	"github.com/white/crm-backend/pkg/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAccountRepository handles account data access with MongoDB.
// It also holds the contacts and activities collections so that deleting an
// account cascades to the rows referencing it.
type MongoAccountRepository struct {
	client               *mongodb.Client
	collection           *mongo.Collection
	contactsCollection   *mongo.Collection
	activitiesCollection *mongo.Collection
}

// NewMongoAccountRepository creates a new MongoAccountRepository
func NewMongoAccountRepository(client *mongodb.Client) *MongoAccountRepository {
	return &MongoAccountRepository{
		client:               client,
		collection:           client.Collection("accounts"),
		contactsCollection:   client.Collection("contacts"),
		activitiesCollection: client.Collection("activities"),
	}
}

// Create assigns id and timestamps, persists, and returns the stored account
func (r *MongoAccountRepository) Create(ctx context.Context, in *models.AccountInput) (*models.Account, error) {
	now := time.Now().UTC()
	account := &models.Account{
		ID:        uuid.MustNewUUID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(account)

	if _, err := r.collection.InsertOne(ctx, account); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return account, nil
}

// GetByID retrieves an account by its id
func (r *MongoAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, WrapNotFound(err, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("error querying account: %w", err)
	}

	return &account, nil
}

// List retrieves accounts in insertion order with offset-limit pagination
func (r *MongoAccountRepository) List(ctx context.Context, skip, limit int) ([]*models.Account, error) {
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []*models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("error decoding accounts: %w", err)
	}

	return accounts, nil
}

// ListAll retrieves every account unpaginated, for export
func (r *MongoAccountRepository) ListAll(ctx context.Context) ([]*models.Account, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []*models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("error decoding accounts: %w", err)
	}

	return accounts, nil
}

// Update replaces every input-shaped field and refreshes updated_at
func (r *MongoAccountRepository) Update(ctx context.Context, id string, in *models.AccountInput) (*models.Account, error) {
	account, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Apply(account)
	account.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, account)
	if err != nil {
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, WrapNotFound(mongo.ErrNoDocuments, ErrAccountNotFound)
	}

	return account, nil
}

// Delete removes an account and cascades to its contacts and activities
func (r *MongoAccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	if result.DeletedCount == 0 {
		return WrapNotFound(mongo.ErrNoDocuments, ErrAccountNotFound)
	}

	if _, err := r.contactsCollection.DeleteMany(ctx, bson.M{"account_id": id}); err != nil {
		return fmt.Errorf("error cascading account delete to contacts: %w", err)
	}
	if _, err := r.activitiesCollection.DeleteMany(ctx, bson.M{"account_id": id}); err != nil {
		return fmt.Errorf("error cascading account delete to activities: %w", err)
	}

	return nil
}

// SearchByName retrieves accounts whose name contains the term, case-insensitively
func (r *MongoAccountRepository) SearchByName(ctx context.Context, term string) ([]*models.Account, error) {
	filter := bson.M{
		"name": bson.M{
			"$regex":   escapeRegex(term),
			"$options": "i",
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error searching accounts by name: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []*models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("error decoding accounts: %w", err)
	}

	return accounts, nil
}

// FilterByStatus retrieves accounts with the exact status; an empty status
// imposes no constraint
func (r *MongoAccountRepository) FilterByStatus(ctx context.Context, status models.Status) ([]*models.Account, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error filtering accounts: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []*models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("error decoding accounts: %w", err)
	}

	return accounts, nil
}

// CountByStatus group-counts accounts by status. Statuses with no rows are
// absent from the map, not zero.
func (r *MongoAccountRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.collection, "account")
}

// TouchLastActivity sets last_activity_at; best-effort side effect of
// activity creation, not atomic with the activity write
func (r *MongoAccountRepository) TouchLastActivity(ctx context.Context, id string, at time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_activity_at": at}},
	)
	if err != nil {
		return fmt.Errorf("error touching account last_activity_at: %w", err)
	}
	if result.MatchedCount == 0 {
		return WrapNotFound(mongo.ErrNoDocuments, ErrAccountNotFound)
	}

	return nil
}

// escapeRegex quotes a user-supplied search term so it matches literally
func escapeRegex(term string) string {
	return regexp.QuoteMeta(term)
}

// countByStatus runs the shared $group pipeline for status dashboards
func countByStatus(ctx context.Context, collection *mongo.Collection, entity string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error counting %ss by status: %w", entity, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding %s status counts: %w", entity, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
