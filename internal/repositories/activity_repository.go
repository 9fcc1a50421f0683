package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/white/crm-backend/internal/models"
	"github.com/white/crm-backend/pkg/mongodb"
	"github.com/white/crm-backend/pkg/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoActivityRepository handles activity data access with MongoDB. It holds
// the accounts and contacts collections to enforce references and to stamp
// the owning account's last_activity_at on create.
type MongoActivityRepository struct {
	client             *mongodb.Client
	collection         *mongo.Collection
	accountsCollection *mongo.Collection
	contactsCollection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository
func NewMongoActivityRepository(client *mongodb.Client) *MongoActivityRepository {
	return &MongoActivityRepository{
		client:             client,
		collection:         client.Collection("activities"),
		accountsCollection: client.Collection("accounts"),
		contactsCollection: client.Collection("contacts"),
	}
}

// Create assigns id and created_at, persists, and returns the stored activity.
// The referenced account (and contact, when given) must exist. After the
// insert it sets the account's last_activity_at as a second write; the two
// writes are not atomic and the stamp is best-effort.
func (r *MongoActivityRepository) Create(ctx context.Context, in *models.ActivityInput) (*models.Activity, error) {
	if err := r.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	activity := &models.Activity{
		ID:        uuid.MustNewUUID(),
		CreatedAt: now,
	}
	in.Apply(activity)

	if _, err := r.collection.InsertOne(ctx, activity); err != nil {
		return nil, fmt.Errorf("error creating activity: %w", err)
	}

	_, err := r.accountsCollection.UpdateOne(ctx,
		bson.M{"_id": activity.AccountID},
		bson.M{"$set": bson.M{"last_activity_at": now}},
	)
	if err != nil {
		log.Printf("failed to stamp last_activity_at for account %s: %v", activity.AccountID, err)
	}

	return activity, nil
}

// GetByID retrieves an activity by its id
func (r *MongoActivityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	var activity models.Activity
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, WrapNotFound(err, ErrActivityNotFound)
		}
		return nil, fmt.Errorf("error querying activity: %w", err)
	}

	return &activity, nil
}

// List retrieves activities in insertion order with offset-limit pagination
func (r *MongoActivityRepository) List(ctx context.Context, skip, limit int) ([]*models.Activity, error) {
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	return r.find(ctx, bson.M{}, opts)
}

// ListAll retrieves every activity unpaginated, for export
func (r *MongoActivityRepository) ListAll(ctx context.Context) ([]*models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

// Update replaces every input-shaped field; activities carry no updated_at.
// References are re-checked against the replacement values.
func (r *MongoActivityRepository) Update(ctx context.Context, id string, in *models.ActivityInput) (*models.Activity, error) {
	activity, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	in.Apply(activity)

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, activity)
	if err != nil {
		return nil, fmt.Errorf("error updating activity: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, WrapNotFound(mongo.ErrNoDocuments, ErrActivityNotFound)
	}

	return activity, nil
}

// Delete removes an activity by id
func (r *MongoActivityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting activity: %w", err)
	}
	if result.DeletedCount == 0 {
		return WrapNotFound(mongo.ErrNoDocuments, ErrActivityNotFound)
	}

	return nil
}

// CountCreatedBetween counts activities with created_at in [since, until)
func (r *MongoActivityRepository) CountCreatedBetween(ctx context.Context, since, until time.Time) (int64, error) {
	filter := bson.M{
		"created_at": bson.M{
			"$gte": since,
			"$lt":  until,
		},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting recent activities: %w", err)
	}

	return count, nil
}

// ContactIDsWithFollowUpDue returns the distinct contact ids of activities
// whose follow_up_at falls on or before the cutoff
func (r *MongoActivityRepository) ContactIDsWithFollowUpDue(ctx context.Context, until time.Time) ([]string, error) {
	filter := bson.M{
		"contact_id":   bson.M{"$nin": bson.A{nil, ""}},
		"follow_up_at": bson.M{"$ne": nil, "$lte": until},
	}

	values, err := r.collection.Distinct(ctx, "contact_id", filter)
	if err != nil {
		return nil, fmt.Errorf("error finding contacts with follow-ups due: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func (r *MongoActivityRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Activity, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing activities: %w", err)
	}
	defer cursor.Close(ctx)

	activities := []*models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("error decoding activities: %w", err)
	}

	return activities, nil
}

// checkRefs verifies the referenced account, and contact when present, exist
func (r *MongoActivityRepository) checkRefs(ctx context.Context, in *models.ActivityInput) error {
	count, err := r.accountsCollection.CountDocuments(ctx, bson.M{"_id": in.AccountID})
	if err != nil {
		return fmt.Errorf("error checking account reference: %w", err)
	}
	if count == 0 {
		return wrapInvalidReference("account_id", in.AccountID)
	}

	if in.ContactID != "" {
		count, err := r.contactsCollection.CountDocuments(ctx, bson.M{"_id": in.ContactID})
		if err != nil {
			return fmt.Errorf("error checking contact reference: %w", err)
		}
		if count == 0 {
			return wrapInvalidReference("contact_id", in.ContactID)
		}
	}

	return nil
}
