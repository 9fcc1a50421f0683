package repositories

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Common repository errors
var (
	// ErrNotFound is returned when a document is not found
	ErrNotFound = mongo.ErrNoDocuments

	// ErrInvalidReference is returned when a referenced entity does not exist
	ErrInvalidReference = errors.New("invalid reference")
)

// Domain-specific "not found" errors
// These errors wrap mongo.ErrNoDocuments to provide domain context
var (
	// ErrAccountNotFound is returned when an account is not found
	ErrAccountNotFound = errors.New("account not found")

	// ErrContactNotFound is returned when a contact is not found
	ErrContactNotFound = errors.New("contact not found")

	// ErrActivityNotFound is returned when an activity is not found
	ErrActivityNotFound = errors.New("activity not found")
)

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidReference checks if an error indicates a dangling account/contact id
func IsInvalidReference(err error) bool {
	return errors.Is(err, ErrInvalidReference)
}

// WrapNotFound wraps mongo.ErrNoDocuments with a domain-specific error.
// This preserves the original MongoDB error while adding domain context.
//
// Usage in repository methods:
//
//	var account models.Account
//	err := r.collection.FindOne(ctx, filter).Decode(&account)
//	if err == mongo.ErrNoDocuments {
//	    return nil, WrapNotFound(err, ErrAccountNotFound)
//	}
func WrapNotFound(err error, domainErr error) error {
	if err == nil {
		return nil
	}
	// Only wrap if it's actually a "not found" error
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %w", domainErr, err)
	}
	// Return original error if it's not a "not found" error
	return err
}

// wrapInvalidReference marks a dangling foreign id with the field that held it
func wrapInvalidReference(field, id string) error {
	return fmt.Errorf("%w: %s %q references nothing", ErrInvalidReference, field, id)
}
