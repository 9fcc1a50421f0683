package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountInputValidate(t *testing.T) {
	in := &AccountInput{Name: "Acme"}
	require.NoError(t, in.Validate())
	assert.Equal(t, StatusNew, in.Status, "status defaults to NEW")

	in = &AccountInput{}
	err := in.Validate()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)

	in = &AccountInput{Name: "Acme", Status: "STALE"}
	err = in.Validate()
	require.Error(t, err)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "status", verr.Field)
}

func TestContactInputValidate(t *testing.T) {
	in := &ContactInput{AccountID: "a1", Name: "Dana"}
	require.NoError(t, in.Validate())
	assert.Equal(t, StatusNew, in.Status)

	var verr *ValidationError

	err := (&ContactInput{Name: "Dana"}).Validate()
	require.Error(t, err)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "account_id", verr.Field)

	err = (&ContactInput{AccountID: "a1"}).Validate()
	require.Error(t, err)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
}

func TestActivityInputValidate(t *testing.T) {
	in := &ActivityInput{AccountID: "a1", Outcome: OutcomeReached, Remarks: "called"}
	require.NoError(t, in.Validate())
	assert.Equal(t, ActivityCall, in.Type, "type defaults to CALL")
	assert.Equal(t, PriorityMedium, in.Priority, "priority defaults to MEDIUM")

	var verr *ValidationError

	err := (&ActivityInput{AccountID: "a1", Remarks: "called"}).Validate()
	require.Error(t, err)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "outcome", verr.Field, "outcome has no default")

	err = (&ActivityInput{AccountID: "a1", Outcome: OutcomeReached}).Validate()
	require.Error(t, err)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "remarks", verr.Field)

	err = (&ActivityInput{AccountID: "a1", Outcome: "MAYBE", Remarks: "called"}).Validate()
	require.Error(t, err)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "outcome", verr.Field)
}

func TestAccountInputApplyClearsOmitted(t *testing.T) {
	account := &Account{Name: "Old", Industry: "Retail", Notes: "keep?", Status: StatusInProgress}
	in := &AccountInput{Name: "New", Status: StatusNurturing}
	in.Apply(account)

	assert.Equal(t, "New", account.Name)
	assert.Equal(t, StatusNurturing, account.Status)
	assert.Empty(t, account.Industry)
	assert.Empty(t, account.Notes)
}
