package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, name := range []string{"NEW", "IN_PROGRESS", "NURTURING", "CONVERTED", "DROPPED"} {
		status, err := ParseStatus(name)
		require.NoError(t, err, name)
		assert.Equal(t, Status(name), status)
	}

	for _, name := range []string{"", "new", "CLOSED", "NEW "} {
		_, err := ParseStatus(name)
		assert.Error(t, err, "%q should not parse", name)
	}
}

func TestParseActivityType(t *testing.T) {
	for _, name := range []string{"CALL", "EMAIL", "MEETING", "OTHER"} {
		typ, err := ParseActivityType(name)
		require.NoError(t, err, name)
		assert.Equal(t, ActivityType(name), typ)
	}

	_, err := ParseActivityType("FAX")
	assert.Error(t, err)
}

func TestParseActivityOutcome(t *testing.T) {
	valid := []string{"REACHED", "NOT_REACHABLE", "VOICEMAIL", "CALL_BACK_LATER", "WRONG_NUMBER", "INTERESTED", "NOT_INTERESTED"}
	for _, name := range valid {
		outcome, err := ParseActivityOutcome(name)
		require.NoError(t, err, name)
		assert.Equal(t, ActivityOutcome(name), outcome)
	}

	_, err := ParseActivityOutcome("BUSY")
	assert.Error(t, err)
}

func TestParsePriority(t *testing.T) {
	for _, name := range []string{"LOW", "MEDIUM", "HIGH"} {
		priority, err := ParsePriority(name)
		require.NoError(t, err, name)
		assert.Equal(t, Priority(name), priority)
	}

	_, err := ParsePriority("URGENT")
	assert.Error(t, err)
}

func TestStatusValidClosedSet(t *testing.T) {
	assert.True(t, StatusNurturing.Valid())
	assert.False(t, Status("ARCHIVED").Valid())
	assert.False(t, Status("").Valid())
}
