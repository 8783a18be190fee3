package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADCairex/dashboard-app/models"
)

func TestIssueAndValidate(t *testing.T) {
	store := NewStore(30 * time.Minute)

	sess := store.Issue()
	require.NotEmpty(t, sess.Token)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	assert.NoError(t, store.Validate(sess.Token))
	assert.ErrorIs(t, store.Validate("no-such-token"), models.ErrSessionExpired)
}

func TestValidateExpired(t *testing.T) {
	store := NewStore(30 * time.Minute)
	current := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	sess := store.Issue()
	require.NoError(t, store.Validate(sess.Token))

	current = current.Add(31 * time.Minute)
	assert.ErrorIs(t, store.Validate(sess.Token), models.ErrSessionExpired)

	// The expired entry is dropped, not just rejected.
	assert.Equal(t, 0, store.Len())
}

func TestRevoke(t *testing.T) {
	store := NewStore(30 * time.Minute)

	sess := store.Issue()
	store.Revoke(sess.Token)
	assert.ErrorIs(t, store.Validate(sess.Token), models.ErrSessionExpired)

	// Revoking twice is harmless.
	store.Revoke(sess.Token)
}

func TestIssuePrunesExpired(t *testing.T) {
	store := NewStore(10 * time.Minute)
	current := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	store.Issue()
	store.Issue()
	current = current.Add(11 * time.Minute)

	fresh := store.Issue()
	assert.Equal(t, 1, store.Len())
	assert.NoError(t, store.Validate(fresh.Token))
}
