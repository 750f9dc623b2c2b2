package invitations_models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_IsExpiredAt(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	invitation := &Invitation{
		CreatedAt:  createdAt,
		ValidUntil: createdAt.AddDate(0, 0, ValidPeriodDays),
	}

	assert.False(t, invitation.IsExpiredAt(createdAt))
	assert.False(t, invitation.IsExpiredAt(createdAt.AddDate(0, 0, 13)))

	// the boundary instant itself is still valid
	assert.False(t, invitation.IsExpiredAt(invitation.ValidUntil))

	assert.True(t, invitation.IsExpiredAt(invitation.ValidUntil.Add(time.Second)))
	assert.True(t, invitation.IsExpiredAt(createdAt.AddDate(0, 0, 15)))
}
