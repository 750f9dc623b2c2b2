package invitations_enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_InvitationStatus_IsTerminal(t *testing.T) {
	assert.False(t, InvitationStatusPending.IsTerminal())

	assert.True(t, InvitationStatusAccepted.IsTerminal())
	assert.True(t, InvitationStatusDeclined.IsTerminal())
	assert.True(t, InvitationStatusExpired.IsTerminal())
}

func Test_InvitationStatus_IsValid(t *testing.T) {
	assert.True(t, InvitationStatusPending.IsValid())
	assert.True(t, InvitationStatusAccepted.IsValid())

	assert.False(t, InvitationStatus("CANCELLED").IsValid())
	assert.False(t, InvitationStatus("").IsValid())
}

func Test_InvitationType_IsValid(t *testing.T) {
	assert.True(t, InvitationTypeOrganization.IsValid())
	assert.True(t, InvitationTypeWorkspace.IsValid())

	assert.False(t, InvitationType("TEAM").IsValid())
}
