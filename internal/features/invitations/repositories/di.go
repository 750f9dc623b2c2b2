package invitations_repositories

import "accessly-backend/internal/storage"

var invitationRepository = NewInvitationRepository(storage.GetDb())

func GetInvitationRepository() *InvitationRepository {
	return invitationRepository
}
