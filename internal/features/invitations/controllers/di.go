package invitations_controllers

import (
	invitations_services "accessly-backend/internal/features/invitations/services"
)

var invitationController = &InvitationController{
	invitations_services.GetInvitationService(),
}

func GetInvitationController() *InvitationController {
	return invitationController
}
