package invitations_enums

type InvitationType string

const (
	InvitationTypeOrganization InvitationType = "ORGANIZATION"
	InvitationTypeWorkspace    InvitationType = "WORKSPACE"
)

func (t InvitationType) IsValid() bool {
	switch t {
	case InvitationTypeOrganization, InvitationTypeWorkspace:
		return true
	default:
		return false
	}
}

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusDeclined InvitationStatus = "DECLINED"
	InvitationStatusExpired  InvitationStatus = "EXPIRED"
)

func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationStatusPending,
		InvitationStatusAccepted,
		InvitationStatusDeclined,
		InvitationStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status can never change again.
func (s InvitationStatus) IsTerminal() bool {
	return s != InvitationStatusPending
}
