package workspaces_enums

type WorkspaceMembershipStatus string

const (
	WorkspaceMembershipStatusActive   WorkspaceMembershipStatus = "ACTIVE"
	WorkspaceMembershipStatusPending  WorkspaceMembershipStatus = "PENDING"
	WorkspaceMembershipStatusDeclined WorkspaceMembershipStatus = "DECLINED"
	WorkspaceMembershipStatusInactive WorkspaceMembershipStatus = "INACTIVE"
)

func (s WorkspaceMembershipStatus) IsValid() bool {
	switch s {
	case WorkspaceMembershipStatusActive,
		WorkspaceMembershipStatusPending,
		WorkspaceMembershipStatusDeclined,
		WorkspaceMembershipStatusInactive:
		return true
	default:
		return false
	}
}
