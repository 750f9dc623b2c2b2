package organizations_enums

type OrganizationMembershipStatus string

const (
	OrganizationMembershipStatusActive  OrganizationMembershipStatus = "ACTIVE"
	OrganizationMembershipStatusInvited OrganizationMembershipStatus = "INVITED"
	OrganizationMembershipStatusPending OrganizationMembershipStatus = "PENDING"
	OrganizationMembershipStatusRemoved OrganizationMembershipStatus = "REMOVED"
)

func (s OrganizationMembershipStatus) IsValid() bool {
	switch s {
	case OrganizationMembershipStatusActive,
		OrganizationMembershipStatusInvited,
		OrganizationMembershipStatusPending,
		OrganizationMembershipStatusRemoved:
		return true
	default:
		return false
	}
}
