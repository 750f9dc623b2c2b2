package organizations_repositories

import "accessly-backend/internal/storage"

var organizationRepository = NewOrganizationRepository(storage.GetDb())
var membershipRepository = NewMembershipRepository(storage.GetDb())

func GetOrganizationRepository() *OrganizationRepository {
	return organizationRepository
}

func GetMembershipRepository() *MembershipRepository {
	return membershipRepository
}
