package workspaces_repositories

import "accessly-backend/internal/storage"

var workspaceRepository = NewWorkspaceRepository(storage.GetDb())
var membershipRepository = NewMembershipRepository(storage.GetDb())

func GetWorkspaceRepository() *WorkspaceRepository {
	return workspaceRepository
}

func GetMembershipRepository() *MembershipRepository {
	return membershipRepository
}
