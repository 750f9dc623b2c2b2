// Package access holds the pure role predicates composed by every write
// operation in the organization and workspace services. No I/O happens here;
// callers resolve the membership row first and pass its role in.
package access

import (
	organizations_enums "accessly-backend/internal/features/organizations/enums"
	workspaces_enums "accessly-backend/internal/features/workspaces/enums"
)

// CanManageOrganization reports whether the role may administer the
// organization: invite members, edit settings, create workspaces.
func CanManageOrganization(role organizations_enums.OrganizationRole) bool {
	return role == organizations_enums.OrganizationRoleOwner ||
		role == organizations_enums.OrganizationRoleAdmin
}

func IsOrganizationOwner(role organizations_enums.OrganizationRole) bool {
	return role == organizations_enums.OrganizationRoleOwner
}

func IsOrganizationMember(role organizations_enums.OrganizationRole) bool {
	return role == organizations_enums.OrganizationRoleMember
}

// CanManageWorkspace reports whether the role may administer the workspace:
// invite members, change roles, remove members.
func CanManageWorkspace(role workspaces_enums.WorkspaceRole) bool {
	return role == workspaces_enums.WorkspaceRoleOwner ||
		role == workspaces_enums.WorkspaceRoleAdmin
}

func IsWorkspaceOwner(role workspaces_enums.WorkspaceRole) bool {
	return role == workspaces_enums.WorkspaceRoleOwner
}

func IsWorkspaceMember(role workspaces_enums.WorkspaceRole) bool {
	return role == workspaces_enums.WorkspaceRoleMember
}
