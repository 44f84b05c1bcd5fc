package rbac

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type Repository interface {
	// Privileges
	FindPrivilegeByName(ctx context.Context, name string) (*model.Privilege, error)
	FindPrivilegesByNames(ctx context.Context, names []string) ([]model.Privilege, error)
	CreatePrivilege(ctx context.Context, privilege *model.Privilege) error
	DeletePrivilege(ctx context.Context, id string) error
	ListPrivileges(ctx context.Context) ([]model.Privilege, error)

	// Roles
	FindRoleByID(ctx context.Context, id string) (*model.Role, error)
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	CreateRole(ctx context.Context, role *model.Role) error
	// DeleteRoleWithReassignment moves every user of roleID to reassignToID,
	// detaches the role's privileges and removes the role, atomically.
	// It returns the number of reassigned users.
	DeleteRoleWithReassignment(ctx context.Context, roleID, reassignToID string) (int64, error)
	ListRoles(ctx context.Context) ([]model.Role, error)

	// Users
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}
