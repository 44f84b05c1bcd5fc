package rbac

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/rbac/dto"
)

// PasswordHasher is implemented by the auth collaborator; this core never
// hashes or verifies passwords itself.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type UseCase interface {
	CreatePrivilege(ctx context.Context, name string) (*model.Privilege, error)
	DeletePrivilege(ctx context.Context, id string) error
	ListPrivileges(ctx context.Context) ([]model.Privilege, error)

	CreateRole(ctx context.Context, input *dto.CreateRoleInput) (*model.Role, error)
	DeleteRole(ctx context.Context, id, reassignToID string) error
	ListRoles(ctx context.Context) ([]model.Role, error)

	CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}
