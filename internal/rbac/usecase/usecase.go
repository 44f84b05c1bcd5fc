package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/rbac"
	"github.com/fekuna/omnipos-backoffice-service/internal/rbac/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/validation"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type rbacUseCase struct {
	repo   rbac.Repository
	hasher rbac.PasswordHasher
	logger logger.ZapLogger
}

func NewRBACUseCase(repo rbac.Repository, hasher rbac.PasswordHasher, log logger.ZapLogger) rbac.UseCase {
	return &rbacUseCase{
		repo:   repo,
		hasher: hasher,
		logger: log,
	}
}

func (uc *rbacUseCase) CreatePrivilege(ctx context.Context, name string) (*model.Privilege, error) {
	if err := validation.PrivilegeName(name); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindPrivilegeByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.DuplicateKey("privilege %s", name)
	}

	now := time.Now()
	privilege := &model.Privilege{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      name,
	}
	if err := uc.repo.CreatePrivilege(ctx, privilege); err != nil {
		return nil, err
	}
	return privilege, nil
}

func (uc *rbacUseCase) DeletePrivilege(ctx context.Context, id string) error {
	return uc.repo.DeletePrivilege(ctx, id)
}

func (uc *rbacUseCase) ListPrivileges(ctx context.Context) ([]model.Privilege, error) {
	return uc.repo.ListPrivileges(ctx)
}

func (uc *rbacUseCase) CreateRole(ctx context.Context, input *dto.CreateRoleInput) (*model.Role, error) {
	if err := validation.RoleName(input.Name); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindRoleByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.DuplicateKey("role %s", input.Name)
	}

	privileges, err := uc.repo.FindPrivilegesByNames(ctx, input.PrivilegeNames)
	if err != nil {
		return nil, err
	}
	if len(privileges) != len(input.PrivilegeNames) {
		found := make(map[string]bool, len(privileges))
		for _, p := range privileges {
			found[p.Name] = true
		}
		for _, name := range input.PrivilegeNames {
			if !found[name] {
				return nil, apperrors.NotFound("privilege %s", name)
			}
		}
	}

	now := time.Now()
	role := &model.Role{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:       input.Name,
		Privileges: privileges,
	}
	if err := uc.repo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole removes a role after moving all of its users to a replacement
// role. Orphaned users are never allowed.
func (uc *rbacUseCase) DeleteRole(ctx context.Context, id, reassignToID string) error {
	if id == reassignToID {
		return apperrors.BadArgument("replacement role must differ from the deleted role")
	}

	role, err := uc.repo.FindRoleByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return apperrors.NotFound("role %s", id)
	}

	target, err := uc.repo.FindRoleByID(ctx, reassignToID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperrors.NotFound("replacement role %s", reassignToID)
	}

	moved, err := uc.repo.DeleteRoleWithReassignment(ctx, id, reassignToID)
	if err != nil {
		return err
	}

	uc.logger.Info("deleted role",
		zap.String("role", role.Name),
		zap.String("reassigned_to", target.Name),
		zap.Int64("users_moved", moved),
	)
	return nil
}

func (uc *rbacUseCase) ListRoles(ctx context.Context) ([]model.Role, error) {
	return uc.repo.ListRoles(ctx)
}

func (uc *rbacUseCase) CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error) {
	if err := validation.Email(input.Email); err != nil {
		return nil, err
	}
	if err := validation.Password(input.Password); err != nil {
		return nil, err
	}
	if err := validation.NonBlank("first name", input.FirstName); err != nil {
		return nil, err
	}
	if err := validation.NonBlank("last name", input.LastName); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.DuplicateKey("user with email %s", input.Email)
	}

	role, err := uc.repo.FindRoleByName(ctx, input.RoleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperrors.NotFound("role %s", input.RoleName)
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var phone *string
	if input.PhoneNumber != "" {
		phone = &input.PhoneNumber
	}

	user := &model.User{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  phone,
		RoleID:       role.ID,
	}
	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *rbacUseCase) DeleteUser(ctx context.Context, id string) error {
	user, err := uc.repo.FindUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user %s", id)
	}
	return uc.repo.DeleteUser(ctx, id)
}

func (uc *rbacUseCase) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := uc.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user with email %s", email)
	}
	return user, nil
}
