package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindPrivilegeByName(ctx context.Context, name string) (*model.Privilege, error) {
	var privilege model.Privilege
	err := r.DB.GetContext(ctx, &privilege, `SELECT * FROM privileges WHERE name = $1 LIMIT 1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &privilege, nil
}

func (r *PGRepository) FindPrivilegesByNames(ctx context.Context, names []string) ([]model.Privilege, error) {
	if len(names) == 0 {
		return []model.Privilege{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM privileges WHERE name IN (?)`, names)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var privileges []model.Privilege
	err = r.DB.SelectContext(ctx, &privileges, query, args...)
	return privileges, err
}

func (r *PGRepository) CreatePrivilege(ctx context.Context, privilege *model.Privilege) error {
	query := `
        INSERT INTO privileges (id, name, created_at, updated_at)
        VALUES (:id, :name, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, privilege)
	return apperrors.FromPostgres(err, "privilege")
}

// DeletePrivilege detaches the privilege from every role before removing it.
func (r *PGRepository) DeletePrivilege(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM role_privileges WHERE privilege_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM privileges WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) ListPrivileges(ctx context.Context) ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := r.DB.SelectContext(ctx, &privileges, `SELECT * FROM privileges ORDER BY name`)
	return privileges, err
}

func (r *PGRepository) FindRoleByID(ctx context.Context, id string) (*model.Role, error) {
	return r.findRole(ctx, `SELECT * FROM roles WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return r.findRole(ctx, `SELECT * FROM roles WHERE name = $1 LIMIT 1`, name)
}

func (r *PGRepository) findRole(ctx context.Context, query string, arg interface{}) (*model.Role, error) {
	var role model.Role
	err := r.DB.GetContext(ctx, &role, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var privileges []model.Privilege
	err = r.DB.SelectContext(ctx, &privileges, `
		SELECT p.* FROM privileges p
		JOIN role_privileges rp ON rp.privilege_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name
	`, role.ID)
	if err != nil {
		return nil, err
	}
	role.Privileges = privileges

	return &role, nil
}

func (r *PGRepository) CreateRole(ctx context.Context, role *model.Role) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	roleQuery := `
        INSERT INTO roles (id, name, created_at, updated_at)
        VALUES (:id, :name, :created_at, :updated_at)
    `
	if _, err = tx.NamedExecContext(ctx, roleQuery, role); err != nil {
		return apperrors.FromPostgres(err, "role")
	}

	for _, privilege := range role.Privileges {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO role_privileges (role_id, privilege_id) VALUES ($1, $2)`,
			role.ID, privilege.ID,
		); err != nil {
			return apperrors.FromPostgres(err, "role privilege")
		}
	}

	return tx.Commit()
}

func (r *PGRepository) DeleteRoleWithReassignment(ctx context.Context, roleID, reassignToID string) (int64, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET role_id = $1, updated_at = NOW() WHERE role_id = $2`,
		reassignToID, roleID,
	)
	if err != nil {
		return 0, err
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM role_privileges WHERE role_id = $1`, roleID); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, roleID); err != nil {
		return 0, err
	}

	return moved, tx.Commit()
}

func (r *PGRepository) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := r.DB.SelectContext(ctx, &roles, `SELECT * FROM roles ORDER BY name`); err != nil {
		return nil, err
	}

	for i := range roles {
		var privileges []model.Privilege
		err := r.DB.SelectContext(ctx, &privileges, `
			SELECT p.* FROM privileges p
			JOIN role_privileges rp ON rp.privilege_id = p.id
			WHERE rp.role_id = $1
			ORDER BY p.name
		`, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Privileges = privileges
	}

	return roles, nil
}

func (r *PGRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *PGRepository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1 LIMIT 1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *PGRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
        INSERT INTO users (
            id, email, password_hash, first_name, last_name, phone_number,
            role_id, image_id, created_at, updated_at
        )
        VALUES (
            :id, :email, :password_hash, :first_name, :last_name, :phone_number,
            :role_id, :image_id, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, user)
	return apperrors.FromPostgres(err, "user")
}

func (r *PGRepository) DeleteUser(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
