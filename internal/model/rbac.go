package model

type User struct {
	BaseModel
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	FirstName    string  `db:"first_name" json:"first_name"`
	LastName     string  `db:"last_name" json:"last_name"`
	PhoneNumber  *string `db:"phone_number" json:"phone_number"`
	RoleID       string  `db:"role_id" json:"role_id"`
	ImageID      *string `db:"image_id" json:"image_id"`
}

// Role names follow ROLE_[A-Z]+. Privileges attach many-to-many.
type Role struct {
	BaseModel
	Name       string      `db:"name" json:"name"`
	Privileges []Privilege `db:"-" json:"privileges"`
}

// Privilege names follow [A-Z]+_PRIVILEGE.
type Privilege struct {
	BaseModel
	Name string `db:"name" json:"name"`
}
