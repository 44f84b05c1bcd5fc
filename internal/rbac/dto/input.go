package dto

type CreateUserInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	RoleName    string
}

type CreateRoleInput struct {
	Name           string
	PrivilegeNames []string
}
