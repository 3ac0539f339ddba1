package domain

// Role is the closed set of account roles.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
)

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleOwner:
		return Role(s), nil
	default:
		return "", Validationf("Invalid role")
	}
}

// User represents a registered account, either a customer or a restaurant owner.
type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}
