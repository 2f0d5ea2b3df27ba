package actor

type Role string

const (
	RoleRenter   Role = "renter"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleRenter, RoleProvider, RoleAdmin:
		return true
	default:
		return false
	}
}
