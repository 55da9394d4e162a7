package domain

import "fmt"

// Role is the position of an account in the reseller hierarchy.
// Roles are totally ordered: owner > admin > master > seller.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMaster Role = "master"
	RoleSeller Role = "seller"
)

var roleRanks = map[Role]int{
	RoleOwner:  4,
	RoleAdmin:  3,
	RoleMaster: 2,
	RoleSeller: 1,
}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRanks[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Rank returns the role's position in the total order (4 highest).
// Unknown roles rank 0, below every valid role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// IsValid reports whether r is one of the four known roles.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// CanManage reports whether an actor with role r may manage (credit, create,
// deactivate) an account with role target. Strictly-greater rank is required;
// equal ranks never manage each other.
func (r Role) CanManage(target Role) bool {
	return r.Rank() > target.Rank()
}

// CreatableRoles lists the roles an actor with role r may assign to accounts
// it creates, in descending rank order.
func (r Role) CreatableRoles() []Role {
	var out []Role
	for _, candidate := range []Role{RoleAdmin, RoleMaster, RoleSeller} {
		if r.CanManage(candidate) {
			out = append(out, candidate)
		}
	}
	return out
}
