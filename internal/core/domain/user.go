package domain

// Role is a workflow capability a user may hold. Roles are not exclusive.
type Role string

const (
	RoleRequester Role = "Requester"
	RoleApprover  Role = "Approver"
)

// User models an authenticated actor in the system.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Roles []Role `json:"roles"`
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Directory is the static, read-only user list. It is fixed at process
// start; users are never created, mutated, or deleted at runtime.
type Directory struct {
	byID map[int64]User
}

// NewDirectory builds a Directory from a fixed user list.
func NewDirectory(users []User) *Directory {
	d := &Directory{byID: make(map[int64]User, len(users))}
	for _, u := range users {
		d.byID[u.ID] = u
	}
	return d
}

// Lookup resolves a user by id.
func (d *Directory) Lookup(id int64) (User, bool) {
	u, ok := d.byID[id]
	return u, ok
}

// DefaultUsers is the built-in user set the service ships with.
func DefaultUsers() []User {
	return []User{
		{ID: 1, Name: "Hadi", Roles: []Role{RoleRequester}},
		{ID: 2, Name: "Haneen", Roles: []Role{RoleApprover}},
		{ID: 3, Name: "Lama", Roles: []Role{RoleApprover, RoleRequester}},
	}
}
