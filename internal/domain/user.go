package domain

// Identity lives in an external service; the engine only sees the acting
// user's id and role from the token.
type Role string

const (
	RoleMember Role = "member"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)
