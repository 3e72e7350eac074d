package constants

import "fmt"

// Roles accepted by the HR (admin) route group, read from the "role" or
// "roles" claim of the bearer token.
const (
	RoleHR    = "hr"
	RoleAdmin = "admin"
)

const ErrOnlyHRCanAccess = "❌ Only hr or admin may access %s."

var HRAndAbove = []string{
	RoleHR,
	RoleAdmin,
}

func RoleErrorHR(feature string) string {
	return fmt.Sprintf(ErrOnlyHRCanAccess, feature)
}
