package auth

import (
	"slices"
	"strings"
)

// Roles carried in the JWT "role" claim.
const (
	// RoleAdmin has full access to all endpoints and methods.
	RoleAdmin = "admin"
	// RoleUser manages their own documents and uses the text endpoints.
	RoleUser = "user"
	// RoleViewer can read documents and summaries but not change them.
	RoleViewer = "viewer"
)

// Permission defines the allowed operations for a role.
type Permission struct {
	AllowedMethods []string

	// AllowedPaths supports a trailing "/*": "/documents/*" matches /documents,
	// /documents/1 and /documents/1/summary.
	AllowedPaths []string
}

// RolePermissions maps each role to its allowed permissions.
// OPTIONS is allowed for every role so preflight requests pass.
var RolePermissions = map[string]Permission{
	RoleAdmin: {
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedPaths:   []string{"/*"},
	},
	RoleUser: {
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedPaths: []string{
			"/documents/*",
			"/text/*",
		},
	},
	RoleViewer: {
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedPaths: []string{
			"/documents/*",
		},
	},
}

// IsValidRole reports whether role has an entry in RolePermissions.
func IsValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// checkRolePermission reports whether role may call method on path.
// Unknown and empty roles are denied.
//
//	checkRolePermission("user", "POST", "/documents")        // true
//	checkRolePermission("viewer", "GET", "/documents/1")     // true
//	checkRolePermission("viewer", "DELETE", "/documents/1")  // false
//	checkRolePermission("user", "GET", "/admin")             // false
func checkRolePermission(role, method, path string) bool {
	if role == "" {
		return false
	}
	perm, exists := RolePermissions[role]
	if !exists {
		return false
	}
	if !slices.Contains(perm.AllowedMethods, method) {
		return false
	}
	return matchesPathPattern(path, perm.AllowedPaths)
}

func matchesPathPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "/*" {
			return true
		}

		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "/*")
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}

		if path == pattern {
			return true
		}
	}
	return false
}
