// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Role names carried in access tokens.
const (
	RoleAdmin    = "admin"
	RoleProvider = "provider"
)

// Identity represents the authenticated caller. The core trusts this identity
// completely; credential checking happens in the auth module.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() int64
	// Role returns the caller's role (admin or provider).
	Role() string
	// ProviderID returns the linked provider profile ID, or 0 when the caller
	// has no provider profile.
	ProviderID() int64
	// IsAuthenticated returns true if the caller is authenticated.
	IsAuthenticated() bool
}

type identity struct {
	userID        int64
	role          string
	providerID    int64
	authenticated bool
}

func (i *identity) UserID() int64         { return i.userID }
func (i *identity) Role() string          { return i.role }
func (i *identity) ProviderID() int64     { return i.providerID }
func (i *identity) IsAuthenticated() bool { return i.authenticated }

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{}
	}

	uid, ok := userID.(int64)
	if !ok {
		return &identity{}
	}

	role := c.GetString(ContextRoleKey)
	var providerID int64
	if value, ok := c.Get(ContextProviderIDKey); ok {
		providerID, _ = value.(int64)
	}

	return &identity{
		userID:        uid,
		role:          role,
		providerID:    providerID,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the caller is not authenticated, it aborts with 401 and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
