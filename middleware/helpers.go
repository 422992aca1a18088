package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

// Role is the scheduler platform's caller role, carried in the JWT's
// "role" claim. It is deliberately kept out of package models: C1's
// domain model has no notion of an authenticated caller, only of
// HostID/RefereeUserID/TeamRefereeID strings the handlers compare a
// caller's identity against.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleHost    Role = "host"
	RoleReferee Role = "referee"
	RolePlayer  Role = "player"
)

// GetUserIDFromContext returns the caller's id, matching the string ids
// (HostID, TeamRefereeID, ...) the scheduler's domain model uses.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("user claims not found in context or invalid type")
	}
	idClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}
	id, ok := idClaim.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid %q claim in token", jwtClaimUserID)
	}
	return id, nil
}

func GetUserRoleFromContext(ctx context.Context) (Role, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("user claims not found in context or invalid type")
	}
	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimRole)
	}
	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for %q claim: expected string, got %T", jwtClaimRole, roleClaim)
	}

	role := Role(roleStr)
	switch role {
	case RoleAdmin, RoleHost, RoleReferee, RolePlayer:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}

// IsHostOrAdmin reports whether ctx's caller may bypass a locked
// match's normal edit restrictions (§4.6's "unless caller is host or
// admin").
func IsHostOrAdmin(ctx context.Context) bool {
	role, err := GetUserRoleFromContext(ctx)
	if err != nil {
		return false
	}
	return role == RoleHost || role == RoleAdmin
}
