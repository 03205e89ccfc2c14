package middleware

import (
	"net/http"
	"strings"

	"employee-onboarding-backend/internal/delivery/http/response"
	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/auth"
	"employee-onboarding-backend/pkg/logger"
	"employee-onboarding-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// TokenVerifier validates a bearer token and returns its identity
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// AuthMiddleware authenticates the request and loads the caller's role from
// the profiles table. The JWT role claim is ignored since it is always
// "authenticated" for Supabase users.
func AuthMiddleware(verifier TokenVerifier, authUC domain.AuthUsecase, secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// Header first, then the auth_token cookie set by the frontend
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		} else if cookie, err := c.Cookie("auth_token"); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			secLog.LogUnauthorized(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), c.GetString("RequestID"), c.FullPath(), "missing token")
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		identity, err := verifier.Verify(tokenString)
		if err != nil {
			secLog.LogUnauthorized(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), c.GetString("RequestID"), c.FullPath(), err.Error())
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		profile, err := authUC.EnsureProfile(c.Request.Context(), identity.UserID, identity.Email)
		if err != nil {
			logger.Log.Error("Failed to load profile", "user_id", identity.UserID, "error", err)
			response.Error(c, http.StatusInternalServerError, "Could not load user profile", nil)
			c.Abort()
			return
		}

		role := profile.Role
		if role == "" {
			role = domain.RoleCandidate
		}
		email := identity.Email
		if email == "" {
			email = profile.Email
		}

		actor := domain.Actor{UserID: identity.UserID, Email: email, Role: role}
		c.Set(string(domain.KeyUserID), actor.UserID)
		c.Set(string(domain.KeyUserEmail), actor.Email)
		c.Set(string(domain.KeyUserRole), actor.Role)
		c.Request = c.Request.WithContext(domain.WithActor(c.Request.Context(), actor))

		c.Next()
	}
}

// RequireAdmin rejects non-admin callers; it must run after AuthMiddleware
func RequireAdmin(secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserRole)) != domain.RoleAdmin {
			secLog.LogAccessDenied(c.Request.Context(), c.GetString(string(domain.KeyUserID)), "admin_route", c.FullPath())
			response.Error(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
