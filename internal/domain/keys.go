package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
)

// Actor is the authenticated identity behind a request
type Actor struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the actor may act on every row
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may read or write a row owned by ownerID
func (a Actor) CanAccess(ownerID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == ownerID)
}

// WithActor stores the actor using the typed context keys
func WithActor(ctx context.Context, a Actor) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, a.UserID)
	ctx = context.WithValue(ctx, KeyUserEmail, a.Email)
	return context.WithValue(ctx, KeyUserRole, a.Role)
}

// ActorFromContext reads the actor from either the typed keys (context.WithValue)
// or the plain string keys gin.Context exposes through c.Set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a := Actor{
		UserID: ctxString(ctx, KeyUserID),
		Email:  ctxString(ctx, KeyUserEmail),
		Role:   ctxString(ctx, KeyUserRole),
	}
	return a, a.UserID != ""
}

func ctxString(ctx context.Context, key CtxKey) string {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v
	}
	if v, ok := ctx.Value(string(key)).(string); ok {
		return v
	}
	return ""
}
