package internal

import (
	"context"
	"fmt"
	"time"
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

// Role is the closed set of roles a caller can hold.
type Role string

const (
	RoleEmployee Role = "SALARIE"
	RoleHR       Role = "RH"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleHR:
		return RoleHR, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Actor identifies who is performing an operation. Services receive it
// explicitly instead of reading session state.
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) IsHR() bool {
	switch a.Role {
	case RoleHR:
		return true
	case RoleEmployee:
		return false
	default:
		return false
	}
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(ContextActorKey).(Actor)
	return actor, ok
}

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
