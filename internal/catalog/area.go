package catalog

import (
	"context"
	"fmt"
)

// AreaGlobal is the area used by maintenance commands
const AreaGlobal = "global"

type areaKey struct{}

type area struct {
	code   string
	secure bool
}

// EnterSecureArea returns a context marked as allowed to bypass normal access
// checks, with the area set to global.
//
// This is best effort. If the context already carries a different area the
// original context is returned together with ErrAreaAlreadySet, and callers
// are free to continue with it.
func EnterSecureArea(ctx context.Context) (context.Context, error) {
	if a, ok := ctx.Value(areaKey{}).(area); ok && a.code != AreaGlobal {
		return ctx, fmt.Errorf("%w: %s", ErrAreaAlreadySet, a.code)
	}

	return context.WithValue(ctx, areaKey{}, area{code: AreaGlobal, secure: true}), nil
}

// IsSecureArea reports whether ctx was marked by EnterSecureArea
func IsSecureArea(ctx context.Context) bool {
	a, ok := ctx.Value(areaKey{}).(area)
	return ok && a.secure
}

// AreaFromContext returns the area code, or an empty string if none is set
func AreaFromContext(ctx context.Context) string {
	if a, ok := ctx.Value(areaKey{}).(area); ok {
		return a.code
	}
	return ""
}
