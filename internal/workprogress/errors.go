package workprogress

import (
	"errors"
	"fmt"

	"github.com/meetingscribe/workprogress/internal/auth"
	"github.com/meetingscribe/workprogress/internal/postgrest"
)

var (
	// ErrAuthRequired indicates the operation needs a signed-in identity.
	ErrAuthRequired = auth.ErrAuthRequired

	// ErrPermissionDenied indicates the store's row-level policy rejected the
	// operation. Usually a deployment problem (missing policy), not user error.
	ErrPermissionDenied = errors.New("workprogress: permission denied, check row-level policies")

	// ErrIdentityMismatch indicates a profile mutation for a different user
	// than the acting identity; row-level policy would reject it anyway.
	ErrIdentityMismatch = errors.New("workprogress: cannot modify a profile for another user")

	// ErrProfileMissing indicates a dependent write failed because the profile
	// prerequisite does not exist.
	ErrProfileMissing = errors.New("workprogress: user profile not set up")

	// ErrUnavailable indicates a transport-level failure; callers on write
	// paths are expected to compensate with an optimistic local placeholder.
	ErrUnavailable = errors.New("workprogress: backend unavailable")
)

// translate maps store and auth errors onto the layer's taxonomy so callers
// can branch with errors.Is instead of inspecting SQLSTATE codes. Unknown
// errors pass through wrapped with the operation name.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrAuthRequired):
		return fmt.Errorf("%s: %w", op, ErrAuthRequired)
	case errors.Is(err, postgrest.ErrPermissionDenied):
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	case errors.Is(err, postgrest.ErrForeignKeyViolation):
		return fmt.Errorf("%s: %w", op, ErrProfileMissing)
	case errors.Is(err, postgrest.ErrUnavailable):
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
