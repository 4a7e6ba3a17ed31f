package workprogress

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/postgrest"
)

// Profile defaults used when the auth identity carries no usable email.
const (
	DefaultProfileEmail     = "admin@meetingscribe.dev"
	DefaultProfileFirstName = "Admin"
	DefaultProfileLastName  = "User"
)

// EnsureProfile guarantees a profile row exists for the user before a
// dependent write. Existing profiles are left untouched; a missing one is
// created through ForceCreateProfile.
func (s *Service) EnsureProfile(ctx context.Context, userID string) error {
	var profile Profile
	err := s.store.From("profiles").
		Select("id").
		Eq("id", userID).
		Single().
		Get(ctx, &profile)
	if err == nil {
		return nil
	}
	if !errors.Is(err, postgrest.ErrNotFound) {
		return translate("ensure profile", err)
	}

	s.logger.Info("profile missing, creating", zap.String("user_id", userID))
	_, err = s.ForceCreateProfile(ctx, userID)
	return err
}

// ForceCreateProfile creates or repairs the user's profile row.
//
// The privileged create_profile function is tried first because it runs with
// definer rights and sidesteps restrictive insert policies. When the function
// is absent or fails, a direct merge-upsert is attempted under the caller's
// own identity. Only the acting identity's profile can be written; asking for
// another user's is rejected before touching the store.
func (s *Service) ForceCreateProfile(ctx context.Context, userID string) (profile *Profile, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "force_create_profile", start, err) }()

	sess, err := s.source.Session(ctx)
	if err != nil {
		return nil, translate("create profile", err)
	}
	if userID != sess.UserID {
		err = ErrIdentityMismatch
		return nil, err
	}

	email := sess.Email
	if email == "" {
		email = DefaultProfileEmail
	}
	first, last := splitEmailName(email)

	var created Profile
	rpcErr := s.store.Rpc(ctx, "create_profile", map[string]interface{}{
		"user_id":    userID,
		"user_email": email,
		"first":      first,
		"last":       last,
	}, &created)
	if rpcErr == nil {
		s.logger.Info("profile created via function", zap.String("user_id", userID))
		return &created, nil
	}
	s.logger.Debug("create_profile function unavailable, falling back to upsert", zap.Error(rpcErr))

	row := map[string]interface{}{
		"id":         userID,
		"email":      email,
		"first_name": first,
		"last_name":  last,
	}
	if upsertErr := s.store.From("profiles").Single().Upsert(ctx, row, &created); upsertErr != nil {
		err = translate("create profile", upsertErr)
		return nil, err
	}

	s.logger.Info("profile created via upsert", zap.String("user_id", userID))
	return &created, nil
}

// splitEmailName derives a display name from the email local part. A dotted
// local part ("jane.doe") splits into first and last; otherwise the defaults
// apply.
func splitEmailName(email string) (first, last string) {
	first, last = DefaultProfileFirstName, DefaultProfileLastName
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return first, last
	}
	if a, b, ok := strings.Cut(local, "."); ok && a != "" && b != "" {
		return capitalize(a), capitalize(b)
	}
	return capitalize(local), last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
