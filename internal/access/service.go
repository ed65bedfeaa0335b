package access

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"
	"unicode/utf8"

	"testea/internal/project"
	"testea/pkg/logger"
)

// Password policy enforced at project creation; verification rejects
// out-of-range input before touching the limiter or the store.
const (
	passwordMinLen = 8
	passwordMaxLen = 16
)

// ProjectStore is the persistence collaborator the flow reads from.
type ProjectStore interface {
	AccessInfoByName(ctx context.Context, name string) (project.AccessInfo, error)
}

// Result is the outcome of a verification-flow operation, shaped for direct
// JSON serialization to the client. Code never leaves the server; the
// client sees only the fixed message strings.
type Result struct {
	Success           bool   `json:"success"`
	RedirectURL       string `json:"redirectUrl,omitempty"`
	Error             string `json:"error,omitempty"`
	RemainingAttempts *int   `json:"remainingAttempts,omitempty"`

	Code Code `json:"-"`
}

func failure(code Code, remaining *int) Result {
	return Result{Error: Message(code), RemainingAttempts: remaining, Code: code}
}

// Service orchestrates password verification: rate limiting, project
// lookup, hash comparison, token issuance and the cookie write.
type Service struct {
	projects ProjectStore
	limiter  RateLimiter
	codec    *Codec
	now      func() time.Time
}

func NewService(projects ProjectStore, limiter RateLimiter, codec *Codec) *Service {
	return &Service{
		projects: projects,
		limiter:  limiter,
		codec:    codec,
		now:      time.Now,
	}
}

// DecodeProjectName undoes route-parameter percent-encoding. Undecodable
// input is used as-is rather than rejected; the lookup will simply miss.
func DecodeProjectName(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// VerifyAccess is the primary write path. Steps run strictly in order:
// shape validation, rate-limit check, project lookup, hash comparison,
// token issuance + cookie write. A missing project burns a rate-limit
// attempt and answers exactly like a wrong password, so callers cannot
// enumerate which project names exist.
//
// The rate-limit key is derived from the RAW route parameter while the
// lookup uses the decoded name; see RateLimitKey.
func (s *Service) VerifyAccess(ctx context.Context, cookies *CookieStore, rawProjectName, password string) Result {
	log := logger.From(ctx)

	if rawProjectName == "" {
		return Result{Error: "project name is required"}
	}
	if n := utf8.RuneCountInString(password); n < passwordMinLen || n > passwordMaxLen {
		return Result{Error: "password must be between 8 and 16 characters"}
	}

	key := RateLimitKey(rawProjectName)
	status, err := s.limiter.Check(ctx, key)
	if err != nil {
		log.Error("rate limit check failed", "err", err)
		return failure(CodeInternal, nil)
	}
	if status.Locked {
		zero := 0
		return failure(CodeRateLimited, &zero)
	}

	name := DecodeProjectName(rawProjectName)
	info, err := s.projects.AccessInfoByName(ctx, name)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return s.recordFailure(ctx, log, key, CodeProjectNotFound)
		}
		log.Error("project lookup failed", "err", err)
		return failure(CodeInternal, nil)
	}

	if !CheckPassword(password, info.IdentifierHash) {
		return s.recordFailure(ctx, log, key, CodeInvalidPassword)
	}

	if err := s.limiter.Clear(ctx, key); err != nil {
		// Counter cleanup is best effort; a stale count must not block a
		// correct password.
		log.Warn("rate limit clear failed", "err", err)
	}

	token, err := s.codec.Issue(s.now(), info.ID, info.Name)
	if err != nil {
		log.Error("token issuance failed", "err", err)
		return failure(CodeInternal, nil)
	}
	cookies.Set(info.Name, token, s.codec.TTL())

	return Result{Success: true, RedirectURL: "/projects/" + info.Name}
}

// recordFailure burns one attempt and returns the generic failure shape.
// The code distinguishes not-found from wrong-password for server logs only.
func (s *Service) recordFailure(ctx context.Context, log *slog.Logger, key string, code Code) Result {
	status, err := s.limiter.Fail(ctx, key)
	if err != nil {
		log.Error("rate limit record failed", "err", err)
		return failure(CodeInternal, nil)
	}
	remaining := status.Remaining
	return failure(code, &remaining)
}

// Revoke deletes the project's access cookie. This is a logout, not a
// security check: revoking a cookie that never existed still succeeds.
func (s *Service) Revoke(cookies *CookieStore, rawProjectName string) Result {
	cookies.Delete(DecodeProjectName(rawProjectName))
	return Result{Success: true}
}

// HasPassword reports whether the project exists and is password-gated.
// Unknown projects answer false, not an error; the UI uses this to decide
// whether to render the access form at all.
func (s *Service) HasPassword(ctx context.Context, rawProjectName string) (bool, error) {
	info, err := s.projects.AccessInfoByName(ctx, DecodeProjectName(rawProjectName))
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return info.IdentifierHash != "", nil
}
