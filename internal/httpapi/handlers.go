package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"testea/internal/access"
	"testea/internal/config"
	"testea/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal/access, return JSON.
type Handlers struct {
	Access *access.Service
	Codec  *access.Codec
	Cfg    config.AccessConfig
}

func (h Handlers) cookies(c *gin.Context) *access.CookieStore {
	return access.NewCookieStore(c.Writer, c.Request, h.Cfg)
}

type verifyRequest struct {
	Password string `json:"password"`
}

// VerifyAccess handles POST /projects/:name/access.
// On success the response both sets the access cookie and returns the
// redirect target, so form and fetch clients behave the same.
func (h Handlers) VerifyAccess(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	res := h.Access.VerifyAccess(c.Request.Context(), h.cookies(c), c.Param("name"), req.Password)
	c.JSON(statusFor(res), res)
}

// RevokeAccess handles DELETE /projects/:name/access.
func (h Handlers) RevokeAccess(c *gin.Context) {
	res := h.Access.Revoke(h.cookies(c), c.Param("name"))
	c.JSON(http.StatusOK, res)
}

// AccessStatus handles GET /projects/:name/access: whether the project is
// password-gated, whether this request already holds a valid grant, and how
// long that grant has left. remainingSeconds comes from the unverified
// payload; it drives an expiry countdown, never an authorization decision.
func (h Handlers) AccessStatus(c *gin.Context) {
	raw := c.Param("name")
	name := access.DecodeProjectName(raw)

	hasPassword, err := h.Access.HasPassword(c.Request.Context(), raw)
	if err != nil {
		logger.FromGin(c).Error("access status lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": access.Message(access.CodeInternal)})
		return
	}

	now := time.Now()
	store := h.cookies(c)
	ctx := access.BuildContext(store, h.Codec, name, now)
	unlocked := access.NewPolicy().CanAccessProjectByName(name, ctx)

	var remaining int64
	if token, ok := store.Get(name); ok {
		remaining = h.Codec.RemainingSeconds(token, now)
	}

	c.JSON(http.StatusOK, gin.H{
		"hasPassword":      hasPassword,
		"unlocked":         unlocked,
		"remainingSeconds": remaining,
	})
}

type createSuiteRequest struct {
	Name string `json:"name"`
}

// CreateSuite handles POST /v1/projects/:id/suites. It stands in for the
// app's guarded mutation actions: the interesting part is the RequireAccess
// middleware in front of it, not the suite record itself.
func (h Handlers) CreateSuite(c *gin.Context) {
	var req createSuiteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":        uuid.NewString(),
		"projectId": c.Param("id"),
		"name":      req.Name,
	})
}

// statusFor maps a verification result onto an HTTP status.
func statusFor(res access.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Code {
	case access.CodeRateLimited:
		return http.StatusTooManyRequests
	case access.CodeInternal:
		return http.StatusInternalServerError
	case access.CodeInvalidPassword, access.CodeProjectNotFound:
		return http.StatusUnauthorized
	default:
		// Shape validation failures carry no code.
		return http.StatusBadRequest
	}
}
