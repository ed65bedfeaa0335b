package access

// UserSession is the reserved slot for the account-level authentication
// mechanism this layer will eventually merge with. Nothing populates it yet;
// it exists so AccessContext and the policy keep their shape when it lands.
type UserSession struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt int64
}

// AccessContext carries the verified credentials of one request.
// The two fields are independent grants: either one alone is sufficient
// once the policy evaluates it.
type AccessContext struct {
	ProjectToken *ProjectAccessClaims
	UserSession  *UserSession
}

// Policy is the pure authorization decision: credential validity is the
// codec's job, resource fit is decided here. A Policy value has no state
// and no I/O; construct it where needed, inject it for tests.
type Policy struct{}

func NewPolicy() Policy { return Policy{} }

// CanAccessProject reports whether the context grants the project id.
// Comparisons are exact. The decision is an OR of independent clauses so a
// session-based grant can be added without restructuring.
func (Policy) CanAccessProject(projectID string, ctx AccessContext) bool {
	if ctx.ProjectToken != nil && ctx.ProjectToken.ProjectID == projectID {
		return true
	}
	// Future: ctx.UserSession role checks OR in here.
	return false
}

// CanAccessProjectByName is CanAccessProject keyed by display name.
// Case-sensitive, no normalization: "Demo" and "demo" are distinct projects.
func (Policy) CanAccessProjectByName(projectName string, ctx AccessContext) bool {
	if ctx.ProjectToken != nil && ctx.ProjectToken.ProjectName == projectName {
		return true
	}
	return false
}
