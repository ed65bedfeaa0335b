package access

import "time"

// BuildContext assembles the policy input for one request: read the
// project's cookie, verify the token, and attach the claims only when both
// succeed. Missing cookies, bad signatures and expired tokens all yield an
// empty context — never an error, never unverified data.
func BuildContext(store *CookieStore, codec *Codec, projectName string, now time.Time) AccessContext {
	token, ok := store.Get(projectName)
	if !ok {
		return AccessContext{}
	}
	claims, err := codec.Verify(token, now)
	if err != nil {
		return AccessContext{}
	}
	return AccessContext{ProjectToken: &claims}
}
