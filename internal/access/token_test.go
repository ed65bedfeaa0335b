package access

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"testea/internal/config"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(config.AccessConfig{TokenSecret: "test-secret", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	if _, err := NewCodec(config.AccessConfig{}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0).UTC()

	token, err := c.Issue(now, "proj-1", "Demo Project")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := c.Verify(token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ProjectID != "proj-1" || claims.ProjectName != "Demo Project" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Type != TokenTypeProjectAccess {
		t.Fatalf("unexpected type: %q", claims.Type)
	}
	if claims.IssuedAt != now.Unix() || claims.ExpiresAt != now.Unix()+3600 {
		t.Fatalf("unexpected timestamps: %+v", claims)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0)

	token, err := c.Issue(now, "proj-1", "demo")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[10] == 'x' {
		sig[10] = 'y'
	} else {
		sig[10] = 'x'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := c.Verify(tampered, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0)

	token, err := c.IssueWithTTL(now, "proj-1", "demo", 100*time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := c.Verify(token, now.Add(99*time.Second)); err != nil {
		t.Fatalf("expected valid one second before expiry, got %v", err)
	}
	if _, err := c.Verify(token, now.Add(100*time.Second)); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at expiry instant, got %v", err)
	}
}

func TestVerify_NegativeTTLImmediatelyExpired(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0)

	token, err := c.IssueWithTTL(now, "proj-1", "demo", -time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := c.Verify(token, now); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_RejectsWrongType(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0)

	// Well-signed token with a foreign type discriminant.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"type":        "user_session",
		"projectId":   "proj-1",
		"projectName": "demo",
		"issuedAt":    now.Unix(),
		"expiresAt":   now.Unix() + 3600,
	})
	token, err := foreign.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.Verify(token, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong type, got %v", err)
	}
}

func TestVerify_GarbageInput(t *testing.T) {
	c := testCodec(t)
	now := time.Now()
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.@@@.###"} {
		if _, err := c.Verify(tok, now); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", tok, err)
		}
	}
}

func TestIssue_WireFormat(t *testing.T) {
	c := testCodec(t)
	token, err := c.Issue(time.Unix(1700000000, 0), "proj-1", "demo")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("expected unpadded base64url, got %q", token)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(parts))
	}

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("header decode: %v", err)
	}
	if string(header) != `{"alg":"HS256","typ":"JWT"}` {
		t.Fatalf("unexpected header: %s", header)
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload parse: %v", err)
	}
	for _, key := range []string{"type", "projectId", "projectName", "issuedAt", "expiresAt"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("payload missing key %q: %s", key, payload)
		}
	}
	if len(got) != 5 {
		t.Fatalf("expected exactly 5 payload keys, got %d: %s", len(got), payload)
	}
}

func TestParseUnsafe_IgnoresSignature(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0)

	token, err := c.Issue(now, "proj-1", "demo")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// Break the signature; the payload must still decode.
	broken := token[:len(token)-4] + "AAAA"
	claims, ok := c.ParseUnsafe(broken)
	if !ok || claims.ProjectID != "proj-1" {
		t.Fatalf("expected payload decode despite bad signature, got ok=%v claims=%+v", ok, claims)
	}

	if _, ok := c.ParseUnsafe("not-a-token"); ok {
		t.Fatalf("expected failure for garbage input")
	}
}

func TestRemainingSeconds(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0)

	token, err := c.IssueWithTTL(now, "proj-1", "demo", 100*time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if got := c.RemainingSeconds(token, now.Add(40*time.Second)); got != 60 {
		t.Fatalf("expected 60 remaining, got %d", got)
	}
	if got := c.RemainingSeconds(token, now.Add(200*time.Second)); got != 0 {
		t.Fatalf("expected 0 for expired token, got %d", got)
	}
	if got := c.RemainingSeconds("garbage", now); got != 0 {
		t.Fatalf("expected 0 for garbage token, got %d", got)
	}
}
