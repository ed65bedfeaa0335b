package access

import (
	"context"
	"testing"
	"time"
)

func TestRateLimitKey_UsesRawRouteParam(t *testing.T) {
	// The key is derived from the raw (possibly percent-encoded) route
	// parameter on purpose; see RateLimitKey.
	if got := RateLimitKey("My%20Project"); got != "project:My%20Project" {
		t.Fatalf("unexpected key: %q", got)
	}
	if RateLimitKey("My Project") == RateLimitKey("My%20Project") {
		t.Fatalf("raw and decoded names must produce distinct keys")
	}
}

func TestMemoryLimiter_CountdownAndLockout(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(5, 15*time.Minute)

	st, _ := l.Check(ctx, "project:demo")
	if st.Locked || st.Remaining != 5 {
		t.Fatalf("fresh key: %+v", st)
	}

	for i, want := range []int{4, 3, 2, 1, 0} {
		st, err := l.Fail(ctx, "project:demo")
		if err != nil {
			t.Fatalf("fail %d: %v", i, err)
		}
		if st.Remaining != want {
			t.Fatalf("attempt %d: remaining = %d, want %d", i+1, st.Remaining, want)
		}
	}

	st, _ = l.Check(ctx, "project:demo")
	if !st.Locked || st.Remaining != 0 {
		t.Fatalf("expected lockout after 5 failures: %+v", st)
	}

	// Other keys are untouched.
	st, _ = l.Check(ctx, "project:other")
	if st.Locked || st.Remaining != 5 {
		t.Fatalf("unrelated key affected: %+v", st)
	}
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	l := NewMemoryLimiter(5, 15*time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		l.Fail(ctx, "project:demo")
	}
	if st, _ := l.Check(ctx, "project:demo"); !st.Locked {
		t.Fatalf("expected lockout")
	}

	// One second short of the window: still locked.
	now = now.Add(15*time.Minute - time.Second)
	if st, _ := l.Check(ctx, "project:demo"); !st.Locked {
		t.Fatalf("expected lockout to hold inside window")
	}

	// Window elapsed: record reaped lazily, counter starts over.
	now = now.Add(time.Second)
	st, _ := l.Check(ctx, "project:demo")
	if st.Locked || st.Remaining != 5 {
		t.Fatalf("expected reset after window: %+v", st)
	}
	if st, _ := l.Fail(ctx, "project:demo"); st.Remaining != 4 {
		t.Fatalf("expected fresh countdown, got %+v", st)
	}
}

func TestMemoryLimiter_FailRefreshesWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	l := NewMemoryLimiter(5, 15*time.Minute)
	l.now = func() time.Time { return now }

	l.Fail(ctx, "project:demo")
	now = now.Add(10 * time.Minute)
	l.Fail(ctx, "project:demo")

	// 14 minutes after the first failure but only 4 after the second:
	// the window keys off the last attempt, so the count survives.
	now = now.Add(4 * time.Minute)
	st, _ := l.Check(ctx, "project:demo")
	if st.Remaining != 3 {
		t.Fatalf("expected count to survive, got %+v", st)
	}
}

func TestMemoryLimiter_Clear(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		l.Fail(ctx, "project:demo")
	}
	if err := l.Clear(ctx, "project:demo"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	st, _ := l.Check(ctx, "project:demo")
	if st.Locked || st.Remaining != 5 {
		t.Fatalf("expected clean slate after clear: %+v", st)
	}
}
