package identity_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/copyfy/copyfy/pkg/identity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCurrentSignedOut(t *testing.T) {
	provider := identity.NewAnonymous(testLogger())

	if _, ok := provider.Current(); ok {
		t.Error("expected signed out before sign-in")
	}
}

func TestSignInAnonymous(t *testing.T) {
	provider := identity.NewAnonymous(testLogger())

	principal, err := provider.SignInAnonymous(context.Background())
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if principal.ID == "" {
		t.Error("expected non-empty principal id")
	}

	current, ok := provider.Current()
	if !ok {
		t.Fatal("expected signed in after sign-in")
	}
	if current.ID != principal.ID {
		t.Errorf("current principal: got %s, want %s", current.ID, principal.ID)
	}
}

func TestSignInAnonymousStable(t *testing.T) {
	provider := identity.NewAnonymous(testLogger())

	first, err := provider.SignInAnonymous(context.Background())
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	second, err := provider.SignInAnonymous(context.Background())
	if err != nil {
		t.Fatalf("repeat sign-in failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("principal changed across sign-ins: %s != %s", first.ID, second.ID)
	}
}

func TestSubscribe(t *testing.T) {
	provider := identity.NewAnonymous(testLogger())

	var received []identity.Principal
	unsubscribe := provider.Subscribe(func(p identity.Principal) {
		received = append(received, p)
	})

	principal, err := provider.SignInAnonymous(context.Background())
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(received))
	}
	if received[0].ID != principal.ID {
		t.Errorf("notified principal: got %s, want %s", received[0].ID, principal.ID)
	}

	unsubscribe()
	provider.SignInAnonymous(context.Background())
	if len(received) != 1 {
		t.Errorf("notifications after unsubscribe: got %d, want 1", len(received))
	}
}

func TestSubscribeAlreadySignedIn(t *testing.T) {
	provider := identity.NewAnonymous(testLogger())

	principal, err := provider.SignInAnonymous(context.Background())
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	var received []identity.Principal
	provider.Subscribe(func(p identity.Principal) {
		received = append(received, p)
	})

	if len(received) != 1 {
		t.Fatalf("expected immediate notification, got %d", len(received))
	}
	if received[0].ID != principal.ID {
		t.Errorf("notified principal: got %s, want %s", received[0].ID, principal.ID)
	}
}
