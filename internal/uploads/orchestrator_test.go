package uploads_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/copyfy/copyfy/internal/media"
	"github.com/copyfy/copyfy/internal/uploads"
	"github.com/copyfy/copyfy/pkg/identity"
)

type mockCreator struct {
	createFn func(ctx context.Context, cmd media.CreateCommand) (*media.Record, error)
	calls    []media.CreateCommand
}

func (m *mockCreator) Create(ctx context.Context, cmd media.CreateCommand) (*media.Record, error) {
	m.calls = append(m.calls, cmd)
	return m.createFn(ctx, cmd)
}

type mockRefresher struct {
	resets int
}

func (m *mockRefresher) Reset() { m.resets++ }

func signedIn(t *testing.T) identity.Provider {
	t.Helper()
	ident := identity.NewAnonymous(testLogger())
	if _, err := ident.SignInAnonymous(context.Background()); err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	return ident
}

func commitRecord(cmd media.CreateCommand) *media.Record {
	return &media.Record{
		ID:      uuid.New(),
		Title:   cmd.Title,
		License: cmd.License,
		OwnerID: cmd.OwnerID,
	}
}

func validProfile() uploads.Profile {
	return uploads.Profile{
		Title:           "Sunset",
		Tags:            "beach, sky",
		License:         "CC0-1.0",
		RightsConfirmed: true,
	}
}

func TestSubmitBatchPartialFailure(t *testing.T) {
	q := uploads.NewQueue(20, nil, testLogger())
	q.Add(testFile("a.jpg", 10), testFile("b.jpg", 20), testFile("c.jpg", 30))

	creator := &mockCreator{
		createFn: func(_ context.Context, cmd media.CreateCommand) (*media.Record, error) {
			if cmd.ByteSize == 20 {
				return nil, errors.New("blob write failed")
			}
			return commitRecord(cmd), nil
		},
	}
	refresh := &mockRefresher{}

	orch := uploads.NewOrchestrator(q, creator, signedIn(t), refresh, testLogger())
	report, err := orch.SubmitBatch(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("SubmitBatch failed: %v", err)
	}

	if report.Succeeded != 2 || report.Total != 3 {
		t.Errorf("report = %d/%d, want 2/3", report.Succeeded, report.Total)
	}
	if len(report.Failures) != 1 || report.Failures[0].Name != "b.jpg" {
		t.Errorf("Failures = %+v, want single b.jpg entry", report.Failures)
	}
	if q.Len() != 0 {
		t.Errorf("queue not cleared, Len = %d", q.Len())
	}
	if refresh.resets != 1 {
		t.Errorf("refresh fired %d times, want 1", refresh.resets)
	}
	if len(creator.calls) != 3 {
		t.Errorf("expected 3 create calls, got %d", len(creator.calls))
	}
}

func TestSubmitBatchProfileApplied(t *testing.T) {
	q := uploads.NewQueue(20, nil, testLogger())
	q.Add(testFile("a.jpg", 10))

	creator := &mockCreator{
		createFn: func(_ context.Context, cmd media.CreateCommand) (*media.Record, error) {
			return commitRecord(cmd), nil
		},
	}

	orch := uploads.NewOrchestrator(q, creator, signedIn(t), nil, testLogger())
	if _, err := orch.SubmitBatch(context.Background(), validProfile()); err != nil {
		t.Fatalf("SubmitBatch failed: %v", err)
	}

	cmd := creator.calls[0]
	if cmd.Title != "Sunset" {
		t.Errorf("Title = %q, want Sunset", cmd.Title)
	}
	if len(cmd.Tags) != 2 || cmd.Tags[0] != "beach" || cmd.Tags[1] != "sky" {
		t.Errorf("Tags = %v, want [beach sky]", cmd.Tags)
	}
	if cmd.OwnerID == "" {
		t.Error("expected OwnerID from the signed-in principal")
	}
	if cmd.Mime != "image/jpeg" || cmd.ByteSize != 10 {
		t.Errorf("payload metadata = %s/%d, want image/jpeg/10", cmd.Mime, cmd.ByteSize)
	}
}

func TestSubmitBatchPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		ident   func(t *testing.T) identity.Provider
		profile uploads.Profile
		queued  bool
		wantErr error
	}{
		{
			"signed out",
			func(t *testing.T) identity.Provider { return identity.NewAnonymous(testLogger()) },
			validProfile(),
			true,
			identity.ErrSignedOut,
		},
		{
			"rights unconfirmed",
			signedIn,
			uploads.Profile{Title: "x", License: "CC0-1.0"},
			true,
			uploads.ErrRightsUnconfirmed,
		},
		{
			"empty queue",
			signedIn,
			validProfile(),
			false,
			uploads.ErrEmptyQueue,
		},
		{
			"license not allowed",
			signedIn,
			uploads.Profile{Title: "x", License: "ALL-RIGHTS-RESERVED", RightsConfirmed: true},
			true,
			media.ErrLicense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := uploads.NewQueue(20, nil, testLogger())
			if tt.queued {
				q.Add(testFile("a.jpg", 10))
			}

			creator := &mockCreator{
				createFn: func(_ context.Context, cmd media.CreateCommand) (*media.Record, error) {
					return commitRecord(cmd), nil
				},
			}
			refresh := &mockRefresher{}

			orch := uploads.NewOrchestrator(q, creator, tt.ident(t), refresh, testLogger())
			_, err := orch.SubmitBatch(context.Background(), tt.profile)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if len(creator.calls) != 0 {
				t.Errorf("expected no create calls, got %d", len(creator.calls))
			}
			if tt.queued && q.Len() != 1 {
				t.Errorf("queue mutated on failed precondition, Len = %d", q.Len())
			}
			if refresh.resets != 0 {
				t.Errorf("refresh fired on failed precondition")
			}
		})
	}
}

func TestSubmitBatchEvents(t *testing.T) {
	q := uploads.NewQueue(20, nil, testLogger())
	f := testFile("a.jpg", 10)
	q.Add(f)

	creator := &mockCreator{
		createFn: func(_ context.Context, cmd media.CreateCommand) (*media.Record, error) {
			cmd.Progress(5, 10)
			cmd.Progress(10, 10)
			return commitRecord(cmd), nil
		},
	}

	orch := uploads.NewOrchestrator(q, creator, signedIn(t), nil, testLogger())

	var states []uploads.State
	unsubscribe := orch.Subscribe(func(e uploads.Event) {
		states = append(states, e.State)
	})
	defer unsubscribe()

	if _, err := orch.SubmitBatch(context.Background(), validProfile()); err != nil {
		t.Fatalf("SubmitBatch failed: %v", err)
	}

	want := []uploads.State{
		uploads.StateUploading,
		uploads.StateUploading,
		uploads.StateBlobCommitted,
		uploads.StateMetadataCommitted,
	}
	if len(states) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(states), states, len(want))
	}
	for i, s := range want {
		if states[i] != s {
			t.Errorf("event %d = %v, want %v", i, states[i], s)
		}
	}
}

func TestSubmitBatchZeroByteProgress(t *testing.T) {
	q := uploads.NewQueue(20, nil, testLogger())
	f := testFile("empty.jpg", 0)
	q.Add(f)

	creator := &mockCreator{
		createFn: func(_ context.Context, cmd media.CreateCommand) (*media.Record, error) {
			return commitRecord(cmd), nil
		},
	}

	orch := uploads.NewOrchestrator(q, creator, signedIn(t), nil, testLogger())

	var committed []uploads.Item
	unsubscribe := orch.Subscribe(func(e uploads.Event) {
		if e.State != uploads.StateMetadataCommitted {
			return
		}
		if e.Progress != 100 {
			t.Errorf("commit event progress = %v, want 100", e.Progress)
		}
		committed = orch.Queue().Items()
	})
	defer unsubscribe()

	if _, err := orch.SubmitBatch(context.Background(), validProfile()); err != nil {
		t.Fatalf("SubmitBatch failed: %v", err)
	}

	if len(committed) != 1 {
		t.Fatalf("queued items at commit = %d, want 1", len(committed))
	}
	if committed[0].Progress != 100 {
		t.Errorf("item progress at commit = %v, want 100", committed[0].Progress)
	}
	if committed[0].State != uploads.StateMetadataCommitted {
		t.Errorf("item state at commit = %v, want metadata-committed", committed[0].State)
	}
}
