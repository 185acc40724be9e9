package flow

import "testing"

func newTestStore() *Store {
	return NewStore(Options{})
}

func TestTakeConsumes(t *testing.T) {
	s := newTestStore()
	s.Expect(1, CreateFolder{})

	p, ok := s.Take(1)
	if !ok {
		t.Fatal("expected pending input")
	}
	if _, ok := p.(CreateFolder); !ok {
		t.Fatalf("expected CreateFolder, got %T", p)
	}
	if _, ok := s.Take(1); ok {
		t.Error("pending input survived Take")
	}
}

func TestExpectReplaces(t *testing.T) {
	s := newTestStore()
	s.Expect(1, CreateFolder{})
	s.Expect(1, RenameFolder{FolderID: 3, OldPath: "A"})

	p, ok := s.Take(1)
	if !ok {
		t.Fatal("expected pending input")
	}
	r, ok := p.(RenameFolder)
	if !ok {
		t.Fatalf("expected RenameFolder, got %T", p)
	}
	if r.FolderID != 3 || r.OldPath != "A" {
		t.Errorf("unexpected payload: %+v", r)
	}
}

func TestTakeIsPerUser(t *testing.T) {
	s := newTestStore()
	s.Expect(1, SetCaption{})
	if _, ok := s.Take(2); ok {
		t.Error("user 2 saw user 1's pending input")
	}
	if _, ok := s.Take(1); !ok {
		t.Error("user 1's pending input lost")
	}
}

func TestAttemptBudgetExhaustion(t *testing.T) {
	s := newTestStore()
	key := FolderKey(1, 100, "Movies")

	if s.FailAttempt(key) {
		t.Fatal("budget exhausted after one attempt")
	}
	if !s.FailAttempt(key) {
		t.Fatal("budget not exhausted after two attempts")
	}
	// Counter was cleared on exhaustion: the next interaction starts fresh.
	if s.FailAttempt(key) {
		t.Error("fresh budget exhausted after one attempt")
	}
}

func TestAttemptKeysAreIndependent(t *testing.T) {
	s := newTestStore()
	a := FolderKey(1, 100, "Movies")
	b := FolderKey(2, 100, "Movies")
	s.FailAttempt(a)
	if !s.FailAttempt(a) {
		t.Error("budget for key a not exhausted")
	}
	if s.FailAttempt(b) {
		t.Error("key b shares key a's counter")
	}
}

func TestVerifiedAccess(t *testing.T) {
	s := newTestStore()
	key := FileKey(1, 100, 7)
	if s.Verified(key) {
		t.Fatal("verified before any check")
	}
	s.FailAttempt(key)
	s.MarkVerified(key)
	if !s.Verified(key) {
		t.Fatal("not verified after MarkVerified")
	}
	// Success also resets the attempt counter.
	if s.FailAttempt(key) {
		t.Error("attempt counter survived MarkVerified")
	}
}

func TestStopFlags(t *testing.T) {
	s := newTestStore()
	if s.StopRequested(1) {
		t.Fatal("stop requested before any request")
	}
	s.RequestStop(1)
	if !s.StopRequested(1) {
		t.Fatal("stop flag not set")
	}
	if s.StopRequested(2) {
		t.Error("stop flag leaked to another user")
	}
	s.ClearStop(1)
	if s.StopRequested(1) {
		t.Error("stop flag survived ClearStop")
	}
}
