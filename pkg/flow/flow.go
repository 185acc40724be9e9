// Package flow holds the per-user conversational state. Telegram delivers
// messages and button presses as independent events, so multi-step flows
// record what kind of input they expect next and the plain-text handler
// consumes that expectation on the following message.
//
// All state lives in TTL caches: an abandoned flow expires instead of
// leaking an entry for the life of the process.
package flow

import (
	"fmt"
	"time"

	"github.com/AnimeKaizoku/cacher"
)

// PasswordAttemptBudget is how many wrong submissions a verification flow
// tolerates before the expectation is dropped and the link must be re-opened.
const PasswordAttemptBudget = 2

// Pending is one expected-input variant. Exactly one may be armed per user.
type Pending interface{ pendingInput() }

type CreateFolder struct{}

type CreateSubfolder struct {
	Parent string
}

type RenameFolder struct {
	FolderID uint
	OldPath  string
}

type SetFolderPassword struct {
	FolderID uint
}

type VerifyFolderPassword struct {
	OwnerID int64
	Path    string
}

type SetFilePassword struct {
	FileID uint
}

type VerifyFilePassword struct {
	OwnerID int64
	FileID  uint
}

type SetCaption struct{}

type AddFilenameFilter struct{}

type AddDestination struct{}

type EditTopic struct {
	DestID uint
}

func (CreateFolder) pendingInput()         {}
func (CreateSubfolder) pendingInput()      {}
func (RenameFolder) pendingInput()         {}
func (SetFolderPassword) pendingInput()    {}
func (VerifyFolderPassword) pendingInput() {}
func (SetFilePassword) pendingInput()      {}
func (VerifyFilePassword) pendingInput()   {}
func (SetCaption) pendingInput()           {}
func (AddFilenameFilter) pendingInput()    {}
func (AddDestination) pendingInput()       {}
func (EditTopic) pendingInput()            {}

// AccessKey identifies one viewer's attempt to open one protected target.
type AccessKey struct {
	ViewerID int64
	OwnerID  int64
	Target   string
}

// FolderKey builds an AccessKey for a protected folder path.
func FolderKey(viewerID, ownerID int64, path string) AccessKey {
	return AccessKey{ViewerID: viewerID, OwnerID: ownerID, Target: "folder:" + path}
}

// FileKey builds an AccessKey for a protected file.
func FileKey(viewerID, ownerID int64, fileID uint) AccessKey {
	return AccessKey{ViewerID: viewerID, OwnerID: ownerID, Target: fmt.Sprintf("file:%d", fileID)}
}

// Store is the process-wide session store.
type Store struct {
	pending  *cacher.Cacher[int64, Pending]
	attempts *cacher.Cacher[AccessKey, int]
	verified *cacher.Cacher[AccessKey, struct{}]
	stops    *cacher.Cacher[int64, struct{}]
}

// Options bound the lifetime of each state class.
type Options struct {
	PendingTTL  time.Duration
	VerifiedTTL time.Duration
}

func NewStore(opts Options) *Store {
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = 10 * time.Minute
	}
	if opts.VerifiedTTL <= 0 {
		opts.VerifiedTTL = 12 * time.Hour
	}
	return &Store{
		pending: cacher.NewCacher[int64, Pending](&cacher.NewCacherOpts{
			TimeToLive:    opts.PendingTTL,
			CleanInterval: opts.PendingTTL,
		}),
		attempts: cacher.NewCacher[AccessKey, int](&cacher.NewCacherOpts{
			TimeToLive:    opts.PendingTTL,
			CleanInterval: opts.PendingTTL,
		}),
		verified: cacher.NewCacher[AccessKey, struct{}](&cacher.NewCacherOpts{
			TimeToLive:    opts.VerifiedTTL,
			CleanInterval: opts.VerifiedTTL,
		}),
		// Stop flags are polled within seconds; a short TTL is enough.
		stops: cacher.NewCacher[int64, struct{}](&cacher.NewCacherOpts{
			TimeToLive:    time.Hour,
			CleanInterval: time.Hour,
		}),
	}
}

// Expect arms an expected-input state for the user, replacing any previous one.
func (s *Store) Expect(userID int64, p Pending) {
	s.pending.Set(userID, p)
}

// Take consumes and clears the user's expected-input state in one step.
// Handlers that need to keep waiting (password verification) must re-arm
// explicitly.
func (s *Store) Take(userID int64) (Pending, bool) {
	p, ok := s.pending.Get(userID)
	if ok {
		s.pending.Delete(userID)
	}
	return p, ok
}

// Clear drops the user's expected-input state without consuming it.
func (s *Store) Clear(userID int64) {
	s.pending.Delete(userID)
}

// FailAttempt records one wrong password submission and reports whether the
// attempt budget is now exhausted. On exhaustion the counter is cleared so a
// fresh link click starts a fresh budget.
func (s *Store) FailAttempt(key AccessKey) (exhausted bool) {
	n, _ := s.attempts.Get(key)
	n++
	if n >= PasswordAttemptBudget {
		s.attempts.Delete(key)
		return true
	}
	s.attempts.Set(key, n)
	return false
}

// ClearAttempts resets the attempt counter for a key.
func (s *Store) ClearAttempts(key AccessKey) {
	s.attempts.Delete(key)
}

// MarkVerified records a successful password check so the viewer is not
// re-prompted for the same target.
func (s *Store) MarkVerified(key AccessKey) {
	s.attempts.Delete(key)
	s.verified.Set(key, struct{}{})
}

// Verified reports whether the viewer has already opened this target.
func (s *Store) Verified(key AccessKey) bool {
	_, ok := s.verified.Get(key)
	return ok
}

// RequestStop asks the user's running batch send to stop after the current
// item.
func (s *Store) RequestStop(userID int64) {
	s.stops.Set(userID, struct{}{})
}

// StopRequested reports whether a stop has been requested for the user.
func (s *Store) StopRequested(userID int64) bool {
	_, ok := s.stops.Get(userID)
	return ok
}

// ClearStop removes the user's stop flag. Batch loops call this on exit.
func (s *Store) ClearStop(userID int64) {
	s.stops.Delete(userID)
}
