package auth

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mhalloran/golfsync/internal/dependencies/clock"
	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/path"
	"github.com/mhalloran/golfsync/internal/storage/blob"
	"github.com/mhalloran/golfsync/internal/storage/hybrid"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{2,20}$`)

// Service is the local auth provider: credential records cached on-device
// for fast sign-in, mirrored into the shared namespace for cross-device
// sign-in. The local copy is authoritative; shared mirror writes are best
// effort.
type Service struct {
	db     *hybrid.DB
	blobs  blob.Store
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	current *model.User
	loaded  bool
	nextSub int
	subs    map[int]*Feed
}

// New creates an auth service.
func New(db *hybrid.DB, blobs blob.Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		blobs:  blobs,
		clock:  clk,
		logger: logger.With("component", "auth"),
		subs:   make(map[int]*Feed),
	}
}

// NormalizeUsername lowercases an email-like identifier's local part.
func NormalizeUsername(identifier string) string {
	name := identifier
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name)
}

func credentialPath(username string) path.Path {
	return path.MustParse("credentials").MustChild(username)
}

func usernamePath(username string) path.Path {
	return path.MustParse("usernames").MustChild(username)
}

func profilePath(uid string) path.Path {
	return path.MustParse("users").MustChild(uid, "profile")
}

// SignUp registers a new account and signs it in.
func (s *Service) SignUp(ctx context.Context, identifier, password string) (*model.User, error) {
	username := NormalizeUsername(identifier)
	if !usernamePattern.MatchString(username) {
		return nil, model.ErrInvalidUsername
	}

	users := s.loadUsers(ctx)
	if _, ok := users[username]; ok {
		return nil, model.ErrUsernameTaken
	}
	if taken, err := s.sharedUsernameTaken(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, model.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	rec := credentialRecord{
		UID:          uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now().UnixMilli(),
	}
	users[username] = rec
	s.saveUsers(ctx, users)
	s.mirrorCredential(ctx, rec)

	user := rec.user()
	s.setSession(ctx, user)
	s.logger.Info("account created", "uid", user.ID, "username", username)
	return user, nil
}

// SignIn verifies a credential and establishes the session. The local
// cache is the fast path; on a cache miss the shared namespace is
// consulted and a hit is cached for next time. Every failure mode yields
// the same error so callers cannot tell which factor was wrong.
func (s *Service) SignIn(ctx context.Context, identifier, password string) (*model.User, error) {
	username := NormalizeUsername(identifier)

	users := s.loadUsers(ctx)
	rec, cached := users[username]
	if !cached {
		shared, err := s.sharedCredential(ctx, username)
		if err != nil {
			return nil, err
		}
		if shared == nil {
			return nil, model.ErrInvalidCredentials
		}
		rec = *shared
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return nil, model.ErrInvalidCredentials
	}

	if !cached {
		users[username] = rec
		s.saveUsers(ctx, users)
	}

	user := rec.user()
	s.setSession(ctx, user)
	s.logger.Info("signed in", "uid", user.ID)
	return user, nil
}

// SignOut clears the session.
func (s *Service) SignOut(ctx context.Context) {
	if err := s.blobs.Delete(ctx, blob.KeySession); err != nil {
		s.logger.Warn("clearing session blob failed", "error", err)
	}
	s.mu.Lock()
	s.current = nil
	s.loaded = true
	s.mu.Unlock()
	s.notify(nil)
}

// CurrentUser returns the signed-in user, or nil when signed out. The
// session blob is restored lazily on first call.
func (s *Service) CurrentUser(ctx context.Context) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.current = s.restoreSession(ctx)
		s.loaded = true
	}
	return s.current
}

// ChangePassword re-verifies the current credential before replacing it.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	user := s.CurrentUser(ctx)
	if user == nil {
		return model.ErrNotSignedIn
	}

	users := s.loadUsers(ctx)
	rec, ok := users[user.Username]
	if !ok {
		return model.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(oldPassword)) != nil {
		return model.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	rec.PasswordHash = string(hash)
	users[user.Username] = rec
	s.saveUsers(ctx, users)
	s.mirrorCredential(ctx, rec)
	return nil
}

// ChangeUsername re-verifies the credential, checks shared uniqueness,
// then updates every denormalized copy. Mirror failures are tolerated as
// long as the local rename succeeds.
func (s *Service) ChangeUsername(ctx context.Context, newIdentifier, password string) (*model.User, error) {
	user := s.CurrentUser(ctx)
	if user == nil {
		return nil, model.ErrNotSignedIn
	}

	newName := NormalizeUsername(newIdentifier)
	if !usernamePattern.MatchString(newName) {
		return nil, model.ErrInvalidUsername
	}
	if newName == user.Username {
		return user, nil
	}

	users := s.loadUsers(ctx)
	rec, ok := users[user.Username]
	if !ok {
		return nil, model.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return nil, model.ErrInvalidCredentials
	}
	if _, local := users[newName]; local {
		return nil, model.ErrUsernameTaken
	}
	if taken, err := s.sharedUsernameTaken(ctx, newName); err != nil {
		return nil, err
	} else if taken {
		return nil, model.ErrUsernameTaken
	}

	oldName := rec.Username
	rec.Username = newName
	delete(users, oldName)
	users[newName] = rec
	s.saveUsers(ctx, users)

	s.mirrorCredential(ctx, rec)
	s.mirrorRemove(ctx, credentialPath(oldName))
	s.mirrorRemove(ctx, usernamePath(oldName))

	updated := rec.user()
	s.setSession(ctx, updated)
	s.logger.Info("username changed", "uid", rec.UID, "from", oldName, "to", newName)
	return updated, nil
}

// DeleteAccount re-verifies the credential, then purges the account: the
// cached credential, session, avatar, and every shared-namespace record.
func (s *Service) DeleteAccount(ctx context.Context, password string) error {
	user := s.CurrentUser(ctx)
	if user == nil {
		return model.ErrNotSignedIn
	}

	users := s.loadUsers(ctx)
	rec, ok := users[user.Username]
	if !ok {
		return model.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return model.ErrInvalidCredentials
	}

	delete(users, user.Username)
	s.saveUsers(ctx, users)

	s.mirrorRemove(ctx, credentialPath(user.Username))
	s.mirrorRemove(ctx, usernamePath(user.Username))
	s.mirrorRemove(ctx, path.MustParse("users").MustChild(rec.UID))
	if err := s.blobs.Delete(ctx, blob.AvatarKey(rec.UID)); err != nil {
		s.logger.Warn("avatar delete failed", "uid", rec.UID, "error", err)
	}

	s.SignOut(ctx)
	s.logger.Info("account deleted", "uid", rec.UID)
	return nil
}

// sharedCredential reads the shared namespace's credential record, nil
// when absent. Because the initial existence check governs sign-in, store
// errors propagate rather than defaulting to "not found".
func (s *Service) sharedCredential(ctx context.Context, username string) (*credentialRecord, error) {
	snap, err := s.db.Ref(credentialPath(username)).Once(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, nil
	}
	rec := decodeCredential(username, snap.Value)
	if rec == nil {
		return nil, nil
	}
	return rec, nil
}

func (s *Service) sharedUsernameTaken(ctx context.Context, username string) (bool, error) {
	snap, err := s.db.Ref(usernamePath(username)).Once(ctx)
	if err != nil {
		return false, err
	}
	return snap.Exists, nil
}

// mirrorCredential pushes the denormalized copies of a credential into the
// shared namespace.
func (s *Service) mirrorCredential(ctx context.Context, rec credentialRecord) {
	writes := []struct {
		p     path.Path
		value any
	}{
		{credentialPath(rec.Username), rec.encode()},
		{usernamePath(rec.Username), rec.UID},
		{profilePath(rec.UID), map[string]any{
			"username":  rec.Username,
			"createdAt": rec.CreatedAt,
		}},
	}
	for _, w := range writes {
		if err := s.db.Ref(w.p).Set(ctx, w.value); err != nil {
			s.logger.Warn("credential mirror write failed", "path", w.p.String(), "error", err)
		}
	}
}

func (s *Service) mirrorRemove(ctx context.Context, p path.Path) {
	if err := s.db.Ref(p).Remove(ctx); err != nil {
		s.logger.Warn("credential mirror removal failed", "path", p.String(), "error", err)
	}
}
