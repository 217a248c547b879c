package auth

import (
	"context"
	"encoding/json"

	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/storage/blob"
)

// credentialRecord is the stored shape of one account, both in the local
// cache blob and in the shared credentials namespace. The hash is a
// one-way verification token, never a recoverable secret.
type credentialRecord struct {
	UID          string `json:"uid"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    int64  `json:"createdAt"`
}

func (r credentialRecord) user() *model.User {
	return &model.User{ID: r.UID, Username: r.Username, CreatedAt: r.CreatedAt}
}

func (r credentialRecord) encode() map[string]any {
	return map[string]any{
		"uid":          r.UID,
		"passwordHash": r.PasswordHash,
		"createdAt":    r.CreatedAt,
	}
}

func decodeCredential(username string, value any) *credentialRecord {
	doc, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	uid, _ := doc["uid"].(string)
	hash, _ := doc["passwordHash"].(string)
	if uid == "" || hash == "" {
		return nil
	}
	rec := &credentialRecord{UID: uid, Username: username, PasswordHash: hash}
	switch v := doc["createdAt"].(type) {
	case float64:
		rec.CreatedAt = int64(v)
	case int64:
		rec.CreatedAt = v
	}
	return rec
}

// loadUsers reads the cached credential map. An unreadable or corrupt blob
// degrades to an empty map, matching the local store's fail-open policy.
func (s *Service) loadUsers(ctx context.Context) map[string]credentialRecord {
	users := map[string]credentialRecord{}
	raw, found, err := s.blobs.Load(ctx, blob.KeyUsers)
	if err != nil {
		s.logger.Warn("loading user cache failed, starting empty", "error", err)
		return users
	}
	if !found {
		return users
	}
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		s.logger.Warn("user cache unreadable, starting empty", "error", err)
		return map[string]credentialRecord{}
	}
	return users
}

func (s *Service) saveUsers(ctx context.Context, users map[string]credentialRecord) {
	raw, err := json.Marshal(users)
	if err != nil {
		s.logger.Warn("encoding user cache failed", "error", err)
		return
	}
	if err := s.blobs.Save(ctx, blob.KeyUsers, string(raw)); err != nil {
		s.logger.Warn("persisting user cache failed", "error", err)
	}
}

// setSession persists the session blob, swaps the in-memory user, and
// notifies auth-state subscribers.
func (s *Service) setSession(ctx context.Context, user *model.User) {
	raw, err := json.Marshal(user)
	if err == nil {
		if err := s.blobs.Save(ctx, blob.KeySession, string(raw)); err != nil {
			s.logger.Warn("persisting session failed", "error", err)
		}
	}
	s.mu.Lock()
	s.current = user
	s.loaded = true
	s.mu.Unlock()
	s.notify(user)
}

// restoreSession reads the session blob. Callers hold s.mu.
func (s *Service) restoreSession(ctx context.Context) *model.User {
	raw, found, err := s.blobs.Load(ctx, blob.KeySession)
	if err != nil || !found {
		return nil
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		return nil
	}
	return &user
}
