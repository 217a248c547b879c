package auth

import (
	"context"

	"github.com/mhalloran/golfsync/internal/storage/blob"
)

// Avatars are stored as opaque encoded image strings, one blob per user,
// outside the path document.

// SaveAvatar stores a user's avatar image.
func (s *Service) SaveAvatar(ctx context.Context, uid, encoded string) error {
	return s.blobs.Save(ctx, blob.AvatarKey(uid), encoded)
}

// Avatar loads a user's avatar image, reporting whether one is set.
func (s *Service) Avatar(ctx context.Context, uid string) (string, bool, error) {
	return s.blobs.Load(ctx, blob.AvatarKey(uid))
}

// DeleteAvatar removes a user's avatar image.
func (s *Service) DeleteAvatar(ctx context.Context, uid string) error {
	return s.blobs.Delete(ctx, blob.AvatarKey(uid))
}
