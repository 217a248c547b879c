package blob

import "context"

// Store persists opaque text blobs under fixed keys: one blob per logical
// store (path document, credential cache, session, avatars). This is the
// durable-storage substrate for everything kept on-device.
type Store interface {
	// Load reads the blob at key. found is false when no blob exists.
	Load(ctx context.Context, key string) (value string, found bool, err error)

	// Save writes the blob at key, replacing any previous value.
	Save(ctx context.Context, key string, value string) error

	// Delete removes the blob at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Fixed blob keys. Each logical store owns exactly one key, except avatars
// which are stored per user.
const (
	KeyPathDocument = "wg-db"
	KeyUsers        = "wg-users"
	KeySession      = "wg-session"

	avatarKeyPrefix = "wg-avatar-"
)

// AvatarKey returns the blob key for a user's avatar image.
func AvatarKey(uid string) string {
	return avatarKeyPrefix + uid
}
