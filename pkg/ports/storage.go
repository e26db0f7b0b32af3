package ports

import "context"

// StorageBackend is the host's persistent key-value client storage.
// Implementations must return domain.ErrInteractionNotFound from Get when the
// key is absent.
type StorageBackend interface {
	// Set persists raw bytes under a key, overwriting any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Get retrieves the bytes stored under a key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists stored keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
