package settings

import "context"

type Repository interface {
	// Get returns the value for a key. Returns ErrSettingNotFound for absent keys.
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or overwrites one key.
	Set(ctx context.Context, key, value string) error

	// All returns every stored key/value pair.
	All(ctx context.Context) (map[string]string, error)

	// ReplaceTabs swaps the whole tab configuration for the given keys, in order.
	ReplaceTabs(ctx context.Context, keys []string) error

	// ListTabs returns the tab configuration ordered by position.
	ListTabs(ctx context.Context) ([]*Tab, error)
}
