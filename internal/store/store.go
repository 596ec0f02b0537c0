package store

import (
	"context"
	"strings"
)

// Well-known keys in a profile's storage.
const (
	KeyAuthMarker = "qz_auth_user"
	KeyTheme      = "theme"
	KeyWishlist   = "wishlist"
)

// Store is a string-keyed, string-valued persistent store.
// Get returns an error wrapping apperrors.ErrNotFound for a missing key.
type Store interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

type namespaced struct {
	inner  Store
	prefix string
}

// Namespace scopes every key of inner under prefix, separated by ':'.
func Namespace(inner Store, prefix string) Store {
	return &namespaced{inner: inner, prefix: strings.TrimSuffix(prefix, ":") + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}

// ForProfile scopes a store to one storefront profile.
func ForProfile(inner Store, profileID string) Store {
	return Namespace(inner, "profile:"+profileID)
}
