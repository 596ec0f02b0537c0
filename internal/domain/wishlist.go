package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// WishlistEntry is a saved-for-later product reference. Presence only.
type WishlistEntry struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// Wishlist is the ordered, unique-by-name collection persisted per profile.
type Wishlist struct {
	Entries []WishlistEntry `json:"entries"`
}

// NewWishlist returns an empty wishlist.
func NewWishlist() *Wishlist {
	return &Wishlist{Entries: []WishlistEntry{}}
}

// Contains reports whether an entry with the given name exists.
func (w *Wishlist) Contains(name string) bool {
	for _, e := range w.Entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Toggle removes the entry if present, otherwise appends it.
// It returns true when the entry was added.
func (w *Wishlist) Toggle(name string, price decimal.Decimal, image string) bool {
	if w.Remove(name) {
		return false
	}
	w.Entries = append(w.Entries, WishlistEntry{Name: name, Price: price, Image: image})
	return true
}

// Remove drops the entry with the given name and reports whether it existed.
func (w *Wishlist) Remove(name string) bool {
	kept := w.Entries[:0]
	for _, e := range w.Entries {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	removed := len(kept) != len(w.Entries)
	w.Entries = kept
	return removed
}

// Len returns the number of entries.
func (w *Wishlist) Len() int {
	return len(w.Entries)
}

// Names returns the set of entry names.
func (w *Wishlist) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(w.Entries))
	for _, e := range w.Entries {
		names[e.Name] = struct{}{}
	}
	return names
}

// Snapshot returns a copy of the entries.
func (w *Wishlist) Snapshot() []WishlistEntry {
	out := make([]WishlistEntry, len(w.Entries))
	copy(out, w.Entries)
	return out
}

// MarshalEntries serialises the whole collection as a JSON array.
func (w *Wishlist) MarshalEntries() (string, error) {
	data, err := json.Marshal(w.Entries)
	if err != nil {
		return "", fmt.Errorf("marshal wishlist: %w", err)
	}
	return string(data), nil
}

// UnmarshalWishlist rebuilds a wishlist from a stored JSON array. Prices may be
// JSON numbers or strings. Duplicate names keep their first occurrence.
func UnmarshalWishlist(raw string) (*Wishlist, error) {
	var entries []WishlistEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist: %w", err)
	}

	w := NewWishlist()
	for _, e := range entries {
		if w.Contains(e.Name) {
			continue
		}
		w.Entries = append(w.Entries, e)
	}
	return w, nil
}
