package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ranwip/pm-backend/internal/apperr"
)

// Reactions maps an emoji to the ids of users who reacted with it. A stored
// value never holds an empty set or a repeated user.
type Reactions map[string][]string

// Normalize trims emoji keys, then drops empty keys, empty sets and repeated
// users. Keys that trim to the same emoji are merged.
func (r Reactions) Normalize() Reactions {
	keys := make([]string, 0, len(r))
	for emoji := range r {
		keys = append(keys, emoji)
	}
	sort.Strings(keys)

	out := make(Reactions, len(r))
	seen := make(map[string]map[string]bool, len(r))
	for _, raw := range keys {
		emoji := strings.TrimSpace(raw)
		if emoji == "" {
			continue
		}
		if seen[emoji] == nil {
			seen[emoji] = make(map[string]bool, len(r[raw]))
		}
		for _, u := range r[raw] {
			if u == "" || seen[emoji][u] {
				continue
			}
			seen[emoji][u] = true
			out[emoji] = append(out[emoji], u)
		}
	}
	return out
}

// Add records userID under emoji. It reports false when already present.
func (r Reactions) Add(emoji, userID string) bool {
	emoji = strings.TrimSpace(emoji)
	for _, u := range r[emoji] {
		if u == userID {
			return false
		}
	}
	r[emoji] = append(r[emoji], userID)
	return true
}

// Remove drops userID from emoji and deletes the key once its set is empty.
// It fails when nobody reacted with emoji. Removing a user who is not in an
// existing set changes nothing.
func (r Reactions) Remove(emoji, userID string) error {
	emoji = strings.TrimSpace(emoji)
	users, ok := r[emoji]
	if !ok || len(users) == 0 {
		return NoReactions(emoji)
	}
	kept := users[:0:0]
	for _, u := range users {
		if u != userID {
			kept = append(kept, u)
		}
	}
	if len(kept) == 0 {
		delete(r, emoji)
		return nil
	}
	r[emoji] = kept
	return nil
}

func (r Reactions) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

func (r *Reactions) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*r = Reactions{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Reactions", src)
	}
	out := Reactions{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode reactions: %w", err)
	}
	*r = out.Normalize()
	return nil
}

// ParseEmoji returns the trimmed reaction key, rejecting a blank one.
func ParseEmoji(emoji string) (string, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return "", apperr.Validation("emoji is required")
	}
	return emoji, nil
}
