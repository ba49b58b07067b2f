// Package mapper converts provider-shaped author and post payloads into the
// canonical storage schema. Inputs are expected to have been run through
// normalize.Keys first, so all keys are snake_case.
package mapper

import (
	"fmt"
	"time"
)

// isoMillis matches the instant encoding the dashboard already consumes.
const isoMillis = "2006-01-02T15:04:05.000Z"

// timeLayouts are the creation-time encodings the provider has been observed
// to emit. The legacy layout is Twitter's original created_at format.
var timeLayouts = []string{
	time.RFC3339,
	"Mon Jan 2 15:04:05 -0700 2006",
}

// Author converts a provider author snapshot into a canonical author record.
// All fields are copied through; the provider-internal "type" discriminator
// is dropped, "id" becomes "x_id" and "created_at" becomes "joined_at"
// re-encoded as an ISO-8601 UTC instant. An error is returned when
// created_at is missing or unparseable; the caller logs and skips.
func Author(raw map[string]interface{}) (map[string]interface{}, error) {
	out := copyWithout(raw, "type")

	if id, ok := out["id"]; ok {
		out["x_id"] = fmt.Sprintf("%v", id)
		delete(out, "id")
	}

	joined, err := rekeyInstant(out, "created_at", "joined_at")
	if err != nil {
		return nil, fmt.Errorf("mapping author: %w", err)
	}
	out["joined_at"] = joined

	return out, nil
}

// Post converts a provider post item into a canonical post record. Same
// contract as Author, with "created_at" becoming "posted_at". The nested
// "author" sub-object is removed; author identity is carried only via the
// author_username field the collector assigns afterwards.
func Post(raw map[string]interface{}) (map[string]interface{}, error) {
	out := copyWithout(raw, "type", "author")

	if id, ok := out["id"]; ok {
		out["x_id"] = fmt.Sprintf("%v", id)
		delete(out, "id")
	}

	posted, err := rekeyInstant(out, "created_at", "posted_at")
	if err != nil {
		return nil, fmt.Errorf("mapping post: %w", err)
	}
	out["posted_at"] = posted

	return out, nil
}

// ParseInstant parses a provider creation-time value into a time.Time.
func ParseInstant(v interface{}) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("created_at is %T, want string", v)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable created_at %q", s)
}

// rekeyInstant removes oldKey from m and returns its value re-encoded as an
// ISO-8601 UTC string suitable for newKey.
func rekeyInstant(m map[string]interface{}, oldKey, newKey string) (string, error) {
	v, ok := m[oldKey]
	if !ok || v == nil {
		return "", fmt.Errorf("missing %s", oldKey)
	}
	delete(m, oldKey)

	t, err := ParseInstant(v)
	if err != nil {
		return "", err
	}
	return t.Format(isoMillis), nil
}

func copyWithout(raw map[string]interface{}, drop ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}
