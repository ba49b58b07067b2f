package collector

import (
	"fmt"

	"github.com/bellatorhq/flowpulse/pkg/db/models"
	"github.com/bellatorhq/flowpulse/pkg/mapper"
)

// buildAuthor maps a normalized provider author snapshot into an Author
// model. The canonical columns are lifted out of the mapped record; every
// remaining attribute is carried verbatim in the profile payload.
func buildAuthor(raw map[string]interface{}) (*models.Author, error) {
	if raw == nil {
		return nil, fmt.Errorf("item has no embedded author snapshot")
	}

	mapped, err := mapper.Author(raw)
	if err != nil {
		return nil, err
	}

	userName := stringField(mapped, "user_name")
	if userName == "" {
		return nil, fmt.Errorf("author snapshot has no user_name")
	}

	joinedAt, err := mapper.ParseInstant(mapped["joined_at"])
	if err != nil {
		return nil, err
	}

	author := &models.Author{
		XID:      stringField(mapped, "x_id"),
		UserName: userName,
		Name:     stringField(mapped, "name"),
		JoinedAt: joinedAt,
		Profile:  remainder(mapped, "x_id", "user_name", "name", "joined_at"),
	}
	return author, nil
}

// buildPost maps a normalized provider post item into a Post model. The
// author_username column is left for the caller, which assigns it after the
// author row is known.
func buildPost(raw map[string]interface{}) (*models.Post, error) {
	mapped, err := mapper.Post(raw)
	if err != nil {
		return nil, err
	}

	xID := stringField(mapped, "x_id")
	if xID == "" {
		return nil, fmt.Errorf("post item has no id")
	}

	postedAt, err := mapper.ParseInstant(mapped["posted_at"])
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		XID:      xID,
		Text:     stringField(mapped, "text"),
		FullText: stringField(mapped, "full_text"),
		Lang:     stringField(mapped, "lang"),
		PostedAt: postedAt,
		Payload:  remainder(mapped, "x_id", "text", "full_text", "lang", "posted_at"),
	}
	return post, nil
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// remainder copies m without the lifted keys.
func remainder(m map[string]interface{}, lifted ...string) models.JSONMap {
	out := make(models.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range lifted {
		delete(out, k)
	}
	return out
}
