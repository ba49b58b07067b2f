package normalize_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bellatorhq/flowpulse/pkg/normalize"
)

var _ = Describe("Keys", func() {
	It("rewrites camelCase keys to snake_case", func() {
		in := map[string]interface{}{
			"userName":       "cemekim",
			"followersCount": float64(42),
		}

		out := normalize.Keys(in).(map[string]interface{})
		Expect(out).To(HaveKeyWithValue("user_name", "cemekim"))
		Expect(out).To(HaveKeyWithValue("followers_count", float64(42)))
		Expect(out).NotTo(HaveKey("userName"))
	})

	It("leaves keys already in snake_case unchanged", func() {
		in := map[string]interface{}{"user_name": "x", "plain": true}

		out := normalize.Keys(in).(map[string]interface{})
		Expect(out).To(Equal(in))
	})

	It("recurses into nested maps and sequences", func() {
		in := map[string]interface{}{
			"profileInfo": map[string]interface{}{
				"displayName": "Cem",
			},
			"recentPosts": []interface{}{
				map[string]interface{}{"fullText": "hi"},
				"scalar untouched",
			},
		}

		out := normalize.Keys(in).(map[string]interface{})
		profile := out["profile_info"].(map[string]interface{})
		Expect(profile).To(HaveKeyWithValue("display_name", "Cem"))

		posts := out["recent_posts"].([]interface{})
		Expect(posts).To(HaveLen(2))
		Expect(posts[0]).To(HaveKeyWithValue("full_text", "hi"))
		Expect(posts[1]).To(Equal("scalar untouched"))
	})

	It("passes nil and scalars through unchanged", func() {
		Expect(normalize.Keys(nil)).To(BeNil())
		Expect(normalize.Keys("plainString")).To(Equal("plainString"))
		Expect(normalize.Keys(float64(7))).To(Equal(float64(7)))
		Expect(normalize.Keys(map[string]interface{}{"someKey": nil})).
			To(HaveKeyWithValue("some_key", BeNil()))
	})

	It("is idempotent", func() {
		in := map[string]interface{}{
			"createdAt": "2024-01-01",
			"nested":    []interface{}{map[string]interface{}{"isVerified": true}},
		}

		once := normalize.Keys(in)
		twice := normalize.Keys(once)
		Expect(twice).To(Equal(once))
	})

	It("does not mutate its input", func() {
		inner := map[string]interface{}{"someKey": "v"}
		in := map[string]interface{}{"outerKey": inner}

		normalize.Keys(in)
		Expect(in).To(HaveKey("outerKey"))
		Expect(inner).To(HaveKey("someKey"))
	})
})

var _ = Describe("SnakeCase", func() {
	It("converts each uppercase letter", func() {
		Expect(normalize.SnakeCase("createdAt")).To(Equal("created_at"))
		Expect(normalize.SnakeCase("isBlueVerified")).To(Equal("is_blue_verified"))
		Expect(normalize.SnakeCase("text")).To(Equal("text"))
	})
})
