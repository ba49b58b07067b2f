package collector_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/bellatorhq/flowpulse/pkg/apify"
	"github.com/bellatorhq/flowpulse/pkg/collector"
	"github.com/bellatorhq/flowpulse/pkg/db/models"
)

type fakeProvider struct {
	items []map[string]interface{}
	err   error
	input apify.ScrapeInput
	calls int
}

func (f *fakeProvider) Scrape(ctx context.Context, input apify.ScrapeInput) ([]map[string]interface{}, error) {
	f.calls++
	f.input = input
	return f.items, f.err
}

type fakeStore struct {
	authors    []*models.Author
	posts      []*models.Post
	upsertErr  error
	insertErrs map[string]error
}

func (f *fakeStore) UpsertAuthor(ctx context.Context, author *models.Author) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.authors = append(f.authors, author)
	return nil
}

func (f *fakeStore) InsertPost(ctx context.Context, post *models.Post) error {
	if err := f.insertErrs[post.XID]; err != nil {
		return err
	}
	f.posts = append(f.posts, post)
	return nil
}

// item builds a provider-shaped post payload with an embedded author, using
// the camelCase keys the provider emits.
func item(id string, author map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":      "tweet",
		"id":        id,
		"createdAt": "2024-01-01T00:00:00Z",
		"text":      "post " + id,
		"fullText":  "full post " + id,
		"author":    author,
	}
}

var _ = Describe("Collector", func() {
	var (
		provider *fakeProvider
		st       *fakeStore
		author   map[string]interface{}
		logger   *logrus.Logger
	)

	BeforeEach(func() {
		provider = &fakeProvider{}
		st = &fakeStore{insertErrs: map[string]error{}}
		author = map[string]interface{}{
			"type":           "user",
			"id":             "42",
			"userName":       "cemekim",
			"name":           "Cem",
			"createdAt":      "2020-06-15T09:30:00Z",
			"followersCount": float64(1200),
		}
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	})

	newCollector := func() *collector.Collector {
		c, err := collector.New(collector.Config{
			Provider: provider,
			Store:    st,
			Logger:   logger,
		})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("sends the window, language, sort and cap to the provider", func() {
		provider.items = nil

		_, err := newCollector().Collect(context.Background(), "cemekim")
		Expect(err).NotTo(HaveOccurred())
		Expect(provider.input.Author).To(Equal("cemekim"))
		Expect(provider.input.TweetLanguage).To(Equal("en"))
		Expect(provider.input.Sort).To(Equal("Latest"))
		Expect(provider.input.MaxItems).To(Equal(1000))
		Expect(provider.input.Start).To(MatchRegexp(`^\d{4}-\d{2}-\d{2}$`))
		Expect(provider.input.End).To(MatchRegexp(`^\d{4}-\d{2}-\d{2}$`))
	})

	It("returns a distinguishable no-results outcome without writing", func() {
		provider.items = nil

		result, err := newCollector().Collect(context.Background(), "cemekim")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(collector.OutcomeNoResults))
		Expect(st.authors).To(BeEmpty())
		Expect(st.posts).To(BeEmpty())
	})

	It("upserts the author once and inserts every mappable post", func() {
		provider.items = []map[string]interface{}{
			item("1", author),
			item("2", author),
			item("3", author),
		}

		result, err := newCollector().Collect(context.Background(), "cemekim")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(collector.OutcomeCollected))
		Expect(result.PostsInserted).To(Equal(3))
		Expect(result.PostsSkipped).To(Equal(0))

		Expect(st.authors).To(HaveLen(1))
		Expect(st.authors[0].UserName).To(Equal("cemekim"))
		Expect(st.authors[0].XID).To(Equal("42"))
		Expect(st.authors[0].Profile).To(HaveKeyWithValue("followers_count", float64(1200)))

		Expect(st.posts).To(HaveLen(3))
		for _, post := range st.posts {
			Expect(post.AuthorUsername).To(Equal("cemekim"))
			Expect(post.Payload).NotTo(HaveKey("author"))
			Expect(post.Payload).NotTo(HaveKey("type"))
		}
	})

	It("skips a malformed post without blocking the batch", func() {
		bad := item("3", author)
		delete(bad, "createdAt")
		provider.items = []map[string]interface{}{
			item("1", author), item("2", author), bad, item("4", author), item("5", author),
		}

		result, err := newCollector().Collect(context.Background(), "cemekim")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.PostsInserted).To(Equal(4))
		Expect(result.PostsSkipped).To(Equal(1))
		Expect(st.authors).To(HaveLen(1))
	})

	It("skips a post whose insert fails and continues", func() {
		provider.items = []map[string]interface{}{item("1", author), item("2", author)}
		st.insertErrs["1"] = errors.New("insert rejected")

		result, err := newCollector().Collect(context.Background(), "cemekim")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.PostsInserted).To(Equal(1))
		Expect(result.PostsSkipped).To(Equal(1))
	})

	It("takes the author snapshot from the last item", func() {
		otherSnapshot := map[string]interface{}{
			"id":        "42",
			"userName":  "cemekim",
			"name":      "Cem (updated)",
			"createdAt": "2020-06-15T09:30:00Z",
		}
		provider.items = []map[string]interface{}{item("1", author), item("2", otherSnapshot)}

		_, err := newCollector().Collect(context.Background(), "cemekim")
		Expect(err).NotTo(HaveOccurred())
		Expect(st.authors).To(HaveLen(1))
		Expect(st.authors[0].Name).To(Equal("Cem (updated)"))
	})

	It("aborts the run when the author snapshot cannot be mapped", func() {
		broken := map[string]interface{}{"id": "42", "userName": "cemekim"}
		provider.items = []map[string]interface{}{item("1", broken)}

		_, err := newCollector().Collect(context.Background(), "cemekim")
		Expect(err).To(HaveOccurred())
		Expect(st.authors).To(BeEmpty())
		Expect(st.posts).To(BeEmpty())
	})

	It("aborts the run when the author upsert fails", func() {
		provider.items = []map[string]interface{}{item("1", author)}
		st.upsertErr = fmt.Errorf("db down")

		_, err := newCollector().Collect(context.Background(), "cemekim")
		Expect(err).To(HaveOccurred())
		Expect(st.posts).To(BeEmpty())
	})

	It("propagates a provider failure as a hard run failure", func() {
		provider.err = &apify.ConnectionError{Err: errors.New("unreachable")}

		_, err := newCollector().Collect(context.Background(), "cemekim")
		Expect(err).To(HaveOccurred())

		var connErr *apify.ConnectionError
		Expect(errors.As(err, &connErr)).To(BeTrue())
	})

	It("requires a provider and a store at construction", func() {
		_, err := collector.New(collector.Config{Store: st})
		Expect(err).To(HaveOccurred())
		_, err = collector.New(collector.Config{Provider: provider})
		Expect(err).To(HaveOccurred())
	})
})
