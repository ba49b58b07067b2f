package sentiment_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/bellatorhq/flowpulse/pkg/llm"
	"github.com/bellatorhq/flowpulse/pkg/sentiment"
)

// fakeLLM returns a canned completion (or error) and records its prompts.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

var _ = Describe("Analyzer", func() {
	var (
		model  *fakeLLM
		logger *logrus.Logger
	)

	BeforeEach(func() {
		model = &fakeLLM{}
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	})

	newAnalyzer := func() *sentiment.Analyzer {
		a, err := sentiment.NewAnalyzer(model, logger)
		Expect(err).NotTo(HaveOccurred())
		return a
	}

	It("parses a clean JSON response", func() {
		model.response = `{"score": -40, "sentiment": "Negative", "explanation": "gripes about fees"}`

		result := newAnalyzer().Analyze(context.Background(), "fees are painful")
		Expect(result.Score).To(Equal(-40))
		Expect(result.Sentiment).To(Equal(sentiment.Negative))
		Expect(result.Explanation).To(Equal("gripes about fees"))
		Expect(result.Degraded).To(BeFalse())
	})

	It("tolerates commentary around the JSON object and clamps the score", func() {
		model.response = `Sure! {"score": 150, "sentiment": "Positive", "explanation": "x"}`

		result := newAnalyzer().Analyze(context.Background(), "to the moon")
		Expect(result.Score).To(Equal(100))
		Expect(result.Sentiment).To(Equal(sentiment.Positive))
		Expect(result.Explanation).To(Equal("x"))
		Expect(result.Degraded).To(BeFalse())
	})

	It("clamps scores below the lower bound", func() {
		model.response = `{"score": -9000, "sentiment": "Negative", "explanation": "x"}`

		result := newAnalyzer().Analyze(context.Background(), "rug pull")
		Expect(result.Score).To(Equal(-100))
	})

	It("degrades to tagged neutral when the response has no braces", func() {
		model.response = "I cannot answer that."

		result := newAnalyzer().Analyze(context.Background(), "gm")
		Expect(result.Score).To(Equal(0))
		Expect(result.Sentiment).To(Equal(sentiment.Neutral))
		Expect(result.Explanation).To(ContainSubstring("analysis failed"))
		Expect(result.Degraded).To(BeTrue())
		Expect(result.Reason).To(Equal(sentiment.ReasonNoJSON))
	})

	It("degrades to tagged neutral on malformed JSON", func() {
		model.response = `{"score": oops}`

		result := newAnalyzer().Analyze(context.Background(), "gm")
		Expect(result.Degraded).To(BeTrue())
		Expect(result.Reason).To(Equal(sentiment.ReasonInvalidJSON))
	})

	It("degrades to tagged neutral on model errors", func() {
		model.err = errors.New("connection reset")

		result := newAnalyzer().Analyze(context.Background(), "gm")
		Expect(result.Score).To(Equal(0))
		Expect(result.Sentiment).To(Equal(sentiment.Neutral))
		Expect(result.Degraded).To(BeTrue())
		Expect(result.Reason).To(Equal(sentiment.ReasonModelError))
	})

	It("defaults missing sentiment and explanation", func() {
		model.response = `{"score": 25}`

		result := newAnalyzer().Analyze(context.Background(), "gm")
		Expect(result.Score).To(Equal(25))
		Expect(result.Sentiment).To(Equal(sentiment.Neutral))
		Expect(result.Explanation).To(Equal("Analysis completed"))
		Expect(result.Degraded).To(BeFalse())
	})

	It("embeds the post text in the prompt", func() {
		model.response = `{"score": 0}`

		newAnalyzer().Analyze(context.Background(), "flow is fine")
		Expect(model.prompts).To(HaveLen(1))
		Expect(model.prompts[0]).To(ContainSubstring("flow is fine"))
	})

	It("refuses to construct without a model", func() {
		_, err := sentiment.NewAnalyzer(nil, logger)
		Expect(err).To(HaveOccurred())
	})
})
