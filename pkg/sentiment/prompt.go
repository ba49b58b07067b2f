package sentiment

import "fmt"

// analysisPrompt instructs the model to score a post on Flow-blockchain
// sentiment and answer with a single strict JSON object. Models still tend
// to wrap the object in commentary, which extractJSON tolerates.
const analysisPrompt = `You are a sentiment analysis expert. Always respond with valid JSON.

Analyze the following tweet about Flow blockchain and provide:
1. A sentiment score between -100 and +100 (negative to positive)
2. A sentiment category: "Positive", "Neutral", or "Negative"
3. A brief explanation of your analysis

Tweet: %q

Respond in JSON format:
{
  "score": <number between -100 and 100>,
  "sentiment": "<Positive/Neutral/Negative>",
  "explanation": "<brief explanation>"
}`

func buildPrompt(text string) string {
	return fmt.Sprintf(analysisPrompt, text)
}
