package sentiment

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/mattt/moodring/tools"
)

// Tool declares the sentiment_analysis tool: text in, polarity /
// subjectivity / assessment out.
func Tool() tools.Tool {
	return tools.Tool{
		Name:        "sentiment_analysis",
		Description: "Analyze the sentiment of the given text.",
		InputSchema: tools.ObjectSchema(map[string]*jsonschema.Schema{
			"text": {
				Type:        "string",
				Description: "The text to analyze",
			},
		}, []string{"text"}),
		OutputSchema: tools.ObjectSchema(map[string]*jsonschema.Schema{
			"polarity": {
				Type:        "number",
				Description: "Sentiment polarity between -1 (negative) and 1 (positive)",
			},
			"subjectivity": {
				Type:        "number",
				Description: "Subjectivity between 0 (objective) and 1 (subjective)",
			},
			"assessment": {
				Type:        "string",
				Description: "Overall assessment",
				Enum:        []interface{}{"positive", "negative", "neutral"},
			},
		}, []string{"polarity", "subjectivity", "assessment"}),
		Func: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			text, ok := args["text"].(string)
			if !ok {
				return nil, fmt.Errorf("text must be a string")
			}

			analysis := Analyze(text)
			return map[string]interface{}{
				"polarity":     analysis.Polarity,
				"subjectivity": analysis.Subjectivity,
				"assessment":   analysis.Assessment,
			}, nil
		},
	}
}
