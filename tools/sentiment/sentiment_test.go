package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name               string
		text               string
		expectedAssessment string
	}{
		{name: "positive", text: "I love this!", expectedAssessment: "positive"},
		{name: "negative", text: "I hate this.", expectedAssessment: "negative"},
		{name: "neutral", text: "The package arrived on Tuesday.", expectedAssessment: "neutral"},
		{name: "empty", text: "", expectedAssessment: "neutral"},
		{name: "negated positive", text: "This is not good.", expectedAssessment: "negative"},
		{name: "negated contraction", text: "I don't like it.", expectedAssessment: "negative"},
		{name: "intensified", text: "This is really great.", expectedAssessment: "positive"},
		{name: "mixed leaning positive", text: "Slow start but a wonderful finish.", expectedAssessment: "positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := Analyze(tt.text)
			assert.Equal(t, tt.expectedAssessment, analysis.Assessment)

			switch tt.expectedAssessment {
			case "positive":
				assert.Greater(t, analysis.Polarity, 0.0)
			case "negative":
				assert.Less(t, analysis.Polarity, 0.0)
			case "neutral":
				assert.Zero(t, analysis.Polarity)
			}

			assert.GreaterOrEqual(t, analysis.Polarity, -1.0)
			assert.LessOrEqual(t, analysis.Polarity, 1.0)
			assert.GreaterOrEqual(t, analysis.Subjectivity, 0.0)
			assert.LessOrEqual(t, analysis.Subjectivity, 1.0)
		})
	}
}

func TestAnalyze_IntensifierScalesPolarity(t *testing.T) {
	plain := Analyze("This is good.")
	boosted := Analyze("This is very good.")
	assert.Greater(t, boosted.Polarity, plain.Polarity)
}

func TestAnalyze_ExclamationAmplifies(t *testing.T) {
	calm := Analyze("I love this")
	excited := Analyze("I love this!")
	assert.Greater(t, excited.Polarity, calm.Polarity)
}

func TestTool(t *testing.T) {
	tool := Tool()
	assert.Equal(t, "sentiment_analysis", tool.Name)
	require.NotNil(t, tool.InputSchema)
	require.NotNil(t, tool.OutputSchema)

	payload, err := tool.Func(context.Background(), map[string]interface{}{"text": "I love this!"})
	require.NoError(t, err)
	assert.Equal(t, "positive", payload["assessment"])
	assert.Greater(t, payload["polarity"].(float64), 0.0)

	_, err = tool.Func(context.Background(), map[string]interface{}{"text": 1})
	assert.Error(t, err)
}
