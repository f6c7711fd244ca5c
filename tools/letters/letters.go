// Package letters implements the letter_counter tool: count how many times a
// letter appears in a word. The canonical "how many r's in strawberry"
// teaching example.
package letters

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/mattt/moodring/tools"
)

// Count returns the number of case-insensitive occurrences of letter in word
func Count(word, letter string) int {
	return strings.Count(strings.ToLower(word), strings.ToLower(letter))
}

// Tool declares the letter_counter tool
func Tool() tools.Tool {
	one := 1
	return tools.Tool{
		Name:        "letter_counter",
		Description: "Count the occurrences of a letter in a word.",
		InputSchema: tools.ObjectSchema(map[string]*jsonschema.Schema{
			"word": {
				Type:        "string",
				Description: "The word to search",
			},
			"letter": {
				Type:        "string",
				Description: "The letter to count",
				MinLength:   &one,
				MaxLength:   &one,
			},
		}, []string{"word", "letter"}),
		OutputSchema: tools.ObjectSchema(map[string]*jsonschema.Schema{
			"count": {
				Type:        "integer",
				Description: "Number of occurrences",
			},
		}, []string{"count"}),
		Func: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			word, ok := args["word"].(string)
			if !ok {
				return nil, fmt.Errorf("word must be a string")
			}
			letter, ok := args["letter"].(string)
			if !ok {
				return nil, fmt.Errorf("letter must be a string")
			}

			return map[string]interface{}{
				"count": Count(word, letter),
			}, nil
		},
	}
}
