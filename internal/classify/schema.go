package classify

import (
	"encoding/json"

	"github.com/invariante/zeit/internal/activity"
)

// sceneSchema constrains the vision model's multi-screen output.
var sceneSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"primary_screen": {
			"type": "integer",
			"description": "The screen number (1, 2, 3, etc.) that is the PRIMARY/ACTIVE screen where the user is currently focused."
		},
		"main_activity_description": {
			"type": "string",
			"description": "A brief description of the user's main activity based on the PRIMARY screen. Describe enough to understand what the main activity the user is engaged in."
		},
		"secondary_context": {
			"type": ["string", "null"],
			"description": "Brief description of what's visible on secondary screens for context. Set to null if there's nothing notable or only one screen."
		}
	},
	"required": ["primary_screen", "main_activity_description"]
}`)

// resultSchema constrains the text model to a closed activity enum. It is
// built from the activity list so the schema can never drift from the
// labels the parser accepts.
var resultSchema = buildResultSchema()

func buildResultSchema() json.RawMessage {
	labels := make([]string, 0, len(activity.All))
	for _, a := range activity.All {
		labels = append(labels, string(a))
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"main_activity": map[string]any{
				"type":        "string",
				"enum":        labels,
				"description": "Main detected activity from the screenshot. Select the most prominent activity, no matter if there are indications of other activities.",
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "The reasoning behind the selection of the main activity. Explain why this activity was selected based on the description of the screenshot.",
			},
			"secondary_context": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Brief description of activities visible on secondary screens, if any.",
			},
		},
		"required": []string{"main_activity", "reasoning"},
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	return raw
}
