package bank

// courseSchemaURL names the compiled schema resource.
const courseSchemaURL = "schema://course-package.json"

// courseSchema is the JSON schema for a course package file.
var courseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"courseKey": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"title": map[string]any{
			"type": "string",
		},
		"status": map[string]any{
			"type": "string",
			"enum": []any{string(StatusPublished), string(StatusDraft)},
		},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"contentId": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"type": map[string]any{
						"type": "string",
						"enum": []any{"SINGLE_CHOICE", "MULTI_CHOICE", "TRUE_FALSE", "FILL_BLANK"},
					},
					"stem": map[string]any{
						"type": "string",
					},
					"answer": map[string]any{
						"type": "string",
					},
					"options": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required":             []any{"contentId", "type", "stem", "answer"},
				"additionalProperties": false,
			},
		},
	},
	"required": []any{"courseKey", "questions"},
}
