package validation

// SubmissionSchema describes POST /api/answers bodies.
var SubmissionSchema = MustCompile("submission", `{
	"type": "object",
	"required": ["answers"],
	"properties": {
		"answers": {
			"type": "object",
			"maxProperties": 32,
			"additionalProperties": {"type": "string", "maxLength": 256}
		},
		"persona": {"type": "string", "minLength": 1, "maxLength": 64},
		"meta": {
			"type": "object",
			"properties": {
				"ua": {"type": "string", "maxLength": 512},
				"screen": {"type": "string", "maxLength": 64},
				"sessionId": {"type": "string", "maxLength": 128}
			}
		}
	}
}`)

// AnswersSchema describes partial answer-set updates.
var AnswersSchema = MustCompile("answers", `{
	"type": "object",
	"required": ["answers"],
	"properties": {
		"answers": {
			"type": "object",
			"maxProperties": 32,
			"propertyNames": {"pattern": "^[A-Za-z0-9_-]{1,32}$"},
			"additionalProperties": {"type": "string", "minLength": 1, "maxLength": 256}
		}
	}
}`)

// LocationSchema describes POST /api/location bodies.
var LocationSchema = MustCompile("location", `{
	"type": "object",
	"properties": {
		"avatar": {"type": "string", "maxLength": 64},
		"answers": {
			"type": "object",
			"maxProperties": 32,
			"additionalProperties": {"type": "string", "maxLength": 256}
		}
	}
}`)
