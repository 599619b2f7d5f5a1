package motto

import "strings"

const maxWords = 8

var stripChars = strings.NewReplacer(
	"‘", " ", "’", " ", "'", " ", "\"", " ", "“", " ", "”", " ",
	".", " ", ",", " ", "!", " ", "?", " ", ";", " ", ":", " ", "~", " ", "`", " ",
	"<", " ", ">", " ", "(", " ", ")", " ", "[", " ", "]", " ", "{", " ", "}", " ",
)

// ToMaxEightWords strips quotes and punctuation, collapses whitespace and
// keeps at most the first eight words.
func ToMaxEightWords(s string) string {
	words := strings.Fields(stripChars.Replace(s))
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}

// locationMottos back the location card when generation is unavailable.
var locationMottos = []string{
	"Explore learn and thrive",
	"Find your place and grow",
	"Chase curiosity across cities",
	"Discover your best direction",
	"Go further with purpose",
	"Learn boldly live brightly",
	"Dream big explore smarter",
}

const personaSystemPrompt = `You are a concise copywriter.
Write ONE short ENGLISH motto for the given student persona.
Constraints:
- At most 8 words
- Plain text only (no punctuation or emoji)
- Imperative or inspirational tone
- Avoid repeating the same word`

const locationSystemPrompt = `You are a copywriter.
Write ONE short ENGLISH motto for a student's "Location" card.
Constraints:
- At most 8 words
- Plain text only (no quotes, emoji, punctuation)
- Prefer imperative vibe (e.g. Explore learn and thrive)
- No duplicate words if possible`
