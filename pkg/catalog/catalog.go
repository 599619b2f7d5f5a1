// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"persona-quiz/internal/persona"
)

// Load reads a catalog from a JSON file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// LoadOrDefault loads path when set, otherwise returns Default().
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks ids are unique and every option scores toward a persona.
func (c *Catalog) Validate() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog has no questions")
	}
	seen := make(map[string]bool, len(c.Questions))
	for _, q := range c.Questions {
		if q.ID == "" {
			return fmt.Errorf("question with title %q has no id", q.Title)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = true
		if len(q.Options) == 0 {
			return fmt.Errorf("question %s has no options", q.ID)
		}
		for _, opt := range q.Options {
			if _, ok := persona.Lookup(opt.Label); !ok {
				return fmt.Errorf("question %s: option %q does not score toward any persona", q.ID, opt.Label)
			}
		}
	}
	return nil
}

// Question returns the question with the given id.
func (c *Catalog) Question(id string) (Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// IDs returns question ids in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Questions))
	for _, q := range c.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}

// Default returns the built-in seven-question catalog.
func Default() *Catalog {
	return &Catalog{
		Version:     "1.0.0",
		LastUpdated: "2025-01-01",
		Questions: []Question{
			{
				ID:     "q1",
				Title:  "Wild Partner",
				Prompt: "Pick the Aussie animal you'd team up with.",
				Options: []Option{
					{Label: "Kangaroo Jumper"},
					{Label: "Crocodile Survivor"},
					{Label: "Koala Chill"},
					{Label: "Wombat Wanderer"},
				},
			},
			{
				ID:     "q2",
				Title:  "Treasure Chest",
				Prompt: "How full is your treasure chest for the year?",
				Options: []Option{
					{Label: "Endless Gold", Hint: "over 45k"},
					{Label: "Treasure Trove", Hint: "35k to 45k"},
					{Label: "Well-Stocked", Hint: "25k to 35k"},
					{Label: "Small Fortune", Hint: "under 25k"},
				},
			},
			{
				ID:     "q3",
				Title:  "Fun Balance",
				Prompt: "How do you balance study and fun?",
				Options: []Option{
					{Label: "All Work, No Play"},
					{Label: "Party Expert"},
					{Label: "Balanced Adventurer"},
					{Label: "Relaxed Scholar"},
				},
			},
			{
				ID:     "q4",
				Title:  "Basecamp",
				Prompt: "Where would you set up basecamp?",
				Options: []Option{
					{Label: "Big and Creative"},
					{Label: "Fast-Paced and Exciting"},
					{Label: "Quiet and Relaxed"},
					{Label: "A Mix of City and Nature"},
				},
			},
			{
				ID:     "q5",
				Title:  "Downtime Activity",
				Prompt: "What do you do on a free weekend?",
				Options: []Option{
					{Label: "City Explorer"},
					{Label: "Surf the Waves"},
					{Label: "Hike the Outback"},
					{Label: "Wildlife Watcher"},
				},
			},
			{
				ID:     "q6",
				Title:  "Ranking View",
				Prompt: "How much do university rankings matter to you?",
				Options: []Option{
					{Label: "Top 100 or bust!"},
					{Label: "Top 200 works for me"},
					{Label: "It's all about the program"},
					{Label: "Who cares about rankings?"},
				},
			},
			{
				ID:     "q7",
				Title:  "After Graduation",
				Prompt: "What comes after graduation?",
				Options: []Option{
					{Label: "Power Up Your Knowledge"},
					{Label: "Enter the Arena"},
					{Label: "Build Your Own Path"},
					{Label: "Embark on a World Tour"},
				},
			},
		},
	}
}
