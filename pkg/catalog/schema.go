// pkg/catalog/schema.go
package catalog

// Catalog is the ordered list of quiz questions.
type Catalog struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// Option is one selectable answer. Label is the text submitted as the
// answer value and must resolve in the persona weight table.
type Option struct {
	Label string `json:"label"`
	Hint  string `json:"hint,omitempty"`
}
