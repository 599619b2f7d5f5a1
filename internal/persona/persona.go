// Package persona maps quiz answers to one of eight study-style archetypes.
//
// Everything here is pure and safe for concurrent use. The weight and alias
// tables are built once at package init and never mutated afterwards.
package persona

import "strings"

// Persona is one of the eight quiz archetypes.
type Persona string

const (
	CityVisionary       Persona = "City Visionary"
	AdventurousScholar  Persona = "Adventurous Scholar"
	DynamicExplorer     Persona = "Dynamic Explorer"
	CreativeInnovator   Persona = "Creative Innovator"
	FocusedScholar      Persona = "Focused Scholar"
	BalancedAdventurer  Persona = "Balanced Adventurer"
	NatureLovingLearner Persona = "Nature-Loving Learner"
	MindfulLearner      Persona = "Mindful Learner"
)

// Default is returned when no persona scores above zero.
const Default = CityVisionary

// tieBreakOrder decides winners on equal scores: earlier wins.
var tieBreakOrder = [...]Persona{
	CityVisionary,
	AdventurousScholar,
	DynamicExplorer,
	CreativeInnovator,
	FocusedScholar,
	BalancedAdventurer,
	NatureLovingLearner,
	MindfulLearner,
}

// Count is the number of personas.
const Count = len(tieBreakOrder)

// TieBreakOrder returns a copy of the persona list in tie-break order.
func TieBreakOrder() []Persona {
	out := make([]Persona, Count)
	copy(out, tieBreakOrder[:])
	return out
}

// Rank returns the persona's position in the tie-break order, or -1.
func (p Persona) Rank() int {
	for i, candidate := range tieBreakOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is one of the eight personas.
func (p Persona) Valid() bool {
	return p.Rank() >= 0
}

func (p Persona) String() string {
	return string(p)
}

// Parse resolves a persona name, ignoring case and surrounding whitespace.
func Parse(s string) (Persona, bool) {
	key := strings.TrimSpace(s)
	for _, p := range tieBreakOrder {
		if strings.EqualFold(string(p), key) {
			return p, true
		}
	}
	return "", false
}
