package persona

import "strings"

// answerWeights lists, per canonical answer text, the personas that gain a
// point when the answer is chosen. Grouped by question for readability only;
// lookup is by text alone.
var answerWeights = map[string][]Persona{
	// q1: wild partner
	"Kangaroo Jumper":    {CityVisionary, CreativeInnovator, BalancedAdventurer},
	"Crocodile Survivor": {AdventurousScholar, DynamicExplorer},
	"Koala Chill":        {FocusedScholar, MindfulLearner},
	"Wombat Wanderer":    {FocusedScholar, BalancedAdventurer, NatureLovingLearner},

	// q2: treasure chest
	"Endless Gold":   {CityVisionary, AdventurousScholar},
	"Treasure Trove": {AdventurousScholar, DynamicExplorer, CreativeInnovator},
	"Well-Stocked":   {DynamicExplorer, CreativeInnovator, FocusedScholar, BalancedAdventurer},
	"Small Fortune":  {NatureLovingLearner, MindfulLearner},

	// q3: fun balance
	"All Work, No Play":   {CityVisionary, FocusedScholar},
	"Party Expert":        {DynamicExplorer},
	"Balanced Adventurer": {AdventurousScholar, CreativeInnovator, BalancedAdventurer},
	"Relaxed Scholar":     {NatureLovingLearner, MindfulLearner},

	// q4: basecamp
	"Big and Creative":         {CityVisionary, CreativeInnovator},
	"Fast-Paced and Exciting":  {AdventurousScholar, DynamicExplorer},
	"Quiet and Relaxed":        {FocusedScholar, MindfulLearner},
	"A Mix of City and Nature": {BalancedAdventurer, NatureLovingLearner},

	// q5: downtime
	"City Explorer":    {CityVisionary, CreativeInnovator},
	"Surf the Waves":   {AdventurousScholar, DynamicExplorer, BalancedAdventurer},
	"Hike the Outback": {FocusedScholar, NatureLovingLearner, MindfulLearner},
	"Wildlife Watcher": {NatureLovingLearner, MindfulLearner},

	// q6: ranking view
	"Top 100 or bust!":           {CityVisionary, AdventurousScholar},
	"Top 200 works for me":       {DynamicExplorer, BalancedAdventurer, NatureLovingLearner},
	"It's all about the program": {CreativeInnovator, FocusedScholar, BalancedAdventurer},
	"Who cares about rankings?":  {MindfulLearner},

	// q7: after graduation
	"Power Up Your Knowledge": {CityVisionary, AdventurousScholar},
	"Enter the Arena":         {CityVisionary, FocusedScholar, BalancedAdventurer},
	"Build Your Own Path":     {CreativeInnovator, NatureLovingLearner},
	"Embark on a World Tour":  {DynamicExplorer, CreativeInnovator, MindfulLearner},
}

// answerAliases maps literal variants emitted by the question pages onto the
// canonical answers above.
var answerAliases = map[string]string{
	"Big and Creative City Life":                  "Big and Creative",
	"Top 100 or bust":                             "Top 100 or bust!",
	"Who cares about rankings":                    "Who cares about rankings?",
	"Power Up Your Knowledge and Enter the Arena": "Power Up Your Knowledge",

	"under_25k": "Small Fortune",
	"25k_35k":   "Well-Stocked",
	"35k_45k":   "Treasure Trove",
	"over_45k":  "Endless Gold",
}

// weightIndex is keyed by lookupKey(answer) for both canonical answers and aliases.
var weightIndex = buildWeightIndex()

func buildWeightIndex() map[string][]Persona {
	index := make(map[string][]Persona, len(answerWeights)+len(answerAliases))
	for answer, personas := range answerWeights {
		index[lookupKey(answer)] = personas
	}
	for alias, canonical := range answerAliases {
		personas, ok := answerWeights[canonical]
		if !ok {
			panic("persona: alias " + alias + " points at unknown answer " + canonical)
		}
		key := lookupKey(alias)
		if _, clash := index[key]; !clash {
			index[key] = personas
		}
	}
	return index
}

func lookupKey(answer string) string {
	return strings.ToLower(Normalize(answer))
}

// Lookup returns the personas credited by an answer. The returned slice is a
// copy and may be modified by the caller.
func Lookup(answer string) ([]Persona, bool) {
	personas, ok := weightIndex[lookupKey(answer)]
	if !ok {
		return nil, false
	}
	out := make([]Persona, len(personas))
	copy(out, personas)
	return out, true
}

// CanonicalAnswers returns every canonical answer text in the weight table.
func CanonicalAnswers() []string {
	out := make([]string, 0, len(answerWeights))
	for answer := range answerWeights {
		out = append(out, answer)
	}
	return out
}
