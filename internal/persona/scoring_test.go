package persona

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

func fullQuiz() map[string]string {
	return map[string]string{
		"q1": "Wombat Wanderer",
		"q2": "Small Fortune",
		"q3": "Relaxed Scholar",
		"q4": "Quiet and Relaxed",
		"q5": "Hike the Outback",
		"q6": "Who cares about rankings?",
		"q7": "Embark on a World Tour",
	}
}

func randomString(r *rand.Rand) string {
	const alphabet = "abcXYZ '’“”\t\n!?-_0123"
	n := r.Intn(24)
	b := make([]rune, 0, n)
	runes := []rune(alphabet)
	for i := 0; i < n; i++ {
		b = append(b, runes[r.Intn(len(runes))])
	}
	return string(b)
}

// ==========================
// Compute
// ==========================

func TestCompute_AlwaysReturnsKnownPersona(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	canonical := CanonicalAnswers()

	for i := 0; i < 500; i++ {
		answers := make(map[string]string)
		for j := 0; j < r.Intn(10); j++ {
			if r.Intn(2) == 0 {
				answers[randomString(r)] = canonical[r.Intn(len(canonical))]
			} else {
				answers[randomString(r)] = randomString(r)
			}
		}
		got := Compute(answers)
		assert.True(t, got.Valid(), "unexpected persona %q for %v", got, answers)
	}

	assert.True(t, Compute(nil).Valid())
}

func TestCompute_Deterministic(t *testing.T) {
	answers := fullQuiz()
	first := Compute(answers)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Compute(answers))
	}

	// Same values under different keys and insertion order.
	reordered := map[string]string{}
	keys := []string{"q7", "q3", "q1", "q6", "q2", "q5", "q4"}
	for _, k := range keys {
		reordered[k] = answers[k]
	}
	assert.Equal(t, first, Compute(reordered))
}

func TestCompute_DefaultWinner(t *testing.T) {
	assert.Equal(t, CityVisionary, Compute(map[string]string{}))
	assert.Equal(t, TieBreakOrder()[0], Compute(nil))
}

func TestCompute_SingleStrongSignal(t *testing.T) {
	tests := []struct {
		answer string
		want   Persona
	}{
		{"Party Expert", DynamicExplorer},
		{"Who cares about rankings?", MindfulLearner},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(map[string]string{"q": tt.answer}))
		})
	}
}

func TestCompute_TieBreak(t *testing.T) {
	// Dynamic Explorer and Mindful Learner each score 1.
	a := map[string]string{"q3": "Party Expert", "q6": "Who cares about rankings?"}
	b := map[string]string{"q3": "Who cares about rankings?", "q6": "Party Expert"}

	scoresA := ComputeScores(a)
	require.Equal(t, 1, scoresA[DynamicExplorer])
	require.Equal(t, 1, scoresA[MindfulLearner])

	assert.Equal(t, DynamicExplorer, Compute(a))
	assert.Equal(t, DynamicExplorer, Compute(b))
}

func TestCompute_UnrecognisedAnswersAreInert(t *testing.T) {
	answers := map[string]string{
		"q1": "Platypus Paddler",
		"q2": "",
		"q3": "   ",
		"q9": "Kangaroo",
	}
	assert.Equal(t, Compute(map[string]string{}), Compute(answers))
	assert.Zero(t, ComputeScores(answers).Total())
}

func TestCompute_Additivity(t *testing.T) {
	a := map[string]string{"q1": "Koala Chill", "q2": "Treasure Trove", "q3": "Party Expert"}
	b := map[string]string{"q4": "Fast-Paced and Exciting", "q5": "Wildlife Watcher", "q6": "Top 200 works for me", "q7": "Build Your Own Path"}

	merged := map[string]string{}
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range b {
		merged[k] = v
	}

	summed := ComputeScores(a).Add(ComputeScores(b))
	assert.Equal(t, ComputeScores(merged), summed)
	assert.Equal(t, Compute(merged), PickWinner(summed))
}

func TestCompute_FullQuiz(t *testing.T) {
	scores := ComputeScores(fullQuiz())

	want := Scores{
		CityVisionary:       0,
		AdventurousScholar:  0,
		DynamicExplorer:     1,
		CreativeInnovator:   1,
		FocusedScholar:      3,
		BalancedAdventurer:  1,
		NatureLovingLearner: 4,
		MindfulLearner:      6,
	}
	assert.Equal(t, want, scores)
	assert.Equal(t, 16, scores.Total())
	assert.Equal(t, MindfulLearner, Compute(fullQuiz()))
}

// ==========================
// Normalization & aliases
// ==========================

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Koala   Chill ", "Koala Chill"},
		{"It’s all about the program", "It's all about the program"},
		{"It‘s", "It's"},
		{"“Quoted”", "\"Quoted\""},
		{"Top\t100\nor bust!", "Top 100 or bust!"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestLookup_Variants(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   Persona
	}{
		{"curly apostrophe", "It’s all about the program", CreativeInnovator},
		{"case folded", "koala chill", FocusedScholar},
		{"extra whitespace", "  Quiet   and Relaxed ", FocusedScholar},
		{"city life variant", "Big and Creative City Life", CityVisionary},
		{"missing bang", "Top 100 or bust", CityVisionary},
		{"missing question mark", "Who cares about rankings", MindfulLearner},
		{"combined q7 label", "Power Up Your Knowledge and Enter the Arena", CityVisionary},
		{"budget code", "under_25k", NatureLovingLearner},
		{"budget code high", "over_45k", CityVisionary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			personas, ok := Lookup(tt.answer)
			require.True(t, ok)
			assert.Equal(t, tt.want, Compute(map[string]string{"q": tt.answer}))
			assert.NotEmpty(t, personas)
		})
	}

	_, ok := Lookup("Platypus Paddler")
	assert.False(t, ok)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	personas, ok := Lookup("Party Expert")
	require.True(t, ok)
	personas[0] = MindfulLearner

	again, _ := Lookup("Party Expert")
	assert.Equal(t, []Persona{DynamicExplorer}, again)
}

func TestTieBreakOrder_IsCopy(t *testing.T) {
	order := TieBreakOrder()
	require.Len(t, order, Count)
	order[0] = MindfulLearner
	assert.Equal(t, CityVisionary, TieBreakOrder()[0])
}

func TestParse(t *testing.T) {
	p, ok := Parse("  nature-loving learner ")
	require.True(t, ok)
	assert.Equal(t, NatureLovingLearner, p)

	_, ok = Parse("Night Owl")
	assert.False(t, ok)

	assert.Equal(t, 0, CityVisionary.Rank())
	assert.Equal(t, 7, MindfulLearner.Rank())
	assert.Equal(t, -1, Persona("x").Rank())
}
