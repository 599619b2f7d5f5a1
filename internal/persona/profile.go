package persona

// Profile is the result-page content for a persona.
type Profile struct {
	Persona     Persona  `json:"persona"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"summary"`
	BaseCamp    string   `json:"baseCamp"`
	Personality string   `json:"personality"`
	LuckyCharm  string   `json:"luckyCharm"`
	Partner     Persona  `json:"partner"`
	Mottos      []string `json:"mottos"`
}

const (
	personalitySerious = "Serious Study Person"
	personalityRelaxed = "Relaxed Person"
)

var profiles = map[Persona]Profile{
	CityVisionary: {
		Slug:        "r1",
		Summary:     "You thrive in vibrant urban settings where creativity and innovation collide. This bustling environment fuels your academic pursuits, providing endless inspiration and networking opportunities. Embrace the energy of the city while diving deep into your studies!",
		BaseCamp:    "Big and Creative City Life",
		Personality: personalitySerious,
		LuckyCharm:  "You have everything prepared in hand and ready to use.",
		Partner:     CreativeInnovator,
		Mottos:      []string{"Build boldly shape tomorrow", "Dream bigger lead cities", "Create spark change"},
	},
	DynamicExplorer: {
		Slug:        "r2",
		Summary:     "You love the thrill of a fast-paced lifestyle! Balancing your studies with fun adventures, you make the most of every moment. Whether it's exploring new cafes or attending events, your academic journey is all about enjoying the ride while achieving your goals.",
		BaseCamp:    "Fast-Paced and Exciting",
		Personality: personalityRelaxed,
		LuckyCharm:  "You are ready to capture every moment.",
		Partner:     AdventurousScholar,
		Mottos:      []string{"Move fast explore more", "Go further every day"},
	},
	FocusedScholar: {
		Slug:        "r3",
		Summary:     "A peaceful and serene environment is where you flourish. You prefer calm surroundings that allow for deep concentration and reflection. Your commitment to your studies is unwavering, and you value the tranquillity that supports your learning journey.",
		BaseCamp:    "Quiet and Relaxed",
		Personality: personalitySerious,
		LuckyCharm:  "With the headphones, you are able to concentrate better.",
		Partner:     MindfulLearner,
		Mottos:      []string{"Quiet focus strong results", "Deep work bright paths"},
	},
	NatureLovingLearner: {
		Slug:        "r4",
		Summary:     "Balancing city life with nature, you find inspiration in both bustling urban scenes and tranquil outdoor settings. Your studies are enhanced by the beauty of your surroundings, and you enjoy moments of relaxation amidst your academic commitments.",
		BaseCamp:    "A Mix of City and Nature",
		Personality: personalityRelaxed,
		LuckyCharm:  "Low maintenance plant to take care of and focus on other tasks.",
		Partner:     BalancedAdventurer,
		Mottos:      []string{"Grow with sky and soil", "Learn outside breathe deeper"},
	},
	CreativeInnovator: {
		Slug:        "r5",
		Summary:     "You bring a laid-back approach to a vibrant city filled with artistic expression. Enjoying the creative energy around you, you find inspiration in local culture while maintaining a balanced life that includes plenty of downtime for relaxation and self-care.",
		BaseCamp:    "Big and Creative City Life",
		Personality: personalityRelaxed,
		LuckyCharm:  "Able to note down any on the spot inspiration immediately.",
		Partner:     CityVisionary,
		Mottos:      []string{"Invent wonder inspire change", "Make art meet impact"},
	},
	AdventurousScholar: {
		Slug:        "r6",
		Summary:     "You embrace the fast pace of life with a focus on your academic pursuits. Your determination keeps you on track, but you also know how to seize exciting opportunities that come your way, enriching both your studies and your personal growth.",
		BaseCamp:    "Fast-Paced and Exciting",
		Personality: personalitySerious,
		LuckyCharm:  "Ready to find upcoming opportunities.",
		Partner:     DynamicExplorer,
		Mottos:      []string{"Chase thrills master skills", "Learn fast live bold"},
	},
	MindfulLearner: {
		Slug:        "r7",
		Summary:     "Your study style is calm and reflective. You value a peaceful environment that promotes mindfulness and encourages creativity. Your relaxed approach helps you balance academic responsibilities with personal wellness, ensuring a fulfilling educational experience.",
		BaseCamp:    "Quiet and Relaxed",
		Personality: personalityRelaxed,
		LuckyCharm:  "Plenty stocked up, ready to use when you want to relax.",
		Partner:     FocusedScholar,
		Mottos:      []string{"Calm steps clear horizons", "Gentle focus great growth"},
	},
	BalancedAdventurer: {
		Slug:        "r8",
		Summary:     "You know how to balance your studies with life's adventures. Enjoying the vibrancy of city life while finding solace in nature, you create a harmonious study routine that fosters both productivity and relaxation. Your journey is as enriching as it is dynamic!",
		BaseCamp:    "A Mix of City and Nature",
		Personality: personalitySerious,
		LuckyCharm:  "To be able to balance your work life and personal life.",
		Partner:     NatureLovingLearner,
		Mottos:      []string{"Balance paths find power", "Live steady dream big"},
	},
}

// defaultMottos is used when a persona is unknown.
var defaultMottos = []string{"Explore learn and thrive"}

// ProfileFor returns the result content for p.
func ProfileFor(p Persona) (Profile, bool) {
	profile, ok := profiles[p]
	if !ok {
		return Profile{}, false
	}
	return clone(p, profile), true
}

// ProfileBySlug resolves a result slug such as "r3".
func ProfileBySlug(slug string) (Profile, bool) {
	for p, profile := range profiles {
		if profile.Slug == slug {
			return clone(p, profile), true
		}
	}
	return Profile{}, false
}

// Profiles returns every profile in tie-break order.
func Profiles() []Profile {
	out := make([]Profile, 0, Count)
	for _, p := range tieBreakOrder {
		out = append(out, clone(p, profiles[p]))
	}
	return out
}

// Slug returns the result slug for p, or "" for unknown personas.
func Slug(p Persona) string {
	return profiles[p].Slug
}

// MottoPool returns the fallback mottos for p, falling back to the default pool.
func MottoPool(p Persona) []string {
	if profile, ok := profiles[p]; ok && len(profile.Mottos) > 0 {
		return append([]string(nil), profile.Mottos...)
	}
	return append([]string(nil), defaultMottos...)
}

// DefaultMottoPool returns the persona-independent fallback mottos.
func DefaultMottoPool() []string {
	return append([]string(nil), defaultMottos...)
}

func clone(p Persona, profile Profile) Profile {
	profile.Persona = p
	profile.Mottos = append([]string(nil), profile.Mottos...)
	return profile
}
