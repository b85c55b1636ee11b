package game

// DefaultMonstersPerLevel is the number of monsters placed on each level.
const DefaultMonstersPerLevel = 20

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. The whole session, dungeon and
	// monster placement included, is reproducible from it.
	Seed int64

	// MonstersPerLevel is how many monsters populate each level. Zero
	// places none; DefaultConfig sets DefaultMonstersPerLevel.
	MonstersPerLevel int
}

// DefaultConfig returns the standard configuration for the given seed.
func DefaultConfig(seed int64) Config {
	return Config{
		Seed:             seed,
		MonstersPerLevel: DefaultMonstersPerLevel,
	}
}
