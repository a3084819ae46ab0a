package services

// LevelTier is a named band of point totals.
type LevelTier struct {
	Floor int64
	Name  string
}

// LevelTiers must stay sorted by Floor and start at 0.
var LevelTiers = []LevelTier{
	{Floor: 0, Name: "Aprendiz Eco"},
	{Floor: 500, Name: "Consciente"},
	{Floor: 1000, Name: "Defensor Verde"},
	{Floor: 1500, Name: "Guardião Verde"},
	{Floor: 2000, Name: "Eco Herói"},
}

// TopTierIncrement is added to the top tier's floor to give it a next threshold.
const TopTierIncrement = 500

// Level is the derived level of a point total.
type Level struct {
	Name          string  `json:"name"`
	Floor         int64   `json:"floor"`
	NextThreshold int64   `json:"next_threshold"`
	Progress      float64 `json:"progress"` // percent toward NextThreshold, 0..100
}

// LevelFor maps any point total to exactly one tier. Negative totals count as 0.
func LevelFor(points int64) Level {
	if points < 0 {
		points = 0
	}

	idx := 0
	for i := len(LevelTiers) - 1; i >= 0; i-- {
		if points >= LevelTiers[i].Floor {
			idx = i
			break
		}
	}

	tier := LevelTiers[idx]
	next := tier.Floor + TopTierIncrement
	if idx+1 < len(LevelTiers) {
		next = LevelTiers[idx+1].Floor
	}

	progress := float64(points) / float64(next) * 100
	if progress > 100 {
		progress = 100
	}

	return Level{Name: tier.Name, Floor: tier.Floor, NextThreshold: next, Progress: progress}
}
