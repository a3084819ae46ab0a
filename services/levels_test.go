package services

import (
	"math"
	"testing"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points   int64
		name     string
		next     int64
		progress float64
	}{
		{-20, "Aprendiz Eco", 500, 0},
		{0, "Aprendiz Eco", 500, 0},
		{250, "Aprendiz Eco", 500, 50},
		{499, "Aprendiz Eco", 500, 99.8},
		{500, "Consciente", 1000, 50},
		{999, "Consciente", 1000, 99.9},
		{1000, "Defensor Verde", 1500, 1000.0 / 1500 * 100},
		{1500, "Guardião Verde", 2000, 75},
		{2000, "Eco Herói", 2500, 80},
		{2500, "Eco Herói", 2500, 100},
		{90000, "Eco Herói", 2500, 100},
	}

	for _, tt := range tests {
		got := LevelFor(tt.points)
		if got.Name != tt.name || got.NextThreshold != tt.next || math.Abs(got.Progress-tt.progress) > 1e-9 {
			t.Errorf("LevelFor(%d) = %+v, want %s next=%d progress=%v", tt.points, got, tt.name, tt.next, tt.progress)
		}
	}
}

func TestLevelForIsMonotonic(t *testing.T) {
	tierIndex := map[string]int{}
	for i, tier := range LevelTiers {
		tierIndex[tier.Name] = i
	}

	prev := 0
	for p := int64(0); p <= 3000; p += 7 {
		idx := tierIndex[LevelFor(p).Name]
		if idx < prev {
			t.Fatalf("level dropped at %d points", p)
		}
		prev = idx
	}
}
