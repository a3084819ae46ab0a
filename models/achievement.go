package models

// Achievement is a profile badge. Achievements are derived from current stats on
// every read, so losing points can un-earn one.
type Achievement struct {
	Code        string           `json:"code"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	Threshold   map[string]int64 `json:"-"` // e.g. {"points": 500}
	Earned      bool             `json:"earned"`
}

// Achievements in display order
var Achievements = []Achievement{
	{
		Code:        "FIRST_TASK",
		Title:       "Primeira Tarefa",
		Description: "Complete sua primeira tarefa",
		Icon:        "🎯",
		Threshold:   map[string]int64{"completed_tasks": 1},
	},
	{
		Code:        "ECO_BEGINNER",
		Title:       "Eco Iniciante",
		Description: "Alcance 500 pontos",
		Icon:        "🌿",
		Threshold:   map[string]int64{"points": 500},
	},
	{
		Code:        "GREEN_WEEK",
		Title:       "Semana Verde",
		Description: "7 dias ativos",
		Icon:        "📅",
		Threshold:   map[string]int64{"days_active": 7},
	},
	{
		Code:        "SOCIAL",
		Title:       "Social",
		Description: "Adicione 10 amigos",
		Icon:        "👥",
		Threshold:   map[string]int64{"friends": 10},
	},
	{
		Code:        "ECO_MASTER",
		Title:       "Eco Master",
		Description: "Alcance 2000 pontos",
		Icon:        "🏆",
		Threshold:   map[string]int64{"points": 2000},
	},
	{
		Code:        "SUSTAINABLE_MONTH",
		Title:       "Mês Sustentável",
		Description: "30 dias ativos",
		Icon:        "🗓️",
		Threshold:   map[string]int64{"days_active": 30},
	},
}
