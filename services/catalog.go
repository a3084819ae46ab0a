package services

import (
	"fmt"
	"sort"

	"ecochat-core/models"

	"github.com/gosimple/slug"
)

// TaskCatalog is the read-only source of completable tasks.
type TaskCatalog interface {
	Task(id uint) (models.Task, bool)
	Tasks() []models.Task
}

// StaticCatalog serves a fixed task list from memory.
type StaticCatalog struct {
	byID  map[uint]models.Task
	order []models.Task
}

// NewStaticCatalog validates tasks and fills in missing slugs.
func NewStaticCatalog(tasks []models.Task) (*StaticCatalog, error) {
	c := &StaticCatalog{byID: make(map[uint]models.Task, len(tasks))}
	for _, t := range tasks {
		if t.ID == 0 {
			return nil, fmt.Errorf("task %q has no id", t.Title)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %d", t.ID)
		}
		if t.Points < 0 {
			return nil, fmt.Errorf("task %d has negative points", t.ID)
		}
		if t.Slug == "" {
			t.Slug = slug.Make(t.Title)
		}
		c.byID[t.ID] = t
		c.order = append(c.order, t)
	}
	sort.SliceStable(c.order, func(i, j int) bool { return c.order[i].ID < c.order[j].ID })
	return c, nil
}

func (c *StaticCatalog) Task(id uint) (models.Task, bool) {
	t, ok := c.byID[id]
	return t, ok
}

func (c *StaticCatalog) Tasks() []models.Task {
	out := make([]models.Task, len(c.order))
	copy(out, c.order)
	return out
}

// DefaultTasks is the built-in sustainability catalog.
var DefaultTasks = []models.Task{
	{ID: 1, Title: "Separar lixo reciclável", Description: "Separe plástico, papel e vidro", Points: 10, Category: models.TaskCategoryDaily, Icon: "recycle"},
	{ID: 2, Title: "Economizar água", Description: "Tome um banho de 5 minutos", Points: 15, Category: models.TaskCategoryDaily, Icon: "droplet"},
	{ID: 3, Title: "Apagar luzes", Description: "Desligue luzes ao sair do ambiente", Points: 5, Category: models.TaskCategoryDaily, Icon: "zap"},
	{ID: 4, Title: "Usar sacola reutilizável", Description: "Vá às compras com sua própria sacola", Points: 20, Category: models.TaskCategoryWeekly, Icon: "leaf"},
	{ID: 5, Title: "Plantar uma árvore", Description: "Contribua com o reflorestamento", Points: 50, Category: models.TaskCategoryWeekly, Icon: "leaf"},
	{ID: 6, Title: "Reduzir consumo de carne", Description: "Faça 3 refeições vegetarianas", Points: 30, Category: models.TaskCategoryWeekly, Icon: "leaf"},
	{ID: 7, Title: "Limpar uma área pública", Description: "Organize ou participe de mutirão", Points: 100, Category: models.TaskCategoryMonthly, Icon: "recycle"},
	{ID: 8, Title: "Educar 5 pessoas", Description: "Compartilhe dicas de sustentabilidade", Points: 75, Category: models.TaskCategoryMonthly, Icon: "leaf"},
}
