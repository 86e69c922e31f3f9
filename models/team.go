package models

import "time"

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team is a registered entrant. Seed is nil until seeding happens; once a
// seeding-dependent stage is reached every team in a pairing group must
// carry a unique positive seed.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Division  string    `json:"division,omitempty"`
	Group     string    `json:"group,omitempty"`
	Category  string    `json:"category,omitempty"`
	Seed      *int      `json:"seed,omitempty"`
	Players   []Player  `json:"players,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Team) SeedValue() int {
	if t.Seed == nil {
		return 0
	}
	return *t.Seed
}
