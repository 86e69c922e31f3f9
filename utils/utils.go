package utils

import (
	"strconv"

	"github.com/gofrs/uuid/v5"
)

// IDGenerator produces tournament-wide unique identifiers. The engine never
// calls uuid directly so tests can substitute a deterministic sequence.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func NewUUIDGenerator() IDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// SequentialIDGenerator hands out "prefix-1", "prefix-2", ... and exists for
// tests and deterministic bracket dumps.
type SequentialIDGenerator struct {
	Prefix string
	next   int
}

func (g *SequentialIDGenerator) NewID() string {
	g.next++
	prefix := g.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return prefix + "-" + strconv.Itoa(g.next)
}
