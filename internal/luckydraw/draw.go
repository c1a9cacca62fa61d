// Package luckydraw resolves wheel plays. The draw is a pure function of the
// prize catalog snapshot and a random source: every row is equally likely,
// whatever the catalog size. The wheel UI renders eight slots but that is a
// presentation concern, not a contract of the resolver.
package luckydraw

import (
	"errors"

	"github.com/wealthora/backend/internal/models"
)

// ErrEmptyCatalog indicates there are no prizes to draw from.
var ErrEmptyCatalog = errors.New("luckydraw: empty prize catalog")

// Source supplies random indices. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Draw picks one prize uniformly at random from the catalog.
func Draw(prizes []models.Prize, src Source) (models.Prize, error) {
	if len(prizes) == 0 {
		return models.Prize{}, ErrEmptyCatalog
	}
	return prizes[src.Intn(len(prizes))], nil
}

// CreditsBalance reports whether winning the prize changes the balance.
func CreditsBalance(p models.Prize) bool {
	return p.Type == models.PrizeTypeMoney || p.Type == models.PrizeTypeBonus
}
