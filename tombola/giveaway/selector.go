package giveaway

import (
	"math/rand/v2"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
)

// Rand is the randomness source of a draw. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Candidate is one entrant and the number of tickets they hold.
type Candidate struct {
	UserID snowflake.ID
	Weight int
}

func CandidatesFrom(entries []*models.GiveawayEntry) []Candidate {
	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, Candidate{UserID: e.UserID, Weight: e.EntryCount})
	}
	return candidates
}

// PickWinners draws up to k distinct winners with probability proportional
// to weight, without replacement. Users in exclude never win. When k is at
// least the number of distinct entrants every entrant wins, in first-seen order.
func PickWinners(candidates []Candidate, k int, exclude map[snowflake.ID]struct{}, rng Rand) []snowflake.ID {
	if rng == nil {
		rng = globalRand{}
	}

	var pool []snowflake.ID
	var distinct []snowflake.ID
	seen := make(map[snowflake.ID]struct{}, len(candidates))
	for _, c := range candidates {
		if _, ok := exclude[c.UserID]; ok {
			continue
		}
		if _, ok := seen[c.UserID]; !ok {
			seen[c.UserID] = struct{}{}
			distinct = append(distinct, c.UserID)
		}
		weight := max(c.Weight, 1)
		for i := 0; i < weight; i++ {
			pool = append(pool, c.UserID)
		}
	}

	winners := make([]snowflake.ID, 0, max(min(k, len(distinct)), 0))
	if len(pool) == 0 || k <= 0 {
		return winners
	}
	if k >= len(distinct) {
		return append(winners, distinct...)
	}

	for len(winners) < k && len(pool) > 0 {
		winner := pool[rng.IntN(len(pool))]
		winners = append(winners, winner)
		pool = removeAll(pool, winner)
	}
	return winners
}

// removeAll drops every ticket held by id, reusing the backing array.
func removeAll(pool []snowflake.ID, id snowflake.ID) []snowflake.ID {
	kept := pool[:0]
	for _, p := range pool {
		if p != id {
			kept = append(kept, p)
		}
	}
	return kept
}
