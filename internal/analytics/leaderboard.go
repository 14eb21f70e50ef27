package analytics

import (
	"sort"

	"github.com/modelyard/modelyard-backend/internal/types"
)

// Tier classifies a leaderboard entry. Closed enumeration; nothing else is
// ever rendered.
type Tier string

const (
	TierChampion   Tier = "champion"
	TierChallenger Tier = "challenger"
	TierBaseline   Tier = "baseline"
)

type LeaderboardEntry struct {
	Rank  int          `json:"rank"`
	Model *types.Model `json:"model"`
	Tier  Tier         `json:"tier"`
}

// Leaderboard ranks models by accuracy descending, newest-first on ties.
// Rank 1 is the champion, the rest are challengers, except models scoring
// below baselineBelow (or never evaluated), which are baselines. The sort is
// stable, so identical snapshots always produce identical orderings.
func Leaderboard(models []*types.Model, baselineBelow float64) []LeaderboardEntry {
	ranked := make([]*types.Model, len(models))
	copy(ranked, models)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch {
		case a.Accuracy == nil && b.Accuracy == nil:
			return a.CreatedAt.After(b.CreatedAt)
		case a.Accuracy == nil:
			return false
		case b.Accuracy == nil:
			return true
		case *a.Accuracy != *b.Accuracy:
			return *a.Accuracy > *b.Accuracy
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	entries := make([]LeaderboardEntry, len(ranked))
	for i, m := range ranked {
		tier := TierChallenger
		switch {
		case m.Accuracy == nil || *m.Accuracy < baselineBelow:
			tier = TierBaseline
		case i == 0:
			tier = TierChampion
		}
		entries[i] = LeaderboardEntry{Rank: i + 1, Model: m, Tier: tier}
	}
	return entries
}
