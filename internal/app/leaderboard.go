package app

import (
	"sort"

	"inno-quiz-service/internal/domain"
)

// DefaultLeaderboardLimit is used when callers pass a non-positive limit.
const DefaultLeaderboardLimit = 10

// BuildLeaderboard ranks rows by score descending, breaking ties by completion
// time and then result id, and truncates to limit entries. Percentages use each
// row's stored max score and are zero when that max score is zero.
func BuildLeaderboard(rows []domain.LeaderboardRow, limit int) []domain.LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	ranked := make([]domain.LeaderboardRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool { return RanksBefore(ranked[i], ranked[j]) })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for _, row := range ranked {
		entries = append(entries, domain.LeaderboardEntry{
			Username:    row.Username,
			Score:       row.Score,
			MaxScore:    row.MaxScore,
			Percentage:  percentage(row.Score, row.MaxScore),
			CompletedAt: row.CompletedAt,
		})
	}
	return entries
}

// RanksBefore is the leaderboard order: higher score first, then the earlier
// completion, then the lower result id.
func RanksBefore(a, b domain.LeaderboardRow) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.CompletedAt.Equal(b.CompletedAt) {
		return a.CompletedAt.Before(b.CompletedAt)
	}
	return a.ResultID < b.ResultID
}

func percentage(score, maxScore int) float64 {
	if maxScore == 0 {
		return 0
	}
	return float64(score) * 100 / float64(maxScore)
}
