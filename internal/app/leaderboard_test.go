package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inno-quiz-service/internal/domain"
)

func TestBuildLeaderboardOrdering(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := []domain.LeaderboardRow{
		{ResultID: 1, Username: "late", Score: 5, MaxScore: 10, CompletedAt: base.Add(time.Minute)},
		{ResultID: 2, Username: "top", Score: 9, MaxScore: 10, CompletedAt: base.Add(2 * time.Minute)},
		{ResultID: 3, Username: "early", Score: 5, MaxScore: 10, CompletedAt: base},
		{ResultID: 4, Username: "same-time", Score: 5, MaxScore: 10, CompletedAt: base},
	}

	entries := BuildLeaderboard(rows, 0)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Username
	}
	assert.Equal(t, []string{"top", "early", "same-time", "late"}, names)
	assert.Equal(t, 90.0, entries[0].Percentage)
}

func TestBuildLeaderboardLimit(t *testing.T) {
	rows := make([]domain.LeaderboardRow, 15)
	for i := range rows {
		rows[i] = domain.LeaderboardRow{ResultID: int64(i + 1), Score: i, MaxScore: 20}
	}

	assert.Len(t, BuildLeaderboard(rows, 0), DefaultLeaderboardLimit)
	assert.Len(t, BuildLeaderboard(rows, -3), DefaultLeaderboardLimit)

	top := BuildLeaderboard(rows, 3)
	require.Len(t, top, 3)
	assert.Equal(t, 14, top[0].Score)
	assert.Equal(t, 12, top[2].Score)
}

func TestBuildLeaderboardPercentage(t *testing.T) {
	entries := BuildLeaderboard([]domain.LeaderboardRow{
		{ResultID: 1, Username: "a", Score: 1, MaxScore: 3},
		{ResultID: 2, Username: "b", Score: 0, MaxScore: 0},
	}, 10)

	require.Len(t, entries, 2)
	assert.InDelta(t, 33.33, entries[0].Percentage, 0.01)
	assert.Equal(t, 0.0, entries[1].Percentage)
}

func TestBuildLeaderboardDoesNotMutateInput(t *testing.T) {
	rows := []domain.LeaderboardRow{
		{ResultID: 1, Score: 1},
		{ResultID: 2, Score: 2},
	}
	BuildLeaderboard(rows, 10)
	assert.Equal(t, int64(1), rows[0].ResultID)
}
