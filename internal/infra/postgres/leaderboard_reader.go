package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"inno-quiz-service/internal/domain"
)

const leaderboardQuery = `
SELECT r.id, u.username, r.score, r.max_score, r.completed_at
FROM quiz_results r
JOIN users u ON u.id = r.user_id
WHERE r.quiz_id = $1
ORDER BY r.score DESC, r.completed_at ASC, r.id ASC
LIMIT $2`

// LeaderboardReader reads ranked result rows straight from Postgres.
type LeaderboardReader struct {
	pool *pgxpool.Pool
}

func NewLeaderboardReader(pool *pgxpool.Pool) *LeaderboardReader {
	return &LeaderboardReader{pool: pool}
}

func (l *LeaderboardReader) LeaderboardRows(ctx context.Context, quizID int64, limit int) ([]domain.LeaderboardRow, error) {
	rows, err := l.pool.Query(ctx, leaderboardQuery, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]domain.LeaderboardRow, 0)
	for rows.Next() {
		var row domain.LeaderboardRow
		if err := rows.Scan(&row.ResultID, &row.Username, &row.Score, &row.MaxScore, &row.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return out, nil
}

func (l *LeaderboardReader) Ping(ctx context.Context) error {
	return l.pool.Ping(ctx)
}
