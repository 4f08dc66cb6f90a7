package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// QuestionStats is one performance row per question id. SuccessRate and
// NeedsReview are derived by the writer on every update, never hand-set.
type QuestionStats struct {
	QuestionID        string
	TotalAttempts     int
	CorrectAttempts   int
	IncorrectAttempts int
	SuccessRate       float64
	FirstAttempt      time.Time
	LastAttempt       time.Time
	AverageTimeMs     int64
	NeedsReview       bool
	Category          string
}

// SaveQuestionStats upserts a stats row keyed by question id.
func (s *Store) SaveQuestionStats(ctx context.Context, stats QuestionStats) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO question_stats (
			question_id, total_attempts, correct_attempts, incorrect_attempts,
			success_rate, first_attempt_at, last_attempt_at, average_time_ms,
			needs_review, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(question_id) DO UPDATE SET
			total_attempts     = excluded.total_attempts,
			correct_attempts   = excluded.correct_attempts,
			incorrect_attempts = excluded.incorrect_attempts,
			success_rate       = excluded.success_rate,
			first_attempt_at   = excluded.first_attempt_at,
			last_attempt_at    = excluded.last_attempt_at,
			average_time_ms    = excluded.average_time_ms,
			needs_review       = excluded.needs_review,
			category           = excluded.category
	`,
		stats.QuestionID, stats.TotalAttempts, stats.CorrectAttempts, stats.IncorrectAttempts,
		stats.SuccessRate, stats.FirstAttempt.UnixMilli(), stats.LastAttempt.UnixMilli(),
		stats.AverageTimeMs, boolToInt(stats.NeedsReview), nullString(stats.Category),
	)
	if err != nil {
		return fmt.Errorf("save question stats %s: %w", stats.QuestionID, err)
	}
	return nil
}

// GetQuestionStats returns the stats row for a question, or ErrNotFound.
func (s *Store) GetQuestionStats(ctx context.Context, questionID string) (*QuestionStats, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, selectQuestionStats+" WHERE question_id = ?", questionID)
	stats, err := scanQuestionStats(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question stats %s: %w", questionID, err)
	}
	return stats, nil
}

// GetAllQuestionStats returns every stats row; order is unspecified.
func (s *Store) GetAllQuestionStats(ctx context.Context) ([]QuestionStats, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return s.queryQuestionStats(ctx, db, selectQuestionStats)
}

// GetQuestionsNeedingReview returns all rows flagged needs_review, served
// from the needs_review index.
func (s *Store) GetQuestionsNeedingReview(ctx context.Context) ([]QuestionStats, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return s.queryQuestionStats(ctx, db, selectQuestionStats+" WHERE needs_review = 1")
}

const selectQuestionStats = `
	SELECT question_id, total_attempts, correct_attempts, incorrect_attempts,
	       success_rate, first_attempt_at, last_attempt_at, average_time_ms,
	       needs_review, category
	FROM question_stats`

func (s *Store) queryQuestionStats(ctx context.Context, db *sql.DB, query string, args ...any) ([]QuestionStats, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query question stats: %w", err)
	}
	defer rows.Close()

	var out []QuestionStats
	for rows.Next() {
		stats, err := scanQuestionStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question stats: %w", err)
		}
		out = append(out, *stats)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestionStats(row rowScanner) (*QuestionStats, error) {
	var (
		stats           QuestionStats
		firstMs, lastMs int64
		needsReview     int
		category        sql.NullString
	)
	err := row.Scan(
		&stats.QuestionID, &stats.TotalAttempts, &stats.CorrectAttempts,
		&stats.IncorrectAttempts, &stats.SuccessRate, &firstMs, &lastMs,
		&stats.AverageTimeMs, &needsReview, &category,
	)
	if err != nil {
		return nil, err
	}
	stats.FirstAttempt = time.UnixMilli(firstMs)
	stats.LastAttempt = time.UnixMilli(lastMs)
	stats.NeedsReview = needsReview != 0
	stats.Category = category.String
	return &stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
