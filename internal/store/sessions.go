package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRecord summarizes one practice session. Upserted in place as the
// session progresses, unlike the append-only answer history.
type SessionRecord struct {
	SessionID        string
	StartTime        time.Time
	EndTime          *time.Time
	TotalQuestions   int
	CorrectAnswers   int
	IncorrectAnswers int
	ScorePercentage  float64
}

// SaveSession upserts a session summary keyed by session id.
func (s *Store) SaveSession(ctx context.Context, rec SessionRecord) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	var endedAt sql.NullInt64
	if rec.EndTime != nil {
		endedAt = sql.NullInt64{Int64: rec.EndTime.UnixMilli(), Valid: true}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO sessions (
			session_id, started_at, ended_at, total_questions,
			correct_answers, incorrect_answers, score_percentage
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			started_at        = excluded.started_at,
			ended_at          = excluded.ended_at,
			total_questions   = excluded.total_questions,
			correct_answers   = excluded.correct_answers,
			incorrect_answers = excluded.incorrect_answers,
			score_percentage  = excluded.score_percentage
	`,
		rec.SessionID, rec.StartTime.UnixMilli(), endedAt, rec.TotalQuestions,
		rec.CorrectAnswers, rec.IncorrectAnswers, rec.ScorePercentage,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.SessionID, err)
	}
	return nil
}

// GetRecentSessions returns up to limit sessions, most recently started
// first, via a descending scan of the started_at index.
func (s *Store) GetRecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT session_id, started_at, ended_at, total_questions,
		       correct_answers, incorrect_answers, score_percentage
		FROM sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec       SessionRecord
			startedMs int64
			endedMs   sql.NullInt64
		)
		if err := rows.Scan(
			&rec.SessionID, &startedMs, &endedMs, &rec.TotalQuestions,
			&rec.CorrectAnswers, &rec.IncorrectAnswers, &rec.ScorePercentage,
		); err != nil {
			return nil, fmt.Errorf("scan session record: %w", err)
		}
		rec.StartTime = time.UnixMilli(startedMs)
		if endedMs.Valid {
			t := time.UnixMilli(endedMs.Int64)
			rec.EndTime = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
