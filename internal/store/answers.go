package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// categoryHistoryWindow bounds how much answer history feeds category
// aggregation: up to the most recent 1000 records.
const categoryHistoryWindow = 1000

// AnswerRecord is one submitted answer, append-only. The store assigns
// record identity; callers never supply an id.
type AnswerRecord struct {
	ID            int64
	QuestionID    string
	SessionID     string
	AnsweredAt    time.Time
	SelectedIndex int
	CorrectIndex  int
	IsCorrect     bool
	TimeSpentMs   int64
	Category      string
}

// CategoryPerformance aggregates correctness for one category.
type CategoryPerformance struct {
	Correct int
	Total   int
	Rate    float64
}

// RecordAnswer appends a record to the answer history and returns the
// store-assigned id.
func (s *Store) RecordAnswer(ctx context.Context, rec AnswerRecord) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO answer_history (
			question_id, session_id, answered_at, selected_index,
			correct_index, is_correct, time_spent_ms, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.QuestionID, rec.SessionID, rec.AnsweredAt.UnixMilli(), rec.SelectedIndex,
		rec.CorrectIndex, boolToInt(rec.IsCorrect), rec.TimeSpentMs, nullString(rec.Category),
	)
	if err != nil {
		return 0, fmt.Errorf("record answer for %s: %w", rec.QuestionID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record answer id: %w", err)
	}
	return id, nil
}

// GetAnswerHistory returns every record for one question; order unspecified.
func (s *Store) GetAnswerHistory(ctx context.Context, questionID string) ([]AnswerRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return queryAnswers(ctx, db, selectAnswers+" WHERE question_id = ?", questionID)
}

// GetRecentAnswers returns up to limit records, most recent first. The
// answered_at index is scanned in descending order so large histories are
// never loaded and sorted in memory.
func (s *Store) GetRecentAnswers(ctx context.Context, limit int) ([]AnswerRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return queryAnswers(ctx, db, selectAnswers+" ORDER BY answered_at DESC LIMIT ?", limit)
}

// GetCategoryStats derives per-category correctness from up to the most
// recent 1000 answer records. Categories absent from every record are
// omitted.
func (s *Store) GetCategoryStats(ctx context.Context) (map[string]CategoryPerformance, error) {
	recent, err := s.GetRecentAnswers(ctx, categoryHistoryWindow)
	if err != nil {
		return nil, err
	}

	out := make(map[string]CategoryPerformance)
	for _, rec := range recent {
		if rec.Category == "" {
			continue
		}
		perf := out[rec.Category]
		perf.Total++
		if rec.IsCorrect {
			perf.Correct++
		}
		perf.Rate = float64(perf.Correct) / float64(perf.Total)
		out[rec.Category] = perf
	}
	return out, nil
}

const selectAnswers = `
	SELECT id, question_id, session_id, answered_at, selected_index,
	       correct_index, is_correct, time_spent_ms, category
	FROM answer_history`

func queryAnswers(ctx context.Context, db *sql.DB, query string, args ...any) ([]AnswerRecord, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer history: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var (
			rec        AnswerRecord
			answeredMs int64
			isCorrect  int
			category   sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.QuestionID, &rec.SessionID, &answeredMs,
			&rec.SelectedIndex, &rec.CorrectIndex, &isCorrect,
			&rec.TimeSpentMs, &category,
		); err != nil {
			return nil, fmt.Errorf("scan answer record: %w", err)
		}
		rec.AnsweredAt = time.UnixMilli(answeredMs)
		rec.IsCorrect = isCorrect != 0
		rec.Category = category.String
		out = append(out, rec)
	}
	return out, rows.Err()
}
