package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vredchenko/cscs-card-audio-revision/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestInit_Idempotent(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()

	if err := st.Init(ctx); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := st.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}
	st.Close()
}

func TestInit_ConcurrentCallers(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = st.Init(ctx)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("concurrent init %d failed: %v", i, err)
		}
	}
	st.Close()
}

func TestAccessors_BeforeInit(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()

	if _, err := st.GetQuestionStats(ctx, "q1"); !errors.Is(err, store.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := st.GetAllQuestionStats(ctx); !errors.Is(err, store.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err := st.ClearAllData(ctx); !errors.Is(err, store.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestQuestionStats_SaveAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Millisecond)
	stats := store.QuestionStats{
		QuestionID:        "q1",
		TotalAttempts:     5,
		CorrectAttempts:   3,
		IncorrectAttempts: 2,
		SuccessRate:       0.6,
		FirstAttempt:      now.Add(-48 * time.Hour),
		LastAttempt:       now,
		AverageTimeMs:     4200,
		NeedsReview:       true,
		Category:          "Fire Safety",
	}
	if err := st.SaveQuestionStats(ctx, stats); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := st.GetQuestionStats(ctx, "q1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalAttempts != 5 || got.CorrectAttempts != 3 || got.IncorrectAttempts != 2 {
		t.Errorf("counters mismatch: %+v", got)
	}
	if got.SuccessRate != 0.6 || !got.NeedsReview || got.Category != "Fire Safety" {
		t.Errorf("derived fields mismatch: %+v", got)
	}
	if !got.LastAttempt.Equal(now) {
		t.Errorf("last attempt: expected %v, got %v", now, got.LastAttempt)
	}
}

func TestQuestionStats_UpsertOverwrites(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := store.QuestionStats{QuestionID: "q1", TotalAttempts: 1, CorrectAttempts: 1, SuccessRate: 1}
	if err := st.SaveQuestionStats(ctx, base); err != nil {
		t.Fatal(err)
	}

	base.TotalAttempts = 2
	base.IncorrectAttempts = 1
	base.SuccessRate = 0.5
	base.NeedsReview = true
	if err := st.SaveQuestionStats(ctx, base); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetQuestionStats(ctx, "q1")
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalAttempts != 2 || got.SuccessRate != 0.5 || !got.NeedsReview {
		t.Errorf("expected updated row, got %+v", got)
	}

	all, err := st.GetAllQuestionStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected a single row after upsert, got %d", len(all))
	}
}

func TestGetQuestionStats_Missing(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetQuestionStats(context.Background(), "absent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetQuestionsNeedingReview(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	rows := []store.QuestionStats{
		{QuestionID: "flagged", NeedsReview: true, TotalAttempts: 3},
		{QuestionID: "fine", NeedsReview: false, TotalAttempts: 3},
	}
	for _, r := range rows {
		if err := st.SaveQuestionStats(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := st.GetQuestionsNeedingReview(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].QuestionID != "flagged" {
		t.Errorf("expected only the flagged row, got %+v", got)
	}
}

func TestRecordAnswer_AppendsAndAssignsID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	rec := store.AnswerRecord{
		QuestionID:    "q1",
		SessionID:     "s1",
		AnsweredAt:    time.Now(),
		SelectedIndex: 2,
		CorrectIndex:  1,
		IsCorrect:     false,
		TimeSpentMs:   3500,
		Category:      "PPE",
	}

	id1, err := st.RecordAnswer(ctx, rec)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := st.RecordAnswer(ctx, rec)
	if err != nil {
		t.Fatal(err)
	}
	if id2 <= id1 {
		t.Errorf("expected increasing ids, got %d then %d", id1, id2)
	}

	history, err := st.GetAnswerHistory(ctx, "q1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].SelectedIndex != 2 || history[0].CorrectIndex != 1 || history[0].IsCorrect {
		t.Errorf("record fields mismatch: %+v", history[0])
	}
}

func TestGetRecentAnswers_OrderAndLimit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := st.RecordAnswer(ctx, store.AnswerRecord{
			QuestionID: "q" + string(rune('1'+i)),
			SessionID:  "s1",
			AnsweredAt: base.Add(time.Duration(i) * time.Minute),
			IsCorrect:  true,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	recent, err := st.GetRecentAnswers(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recent))
	}
	if recent[0].QuestionID != "q5" || recent[2].QuestionID != "q3" {
		t.Errorf("expected newest-first order, got %s..%s", recent[0].QuestionID, recent[2].QuestionID)
	}
}

func TestGetCategoryStats(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	answers := []struct {
		category string
		correct  bool
	}{
		{"Health & Safety", true},
		{"Health & Safety", true},
		{"Health & Safety", false},
		{"PPE", false},
		{"", true}, // uncategorized answers are skipped
	}
	for i, a := range answers {
		_, err := st.RecordAnswer(ctx, store.AnswerRecord{
			QuestionID: "q1",
			SessionID:  "s1",
			AnsweredAt: time.Now().Add(time.Duration(i) * time.Second),
			IsCorrect:  a.correct,
			Category:   a.category,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	stats, err := st.GetCategoryStats(ctx)
	if err != nil {
		t.Fatal(err)
	}

	hs, ok := stats["Health & Safety"]
	if !ok {
		t.Fatal("expected Health & Safety entry")
	}
	if hs.Correct != 2 || hs.Total != 3 {
		t.Errorf("expected 2/3, got %d/%d", hs.Correct, hs.Total)
	}
	if hs.Rate < 0.66 || hs.Rate > 0.67 {
		t.Errorf("expected rate ~0.667, got %v", hs.Rate)
	}
	if _, ok := stats[""]; ok {
		t.Error("expected uncategorized answers to be excluded")
	}
}

func TestSessions_SaveAndGetRecent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
	for i := 0; i < 3; i++ {
		end := base.Add(time.Duration(i)*time.Minute + 30*time.Second)
		rec := store.SessionRecord{
			SessionID:        "s" + string(rune('1'+i)),
			StartTime:        base.Add(time.Duration(i) * time.Minute),
			EndTime:          &end,
			TotalQuestions:   10,
			CorrectAnswers:   7,
			IncorrectAnswers: 3,
			ScorePercentage:  70,
		}
		if err := st.SaveSession(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := st.GetRecentSessions(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != "s3" || sessions[1].SessionID != "s2" {
		t.Errorf("expected newest-first, got %s, %s", sessions[0].SessionID, sessions[1].SessionID)
	}
	if sessions[0].EndTime == nil || sessions[0].ScorePercentage != 70 {
		t.Errorf("session fields mismatch: %+v", sessions[0])
	}
}

func TestSaveSession_UpsertsInProgress(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	rec := store.SessionRecord{
		SessionID:      "s1",
		StartTime:      time.Now().Truncate(time.Millisecond),
		TotalQuestions: 1,
		CorrectAnswers: 1,
	}
	if err := st.SaveSession(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetRecentSessions(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].EndTime != nil {
		t.Error("expected in-progress session to have no end time")
	}

	end := time.Now().Truncate(time.Millisecond)
	rec.EndTime = &end
	rec.TotalQuestions = 5
	if err := st.SaveSession(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err = st.GetRecentSessions(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected single upserted row, got %d", len(got))
	}
	if got[0].EndTime == nil || got[0].TotalQuestions != 5 {
		t.Errorf("expected completed session, got %+v", got[0])
	}
}

func TestClearAllData(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SaveQuestionStats(ctx, store.QuestionStats{QuestionID: "q1", TotalAttempts: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.RecordAnswer(ctx, store.AnswerRecord{QuestionID: "q1", SessionID: "s1", AnsweredAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveSession(ctx, store.SessionRecord{SessionID: "s1", StartTime: time.Now()}); err != nil {
		t.Fatal(err)
	}

	if err := st.ClearAllData(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if stats, _ := st.GetAllQuestionStats(ctx); len(stats) != 0 {
		t.Errorf("expected empty stats, got %d rows", len(stats))
	}
	if answers, _ := st.GetRecentAnswers(ctx, 10); len(answers) != 0 {
		t.Errorf("expected empty history, got %d rows", len(answers))
	}
	if sessions, _ := st.GetRecentSessions(ctx, 10); len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d rows", len(sessions))
	}
}

func TestClose_AllowsReinit(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()

	if err := st.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveQuestionStats(ctx, store.QuestionStats{QuestionID: "q1", TotalAttempts: 1}); err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := st.GetQuestionStats(ctx, "q1"); !errors.Is(err, store.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized after close, got %v", err)
	}

	if err := st.Init(ctx); err != nil {
		t.Fatalf("reinit: %v", err)
	}
	got, err := st.GetQuestionStats(ctx, "q1")
	if err != nil {
		t.Fatalf("expected data to survive reopen: %v", err)
	}
	if got.TotalAttempts != 1 {
		t.Errorf("data mismatch after reopen: %+v", got)
	}
	st.Close()
}
