package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vredchenko/cscs-card-audio-revision/internal/session"
	"github.com/vredchenko/cscs-card-audio-revision/internal/worker"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run simulated practice sessions to seed the store",
	Long: "Simulate plays full practice sessions against the real engine:\n" +
		"questions are sequenced by priority, answers are drawn with a fixed\n" +
		"accuracy, and every attempt flows through the recording pipeline.\n" +
		"Useful for demoing the scheduler on a fresh database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulate(cmd)
	},
}

func init() {
	simulateCmd.Flags().Int("sessions", 3, "Number of sessions to simulate")
	simulateCmd.Flags().Float64("accuracy", 0.7, "Probability of answering correctly")
}

func runSimulate(cmd *cobra.Command) error {
	cfg := loadConfig(cmd)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	e, err := buildEnv(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer e.close()

	sessions, _ := cmd.Flags().GetInt("sessions")
	accuracy, _ := cmd.Flags().GetFloat64("accuracy")

	pool := worker.NewPool(1, 64)
	recorder := session.NewRecorder(e.store, pool, logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctx := cmd.Context()

	for i := 0; i < sessions; i++ {
		tracker := session.NewTracker()
		recorder.Track(tracker.ID)

		queue := e.scheduler.Sequence(ctx, e.bank.Questions)
		for _, q := range queue {
			correct := rng.Float64() < accuracy
			selected := q.Key.CorrectIndices()
			if !correct {
				// Pick the first wrong option.
				selected = []int{wrongIndex(len(q.Answers), selected)}
			}
			recorder.RecordAnswer(tracker, session.Submission{
				Question:    q,
				Selected:    selected,
				IsCorrect:   correct,
				AnsweredAt:  time.Now(),
				TimeSpentMs: int64(2000 + rng.Intn(8000)),
			})
		}

		snap := recorder.Complete(tracker)
		fmt.Printf("Session %d: %s — %d/%d (%.0f%%)\n",
			i+1, snap.SessionID, snap.CorrectAnswers, snap.TotalQuestions, snap.ScorePercentage)
	}

	fmt.Println("\nResulting priorities:")
	for _, qp := range e.scheduler.PrioritizeQuestions(ctx, e.bank.Questions) {
		fmt.Printf("  %3d  %-12s %s\n", qp.Priority, qp.Question.ID, qp.Reason)
	}
	return nil
}

func wrongIndex(answerCount int, correct []int) int {
	isCorrect := make(map[int]bool, len(correct))
	for _, c := range correct {
		isCorrect[c] = true
	}
	for i := 0; i < answerCount; i++ {
		if !isCorrect[i] {
			return i
		}
	}
	return 0
}
