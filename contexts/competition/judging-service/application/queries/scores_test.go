package queries

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"encore/contexts/competition/judging-service/adapters/memory"
	"encore/contexts/competition/judging-service/domain/entities"
)

func seedJudgment(t *testing.T, store *memory.Store, judgmentID string, submissionID string, judgeID string, overall float64, completed bool) {
	t.Helper()
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	judgment := entities.SubmissionJudgment{
		JudgmentID:    judgmentID,
		CompetitionID: "comp_1",
		SubmissionID:  submissionID,
		JudgeID:       judgeID,
		Round:         1,
		IsCompleted:   completed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if completed {
		judgment.OverallScore = &overall
	}
	if err := store.SaveJudgment(context.Background(), judgment); err != nil {
		t.Fatalf("seed judgment %s failed: %v", judgmentID, err)
	}
}

func TestCompletedJudgmentScoresAveragesPerSubmission(t *testing.T) {
	store := memory.NewStore()
	seedJudgment(t, store, "jdg_1", "sub_01", "judge_1", 8.0, true)
	seedJudgment(t, store, "jdg_2", "sub_01", "judge_2", 6.0, true)
	seedJudgment(t, store, "jdg_3", "sub_02", "judge_1", 9.0, true)
	// Incomplete judgments never count toward the mean.
	seedJudgment(t, store, "jdg_4", "sub_02", "judge_2", 0, false)

	scores, err := ScoreAggregationUseCase{Judgments: store}.CompletedJudgmentScores(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("aggregation failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected scores for 2 submissions, got %d", len(scores))
	}
	if math.Abs(scores["sub_01"]-7.0) > 1e-9 {
		t.Fatalf("sub_01 mean wrong: %v", scores["sub_01"])
	}
	if math.Abs(scores["sub_02"]-9.0) > 1e-9 {
		t.Fatalf("sub_02 mean wrong: %v", scores["sub_02"])
	}
}

func TestCompletedJudgmentScoresEmptyCompetition(t *testing.T) {
	store := memory.NewStore()
	scores, err := ScoreAggregationUseCase{Judgments: store}.CompletedJudgmentScores(context.Background(), "comp_1")
	if err != nil {
		t.Fatalf("aggregation failed: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected empty map, got %v", scores)
	}
}

func TestJudgmentsForSubmissionFilters(t *testing.T) {
	store := memory.NewStore()
	for i := 1; i <= 3; i++ {
		seedJudgment(t, store, fmt.Sprintf("jdg_%d", i), "sub_01", fmt.Sprintf("judge_%d", i), 7.5, true)
	}
	seedJudgment(t, store, "jdg_9", "sub_02", "judge_1", 5.0, true)

	judgments, err := ScoreAggregationUseCase{Judgments: store}.JudgmentsForSubmission(context.Background(), "comp_1", "sub_01")
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(judgments) != 3 {
		t.Fatalf("expected 3 judgments for sub_01, got %d", len(judgments))
	}
	for _, judgment := range judgments {
		if judgment.SubmissionID != "sub_01" {
			t.Fatalf("foreign judgment leaked: %+v", judgment)
		}
	}
}
