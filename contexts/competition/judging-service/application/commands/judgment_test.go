package commands

import (
	"context"
	"errors"
	"math"
	"testing"

	"encore/contexts/competition/judging-service/adapters/memory"
	domainerrors "encore/contexts/competition/judging-service/domain/errors"
)

func TestRecordJudgmentComputesWeightedOverallScore(t *testing.T) {
	store := memory.NewStore()
	criteria := seedRubric(t, store)
	judgments := newJudgmentUseCase(store)

	judgment, err := judgments.RecordJudgment(context.Background(), RecordJudgmentCommand{
		CompetitionID: "comp_1",
		SubmissionID:  "sub_01",
		JudgeID:       "judge_1",
		Round:         1,
		Scores: []ScoreInput{
			{CriteriaID: criteria[0].CriteriaID, Score: 8},
			{CriteriaID: criteria[1].CriteriaID, Score: 4, Comment: "clever second verse"},
		},
		OverallComments: "polished entry",
	})
	if err != nil {
		t.Fatalf("record judgment failed: %v", err)
	}
	if !judgment.IsCompleted {
		t.Fatal("single-shot judgment must complete immediately")
	}
	// Melody 8/10 at weight 0.6 plus Lyrics 4 on the 1-5 scale at weight 0.4,
	// mapped onto the 0-10 overall scale.
	if judgment.OverallScore == nil || math.Abs(*judgment.OverallScore-7.8) > 1e-9 {
		t.Fatalf("overall score wrong: %v", judgment.OverallScore)
	}

	scores, err := store.ListScoresByJudgment(context.Background(), judgment.JudgmentID)
	if err != nil {
		t.Fatalf("list scores failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 criterion scores, got %d", len(scores))
	}
}

func TestRecordJudgmentRejectsDuplicateIdentity(t *testing.T) {
	store := memory.NewStore()
	criteria := seedRubric(t, store)
	judgments := newJudgmentUseCase(store)

	cmd := RecordJudgmentCommand{
		CompetitionID: "comp_1",
		SubmissionID:  "sub_01",
		JudgeID:       "judge_1",
		Round:         1,
		Scores: []ScoreInput{
			{CriteriaID: criteria[0].CriteriaID, Score: 8},
			{CriteriaID: criteria[1].CriteriaID, Score: 4, Comment: "ok"},
		},
	}
	if _, err := judgments.RecordJudgment(context.Background(), cmd); err != nil {
		t.Fatalf("first judgment failed: %v", err)
	}
	_, err := judgments.RecordJudgment(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrJudgmentExists) {
		t.Fatalf("expected ErrJudgmentExists, got %v", err)
	}

	// Same judge against a different round is a new identity.
	cmd.Round = 2
	if _, err := judgments.RecordJudgment(context.Background(), cmd); err != nil {
		t.Fatalf("round 2 judgment failed: %v", err)
	}
}

func TestRecordJudgmentRequiresEveryCriterion(t *testing.T) {
	store := memory.NewStore()
	criteria := seedRubric(t, store)
	judgments := newJudgmentUseCase(store)

	_, err := judgments.RecordJudgment(context.Background(), RecordJudgmentCommand{
		CompetitionID: "comp_1",
		SubmissionID:  "sub_01",
		JudgeID:       "judge_1",
		Round:         1,
		Scores:        []ScoreInput{{CriteriaID: criteria[0].CriteriaID, Score: 8}},
	})
	if !errors.Is(err, domainerrors.ErrIncompleteJudgment) {
		t.Fatalf("expected ErrIncompleteJudgment, got %v", err)
	}
}

func TestRecordJudgmentRejectsScoreOutOfRange(t *testing.T) {
	store := memory.NewStore()
	criteria := seedRubric(t, store)
	judgments := newJudgmentUseCase(store)

	_, err := judgments.RecordJudgment(context.Background(), RecordJudgmentCommand{
		CompetitionID: "comp_1",
		SubmissionID:  "sub_01",
		JudgeID:       "judge_1",
		Round:         1,
		Scores: []ScoreInput{
			{CriteriaID: criteria[0].CriteriaID, Score: 11},
			{CriteriaID: criteria[1].CriteriaID, Score: 4, Comment: "ok"},
		},
	})
	if !errors.Is(err, domainerrors.ErrScoreOutOfRange) {
		t.Fatalf("expected ErrScoreOutOfRange, got %v", err)
	}
}

func TestRecordJudgmentEnforcesRequiredComment(t *testing.T) {
	store := memory.NewStore()
	criteria := seedRubric(t, store)
	judgments := newJudgmentUseCase(store)

	_, err := judgments.RecordJudgment(context.Background(), RecordJudgmentCommand{
		CompetitionID: "comp_1",
		SubmissionID:  "sub_01",
		JudgeID:       "judge_1",
		Round:         1,
		Scores: []ScoreInput{
			{CriteriaID: criteria[0].CriteriaID, Score: 8},
			{CriteriaID: criteria[1].CriteriaID, Score: 4, Comment: "   "},
		},
	})
	if !errors.Is(err, domainerrors.ErrCommentRequired) {
		t.Fatalf("expected ErrCommentRequired, got %v", err)
	}
}

func TestSaveCriteriaScoreThenCompleteJudgment(t *testing.T) {
	store := memory.NewStore()
	criteria := seedRubric(t, store)
	judgments := newJudgmentUseCase(store)

	judgment, err := judgments.SaveCriteriaScore(context.Background(), SaveScoreCommand{
		CompetitionID: "comp_1",
		SubmissionID:  "sub_01",
		JudgeID:       "judge_1",
		Round:         1,
		Score:         ScoreInput{CriteriaID: criteria[0].CriteriaID, Score: 6},
	})
	if err != nil {
		t.Fatalf("first partial save failed: %v", err)
	}
	if judgment.IsCompleted || judgment.OverallScore != nil {
		t.Fatalf("partial judgment must stay open: %+v", judgment)
	}

	// Completing before every criterion is scored is refused.
	_, err = judgments.CompleteJudgment(context.Background(), judgment.JudgmentID, "")
	if !errors.Is(err, domainerrors.ErrIncompleteJudgment) {
		t.Fatalf("expected ErrIncompleteJudgment, got %v", err)
	}

	if _, err := judgments.SaveCriteriaScore(context.Background(), SaveScoreCommand{
		CompetitionID: "comp_1",
		SubmissionID:  "sub_01",
		JudgeID:       "judge_1",
		Round:         1,
		Score:         ScoreInput{CriteriaID: criteria[1].CriteriaID, Score: 3, Comment: "needs work"},
	}); err != nil {
		t.Fatalf("second partial save failed: %v", err)
	}

	sealed, err := judgments.CompleteJudgment(context.Background(), judgment.JudgmentID, "solid overall")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !sealed.IsCompleted || sealed.OverallComments != "solid overall" {
		t.Fatalf("judgment not sealed: %+v", sealed)
	}
	// Melody 6/10 at 0.6 plus Lyrics 3 on the 1-5 scale at 0.4.
	if sealed.OverallScore == nil || math.Abs(*sealed.OverallScore-5.6) > 1e-9 {
		t.Fatalf("overall score wrong: %v", sealed.OverallScore)
	}
}

func TestSaveCriteriaScoreUpsertsSameCriterion(t *testing.T) {
	store := memory.NewStore()
	criteria := seedRubric(t, store)
	judgments := newJudgmentUseCase(store)

	save := func(score float64) string {
		t.Helper()
		judgment, err := judgments.SaveCriteriaScore(context.Background(), SaveScoreCommand{
			CompetitionID: "comp_1",
			SubmissionID:  "sub_01",
			JudgeID:       "judge_1",
			Round:         1,
			Score:         ScoreInput{CriteriaID: criteria[0].CriteriaID, Score: score},
		})
		if err != nil {
			t.Fatalf("partial save failed: %v", err)
		}
		return judgment.JudgmentID
	}
	first := save(5)
	second := save(9)
	if first != second {
		t.Fatalf("resaving must reuse the open judgment: %s vs %s", first, second)
	}

	scores, _ := store.ListScoresByJudgment(context.Background(), first)
	if len(scores) != 1 || scores[0].Score != 9 {
		t.Fatalf("expected one upserted row at 9, got %+v", scores)
	}
}

func TestCompleteJudgmentRejectsSecondCompletion(t *testing.T) {
	store := memory.NewStore()
	criteria := seedRubric(t, store)
	judgments := newJudgmentUseCase(store)

	judgment, err := judgments.RecordJudgment(context.Background(), RecordJudgmentCommand{
		CompetitionID: "comp_1",
		SubmissionID:  "sub_01",
		JudgeID:       "judge_1",
		Round:         1,
		Scores: []ScoreInput{
			{CriteriaID: criteria[0].CriteriaID, Score: 8},
			{CriteriaID: criteria[1].CriteriaID, Score: 4, Comment: "ok"},
		},
	})
	if err != nil {
		t.Fatalf("record judgment failed: %v", err)
	}

	_, err = judgments.CompleteJudgment(context.Background(), judgment.JudgmentID, "again")
	if !errors.Is(err, domainerrors.ErrJudgmentCompleted) {
		t.Fatalf("expected ErrJudgmentCompleted, got %v", err)
	}

	_, err = judgments.SaveCriteriaScore(context.Background(), SaveScoreCommand{
		CompetitionID: "comp_1",
		SubmissionID:  "sub_01",
		JudgeID:       "judge_1",
		Round:         1,
		Score:         ScoreInput{CriteriaID: criteria[0].CriteriaID, Score: 2},
	})
	if !errors.Is(err, domainerrors.ErrJudgmentCompleted) {
		t.Fatalf("expected ErrJudgmentCompleted on edit, got %v", err)
	}
}

func TestCompleteJudgmentUnknownID(t *testing.T) {
	store := memory.NewStore()
	seedRubric(t, store)

	_, err := newJudgmentUseCase(store).CompleteJudgment(context.Background(), "jdg_missing", "")
	if !errors.Is(err, domainerrors.ErrJudgmentNotFound) {
		t.Fatalf("expected ErrJudgmentNotFound, got %v", err)
	}
}
