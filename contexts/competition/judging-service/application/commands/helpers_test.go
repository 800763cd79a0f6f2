package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"encore/contexts/competition/judging-service/adapters/memory"
	"encore/contexts/competition/judging-service/domain/entities"
)

var judgingBase = time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type seqIDGen struct {
	next int
}

func (g *seqIDGen) NewID(_ context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("id_%04d", g.next), nil
}

func newRubricUseCase(store *memory.Store) RubricUseCase {
	return RubricUseCase{
		Criteria:  store,
		Judgments: store,
		Clock:     fixedClock{now: judgingBase},
		IDGen:     &seqIDGen{next: 0},
	}
}

func newJudgmentUseCase(store *memory.Store) JudgmentUseCase {
	return JudgmentUseCase{
		Criteria:  store,
		Judgments: store,
		Scores:    store,
		Clock:     fixedClock{now: judgingBase},
		IDGen:     &seqIDGen{next: 1000},
	}
}

// seedRubric defines a two-criterion rubric on comp_1: melody weighted 0.6 on
// a 0-10 slider, lyrics weighted 0.4 on a 1-5 star scale with a required
// comment.
func seedRubric(t *testing.T, store *memory.Store) []entities.JudgingCriteria {
	t.Helper()
	criteria, err := newRubricUseCase(store).DefineRubric(context.Background(), DefineRubricCommand{
		CompetitionID: "comp_1",
		Criteria: []CriterionInput{
			{
				Name:         "Melody",
				ScoringType:  entities.ScoringTypeSlider,
				MinValue:     0,
				MaxValue:     10,
				Weight:       0.6,
				DisplayOrder: 1,
			},
			{
				Name:              "Lyrics",
				ScoringType:       entities.ScoringTypeStars,
				MinValue:          1,
				MaxValue:          5,
				Weight:            0.4,
				DisplayOrder:      2,
				IsCommentRequired: true,
			},
		},
	})
	if err != nil {
		t.Fatalf("seed rubric failed: %v", err)
	}
	return criteria
}
