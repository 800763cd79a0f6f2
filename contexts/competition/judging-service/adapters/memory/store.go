package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"encore/contexts/competition/judging-service/domain/entities"
	domainerrors "encore/contexts/competition/judging-service/domain/errors"
	"encore/contexts/competition/judging-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory implementation of every judging-service port.
type Store struct {
	mu sync.RWMutex

	criteria  map[string]entities.JudgingCriteria
	judgments map[string]entities.SubmissionJudgment
	scores    map[string]entities.CriteriaScore
}

func NewStore() *Store {
	return &Store{
		criteria:  make(map[string]entities.JudgingCriteria),
		judgments: make(map[string]entities.SubmissionJudgment),
		scores:    make(map[string]entities.CriteriaScore),
	}
}

func (s *Store) BulkSaveCriteria(_ context.Context, criteria []entities.JudgingCriteria) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, criterion := range criteria {
		s.criteria[strings.TrimSpace(criterion.CriteriaID)] = criterion
	}
	return nil
}

func (s *Store) ListCriteria(_ context.Context, competitionID string) ([]entities.JudgingCriteria, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	items := make([]entities.JudgingCriteria, 0)
	for _, criterion := range s.criteria {
		if criterion.CompetitionID == competitionID {
			items = append(items, criterion)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].DisplayOrder != items[j].DisplayOrder {
			return items[i].DisplayOrder < items[j].DisplayOrder
		}
		return items[i].CriteriaID < items[j].CriteriaID
	})
	return items, nil
}

func (s *Store) DeleteCriteria(_ context.Context, competitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	competitionID = strings.TrimSpace(competitionID)
	for key, criterion := range s.criteria {
		if criterion.CompetitionID == competitionID {
			delete(s.criteria, key)
		}
	}
	return nil
}

func (s *Store) SaveJudgment(_ context.Context, judgment entities.SubmissionJudgment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(judgment.JudgmentID)
	if _, exists := s.judgments[key]; !exists {
		for _, existing := range s.judgments {
			if existing.CompetitionID == judgment.CompetitionID &&
				existing.SubmissionID == judgment.SubmissionID &&
				existing.Round == judgment.Round &&
				strings.EqualFold(existing.JudgeID, judgment.JudgeID) {
				return domainerrors.ErrJudgmentExists
			}
		}
	}
	s.judgments[key] = judgment
	return nil
}

func (s *Store) GetJudgment(_ context.Context, judgmentID string) (entities.SubmissionJudgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	judgment, ok := s.judgments[strings.TrimSpace(judgmentID)]
	if !ok {
		return entities.SubmissionJudgment{}, domainerrors.ErrJudgmentNotFound
	}
	return judgment, nil
}

func (s *Store) GetJudgmentByIdentity(
	_ context.Context,
	competitionID string,
	submissionID string,
	judgeID string,
	round int,
) (entities.SubmissionJudgment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	submissionID = strings.TrimSpace(submissionID)
	judgeID = strings.TrimSpace(judgeID)
	for _, judgment := range s.judgments {
		if judgment.CompetitionID == competitionID &&
			judgment.SubmissionID == submissionID &&
			judgment.Round == round &&
			strings.EqualFold(judgment.JudgeID, judgeID) {
			return judgment, true, nil
		}
	}
	return entities.SubmissionJudgment{}, false, nil
}

func (s *Store) ListJudgments(_ context.Context, competitionID string) ([]entities.SubmissionJudgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competitionID = strings.TrimSpace(competitionID)
	items := make([]entities.SubmissionJudgment, 0)
	for _, judgment := range s.judgments {
		if judgment.CompetitionID == competitionID {
			items = append(items, judgment)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].JudgmentID < items[j].JudgmentID
	})
	return items, nil
}

func (s *Store) SaveScore(_ context.Context, score entities.CriteriaScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[strings.TrimSpace(score.ScoreID)] = score
	return nil
}

func (s *Store) ListScoresByJudgment(_ context.Context, judgmentID string) ([]entities.CriteriaScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	judgmentID = strings.TrimSpace(judgmentID)
	items := make([]entities.CriteriaScore, 0)
	for _, score := range s.scores {
		if score.JudgmentID == judgmentID {
			items = append(items, score)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CriteriaID < items[j].CriteriaID
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.CriteriaRepository = (*Store)(nil)
var _ ports.JudgmentRepository = (*Store)(nil)
var _ ports.ScoreRepository = (*Store)(nil)
