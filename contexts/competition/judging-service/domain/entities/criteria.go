package entities

import "time"

// ScoringType is the input control a criterion is scored with. The engine only
// cares about the numeric range; the type drives client rendering.
type ScoringType string

const (
	ScoringTypeSlider       ScoringType = "slider"
	ScoringTypeStars        ScoringType = "stars"
	ScoringTypeRadioButtons ScoringType = "radio_buttons"
)

func (t ScoringType) Valid() bool {
	switch t {
	case ScoringTypeSlider, ScoringTypeStars, ScoringTypeRadioButtons:
		return true
	}
	return false
}

// JudgingCriteria is one rubric row. Weights across a competition's criteria
// sum to 1.0; the rubric is immutable once any judgment exists.
type JudgingCriteria struct {
	CriteriaID        string
	CompetitionID     string
	Name              string
	Description       string
	ScoringType       ScoringType
	MinValue          float64
	MaxValue          float64
	Weight            float64
	DisplayOrder      int
	IsCommentRequired bool
	ScoringOptions    []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WeightEpsilon bounds float drift when validating that rubric weights sum
// to one.
const WeightEpsilon = 1e-6
