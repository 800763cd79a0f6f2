package entities

import "time"

// SongCreatorPick is an editorial ranking from the competition's song owner.
// It is stored alongside audience results but never summed into vote counts;
// the rank-1 pick may break a round-2 tie when the competition says so.
type SongCreatorPick struct {
	PickID        string
	CompetitionID string
	SubmissionID  string
	Rank          int
	Comment       string
	CreatedAt     time.Time
}
