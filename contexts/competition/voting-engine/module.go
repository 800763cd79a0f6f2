package votingengine

import (
	"log/slog"

	httpadapter "encore/contexts/competition/voting-engine/adapters/http"
	"encore/contexts/competition/voting-engine/adapters/memory"
	"encore/contexts/competition/voting-engine/application/commands"
	"encore/contexts/competition/voting-engine/application/queries"
	"encore/contexts/competition/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Competitions   ports.CompetitionRepository
	Submissions    ports.SubmissionRepository
	Assignments    ports.AssignmentRepository
	Groups         ports.GroupRepository
	Votes          ports.VoteRepository
	Ballots        ports.BallotWriter
	Picks          ports.PickRepository
	JudgmentScores ports.JudgmentScoreSource
	Locker         ports.CompetitionLocker
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Shuffler       ports.Shuffler
	Outbox         ports.OutboxWriter
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	grouping := commands.GroupingUseCase{
		Competitions: deps.Competitions,
		Submissions:  deps.Submissions,
		Assignments:  deps.Assignments,
		Groups:       deps.Groups,
		Votes:        deps.Votes,
		Locker:       deps.Locker,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Shuffler:     deps.Shuffler,
		Outbox:       deps.Outbox,
		Logger:       deps.Logger,
	}
	ballots := commands.BallotUseCase{
		Competitions: deps.Competitions,
		Submissions:  deps.Submissions,
		Assignments:  deps.Assignments,
		Groups:       deps.Groups,
		Ballots:      deps.Ballots,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Outbox:       deps.Outbox,
		Logger:       deps.Logger,
	}
	tally := commands.TallyUseCase{
		Competitions:   deps.Competitions,
		Submissions:    deps.Submissions,
		Groups:         deps.Groups,
		Votes:          deps.Votes,
		JudgmentScores: deps.JudgmentScores,
		Locker:         deps.Locker,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		Outbox:         deps.Outbox,
		Logger:         deps.Logger,
	}
	disqualify := commands.DisqualifyUseCase{
		Competitions: deps.Competitions,
		Submissions:  deps.Submissions,
		Assignments:  deps.Assignments,
		Locker:       deps.Locker,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Outbox:       deps.Outbox,
		Logger:       deps.Logger,
	}
	round2 := commands.Round2UseCase{
		Competitions: deps.Competitions,
		Submissions:  deps.Submissions,
		Assignments:  deps.Assignments,
		Votes:        deps.Votes,
		Ballots:      deps.Ballots,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Outbox:       deps.Outbox,
		Logger:       deps.Logger,
	}
	picks := commands.PicksUseCase{
		Competitions: deps.Competitions,
		Submissions:  deps.Submissions,
		Picks:        deps.Picks,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Outbox:       deps.Outbox,
		Logger:       deps.Logger,
	}
	winner := commands.WinnerUseCase{
		Competitions: deps.Competitions,
		Submissions:  deps.Submissions,
		Votes:        deps.Votes,
		Picks:        deps.Picks,
		Locker:       deps.Locker,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Outbox:       deps.Outbox,
		Logger:       deps.Logger,
	}
	results := queries.ResultsUseCase{
		Competitions: deps.Competitions,
		Submissions:  deps.Submissions,
		Assignments:  deps.Assignments,
		Groups:       deps.Groups,
		Votes:        deps.Votes,
		Picks:        deps.Picks,
	}
	return Module{
		Handler: httpadapter.Handler{
			Grouping:   grouping,
			Ballots:    ballots,
			Tally:      tally,
			Disqualify: disqualify,
			Round2:     round2,
			Picks:      picks,
			Winner:     winner,
			Results:    results,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Competitions:   store,
		Submissions:    store,
		Assignments:    store,
		Groups:         store,
		Votes:          store,
		Ballots:        store,
		Picks:          store,
		JudgmentScores: store,
		Locker:         store,
		Clock:          store,
		IDGen:          store,
		Shuffler:       memory.IdentityShuffler{},
		Outbox:         store,
		Logger:         logger,
	})
	module.Store = store
	return module
}
