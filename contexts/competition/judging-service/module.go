package judgingservice

import (
	"log/slog"

	httpadapter "encore/contexts/competition/judging-service/adapters/http"
	"encore/contexts/competition/judging-service/adapters/memory"
	"encore/contexts/competition/judging-service/application/commands"
	"encore/contexts/competition/judging-service/application/queries"
	"encore/contexts/competition/judging-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Scores  queries.ScoreAggregationUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Criteria  ports.CriteriaRepository
	Judgments ports.JudgmentRepository
	Scores    ports.ScoreRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	rubric := commands.RubricUseCase{
		Criteria:  deps.Criteria,
		Judgments: deps.Judgments,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	judgments := commands.JudgmentUseCase{
		Criteria:  deps.Criteria,
		Judgments: deps.Judgments,
		Scores:    deps.Scores,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	scores := queries.ScoreAggregationUseCase{
		Judgments: deps.Judgments,
	}
	return Module{
		Handler: httpadapter.Handler{
			Rubric:    rubric,
			Judgments: judgments,
			Scores:    scores,
			Logger:    deps.Logger,
		},
		Scores: scores,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Criteria:  store,
		Judgments: store,
		Scores:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
