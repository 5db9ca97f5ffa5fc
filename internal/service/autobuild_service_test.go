package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pc-autobuild-be/internal/dto"
	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/internal/repository/memory"
	"pc-autobuild-be/pkg/autobuild"
	"pc-autobuild-be/pkg/autobuild/allocator"
	"pc-autobuild-be/pkg/autobuild/autobuildtest"
	"pc-autobuild-be/pkg/autobuild/builder"
	"pc-autobuild-be/pkg/autobuild/compat"
	"pc-autobuild-be/pkg/autobuild/diversify"
	"pc-autobuild-be/pkg/autobuild/pool"
	"pc-autobuild-be/pkg/autobuild/retry"
	"pc-autobuild-be/pkg/autobuild/session"
	"pc-autobuild-be/pkg/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	entities []intent.Entity
	err      error
}

func (s stubExtractor) Extract(ctx context.Context, text string) ([]intent.Entity, error) {
	return s.entities, s.err
}

var ryzenGaming = []intent.Entity{
	{Value: "chơi game", Label: intent.LabelPurpose},
	{Value: "20 triệu", Label: intent.LabelBudget},
	{Value: "Ryzen 5 5600", Label: intent.LabelCPU},
}

type fixture struct {
	svc   IAutobuildService
	store *memory.SessionRepository
}

func newFixture(store autobuild.GraphStore, extractor intent.Extractor) fixture {
	tuning := autobuild.DefaultTuning()
	log := logger.NewNopLogger()

	controller := retry.NewController(
		allocator.New(store, tuning),
		pool.NewProvider(store),
		builder.New(compat.NewChecker(store), tuning.SearchStepLimit),
		tuning,
	)
	sessions := memory.NewSessionRepository(time.Minute, 0, log)

	svc := NewAutobuildService(
		intent.NewInterpreter(extractor),
		session.NewManager(sessions),
		diversify.New(controller, nil, tuning.DiversifyAttempts, log),
		controller,
		5*time.Second,
		log,
	)
	return fixture{svc: svc, store: sessions}
}

func TestResolveOneKeepsPreferredCPU(t *testing.T) {
	f := newFixture(autobuildtest.NewDesktopCatalog(), stubExtractor{entities: ryzenGaming})

	res, err := f.svc.ResolveOne(context.Background(), "req-1", &dto.ResolveOneRequest{Text: "pc chơi game 20 triệu Ryzen 5 5600"})
	require.NoError(t, err)

	assert.Equal(t, "req-1", res.RequesterID)
	assert.Equal(t, autobuild.StrategyPerformance, res.Strategy)
	assert.Equal(t, int64(20_000_000), res.Intent.Budget)
	require.Len(t, res.Intent.PreferredParts, 1)

	require.True(t, res.Build.Complete)
	assert.Empty(t, res.Build.Missing)
	cpu, _ := res.Build.Configuration.Get(autobuild.CPU)
	assert.Equal(t, "Ryzen 5 5600", cpu.Name)
	assert.LessOrEqual(t, res.Build.TotalCost, int64(24_000_000))

	// The session outlives the request and is no longer marked in use.
	st, ok := f.store.Get("req-1")
	require.True(t, ok)
	assert.Zero(t, st.InFlight())
}

func TestResolveOneWithEmptyCasePoolIsPartial(t *testing.T) {
	f := newFixture(autobuildtest.NewDesktopCatalog(autobuild.Case), stubExtractor{entities: []intent.Entity{
		{Value: "gaming", Label: intent.LabelPurpose},
		{Value: "20tr", Label: intent.LabelBudget},
	}})

	res, err := f.svc.ResolveOne(context.Background(), "req-2", &dto.ResolveOneRequest{Text: "gaming 20tr"})
	require.NoError(t, err)
	assert.False(t, res.Build.Complete)
	assert.Equal(t, []string{"Case"}, res.Build.Missing)
}

func TestResolveManyReturnsRequestedStrategiesInOrder(t *testing.T) {
	f := newFixture(autobuildtest.NewDesktopCatalog(), stubExtractor{entities: ryzenGaming})

	res, err := f.svc.ResolveMany(context.Background(), "req-3", &dto.ResolveRequest{
		Text:       "pc chơi game 20 triệu Ryzen 5 5600",
		Strategies: []string{"popularity", "cost", "popularity"},
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, autobuild.StrategyPopularity, res.Results[0].Strategy)
	assert.Equal(t, autobuild.StrategyCost, res.Results[1].Strategy)
	for _, r := range res.Results {
		assert.NotEmpty(t, r.Configurations)
		assert.Nil(t, r.Best)
		for _, b := range r.Configurations {
			assert.True(t, b.Complete)
		}
	}
}

func TestResolveManyDefaultsToAllStrategies(t *testing.T) {
	f := newFixture(autobuildtest.NewDesktopCatalog(), stubExtractor{entities: ryzenGaming})

	res, err := f.svc.ResolveMany(context.Background(), "req-4", &dto.ResolveRequest{Text: "pc chơi game 20 triệu"})
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.Equal(t, autobuild.StrategyCost, res.Results[0].Strategy)
}

func TestResolveErrors(t *testing.T) {
	f := newFixture(autobuildtest.NewDesktopCatalog(), stubExtractor{err: errors.New("ner down")})
	_, err := f.svc.ResolveOne(context.Background(), "r", &dto.ResolveOneRequest{Text: "abc"})
	assert.ErrorIs(t, err, autobuild.ErrExtraction)

	f = newFixture(autobuildtest.NewDesktopCatalog(), stubExtractor{entities: []intent.Entity{{Value: "gaming", Label: intent.LabelPurpose}}})
	_, err = f.svc.ResolveMany(context.Background(), "r", &dto.ResolveRequest{Text: "gaming pc"})
	assert.ErrorIs(t, err, autobuild.ErrInvalidIntent)

	_, err = f.svc.ResolveMany(context.Background(), "r", &dto.ResolveRequest{Text: "gaming pc", Strategies: []string{"cheapest"}})
	assert.ErrorContains(t, err, "unknown strategy")

	catalog := autobuildtest.NewDesktopCatalog()
	catalog.Err = errors.New("graph down")
	f = newFixture(catalog, stubExtractor{entities: ryzenGaming})
	_, err = f.svc.ResolveOne(context.Background(), "r", &dto.ResolveOneRequest{Text: "abc"})
	assert.ErrorContains(t, err, "graph down")
}

func TestResetDropsSession(t *testing.T) {
	f := newFixture(autobuildtest.NewDesktopCatalog(), stubExtractor{entities: ryzenGaming})

	_, err := f.svc.ResolveOne(context.Background(), "req-2", &dto.ResolveOneRequest{Text: "pc chơi game 20 triệu Ryzen 5 5600"})
	require.NoError(t, err)
	_, ok := f.store.Get("req-2")
	require.True(t, ok)

	require.NoError(t, f.svc.Reset(context.Background(), "req-2"))
	_, ok = f.store.Get("req-2")
	assert.False(t, ok)
}
