package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioroute/internal/catalog"
	"bioroute/internal/domain"
	"bioroute/internal/engine"
	"bioroute/internal/metrics"
	"bioroute/internal/repository"
	"bioroute/internal/repository/sqlite"
)

type fixture struct {
	routes    *RouteService
	scenarios *ScenarioService
	events    chan Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	snap, err := catalog.Default()
	require.NoError(t, err)
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	bus := NewEventBus()
	events := make(chan Event, 16)
	bus.Subscribe(events)

	m := metrics.New()
	routes := NewRouteService(catalog.NewStaticStore(snap), engine.New(), m)
	return &fixture{
		routes:    routes,
		scenarios: NewScenarioService(repo, routes, bus, m),
		events:    events,
	}
}

func (f *fixture) template(t *testing.T, id string) domain.Route {
	t.Helper()
	tpl, err := f.routes.Template(id)
	require.NoError(t, err)
	return tpl.Route()
}

func (f *fixture) nextEvent(t *testing.T) Event {
	t.Helper()
	select {
	case ev := <-f.events:
		return ev
	default:
		t.Fatal("expected an event")
		return Event{}
	}
}

func TestRouteService_Calculate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("template calculates with a fingerprint", func(t *testing.T) {
		calc, err := f.routes.CalculateTemplate(ctx, "biometano-gnv")
		require.NoError(t, err)
		assert.Greater(t, calc.Summary.BiomethaneNm3Day, 0.0)
		assert.Len(t, calc.Fingerprint, 32)
		assert.Equal(t, f.routes.Snapshot().Catalog.Version(), calc.CatalogVersion)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := f.routes.CalculateTemplate(ctx, "nope")
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("engine errors pass through", func(t *testing.T) {
		route := domain.Route{Nodes: []domain.RouteNode{
			domain.NewRouteNode("a", "vinasse"),
			domain.NewRouteNode("a", "uasb"),
		}}
		_, err := f.routes.Calculate(ctx, route)
		assert.ErrorIs(t, err, engine.ErrDuplicateNodeID)
	})
}

func TestRouteService_Technologies(t *testing.T) {
	f := newFixture(t)

	all, err := f.routes.Technologies("")
	require.NoError(t, err)
	assert.Len(t, all, 29)

	digesters, err := f.routes.Technologies("digester")
	require.NoError(t, err)
	assert.Len(t, digesters, 5)

	_, err = f.routes.Technologies("reactor")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.routes.Technology("missing")
	assert.ErrorIs(t, err, ErrTechnologyNotFound)
}

func TestFingerprint(t *testing.T) {
	base := domain.Route{
		Nodes: []domain.RouteNode{
			{NodeID: "f", TechID: "vinasse", Parameters: map[string]float64{"quantity": 10, "cod": 20}},
			{NodeID: "d", TechID: "uasb"},
		},
		Edges: []domain.RouteEdge{{Source: "f", Target: "d"}},
	}
	fp := Fingerprint("1.0.0", base)

	t.Run("positions and handles are ignored", func(t *testing.T) {
		moved := domain.Route{
			Nodes: []domain.RouteNode{
				{NodeID: "f", TechID: "vinasse", Position: &domain.Position{X: 5}, Parameters: map[string]float64{"cod": 20, "quantity": 10}},
				{NodeID: "d", TechID: "uasb", Parameters: map[string]float64{}},
			},
			Edges: []domain.RouteEdge{{Source: "f", Target: "d", SourceHandle: "out"}},
		}
		assert.Equal(t, fp, Fingerprint("1.0.0", moved))
	})

	t.Run("parameters change it", func(t *testing.T) {
		changed := domain.Route{Nodes: []domain.RouteNode{
			base.Nodes[0].WithParam("quantity", 11), base.Nodes[1],
		}, Edges: base.Edges}
		assert.NotEqual(t, fp, Fingerprint("1.0.0", changed))
	})

	t.Run("catalog digest changes it", func(t *testing.T) {
		assert.NotEqual(t, fp, Fingerprint("1.1.0", base))
	})
}

func TestRouteService_FingerprintFollowsReload(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "catalog", "data", "technologies.yaml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "technologies.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store, err := catalog.NewStore(catalog.Options{TechnologiesPath: path})
	require.NoError(t, err)
	routes := NewRouteService(store, engine.New(), metrics.New())

	tpl, err := routes.Template("usina-padrao")
	require.NoError(t, err)
	route := tpl.Route()

	before, err := routes.Calculate(context.Background(), route)
	require.NoError(t, err)
	version := store.Current().Catalog.Version()

	// same version string, different vinasse default
	edited := bytes.Replace(data, []byte("cod: 25"), []byte("cod: 10"), 1)
	require.NoError(t, os.WriteFile(path, edited, 0o644))
	require.NoError(t, store.Reload())
	require.Equal(t, version, store.Current().Catalog.Version())

	after, err := routes.Calculate(context.Background(), route)
	require.NoError(t, err)
	assert.NotEqual(t, before.Fingerprint, after.Fingerprint)
	assert.Equal(t, routes.Fingerprint(route), after.Fingerprint)
	assert.Less(t, after.Summary.BiogasNm3Day, before.Summary.BiogasNm3Day)
}

func TestRouteService_Validate(t *testing.T) {
	f := newFixture(t)

	t.Run("templates are valid", func(t *testing.T) {
		for _, tpl := range f.routes.Templates() {
			v := f.routes.Validate(tpl.Route())
			assert.True(t, v.Valid, "template %s: %+v", tpl.ID, v.Errors)
			assert.Empty(t, v.Warnings, tpl.ID)
		}
	})

	t.Run("incompatible connection", func(t *testing.T) {
		route := domain.Route{
			Nodes: []domain.RouteNode{
				domain.NewRouteNode("feed", "bagasse"),
				domain.NewRouteNode("dig", "uasb"),
			},
			Edges: []domain.RouteEdge{{Source: "feed", Target: "dig"}},
		}
		v := f.routes.Validate(route)
		assert.False(t, v.Valid)
		require.Len(t, v.Errors, 1)
		assert.Equal(t, KindIncompatibleConnection, v.Errors[0].Kind)
		assert.Equal(t, "feed->dig", v.Errors[0].Edge)
	})

	t.Run("unknown technology and cycle are both reported", func(t *testing.T) {
		route := domain.Route{
			Nodes: []domain.RouteNode{
				domain.NewRouteNode("a", "psa"),
				domain.NewRouteNode("b", "teleporter"),
			},
			Edges: []domain.RouteEdge{{Source: "a", Target: "b"}, {Source: "b", Target: "a"}},
		}
		v := f.routes.Validate(route)
		assert.False(t, v.Valid)
		kinds := make([]string, 0, len(v.Errors))
		for _, e := range v.Errors {
			kinds = append(kinds, e.Kind)
		}
		assert.ElementsMatch(t, []string{
			string(engine.KindCycleDetected),
			string(engine.KindUnknownTechnology),
		}, kinds)
	})

	t.Run("unconnected nodes warn", func(t *testing.T) {
		route := domain.Route{Nodes: []domain.RouteNode{
			domain.NewRouteNode("feed", "vinasse"),
			domain.NewRouteNode("dig", "uasb"),
		}}
		v := f.routes.Validate(route)
		assert.True(t, v.Valid)
		assert.Len(t, v.Warnings, 2)
	})
}

func TestScenarioService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	route := f.template(t, "usina-padrao")

	sc, err := f.scenarios.Create(ctx, ScenarioInput{Name: "Mill A", Author: "ops", Nodes: route.Nodes, Edges: route.Edges})
	require.NoError(t, err)
	assert.NotEmpty(t, sc.ID)
	assert.Len(t, sc.ShareToken, 8)
	assert.NotEmpty(t, sc.Results)
	assert.Equal(t, f.routes.Fingerprint(route), sc.Fingerprint)
	assert.Equal(t, EventScenarioCreated, f.nextEvent(t).Type)

	t.Run("get by id and share token", func(t *testing.T) {
		got, err := f.scenarios.Get(ctx, sc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mill A", got.Name)

		shared, err := f.scenarios.GetShared(ctx, sc.ShareToken)
		require.NoError(t, err)
		assert.Equal(t, sc.ID, shared.ID)
	})

	t.Run("update recalculates", func(t *testing.T) {
		nodes := append([]domain.RouteNode{}, route.Nodes...)
		nodes[0] = nodes[0].WithParam("quantity", 5000)

		updated, err := f.scenarios.Update(ctx, sc.ID, ScenarioInput{Name: "Mill A v2", Nodes: nodes, Edges: route.Edges})
		require.NoError(t, err)
		assert.NotEqual(t, sc.Fingerprint, updated.Fingerprint)
		assert.Equal(t, sc.ShareToken, updated.ShareToken)
		assert.Equal(t, EventScenarioUpdated, f.nextEvent(t).Type)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, f.scenarios.Delete(ctx, sc.ID))
		assert.Equal(t, EventScenarioDeleted, f.nextEvent(t).Type)

		_, err := f.scenarios.Get(ctx, sc.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, f.scenarios.Delete(ctx, sc.ID), repository.ErrNotFound)
	})
}

func TestScenarioService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.scenarios.Create(ctx, ScenarioInput{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.scenarios.Create(ctx, ScenarioInput{Name: "empty"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.scenarios.Create(ctx, ScenarioInput{
		Name:  "dangling",
		Nodes: []domain.RouteNode{domain.NewRouteNode("a", "vinasse")},
		Edges: []domain.RouteEdge{{Source: "a", Target: "ghost"}},
	})
	e, ok := engine.AsError(err)
	require.True(t, ok)
	assert.Equal(t, engine.KindDanglingReference, e.Kind)

	n, err := f.scenarios.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestScenarioService_Compare(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	create := func(name, tpl string) *domain.Scenario {
		route := f.template(t, tpl)
		sc, err := f.scenarios.Create(ctx, ScenarioInput{Name: name, Nodes: route.Nodes, Edges: route.Edges})
		require.NoError(t, err)
		return sc
	}
	a := create("a", "usina-padrao")
	b := create("b", "biometano-gnv")
	c := create("c", "usina-padrao")

	_, err := f.scenarios.Compare(ctx, []string{a.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	cmp, err := f.scenarios.Compare(ctx, []string{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	require.Len(t, cmp, 3)
	assert.Equal(t, []string{c.ID}, cmp[0].SameRouteAs)
	assert.Empty(t, cmp[1].SameRouteAs)
	assert.Equal(t, cmp[0].Summary, cmp[2].Summary)
	assert.Greater(t, cmp[0].Summary.ElectricityMWhDay, 0.0)
	assert.Greater(t, cmp[1].Summary.BiomethaneNm3Day, 0.0)

	same, err := f.scenarios.SameRoute(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, same, 1)
	assert.Equal(t, c.ID, same[0].ID)

	_, err = f.scenarios.Compare(ctx, []string{a.ID, "missing"})
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestScenarioService_ExportImport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	route := f.template(t, "palha-2g")

	sc, err := f.scenarios.Create(ctx, ScenarioInput{Name: "Straw", Nodes: route.Nodes, Edges: route.Edges})
	require.NoError(t, err)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, f.scenarios.Export(ctx, sc.ID, format, &buf))

			imported, err := f.scenarios.Import(ctx, format, &buf)
			require.NoError(t, err)
			assert.NotEqual(t, sc.ID, imported.ID)
			assert.Equal(t, sc.Name, imported.Name)
			assert.Equal(t, sc.Fingerprint, imported.Fingerprint)
		})
	}

	err = f.scenarios.Export(ctx, sc.ID, "csv", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.scenarios.Import(ctx, "json", bytes.NewBufferString("{"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEventBus_NilAndSlowSubscribers(t *testing.T) {
	var nilBus *EventBus
	nilBus.Publish(Event{Type: EventCatalogReloaded})

	bus := NewEventBus()
	slow := make(chan Event)
	fast := make(chan Event, 1)
	bus.Subscribe(slow)
	bus.Subscribe(fast)

	bus.Publish(Event{Type: EventCatalogReloaded})
	assert.Equal(t, EventCatalogReloaded, (<-fast).Type)
}
