package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioroute/internal/domain"
)

func TestCalculate_StandardMill(t *testing.T) {
	res, err := New().Calculate(testReference(), standardMill())
	require.NoError(t, err)

	t.Run("liquid feedstock carries COD load", func(t *testing.T) {
		s := res.Streams["feed-1->dig-1"]
		assert.Equal(t, 25000.0, s.COD)
		assert.Equal(t, 1000.0, s.VolumeFlow)
		assert.InDelta(t, 17500.0, s.VSContent, 1e-9)
	})

	t.Run("digester follows the COD pathway", func(t *testing.T) {
		d := res.NodeDetails["dig-1"]
		assert.InDelta(t, 7000.0, d.Value("methane_production"), 1e-9)
		assert.InDelta(t, 11666.67, d.Value("biogas_production"), 0.01)
		assert.InDelta(t, 250600.0, d.Value("energy_output_mj"), 1e-6)
		assert.InDelta(t, 80.0, d.Value("conversion_efficiency"), 1e-9)
		assert.Equal(t, domain.CategoryDigester, d.Category)
	})

	t.Run("upgrading recovers methane", func(t *testing.T) {
		u := res.NodeDetails["upg-1"]
		assert.InDelta(t, 6720.0, u.Value("biomethane_production"), 1e-9)
		assert.InDelta(t, 280.0, u.Value("methane_loss"), 1e-9)
		assert.InDelta(t, 96.0, u.Value("methane_recovery"), 1e-9)

		s := res.Streams["upg-1->end-1"]
		assert.InDelta(t, 6720.0, s.MethaneContent, 1e-9)
		assert.InDelta(t, 6720.0*35.8, s.EnergyContent, 1e-6)
	})

	t.Run("cogeneration converts methane to electricity and revenue", func(t *testing.T) {
		e := res.NodeDetails["end-1"]
		assert.InDelta(t, 66998.4, e.Value("energy_input"), 1e-6)
		assert.InDelta(t, 26799.36, e.Value("electricity_kwh"), 1e-6)
		assert.InDelta(t, 30149.28, e.Value("thermal_kwh"), 1e-6)
		assert.InDelta(t, 9379.776, e.Value("daily_revenue"), 1e-6)
		assert.InDelta(t, 3095326.08, e.Value("annual_revenue"), 1e-3)
	})

	t.Run("summary aggregates every node", func(t *testing.T) {
		s := res.Summary
		assert.InDelta(t, 11666.67, s.BiogasNm3Day, 0.01)
		assert.InDelta(t, 7000.0, s.MethaneNm3Day, 1e-9)
		assert.InDelta(t, 6720.0, s.BiomethaneNm3Day, 1e-9)
		assert.InDelta(t, 26.79936, s.ElectricityMWhDay, 1e-9)
		assert.InDelta(t, 30.14928, s.ThermalMWhDay, 1e-9)
		assert.InDelta(t, 3095326.08, s.AnnualRevenueBRL, 1e-3)
		assert.InDelta(t, 13.3, s.EmissionsAvoidedTCO2Day, 1e-9)
		assert.InDelta(t, 13.3*330, s.EmissionsAvoidedTCO2Year, 1e-6)
	})

	t.Run("terminal nodes store no outgoing stream", func(t *testing.T) {
		assert.Len(t, res.Streams, 3)
		assert.Equal(t, []string{"feed-1", "dig-1", "upg-1", "end-1"}, res.Order)
	})
}

func TestCalculate_Determinism(t *testing.T) {
	eng := New()
	route := domain.Route{
		Nodes: []domain.RouteNode{
			node("v", "vinasse", map[string]float64{"quantity": 1500}),
			node("b", "bagasse", map[string]float64{"quantity": 50}),
			node("d", "cstr", nil),
			node("e", "ice_cogen", nil),
			node("f", "flare", nil),
		},
		Edges: []domain.RouteEdge{edge("v", "d"), edge("b", "d"), edge("d", "e"), edge("d", "f")},
	}

	first, err := eng.Calculate(testReference(), route)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := eng.Calculate(testReference(), route)
		require.NoError(t, err)
		assert.Equal(t, first.Summary, again.Summary)
		assert.Equal(t, first.Order, again.Order)
	}
}

func TestCalculate_MergeIsFieldWiseSum(t *testing.T) {
	route := domain.Route{
		Nodes: []domain.RouteNode{
			node("liquid", "vinasse", map[string]float64{"quantity": 1000}),
			node("solid", "bagasse", map[string]float64{"quantity": 100}),
			node("mix", "mixer", nil),
			node("sink", "mixer", nil),
		},
		Edges: []domain.RouteEdge{edge("liquid", "mix"), edge("solid", "mix"), edge("mix", "sink")},
	}

	res, err := New().Calculate(testReference(), route)
	require.NoError(t, err)

	a := res.Streams["liquid->mix"]
	b := res.Streams["solid->mix"]
	merged := res.Streams["mix->sink"]

	assert.Equal(t, a.Add(b), merged)
	assert.Equal(t, 70.0, merged.Temperature)
	assert.Equal(t, 2.0, merged.Pressure)
	assert.Equal(t, 25000.0, merged.COD)
	assert.Equal(t, 100000.0, merged.MassFlow)
	assert.Empty(t, res.NodeDetails["mix"].Values)
}

func TestCalculate_PassThroughForwardsStream(t *testing.T) {
	route := domain.Route{
		Nodes: []domain.RouteNode{
			node("feed", "vinasse", map[string]float64{"quantity": 400}),
			node("tank", "mixer", nil),
			node("dig", "uasb", nil),
		},
		Edges: []domain.RouteEdge{edge("feed", "tank"), edge("tank", "dig")},
	}

	res, err := New().Calculate(testReference(), route)
	require.NoError(t, err)
	assert.Equal(t, res.Streams["feed->tank"], res.Streams["tank->dig"])
}

func TestCalculate_AlkalinePretreatmentOnBagasse(t *testing.T) {
	route := domain.Route{
		Nodes: []domain.RouteNode{
			node("feed", "bagasse", map[string]float64{"quantity": 100}),
			node("pre", "alkaline_pretreat", nil),
		},
		Edges: []domain.RouteEdge{edge("feed", "pre")},
	}

	res, err := New().Calculate(testReference(), route)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.NodeDetails["pre"].Value("parasitic_energy_kwh"))
}

func TestCalculate_IDsContainingArrow(t *testing.T) {
	route := domain.Route{
		Nodes: []domain.RouteNode{
			node("a->b", "vinasse", map[string]float64{"quantity": 1000}),
			node("a", "vinasse", map[string]float64{"quantity": 10}),
			node("c", "mixer", nil),
			node("b->c", "mixer", nil),
			node("sink1", "mixer", nil),
			node("sink2", "mixer", nil),
		},
		Edges: []domain.RouteEdge{
			edge("a->b", "c"), edge("a", "b->c"),
			edge("c", "sink1"), edge("b->c", "sink2"),
		},
	}

	res, err := New().Calculate(testReference(), route)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, res.Streams["c->sink1"].COD)
	assert.Equal(t, 250.0, res.Streams["b->c->sink2"].COD)
}

func TestCalculate_Failures(t *testing.T) {
	eng := New(WithLimits(Limits{MaxNodes: 5, MaxEdges: 5}))

	tests := []struct {
		name   string
		route  domain.Route
		kind   ErrorKind
		target error
		nodeID string
	}{
		{
			name: "cycle is rejected",
			route: domain.Route{
				Nodes: []domain.RouteNode{node("a", "uasb", nil), node("b", "membrane", nil)},
				Edges: []domain.RouteEdge{edge("a", "b"), edge("b", "a")},
			},
			kind:   KindCycleDetected,
			target: ErrCycleDetected,
			nodeID: "a",
		},
		{
			name: "unknown technology aborts at the node",
			route: domain.Route{
				Nodes: []domain.RouteNode{node("feed", "vinasse", nil), node("x", "reactor_9000", nil)},
				Edges: []domain.RouteEdge{edge("feed", "x")},
			},
			kind:   KindUnknownTechnology,
			target: ErrUnknownTechnology,
			nodeID: "x",
		},
		{
			name: "duplicate ids are rejected",
			route: domain.Route{
				Nodes: []domain.RouteNode{node("a", "vinasse", nil), node("a", "uasb", nil)},
			},
			kind:   KindDuplicateNodeID,
			target: ErrDuplicateNodeID,
			nodeID: "a",
		},
		{
			name: "dangling edge is rejected",
			route: domain.Route{
				Nodes: []domain.RouteNode{node("a", "vinasse", nil)},
				Edges: []domain.RouteEdge{edge("a", "ghost")},
			},
			kind:   KindDanglingReference,
			target: ErrDanglingReference,
			nodeID: "ghost",
		},
		{
			name: "oversized route is rejected",
			route: domain.Route{
				Nodes: []domain.RouteNode{
					node("1", "vinasse", nil), node("2", "vinasse", nil), node("3", "vinasse", nil),
					node("4", "vinasse", nil), node("5", "vinasse", nil), node("6", "vinasse", nil),
				},
			},
			kind:   KindGraphTooLarge,
			target: ErrGraphTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := eng.Calculate(testReference(), tt.route)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.target)

			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, e.Kind)
			if tt.nodeID != "" {
				assert.Equal(t, tt.nodeID, e.NodeID)
				assert.Contains(t, e.Error(), tt.nodeID)
			}
		})
	}
}

func TestCalculate_DoesNotMutateInputs(t *testing.T) {
	ref := testReference()
	route := standardMill()
	before := route.Nodes[1].Parameters["efficiency"]

	_, err := New().Calculate(ref, route)
	require.NoError(t, err)

	assert.Equal(t, before, route.Nodes[1].Parameters["efficiency"])
	assert.Equal(t, map[string]float64{"cod": 25}, ref["vinasse"].Defaults)
}

func TestCalculate_EmptyRoute(t *testing.T) {
	res, err := New().Calculate(testReference(), domain.Route{})
	require.NoError(t, err)
	assert.Equal(t, Summary{}, res.Summary)
	assert.Empty(t, res.NodeDetails)
	assert.Empty(t, res.Streams)
}

func TestCalculate_CustomRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(domain.CategoryFeedstock, EvaluatorFunc(func(in Input) (Stream, Values) {
		s := NewStream()
		s.MethaneContent = in.Params["quantity"]
		return s, Values{"methane_production": in.Params["quantity"]}
	}))

	route := domain.Route{
		Nodes: []domain.RouteNode{node("f", "vinasse", map[string]float64{"quantity": 42}), node("d", "uasb", nil)},
		Edges: []domain.RouteEdge{edge("f", "d")},
	}
	res, err := New(WithRegistry(r)).Calculate(testReference(), route)
	require.NoError(t, err)

	// digester has no evaluator in this registry and passes through
	assert.Equal(t, 42.0, res.Summary.MethaneNm3Day)
	assert.Empty(t, res.NodeDetails["d"].Values)
}
