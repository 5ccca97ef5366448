package conceptmap

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/andrewpaige1/studydesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() models.ConceptMap {
	return models.ConceptMap{
		Nodes: []models.ConceptNode{
			{ID: "c", Label: "Photosynthesis", Type: models.TierCentral},
			{ID: "m1", Label: "Light reactions", Type: models.TierMajor},
			{ID: "m2", Label: "Calvin cycle", Type: models.TierMajor},
			{ID: "n1", Label: "ATP synthase in the thylakoid membrane", Type: models.TierMinor},
			{ID: "x", Label: "Unplaced", Type: "legendary"},
		},
		Edges: []models.ConceptEdge{
			{Source: "c", Target: "m1", Label: "includes"},
			{Source: "c", Target: "m2"},
			{Source: "m1", Target: "n1", Label: "uses"},
			{Source: "x", Target: "c"},
		},
	}
}

func TestCompute_Deterministic(t *testing.T) {
	a := Compute(sample(), DefaultWidth, DefaultHeight, ApproxMeasure)
	b := Compute(sample(), DefaultWidth, DefaultHeight, ApproxMeasure)
	assert.Equal(t, a, b)
}

func TestCompute_TierPositions(t *testing.T) {
	l := Compute(sample(), DefaultWidth, DefaultHeight, ApproxMeasure)
	byID := map[string]PlacedNode{}
	for _, n := range l.Nodes {
		byID[n.ID] = n
	}

	require.NotContains(t, byID, "x")
	require.Len(t, l.Edges, 3)

	// One central node sits half a spacing left of centre.
	assert.Equal(t, Point{X: 400 - 75, Y: 300}, byID["c"].Center)
	assert.Equal(t, 60.0, byID["c"].Radius)

	// First ring node starts at the top.
	assert.InDelta(t, 400, byID["m1"].Center.X, 1e-9)
	assert.InDelta(t, 300-180, byID["m1"].Center.Y, 1e-9)
	assert.InDelta(t, 400, byID["m2"].Center.X, 1e-9)
	assert.InDelta(t, 300+180, byID["m2"].Center.Y, 1e-9)

	assert.InDelta(t, 300-300, byID["n1"].Center.Y, 1e-9)
	assert.Equal(t, 40.0, byID["n1"].Radius)
	assert.Equal(t, "#f0e0c8", byID["n1"].Style.Fill)
}

func TestCompute_EdgeLabelAtMidpoint(t *testing.T) {
	l := Compute(sample(), DefaultWidth, DefaultHeight, ApproxMeasure)
	e := l.Edges[0]
	assert.InDelta(t, (e.From.X+e.To.X)/2, e.LabelAt.X, 1e-9)
	assert.InDelta(t, (e.From.Y+e.To.Y)/2-4, e.LabelAt.Y, 1e-9)
}

func TestWrap(t *testing.T) {
	width := func(s string) float64 { return float64(len(s)) }

	assert.Equal(t, []string{"alpha beta", "gamma"}, Wrap("alpha beta gamma", 10, width))
	assert.Equal(t, []string{"supercalifragilistic", "x"}, Wrap("supercalifragilistic x", 5, width))
	assert.Nil(t, Wrap("   ", 10, width))
}

func TestCompute_LabelLinesCentred(t *testing.T) {
	l := Compute(sample(), DefaultWidth, DefaultHeight, ApproxMeasure)
	for _, n := range l.Nodes {
		if n.ID != "n1" {
			continue
		}
		require.Greater(t, len(n.Lines), 1)
		span := float64(len(n.Lines)-1) * LineHeight
		assert.InDelta(t, n.Center.Y, n.FirstLineY+span/2, 1e-9)
	}
}

func TestStyleFor_FallsBackToMinor(t *testing.T) {
	assert.Equal(t, Styles[models.TierMinor], StyleFor("unknown"))
}

func TestRenderer_RendersPNG(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	w := r.Measure("Calvin cycle", models.TierMajor)
	assert.Greater(t, w, 0.0)
	assert.False(t, math.IsNaN(w))

	raw, err := r.Render(r.Layout(sample()))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
}
