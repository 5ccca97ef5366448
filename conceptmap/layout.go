// Package conceptmap places the nodes of a concept map on tiered rings and
// renders the result.
package conceptmap

import (
	"math"
	"strings"

	"github.com/andrewpaige1/studydesk/models"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600

	centralSpacing = 150.0
	majorRadiusX   = 200.0
	majorRadiusY   = 180.0
	minorRadiusX   = 350.0
	minorRadiusY   = 300.0

	// LineHeight separates wrapped label lines.
	LineHeight = 16.0
	// wrapFactor times the node radius is the widest a label line may be.
	wrapFactor = 1.6
	labelLift  = 4.0

	EdgeColour      = "#c8b898"
	EdgeWidth       = 1.5
	EdgeLabelColour = "#8b7355"
	OutlineColour   = "#ffffff"
	OutlineWidth    = 2.0
	LabelSize       = 13.0
	EdgeLabelSize   = 11.0
)

// Style is how one tier is drawn.
type Style struct {
	Fill string  `json:"fill"`
	Text string  `json:"text"`
	Size float64 `json:"size"`
}

var Styles = map[models.ConceptTier]Style{
	models.TierCentral: {Fill: "#c17b2e", Text: "#ffffff", Size: 120},
	models.TierMajor:   {Fill: "#2c2416", Text: "#f5f0e8", Size: 100},
	models.TierMinor:   {Fill: "#f0e0c8", Text: "#2c2416", Size: 80},
}

// StyleFor returns the style of tier, falling back to the minor style.
func StyleFor(tier models.ConceptTier) Style {
	if s, ok := Styles[tier]; ok {
		return s
	}
	return Styles[models.TierMinor]
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PlacedNode struct {
	models.ConceptNode
	Center Point    `json:"center"`
	Radius float64  `json:"radius"`
	Style  Style    `json:"style"`
	Lines  []string `json:"lines"`
	// FirstLineY is the vertical centre of the first label line.
	FirstLineY float64 `json:"first_line_y"`
}

type PlacedEdge struct {
	models.ConceptEdge
	From    Point `json:"from"`
	To      Point `json:"to"`
	LabelAt Point `json:"label_at"`
}

// Layout is the full geometry of a map. Nodes keep their input order.
type Layout struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Nodes  []PlacedNode `json:"nodes"`
	Edges  []PlacedEdge `json:"edges"`
}

// Measurer returns the rendered width of a label line of the given tier.
type Measurer func(text string, tier models.ConceptTier) float64

// ApproxMeasure assumes an average glyph width of 0.55em.
func ApproxMeasure(text string, tier models.ConceptTier) float64 {
	return float64(len([]rune(text))) * LabelSize * 0.55
}

// Positions places every node of a known tier. Central nodes sit in a row
// through the canvas centre; major and minor nodes are spread evenly over
// ellipses starting at the top.
func Positions(nodes []models.ConceptNode, width, height int) map[string]Point {
	var central, major, minor []models.ConceptNode
	for _, n := range nodes {
		switch n.Type {
		case models.TierCentral:
			central = append(central, n)
		case models.TierMajor:
			major = append(major, n)
		case models.TierMinor:
			minor = append(minor, n)
		}
	}

	cx, cy := float64(width)/2, float64(height)/2
	pos := make(map[string]Point, len(nodes))
	for i, n := range central {
		pos[n.ID] = Point{X: cx + (float64(i)-float64(len(central))/2)*centralSpacing, Y: cy}
	}
	ring := func(tier []models.ConceptNode, rx, ry float64) {
		for i, n := range tier {
			a := float64(i)/float64(len(tier))*2*math.Pi - math.Pi/2
			pos[n.ID] = Point{X: cx + math.Cos(a)*rx, Y: cy + math.Sin(a)*ry}
		}
	}
	ring(major, majorRadiusX, majorRadiusY)
	ring(minor, minorRadiusX, minorRadiusY)
	return pos
}

// Compute lays out m on a width x height canvas. It is a pure function of
// its arguments as long as measure is.
func Compute(m models.ConceptMap, width, height int, measure Measurer) Layout {
	if measure == nil {
		measure = ApproxMeasure
	}
	pos := Positions(m.Nodes, width, height)
	out := Layout{Width: width, Height: height, Nodes: []PlacedNode{}, Edges: []PlacedEdge{}}

	for _, e := range m.Edges {
		from, ok1 := pos[e.Source]
		to, ok2 := pos[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		out.Edges = append(out.Edges, PlacedEdge{
			ConceptEdge: e,
			From:        from,
			To:          to,
			LabelAt:     Point{X: (from.X + to.X) / 2, Y: (from.Y+to.Y)/2 - labelLift},
		})
	}

	for _, n := range m.Nodes {
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		style := StyleFor(n.Type)
		r := style.Size / 2
		tier := n.Type
		lines := Wrap(n.Label, r*wrapFactor, func(s string) float64 { return measure(s, tier) })
		out.Nodes = append(out.Nodes, PlacedNode{
			ConceptNode: n,
			Center:      p,
			Radius:      r,
			Style:       style,
			Lines:       lines,
			FirstLineY:  p.Y - float64(len(lines)-1)*LineHeight/2,
		})
	}
	return out
}

// Wrap packs words greedily into lines no wider than budget. A single word
// wider than budget gets a line of its own.
func Wrap(label string, budget float64, width func(string) float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(label) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if width(candidate) > budget {
			if line != "" {
				lines = append(lines, line)
			}
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
