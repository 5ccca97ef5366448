package conceptmap

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/andrewpaige1/studydesk/models"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Renderer draws layouts to PNG with the Go fonts. Font faces are not safe
// for concurrent use, so calls are serialised.
type Renderer struct {
	mu        sync.Mutex
	regular   font.Face
	bold      font.Face
	edgeLabel font.Face
}

func NewRenderer() (*Renderer, error) {
	regular, err := loadFace(goregular.TTF, LabelSize)
	if err != nil {
		return nil, err
	}
	bold, err := loadFace(gobold.TTF, LabelSize)
	if err != nil {
		return nil, err
	}
	small, err := loadFace(goregular.TTF, EdgeLabelSize)
	if err != nil {
		return nil, err
	}
	return &Renderer{regular: regular, bold: bold, edgeLabel: small}, nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("could not parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

func (r *Renderer) face(tier models.ConceptTier) font.Face {
	if tier == models.TierCentral {
		return r.bold
	}
	return r.regular
}

// Measure is a Measurer backed by the renderer's faces.
func (r *Renderer) Measure(text string, tier models.ConceptTier) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(font.MeasureString(r.face(tier), text)) / 64
}

// Layout computes the geometry of m on the default canvas using the
// renderer's font metrics.
func (r *Renderer) Layout(m models.ConceptMap) Layout {
	return Compute(m, DefaultWidth, DefaultHeight, r.Measure)
}

// Render draws edges first, then nodes with their wrapped labels.
func (r *Renderer) Render(l Layout) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(l.Width, l.Height)

	dc.SetFontFace(r.edgeLabel)
	for _, e := range l.Edges {
		dc.SetHexColor(EdgeColour)
		dc.SetLineWidth(EdgeWidth)
		dc.DrawLine(e.From.X, e.From.Y, e.To.X, e.To.Y)
		dc.Stroke()
		if e.Label != "" {
			dc.SetHexColor(EdgeLabelColour)
			dc.DrawStringAnchored(e.Label, e.LabelAt.X, e.LabelAt.Y, 0.5, 0)
		}
	}

	for _, n := range l.Nodes {
		dc.DrawCircle(n.Center.X, n.Center.Y, n.Radius)
		dc.SetHexColor(n.Style.Fill)
		dc.FillPreserve()
		dc.SetHexColor(OutlineColour)
		dc.SetLineWidth(OutlineWidth)
		dc.Stroke()

		dc.SetFontFace(r.face(n.Type))
		dc.SetHexColor(n.Style.Text)
		for i, line := range n.Lines {
			dc.DrawStringAnchored(line, n.Center.X, n.FirstLineY+float64(i)*LineHeight, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
