package rrr_arm

import (
	"image/color"
	"io"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Scene colors.
var (
	primaryCyan = color.RGBA{R: 0x00, G: 0xce, B: 0xd1, A: 0xff}
	midCyan     = color.RGBA{R: 0x00, G: 0x80, B: 0x80, A: 0xff}
	plotBg      = color.RGBA{R: 0x0d, G: 0x11, B: 0x11, A: 0xff}
	gridColor   = color.RGBA{R: 0x14, G: 0x21, B: 0x21, A: 0xff}
	// workspace cloud is white at low alpha (premultiplied)
	workspaceColor = color.RGBA{R: 0x1f, G: 0x1f, B: 0x1f, A: 0x1f}
)

// SceneMargin pads the axes beyond the arm's reach.
const SceneMargin = 30

// RenderFormat is an output format understood by RenderScene.
type RenderFormat string

const (
	FormatSVG RenderFormat = "svg"
	FormatPNG RenderFormat = "png"
)

// NewScenePlot builds the plot for a scene: the workspace cloud, the dotted
// trail and the linkage of the current pose on square axes.
func NewScenePlot(scene Scene) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = plotBg
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Color = color.White
		ax.Tick.LineStyle.Color = color.White
		ax.Tick.Label.Color = color.White
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	p.Add(grid)

	if len(scene.Workspace) > 0 {
		cloud, err := plotter.NewScatter(toXYs(scene.Workspace))
		if err != nil {
			return nil, errors.Wrap(err, "failed to plot workspace")
		}
		cloud.GlyphStyle.Shape = draw.CircleGlyph{}
		cloud.GlyphStyle.Radius = vg.Points(0.75)
		cloud.GlyphStyle.Color = workspaceColor
		p.Add(cloud)
	}

	if len(scene.History) > 1 {
		trail, err := plotter.NewLine(toXYs(scene.History))
		if err != nil {
			return nil, errors.Wrap(err, "failed to plot trail")
		}
		trail.LineStyle.Width = vg.Points(1.5)
		trail.LineStyle.Color = primaryCyan
		trail.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
		p.Add(trail)
	}

	if joints, ok := scene.Joints(); ok {
		links, markers, err := plotter.NewLinePoints(toXYs(joints[:]))
		if err != nil {
			return nil, errors.Wrap(err, "failed to plot linkage")
		}
		links.LineStyle.Width = vg.Points(5)
		links.LineStyle.Color = midCyan
		markers.GlyphStyle.Shape = draw.CircleGlyph{}
		markers.GlyphStyle.Radius = vg.Points(4)
		markers.GlyphStyle.Color = color.White
		p.Add(links, markers)
	}

	limit := scene.Config.Reach() + SceneMargin
	p.X.Min, p.X.Max = -limit, limit
	p.Y.Min, p.Y.Max = -limit, limit
	return p, nil
}

// ParseRenderFormat maps a file extension (with or without the dot, any
// case) to a RenderFormat.
func ParseRenderFormat(ext string) (RenderFormat, error) {
	switch f := RenderFormat(strings.TrimPrefix(strings.ToLower(ext), ".")); f {
	case FormatSVG, FormatPNG:
		return f, nil
	default:
		return "", errors.Errorf("unsupported render format %q", ext)
	}
}

// RenderScene writes the scene as a square image of the given side length.
func RenderScene(w io.Writer, scene Scene, format RenderFormat, side vg.Length) error {
	var (
		canvas vg.CanvasWriterTo
		dc     vg.CanvasSizer
	)
	switch format {
	case FormatSVG:
		c := vgsvg.New(side, side)
		canvas, dc = c, c
	case FormatPNG:
		c := vgimg.New(side, side)
		canvas, dc = vgimg.PngCanvas{Canvas: c}, c
	default:
		return errors.Errorf("unsupported render format %q", format)
	}

	p, err := NewScenePlot(scene)
	if err != nil {
		return err
	}
	p.Draw(draw.New(dc))

	if _, err := canvas.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write scene")
	}
	return nil
}

func toXYs(pts []r3.Vector) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
	}
	return xys
}
