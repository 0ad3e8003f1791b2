package rrr_arm

import (
	"bytes"
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestRenderSceneSVG(t *testing.T) {
	sim := newTestSimulator(t, DefaultArmConfig)
	_, err := sim.Execute(context.Background(), r3.Vector{X: 80, Y: 60}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderScene(&buf, sim.Snapshot(), FormatSVG, 4*vg.Inch))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderScenePNG(t *testing.T) {
	var buf bytes.Buffer
	scene := Scene{Config: DefaultArmConfig, HasPose: true}
	require.NoError(t, RenderScene(&buf, scene, FormatPNG, 2*vg.Inch))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRenderSceneUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := RenderScene(&buf, Scene{Config: DefaultArmConfig}, RenderFormat("bmp"), vg.Inch)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestNewScenePlotAxes(t *testing.T) {
	p, err := NewScenePlot(Scene{Config: DefaultArmConfig})
	require.NoError(t, err)

	assert.Equal(t, -160.0, p.X.Min)
	assert.Equal(t, 160.0, p.X.Max)
	assert.Equal(t, -160.0, p.Y.Min)
	assert.Equal(t, 160.0, p.Y.Max)
}

func TestParseRenderFormat(t *testing.T) {
	for ext, want := range map[string]RenderFormat{".svg": FormatSVG, "SVG": FormatSVG, ".PNG": FormatPNG, "png": FormatPNG} {
		got, err := ParseRenderFormat(ext)
		require.NoError(t, err, ext)
		assert.Equal(t, want, got)
	}
	for _, ext := range []string{"", ".bmp", ".svgz"} {
		_, err := ParseRenderFormat(ext)
		assert.Error(t, err, ext)
	}
}
