package rrr_arm

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

func TestPathHistoryZeroValue(t *testing.T) {
	var h PathHistory
	assert.Zero(t, h.Len())
	assert.Empty(t, h.Points())
	_, ok := h.Last()
	assert.False(t, ok)
}

func TestPathHistoryAppendKeepsOrder(t *testing.T) {
	a := r3.Vector{X: 1}
	b := r3.Vector{X: 2}
	c := r3.Vector{X: 3}

	h := PathHistory{}.Append(a).Append(b, c)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []r3.Vector{a, b, c}, h.Points())

	last, ok := h.Last()
	assert.True(t, ok)
	assert.Equal(t, c, last)
}

func TestPathHistoryAppendDoesNotAlias(t *testing.T) {
	base := PathHistory{}.Append(r3.Vector{X: 1}, r3.Vector{X: 2})

	left := base.Append(r3.Vector{Y: 10})
	right := base.Append(r3.Vector{Y: 20})

	assert.Equal(t, 2, base.Len())
	assert.Equal(t, r3.Vector{Y: 10}, left.Points()[2])
	assert.Equal(t, r3.Vector{Y: 20}, right.Points()[2])
}

func TestPathHistoryPointsIsACopy(t *testing.T) {
	h := PathHistory{}.Append(r3.Vector{X: 1})
	pts := h.Points()
	pts[0] = r3.Vector{X: 99}

	assert.Equal(t, r3.Vector{X: 1}, h.Points()[0])
}

func TestPathHistoryAppendNothing(t *testing.T) {
	h := PathHistory{}.Append(r3.Vector{X: 1})
	assert.Equal(t, h, h.Append())
}
