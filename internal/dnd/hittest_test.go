package dnd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHitTestEmptyRows(t *testing.T) {
	_, ok := HitTest(nil, 10)
	assert.False(t, ok)
}

func TestHitTest(t *testing.T) {
	rows := []RowBounds{
		{Key: "r0", Top: 10, Height: 20},
		{Key: "r1", Top: 40, Height: 20},
	}

	tests := []struct {
		name     string
		pointerY float64
		want     HitTestResult
	}{
		{"before first row", 0, HitTestResult{"r0", Above}},
		{"on first row top", 10, HitTestResult{"r0", Above}},
		{"upper half of first row", 15, HitTestResult{"r0", Above}},
		{"exact midpoint goes below", 20, HitTestResult{"r0", Below}},
		{"on first row bottom", 30, HitTestResult{"r0", Below}},
		{"gap between rows", 35, HitTestResult{"r1", Above}},
		{"lower half of last row", 55, HitTestResult{"r1", Below}},
		{"below everything", 100, HitTestResult{"r1", Below}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HitTest(rows, tt.pointerY)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHitTestSingleRowHalves(t *testing.T) {
	rows := []RowBounds{{Key: "r0", Top: 0, Height: 20}}

	got, ok := HitTest(rows, 5)
	require.True(t, ok)
	assert.Equal(t, Above, got.Position)

	got, ok = HitTest(rows, 15)
	require.True(t, ok)
	assert.Equal(t, Below, got.Position)
}

func TestHitTestZeroHeightRows(t *testing.T) {
	rows := []RowBounds{
		{Key: "marker", Top: 10, Height: 0},
		{Key: "negative", Top: 20, Height: -5},
		{Key: "row", Top: 30, Height: 10},
	}

	got, ok := HitTest(rows, 10)
	require.True(t, ok)
	assert.Equal(t, HitTestResult{"marker", Above}, got)

	// Past the marker, the next marker catches the pointer
	got, ok = HitTest(rows, 15)
	require.True(t, ok)
	assert.Equal(t, HitTestResult{"negative", Above}, got)

	got, ok = HitTest(rows, 25)
	require.True(t, ok)
	assert.Equal(t, HitTestResult{"row", Above}, got)
}

func TestHitTestOnlyDegenerateRows(t *testing.T) {
	rows := []RowBounds{
		{Key: "a", Top: 0, Height: 0},
		{Key: "b", Top: 5, Height: 0},
	}

	got, ok := HitTest(rows, 50)
	require.True(t, ok)
	assert.Equal(t, HitTestResult{"b", Below}, got)
}

func TestHitTestIsOrderIndependent(t *testing.T) {
	sorted := []RowBounds{
		{Key: "a", Top: 0, Height: 18},
		{Key: "b", Top: 18, Height: 18},
		{Key: "c", Top: 36, Height: 0},
		{Key: "d", Top: 36, Height: 24},
		{Key: "e", Top: 60, Height: 18},
	}
	shuffled := []RowBounds{sorted[3], sorted[0], sorted[4], sorted[2], sorted[1]}
	reversed := []RowBounds{sorted[4], sorted[3], sorted[2], sorted[1], sorted[0]}

	for y := -10.0; y <= 100; y += 0.5 {
		want, ok := HitTest(sorted, y)
		require.True(t, ok)

		got, _ := HitTest(shuffled, y)
		assert.Equal(t, want, got, "shuffled at y=%v", y)
		got, _ = HitTest(reversed, y)
		assert.Equal(t, want, got, "reversed at y=%v", y)
	}
}

func TestHitTestAlwaysReturnsInputKey(t *testing.T) {
	rows := []RowBounds{
		{Key: "x", Top: 100, Height: 12},
		{Key: "y", Top: 40, Height: 0},
		{Key: "z", Top: 70, Height: 30},
	}
	keys := map[string]bool{"x": true, "y": true, "z": true}

	for y := -50.0; y <= 200; y += 3.7 {
		got, ok := HitTest(rows, y)
		require.True(t, ok)
		assert.True(t, keys[got.Key], "unexpected key %q at y=%v", got.Key, y)
	}
}

func TestHitTestDoesNotMutateInput(t *testing.T) {
	rows := []RowBounds{
		{Key: "b", Top: 20, Height: 10},
		{Key: "a", Top: 0, Height: 10},
	}
	before := append([]RowBounds{}, rows...)

	_, _ = HitTest(rows, 12)
	assert.Equal(t, before, rows)
}
