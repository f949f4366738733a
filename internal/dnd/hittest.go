package dnd

import "sort"

// HitTest maps a pointer Y coordinate onto an insertion slot.
//
// Rows need not be sorted. A pointer above the first row targets that row
// from above; a pointer past the last row targets it from below. The only
// case with no result is an empty row set.
func HitTest(rows []RowBounds, pointerY float64) (HitTestResult, bool) {
	if len(rows) == 0 {
		return HitTestResult{}, false
	}

	ordered := make([]RowBounds, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Top != ordered[j].Top {
			return ordered[i].Top < ordered[j].Top
		}
		return ordered[i].Height < ordered[j].Height
	})

	first := ordered[0]
	if pointerY <= first.Top {
		return HitTestResult{Key: first.Key, Position: Above}, true
	}

	for _, row := range ordered {
		height := row.Height
		if height < 0 {
			height = 0
		}
		bottom := row.Top + height

		// Zero-height rows are infinitesimal lines
		if height <= 0 {
			if pointerY <= row.Top {
				return HitTestResult{Key: row.Key, Position: Above}, true
			}
			continue
		}

		mid := row.Top + height/2
		if pointerY < mid {
			return HitTestResult{Key: row.Key, Position: Above}, true
		}
		if pointerY <= bottom {
			return HitTestResult{Key: row.Key, Position: Below}, true
		}
	}

	last := ordered[len(ordered)-1]
	return HitTestResult{Key: last.Key, Position: Below}, true
}
