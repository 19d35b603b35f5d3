package math

import "testing"

func collectLine(sx, sy, ex, ey int) [][2]int {
	var cells [][2]int
	it := NewLineIterator(sx, sy, ex, ey)
	for it.Next() {
		cells = append(cells, [2]int{it.X, it.Y})
	}
	return cells
}

func TestLineIteratorHorizontal(t *testing.T) {
	cells := collectLine(0, 0, 4, 0)
	if len(cells) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(cells))
	}
	for i, c := range cells {
		if c[0] != i || c[1] != 0 {
			t.Errorf("cell %d = %v, want (%d, 0)", i, c, i)
		}
	}
}

func TestLineIteratorVisitsEachCellOnce(t *testing.T) {
	tests := [][4]int{
		{0, 0, 7, 3},
		{7, 3, 0, 0},
		{0, 0, -3, 8},
		{2, 2, 2, 2},
		{-4, 5, 6, -1},
	}
	for _, tt := range tests {
		cells := collectLine(tt[0], tt[1], tt[2], tt[3])
		it := NewLineIterator(tt[0], tt[1], tt[2], tt[3])
		if len(cells) != it.Steps() {
			t.Errorf("%v: visited %d cells, Steps() = %d", tt, len(cells), it.Steps())
		}
		seen := make(map[[2]int]bool)
		for _, c := range cells {
			if seen[c] {
				t.Errorf("%v: cell %v visited twice", tt, c)
			}
			seen[c] = true
		}
		last := cells[len(cells)-1]
		if last[0] != tt[2] || last[1] != tt[3] {
			t.Errorf("%v: last cell %v, want target", tt, last)
		}
		for i := 1; i < len(cells); i++ {
			dx := absInt(cells[i][0] - cells[i-1][0])
			dy := absInt(cells[i][1] - cells[i-1][1])
			if dx > 1 || dy > 1 {
				t.Errorf("%v: gap between %v and %v", tt, cells[i-1], cells[i])
			}
		}
	}
}
