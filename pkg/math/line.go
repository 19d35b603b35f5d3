package math

// LineIterator walks the grid cells of a 2D Bresenham line.
// Every cell between start and target is visited exactly once.
type LineIterator struct {
	X, Y           int
	targetX        int
	targetY        int
	deltaX, deltaY int
	stepX, stepY   int
	err            int
	started        bool
}

// NewLineIterator creates a Bresenham iterator from (sx, sy) to (ex, ey).
func NewLineIterator(sx, sy, ex, ey int) *LineIterator {
	it := &LineIterator{
		X: sx, Y: sy,
		targetX: ex, targetY: ey,
		deltaX: absInt(ex - sx),
		deltaY: -absInt(ey - sy),
		stepX:  1,
		stepY:  1,
	}
	if sx > ex {
		it.stepX = -1
	}
	if sy > ey {
		it.stepY = -1
	}
	it.err = it.deltaX + it.deltaY
	return it
}

// Next advances to the next cell. The first call yields the start cell.
// Returns false once the target has been yielded.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true
	}
	if it.X == it.targetX && it.Y == it.targetY {
		return false
	}
	e2 := 2 * it.err
	if e2 >= it.deltaY {
		it.err += it.deltaY
		it.X += it.stepX
	}
	if e2 <= it.deltaX {
		it.err += it.deltaX
		it.Y += it.stepY
	}
	return true
}

// Steps returns the number of cells the line visits.
func (it *LineIterator) Steps() int {
	dx := it.deltaX
	dy := -it.deltaY
	if dx > dy {
		return dx + 1
	}
	return dy + 1
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
