package render

import "math"

// RingCell is one screen cell on the progress ring
type RingCell struct {
	X, Y int
	Lit  bool
}

// RingCells samples n points clockwise from twelve o'clock on an ellipse with
// radii rx, ry around (cx, cy). Points whose position along the ring is below
// fraction are lit. Cells hit by several samples appear once, lit if any
// sample was.
func RingCells(cx, cy, rx, ry, n int, fraction float64) []RingCell {
	if n <= 0 || rx <= 0 || ry <= 0 {
		return nil
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	lit := int(math.Round(fraction * float64(n)))
	index := make(map[[2]int]int, n)
	cells := make([]RingCell, 0, n)

	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		x := cx + int(math.Round(float64(rx)*math.Sin(theta)))
		y := cy - int(math.Round(float64(ry)*math.Cos(theta)))

		key := [2]int{x, y}
		on := i < lit
		if j, ok := index[key]; ok {
			cells[j].Lit = cells[j].Lit || on
			continue
		}
		index[key] = len(cells)
		cells = append(cells, RingCell{X: x, Y: y, Lit: on})
	}
	return cells
}

// ringRadii fits the ring inside w x h, doubling the horizontal radius for
// terminal cell aspect ratio
func ringRadii(w, h int) (rx, ry int) {
	ry = h/2 - 2
	if limit := (w/2 - 2) / 2; ry > limit {
		ry = limit
	}
	if ry < 3 {
		return 0, 0
	}
	return ry * 2, ry
}
