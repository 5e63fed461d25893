package capture

// Rect is an axis-aligned bounding box in viewport coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Point is a position relative to a capture region's own bounding box.
type Point struct {
	X, Y float64
}

// toolbarOffset lifts the anchor above the selection's top edge.
const toolbarOffset = 8

// Anchor converts a selection bounding box in viewport coordinates into a
// region-relative toolbar anchor: horizontally centered on the selection,
// vertically just above its top edge.
func Anchor(sel, container Rect) Point {
	return Point{
		X: sel.X - container.X + sel.W/2,
		Y: sel.Y - container.Y - toolbarOffset,
	}
}
