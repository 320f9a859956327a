package entity

// FillBrushSize is a reserved sentinel: a stroke with this brush size is
// a flood-fill event at (ToX, ToY), not a line segment.
const FillBrushSize = 0

type Stroke struct {
	FromX  int    `json:"from_x"`
	FromY  int    `json:"from_y"`
	ToX    int    `json:"to_x"`
	ToY    int    `json:"to_y"`
	Color  string `json:"color"`
	Size   int    `json:"size"`
	Eraser bool   `json:"eraser,omitempty"`
}

func (that Stroke) IsFill() bool {
	return that.Size == FillBrushSize
}

// NewFillStroke - a flood-fill origin encoded as a zero-size stroke. The
// fill is replayed by re-running the fill algorithm on the receiving side,
// never by transmitting pixel data.
func NewFillStroke(x, y int, color string) Stroke {
	return Stroke{ToX: x, ToY: y, Color: color, Size: FillBrushSize}
}

// StrokeBatch is the unit of network transmission for stroke samples.
type StrokeBatch struct {
	Strokes    []Stroke `json:"strokes"`
	CapturedAt int64    `json:"captured_at"`
}

// Drawing is a submitted drawing image reference (legacy vote-mode artifact).
type Drawing struct {
	Player string `json:"player"`
	Data   string `json:"data"`
}
