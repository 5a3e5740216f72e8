package geometry

// ObstacleSpec registers a reserved region by id with an inflation margin.
// The id is resolved to a rectangle by whoever draws the scene.
type ObstacleSpec struct {
	ID      string  `json:"id" yaml:"id"`
	Inflate float64 `json:"inflate" yaml:"inflate"`
}

// MeasureFunc resolves an obstacle id to its rectangle in scene coordinates.
// ok is false when the element does not exist in the current scene.
type MeasureFunc func(id string) (r Rect, ok bool)

// ObstacleRects measures every registered obstacle and inflates it by its
// margin. Ids the scene cannot measure are skipped.
func ObstacleRects(measure MeasureFunc, specs []ObstacleSpec) []Rect {
	if measure == nil {
		return nil
	}
	rects := make([]Rect, 0, len(specs))
	for _, spec := range specs {
		r, ok := measure(spec.ID)
		if !ok {
			continue
		}
		rects = append(rects, r.Inflate(spec.Inflate))
	}
	return rects
}
