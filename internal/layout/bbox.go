package layout

// Rect is a scaled overlay rectangle in rendered-page coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MapBBox scales a [x1,y1,x2,y2] source-pixel bbox to the rendered page
// width. Height uses the same horizontal scale factor, consistent with
// uniform zoom. A zero or missing source width means no scaling.
func MapBBox(bbox []float64, sourceWidth, renderedWidth float64) (Rect, bool) {
	if len(bbox) < 4 {
		return Rect{}, false
	}
	scale := 1.0
	if sourceWidth > 0 {
		scale = renderedWidth / sourceWidth
	}
	x1, y1, x2, y2 := bbox[0], bbox[1], bbox[2], bbox[3]
	return Rect{
		Left:   x1 * scale,
		Top:    y1 * scale,
		Width:  (x2 - x1) * scale,
		Height: (y2 - y1) * scale,
	}, true
}

// LabelColor groups block labels into the overlay color taxonomy.
func LabelColor(label string) string {
	switch {
	case imageLabels[label]:
		return "blue"
	case label == "table":
		return "green"
	case label == "header" || label == "footer":
		return "gray"
	default:
		return "orange"
	}
}
