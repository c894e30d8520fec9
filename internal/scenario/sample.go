package scenario

import "fmt"

func msPtr(n int64) *int64 { return &n }

func fadeIn(target string, duration int64, rise float64) NodeSpec {
	return NodeSpec{
		Animate: target,
		Body: []NodeSpec{{FromTo: &FromToSpec{
			Duration: duration,
			Ease:     "easeOutCubic",
			Props: map[string]any{
				"opacity": map[string]any{"from": 0, "to": 1},
				"transform": []any{
					map[string]any{"fn": "y", "from": rise, "to": 0, "unit": "px"},
				},
			},
		}}},
	}
}

// Sample returns a small deck that exercises every element kind except
// image and pdf, which need files next to the deck.
func Sample() *Deck {
	bullets := []string{"Timelines are data", "Seek is replay", "Pauses are stops"}

	d := &Deck{
		Version:    CurrentVersion,
		Title:      "Phenomenon",
		Width:      1280,
		Height:     720,
		Background: "#101018",
		Elements: []Element{
			{ID: "title", Kind: KindText, X: 80, Y: 60, W: 1120, H: 80, Color: "#ffffff", Text: "Phenomenon"},
			{ID: "accent", Kind: KindBox, X: 80, Y: 150, W: 0, H: 6, Fill: "#ff0066"},
			{ID: "qr", Kind: KindQR, X: 1000, Y: 440, W: 200, H: 200, Content: "https://github.com/ivlev/phenomenon"},
		},
	}

	var cascade []NodeSpec
	for i, text := range bullets {
		id := fmt.Sprintf("bullet%d", i+1)
		d.Elements = append(d.Elements, Element{
			ID: id, Kind: KindText, X: 120, Y: 240 + i*70, W: 800, H: 50, Color: "#c8c8d0", Text: text,
		})
		cascade = append(cascade, fadeIn(id, 400, 24))
	}

	d.Steps = []Step{
		{ID: "1", Title: "Title", Timeline: NodeSpec{Parallel: []NodeSpec{
			fadeIn("title", 600, -20),
			{Animate: "accent", Body: []NodeSpec{
				{Delay: msPtr(200)},
				{FromTo: &FromToSpec{
					Duration: 500,
					Ease:     "easeInOutCubic",
					Props: map[string]any{
						"width": map[string]any{"from": 0, "to": 1120, "unit": "px"},
						"fill":  map[string]any{"from": "#ff0066", "to": "#00ccff"},
					},
				}},
			}},
		}}},
		{ID: "2", Title: "Bullets", Timeline: NodeSpec{Cascade: &CascadeSpec{Offset: 150, Children: cascade}}},
		{ID: "2.1", Title: "Link", WithPrevious: true, Timeline: NodeSpec{Animate: "qr", Body: []NodeSpec{
			{Set: map[string]SwapSpec{"visibility": {From: "hidden", To: "visible"}}},
			{FromTo: &FromToSpec{
				Duration: 800,
				Ease:     "easeOutElastic",
				Props: map[string]any{
					"transform": []any{
						map[string]any{"fn": "scale", "from": 0.2, "to": 1},
						map[string]any{"fn": "rotate", "from": -90, "to": 0, "unit": "deg"},
					},
				},
			}},
		}}},
	}
	return d
}
