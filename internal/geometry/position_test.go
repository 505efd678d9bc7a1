package geometry

import (
	"reflect"
	"testing"
)

func TestCompute(t *testing.T) {
	container := Rect{Top: 100, Left: 0, Width: 1200, Height: 600}

	tests := []struct {
		name      string
		card      Rect
		container Rect
		mode      Mode
		remPx     float64
		expected  Position
	}{
		{
			name:      "hover popup fits, no clamping",
			card:      Rect{Top: 300, Left: 400, Width: 200, Height: 150},
			container: container,
			mode:      ModeHover,
			remPx:     16,
			expected:  Position{Top: 300, Left: 385, Width: 200, Height: 150, Scale: 1.1},
		},
		{
			name:      "hover popup above container clamps down",
			card:      Rect{Top: 60, Left: 400, Width: 200, Height: 150},
			container: container,
			mode:      ModeHover,
			remPx:     16,
			expected:  Position{Top: 110, Left: 385, Width: 200, Height: 150, Scale: 1.1},
		},
		{
			name:      "hover popup below container clamps up",
			card:      Rect{Top: 640, Left: 400, Width: 200, Height: 150},
			container: container,
			mode:      ModeHover,
			remPx:     16,
			expected:  Position{Top: 530, Left: 385, Width: 200, Height: 150, Scale: 1.1},
		},
		{
			name:      "overlay pads the card and drops the scale",
			card:      Rect{Top: 300, Left: 400, Width: 200, Height: 150},
			container: container,
			mode:      ModeOverlay,
			remPx:     16,
			expected:  Position{Top: 300, Left: 385, Width: 235, Height: 185, Scale: 1},
		},
		{
			name:      "enlarged view sizes by rem",
			card:      Rect{Top: 120, Left: 400, Width: 200, Height: 150},
			container: container,
			mode:      ModeEnlarged,
			remPx:     16,
			expected:  Position{Top: 120, Left: 385, Width: 576, Height: 448, Scale: 1},
		},
		{
			name:      "enlarged view taller than container pins to bottom margin",
			card:      Rect{Top: 500, Left: 400, Width: 200, Height: 150},
			container: container,
			mode:      ModeEnlarged,
			remPx:     16,
			expected:  Position{Top: 232, Left: 385, Width: 576, Height: 448, Scale: 1},
		},
		{
			name:      "smaller root font shrinks the enlarged view",
			card:      Rect{Top: 120, Left: 400, Width: 200, Height: 150},
			container: container,
			mode:      ModeEnlarged,
			remPx:     10,
			expected:  Position{Top: 120, Left: 385, Width: 360, Height: 280, Scale: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(tt.card, tt.container, tt.mode, tt.remPx)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %+v, got %+v", tt.expected, result)
			}
		})
	}
}
