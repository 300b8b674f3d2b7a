package radial

import (
	"math"
	"testing"

	"github.com/matzehuels/kgraph/pkg/graph"
)

const eps = 1e-9

type fixedJitter float64

func (f fixedJitter) Float64() float64 { return float64(f) }

func defaultPlacer(j JitterSource) Placer {
	return Placer{
		BaseRadius:     DefaultBaseRadius,
		JitterFraction: DefaultJitterFraction,
		Jitter:         j,
		Policy:         DefaultPolicy(),
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestPlaceExactPositions(t *testing.T) {
	ns := nodes("A", "B", "C", "D")
	d := Distances("A", edges("A", "B", "A", "C", "C", "D"))

	got := defaultPlacer(NoJitter()).Place(ns, d, "A")

	third := 2 * math.Pi / 3
	want := map[string]graph.Position{
		"A": {X: 0, Y: 0},
		"B": {X: 400, Y: 0},
		"C": {X: 400 * math.Cos(third), Y: 400 * math.Sin(third)},
		"D": {X: 400 * math.Cos(2*third), Y: 400 * math.Sin(2*third)},
	}
	for _, n := range got {
		w := want[n.ID]
		if !near(n.Position.X, w.X) || !near(n.Position.Y, w.Y) {
			t.Errorf("%s at %+v, want %+v", n.ID, n.Position, w)
		}
	}
}

func TestPlaceOpacity(t *testing.T) {
	ns := nodes("A", "B", "C", "D")
	d := Distances("B", edges("A", "B", "A", "C", "C", "D"))

	got := defaultPlacer(NoJitter()).Place(ns, d, "B")

	want := map[string]float64{"A": 0.9, "B": 1.0, "C": 0.5, "D": 0.25}
	for _, n := range got {
		if n.Hidden {
			t.Errorf("%s hidden", n.ID)
		}
		if op, _ := n.Style.Opacity(); op != want[n.ID] {
			t.Errorf("%s opacity = %v, want %v", n.ID, op, want[n.ID])
		}
	}
}

func TestPlaceJitterBounds(t *testing.T) {
	ns := nodes("A", "B", "C", "D", "E")
	d := Distances("A", edges("A", "B", "A", "C", "A", "D", "A", "E"))

	tests := []struct {
		name     string
		jitter   JitterSource
		min, max float64
	}{
		{"lowest sample", fixedJitter(0), 375, 375},
		{"midpoint", NoJitter(), 400, 400},
		{"near top", fixedJitter(0.999), 424.9, 425},
		{"seeded", SeededJitter(3), 375, 425},
		{"system", SystemJitter(), 375, 425},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaultPlacer(tt.jitter).Place(ns, d, "A")
			for _, n := range got[1:] {
				r := math.Hypot(n.Position.X, n.Position.Y)
				if r < tt.min-eps || r > tt.max+eps {
					t.Errorf("%s radius = %v, want in [%v, %v]", n.ID, r, tt.min, tt.max)
				}
			}
		})
	}
}

func TestPlaceHiddenKeepsPosition(t *testing.T) {
	ns := nodes("A", "B", "Z")
	ns[2].Position = graph.Position{X: 12, Y: -7}
	ns[2].Style = graph.Style{"opacity": 0.9}
	d := Distances("A", edges("A", "B"))

	got := defaultPlacer(NoJitter()).Place(ns, d, "A")

	z := got[2]
	if !z.Hidden {
		t.Fatal("Z should be hidden")
	}
	if z.Position != (graph.Position{X: 12, Y: -7}) {
		t.Errorf("Z moved to %+v", z.Position)
	}
	if op, _ := z.Style.Opacity(); op != 0.9 {
		t.Errorf("Z opacity = %v, want unchanged 0.9", op)
	}
}

func TestPlaceSingleNeighbor(t *testing.T) {
	ns := nodes("A", "B")
	d := Distances("A", edges("A", "B"))

	got := defaultPlacer(NoJitter()).Place(ns, d, "A")

	if !near(got[1].Position.X, 400) || !near(got[1].Position.Y, 0) {
		t.Errorf("B at %+v, want (400, 0)", got[1].Position)
	}
}

func TestPlaceFocusOnly(t *testing.T) {
	ns := nodes("A")
	got := defaultPlacer(NoJitter()).Place(ns, DistanceMap{"A": 0}, "A")

	if got[0].Position != (graph.Position{}) || got[0].Hidden {
		t.Errorf("focus = %+v, want visible at origin", got[0])
	}
	for _, c := range []float64{got[0].Position.X, got[0].Position.Y} {
		if math.IsNaN(c) {
			t.Fatal("NaN coordinate")
		}
	}
}

func TestPlaceConcentric(t *testing.T) {
	ns := nodes("A", "B", "C", "D")
	d := Distances("A", edges("A", "B", "A", "C", "C", "D"))
	p := defaultPlacer(NoJitter())
	p.Concentric = true

	got := p.Place(ns, d, "A")

	want := map[string]graph.Position{
		"A": {X: 0, Y: 0},
		"B": {X: 400, Y: 0},
		"C": {X: -400, Y: 400 * math.Sin(math.Pi)},
		"D": {X: 800, Y: 0},
	}
	for _, n := range got {
		w := want[n.ID]
		if !near(n.Position.X, w.X) || !near(n.Position.Y, w.Y) {
			t.Errorf("%s at %+v, want %+v", n.ID, n.Position, w)
		}
	}
}

func TestPlaceDuplicateIDs(t *testing.T) {
	ns := nodes("A", "B", "B", "C")
	d := Distances("A", edges("A", "B", "A", "C"))

	got := defaultPlacer(NoJitter()).Place(ns, d, "A")

	if got[1].Position != got[2].Position {
		t.Errorf("duplicate B placed at %+v and %+v", got[1].Position, got[2].Position)
	}
	if !near(got[3].Position.X, -400) {
		t.Errorf("C at %+v, want x=-400", got[3].Position)
	}
}
