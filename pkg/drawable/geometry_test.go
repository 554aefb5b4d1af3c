package drawable

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type visibleRectFixture struct {
	Description string `json:"description"`
	Cases       []struct {
		Name   string `json:"name"`
		Bounds Rect   `json:"bounds"`
		Level  int    `json:"level"`
		Span   int    `json:"span"`
		Expect Rect   `json:"expect"`
	} `json:"cases"`
}

func TestVisibleRectFromFixtures(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "visible_rect.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var fx visibleRectFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			if got := ProgressSpan(tc.Bounds, tc.Level); got != tc.Span {
				t.Fatalf("span: want %d, got %d", tc.Span, got)
			}
			if got := VisibleRect(tc.Bounds, tc.Level); got != tc.Expect {
				t.Fatalf("visible rect: want %+v, got %+v", tc.Expect, got)
			}
		})
	}
}

func TestVisibleRectEndpoints(t *testing.T) {
	for width := 0; width <= 400; width += 37 {
		for height := 0; height <= width; height += 13 {
			bounds := RectFromLTWH(3, 7, width, height)
			if got := VisibleRect(bounds, 0).Width(); got != height {
				t.Fatalf("%dx%d level 0: want width %d, got %d", width, height, height, got)
			}
			if got := VisibleRect(bounds, MaxLevel).Width(); got != width {
				t.Fatalf("%dx%d full level: want width %d, got %d", width, height, width, got)
			}
		}
	}
}

func TestVisibleRectMonotonicInLevel(t *testing.T) {
	bounds := RectFromLTWH(0, 0, 731, 48)
	prev := VisibleRect(bounds, 0).Width()
	for level := 1; level <= MaxLevel; level++ {
		w := VisibleRect(bounds, level).Width()
		if w < prev {
			t.Fatalf("width decreased at level %d: %d < %d", level, w, prev)
		}
		prev = w
	}
}

// Bounds taller than wide shrink the visible rect as the level rises. The
// behaviour is kept unclamped pending product confirmation.
func TestVisibleRectTallBoundsShrink(t *testing.T) {
	bounds := RectFromLTWH(0, 0, 20, 60)
	if got := VisibleRect(bounds, MaxLevel).Width(); got != 20 {
		t.Fatalf("expected full level to match bounds width, got %d", got)
	}
	if VisibleRect(bounds, MaxLevel).Width() >= VisibleRect(bounds, 0).Width() {
		t.Fatalf("expected tall bounds to narrow as level rises")
	}
}

func TestRectHelpers(t *testing.T) {
	r := RectFromLTWH(10, 20, 30, 40)
	if r.Right != 40 || r.Bottom != 60 || r.Width() != 30 || r.Height() != 40 {
		t.Fatalf("unexpected rect %+v", r)
	}
	if got := r.Inset(1, 2, 3, 4); got != (Rect{Left: 11, Top: 22, Right: 37, Bottom: 56}) {
		t.Fatalf("unexpected inset %+v", got)
	}
}
