package pdfprep

import "testing"

func TestEstimateWindow(t *testing.T) {
	tests := []struct {
		name      string
		totalSize int64
		pageCount int
		maxSize   int64
		margin    float64
		want      int
	}{
		{
			name:      "uniform 100 page document",
			totalSize: 50 << 20,
			pageCount: 100,
			maxSize:   25 << 20,
			margin:    0.90,
			want:      45,
		},
		{
			name:      "huge pages clamp to one",
			totalSize: 90 << 20,
			pageCount: 3,
			maxSize:   25 << 20,
			margin:    0.90,
			want:      1,
		},
		{
			name:      "margin of one uses the full ceiling",
			totalSize: 100 << 20,
			pageCount: 100,
			maxSize:   10 << 20,
			margin:    1.0,
			want:      10,
		},
		{
			name:      "fractional result floors",
			totalSize: 30 << 20,
			pageCount: 10, // 3 MiB/page
			maxSize:   10 << 20,
			margin:    0.90, // 9 MiB budget -> exactly 3
			want:      3,
		},
		{
			name:      "tiny document yields large window",
			totalSize: 1 << 10,
			pageCount: 10,
			maxSize:   25 << 20,
			margin:    0.90,
			want:      230400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimateWindow(tt.totalSize, tt.pageCount, tt.maxSize, tt.margin)
			if got != tt.want {
				t.Errorf("estimateWindow() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestShrinkWindow(t *testing.T) {
	tests := []struct {
		window int
		want   int
	}{
		{45, 36},
		{36, 29},
		{10, 8},
		{5, 4},
		{4, 3}, // 20% of 4 floors to 0, minimum step is one page
		{3, 2},
		{2, 1},
		{1, 1}, // floor: never below one
	}

	for _, tt := range tests {
		if got := shrinkWindow(tt.window); got != tt.want {
			t.Errorf("shrinkWindow(%d) = %d, want %d", tt.window, got, tt.want)
		}
	}
}

func TestShrinkWindow_AlwaysTerminates(t *testing.T) {
	// From any realistic starting window the shrink chain must reach one
	// page in fewer steps than the attempt ceiling.
	for start := 1; start <= 100; start++ {
		w := start
		steps := 0
		for w > 1 {
			next := shrinkWindow(w)
			if next >= w {
				t.Fatalf("shrinkWindow(%d) = %d did not shrink", w, next)
			}
			w = next
			steps++
			if steps > DefaultMaxAttempts {
				t.Fatalf("window %d took more than %d steps to reach one page", start, DefaultMaxAttempts)
			}
		}
	}
}
