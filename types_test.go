package pdfprep

import (
	"testing"
	"time"
)

func TestPageRange(t *testing.T) {
	r := PageRange{Start: 46, End: 90}

	if got := r.Pages(); got != 45 {
		t.Errorf("Pages() = %d, want 45", got)
	}
	if got := r.String(); got != "46-90" {
		t.Errorf("String() = %q, want %q", got, "46-90")
	}

	single := PageRange{Start: 7, End: 7}
	if got := single.Pages(); got != 1 {
		t.Errorf("single page Pages() = %d, want 1", got)
	}
}

func TestPageRange_Validate(t *testing.T) {
	tests := []struct {
		name      string
		r         PageRange
		pageCount int
		wantErr   bool
	}{
		{"valid range", PageRange{1, 10}, 10, false},
		{"single page", PageRange{5, 5}, 10, false},
		{"start below one", PageRange{0, 5}, 10, true},
		{"inverted", PageRange{6, 5}, 10, true},
		{"end past document", PageRange{5, 11}, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate(tt.pageCount)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPartitionPlan_Split(t *testing.T) {
	one := &PartitionPlan{Segments: []Segment{{}}}
	if one.Split() {
		t.Error("one segment is not a split")
	}
	two := &PartitionPlan{Segments: []Segment{{}, {}}}
	if !two.Split() {
		t.Error("two segments is a split")
	}
}

func TestOptionPanics(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()
		fn()
	}

	assertPanics("WithMaxSize(0)", func() { WithMaxSize(0) })
	assertPanics("WithMaxSize(-1)", func() { WithMaxSize(-1) })
	assertPanics("WithTimeout(0)", func() { WithTimeout(0) })
	assertPanics("WithTimeout(-1s)", func() { WithTimeout(-time.Second) })
}
