package yamlutil

import (
	"errors"
	"strings"
	"testing"
)

type testDoc struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestUnmarshal(t *testing.T) {
	var doc testDoc
	err := Unmarshal([]byte("name: report\ncount: 3\n"), &doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Name != "report" || doc.Count != 3 {
		t.Errorf("got %+v", doc)
	}
}

func TestUnmarshal_InputValidation(t *testing.T) {
	var doc testDoc

	if err := Unmarshal(nil, &doc); !errors.Is(err, ErrNilData) {
		t.Errorf("nil data: expected ErrNilData, got %v", err)
	}
	if err := Unmarshal([]byte("name: x"), nil); !errors.Is(err, ErrNilDestination) {
		t.Errorf("nil dest: expected ErrNilDestination, got %v", err)
	}

	big := []byte("name: " + strings.Repeat("a", MaxInputSize))
	if err := Unmarshal(big, &doc); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("oversized input: expected ErrInputTooLarge, got %v", err)
	}
}

func TestUnmarshalStrict_RejectsUnknownFields(t *testing.T) {
	var doc testDoc

	lenient := []byte("name: x\nunknown: y\n")
	if err := Unmarshal(lenient, &doc); err != nil {
		t.Errorf("lenient Unmarshal rejected unknown field: %v", err)
	}
	if err := UnmarshalStrict(lenient, &doc); err == nil {
		t.Error("UnmarshalStrict accepted unknown field")
	}
}

func TestUnmarshal_MalformedYAML(t *testing.T) {
	var doc testDoc
	if err := Unmarshal([]byte("name: [unclosed"), &doc); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
