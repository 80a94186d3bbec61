package identity

import "testing"

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Renée", "Renee"},
		{"Müller", "Muller"},
		{"José", "Jose"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := RemoveDiacritics(tt.input)
			if result != tt.expected {
				t.Errorf("RemoveDiacritics(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Asha Rao", "asha rao"},
		{"asha-rao", "asha rao"},
		{"  ASHA   RAO ", "asha rao"},
		{"José-María", "jose maria"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeName(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNamesEqual(t *testing.T) {
	if !NamesEqual("José-María", "jose maria") {
		t.Error("expected normalized names to be equal")
	}
	if NamesEqual("Asha Rao", "Ravi Kumar") {
		t.Error("expected different names to be unequal")
	}
}
