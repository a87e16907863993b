package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "5512345678", "5512345678"},
		{"formatted national", "(55) 1234-5678", "5512345678"},
		{"with country code", "+52 55 1234 5678", "5512345678"},
		{"mobile prefix keeps last 10", "+52 1 55 1234 5678", "5512345678"},
		{"letters stripped", "tel: 55-1234-5678", "5512345678"},
		{"short number kept as is", "12345", "12345"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsCanonical(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"5512345678", true},
		{"551234567", false},
		{"55123456789", false},
		{"55123456a8", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsCanonical(tt.value); got != tt.want {
			t.Errorf("IsCanonical(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
