package answerkey

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractLegacyChoiceOptions(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   []string
		wantOK bool
	}{
		{"all marked", "=A\n=B\n=C", []string{"A", "B", "C"}, true},
		{"first marker lost", "A\n=B\n=C", []string{"A", "B", "C"}, true},
		{"crlf and spacing", "A\r\n=  B \r\n=C", []string{"A", "B", "C"}, true},
		{"blank lines ignored", "=A\n\n=B\n", []string{"A", "B"}, true},
		{"two options", "yes\n=no", []string{"yes", "no"}, true},
		{"empty", "", nil, false},
		{"single line", "=A", nil, false},
		{"plain lines", "A\nB", nil, false},
		{"only first marked", "=A\nB", nil, false},
		{"mixed markers", "A\n=B\nC", nil, false},
		{"marked but empty option", "=A\n=", nil, false},
		{"first kept, rest empty", "A\n=", nil, false},
		{"pipe alternatives", "x|y", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractLegacyChoiceOptions(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractLegacyChoiceOptions(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractLegacyChoiceOptions(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestSplitAlternatives(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"|", []string{}},
		{"x", []string{"x"}},
		{" e^x | exp(x) ", []string{"e^x", "exp(x)"}},
		{"a||a", []string{"a", "a"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitAlternatives(tt.input)); diff != "" {
			t.Errorf("SplitAlternatives(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines(" a \r\n\n b\n")
	want := []string{"a", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitLines mismatch (-want +got):\n%s", diff)
	}
}
