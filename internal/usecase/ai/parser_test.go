package ai

import (
	"reflect"
	"testing"
)

func TestParseKeyPoints(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "bullet character",
			raw:  "• First point\n• **Second** point\n•   \n• Third",
			want: []string{"First point", "Second point", "Third"},
		},
		{
			name: "lines with lead-in",
			raw: "Here are the 5 most important key points from the YouTube transcript:\n" +
				"* Alpha\n- Beta\n\n*  **Gamma**",
			want: []string{"Alpha", "Beta", "Gamma"},
		},
		{
			name: "lead-in sharing the first bullet",
			raw:  "Here are the 5 most important key points from the YouTube transcript: • One • Two",
			want: []string{"One", "Two"},
		},
		{
			name: "fenced",
			raw:  "```markdown\n- one\n- two\n```",
			want: []string{"one", "two"},
		},
		{
			name: "empty",
			raw:  "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ParseKeyPoints(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKeyPoints() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeBullets(t *testing.T) {
	got := NormalizeBullets([]string{"  - a", "**", "•* b **bold**", ""})
	want := []string{"a", "b bold"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeBullets() = %q, want %q", got, want)
	}
}
