package youtubeurl

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare id", input: "dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch url", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch url with extra params", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ"},
		{name: "short link", input: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "shorts", input: "https://youtube.com/shorts/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "embed", input: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "surrounding spaces", input: "  dQw4w9WgXcQ  ", want: "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.input)
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractVideoIDRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "https://example.com/"} {
		if _, err := ExtractVideoID(input); !errors.Is(err, ErrNoVideoID) {
			t.Errorf("ExtractVideoID(%q) error = %v, want ErrNoVideoID", input, err)
		}
	}
}
