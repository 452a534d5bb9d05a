// Package textsplit cuts transcripts into overlapping fixed-size windows.
package textsplit

import "fmt"

// Splitter produces windows of Size runes, each starting Size-Overlap runes
// after the previous one. Concatenating the first window with every later
// window minus its leading Overlap runes reproduces the input.
type Splitter struct {
	Size    int
	Overlap int
}

// New returns a Splitter after checking 0 <= overlap < size
func New(size, overlap int) (Splitter, error) {
	if size <= 0 {
		return Splitter{}, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return Splitter{}, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return Splitter{Size: size, Overlap: overlap}, nil
}

// Split returns the ordered windows of text. Empty text yields no windows.
func (s Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.Size - s.Overlap
	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; ; start += step {
		end := start + s.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
