package ai

import (
	"strings"
)

// keyPointsLeadIn is the sentence the model tends to open key-point lists with
const keyPointsLeadIn = "Here are the 5 most important key points from the YouTube transcript:"

// Parser turns raw model output into the shapes the API returns
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseKeyPoints splits a model reply into clean key points. Points are split
// on "•" when present, otherwise on lines. The model's lead-in sentence is
// dropped and bullet markers and bold markers are stripped.
func (p *Parser) ParseKeyPoints(raw string) []string {
	raw = extractFenced(raw)

	var parts []string
	if strings.Contains(raw, "•") {
		parts = strings.Split(raw, "•")
	} else {
		parts = strings.Split(raw, "\n")
	}

	points := make([]string, 0, len(parts))
	for _, pt := range parts {
		if pt = strings.TrimSpace(pt); pt != "" {
			points = append(points, pt)
		}
	}

	if len(points) > 0 && strings.HasPrefix(points[0], keyPointsLeadIn) {
		points[0] = strings.TrimSpace(strings.TrimPrefix(points[0], keyPointsLeadIn))
	}

	return NormalizeBullets(points)
}

// NormalizeBullets strips leading "*", "-", "•" and spaces plus any "**",
// dropping points that end up empty
func NormalizeBullets(points []string) []string {
	cleaned := make([]string, 0, len(points))
	for _, pt := range points {
		pt = strings.TrimLeft(strings.TrimSpace(pt), "*-• ")
		pt = strings.TrimSpace(strings.ReplaceAll(pt, "**", ""))
		if pt != "" {
			cleaned = append(cleaned, pt)
		}
	}
	return cleaned
}

// extractFenced removes a surrounding markdown code fence if the model added one
func extractFenced(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if nl := strings.Index(content, "\n"); nl != -1 && !strings.Contains(content[:nl], " ") {
			// drop a language tag such as ```markdown
			content = content[nl+1:]
		}
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
