package render

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// maxTextLines keeps messages well under the Telegram message limit.
	maxTextLines = 30
	// maxTextRunes is the Telegram message limit.
	maxTextRunes = 4096
	maxBarWidth  = 20
)

// Text renders a node as plain text for chat messages.
func Text(node *Node) string {
	var b strings.Builder
	b.WriteString(node.Title)
	b.WriteString("\n")

	if node.Notice != "" {
		b.WriteString(node.Notice)
		return b.String()
	}

	var lines []string
	switch node.Kind {
	case KindBar:
		top := 0
		for _, bar := range node.Bars {
			top = max(top, bar.Count)
		}
		for _, bar := range node.Bars {
			lines = append(lines, fmt.Sprintf("%s: %s %d", labelOrDash(bar.Label), strings.Repeat("█", barWidth(bar.Count, top)), bar.Count))
		}
	case KindPie:
		for _, s := range node.Slices {
			lines = append(lines, s.Label)
		}
	case KindLine:
		for _, p := range node.Points {
			lines = append(lines, fmt.Sprintf("%s (%.0f%%)", p.Price, p.Height))
		}
	case KindTable:
		for _, r := range node.Rows {
			lines = append(lines, fmt.Sprintf("#%d %s, %d %s, %s, %s", r.ID, r.Price, r.Rooms, roomsSuffix, labelOrDash(r.District), r.Address))
		}
	case KindMap:
		for _, m := range node.Markers {
			line := fmt.Sprintf("%s, %s, %s, %s", m.Price, m.Rooms, labelOrDash(m.District), m.Address)
			if m.Located {
				line += fmt.Sprintf(" (%.4f, %.4f)", m.Lat, m.Lon)
			}
			lines = append(lines, line)
		}
	}

	if len(lines) > maxTextLines {
		rest := len(lines) - maxTextLines
		lines = append(lines[:maxTextLines], fmt.Sprintf("… и ещё %d", rest))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return truncateRunes(b.String(), maxTextRunes)
}

// barWidth scales count against the largest bar; non-empty bars get at
// least one block.
func barWidth(count, top int) int {
	if count <= 0 || top <= 0 {
		return 0
	}
	return max(1, count*maxBarWidth/top)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

func labelOrDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
