package corpus

import (
	"strings"
	"unicode/utf8"
)

// SplitText splits document text into bounded, overlapping segments cut at
// natural boundaries. Segments never exceed maxSize characters; consecutive
// segments share up to overlap characters. The start index strictly increases
// every iteration, so the loop always terminates.
func SplitText(text string, maxSize int, overlap int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) <= maxSize {
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(trimmed) {
		end := start + maxSize
		atEnd := end >= len(trimmed)
		if atEnd {
			end = len(trimmed)
		} else if cut := findBoundary(trimmed, start, end); cut > start {
			end = cut
		} else {
			// hard cut: back off so a multibyte rune is never split
			for end > start && !utf8.RuneStart(trimmed[end]) {
				end--
			}
		}

		piece := strings.TrimSpace(trimmed[start:end])
		if piece != "" {
			chunks = append(chunks, piece)
		}

		if end >= len(trimmed) {
			break
		}

		// end-overlap can fall at or before start when a boundary cut was
		// short; start+1 guarantees forward progress
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		for next < len(trimmed) && !utf8.RuneStart(trimmed[next]) {
			next++
		}
		start = next
	}

	return chunks
}

// findBoundary searches backward from the candidate end for a paragraph
// break, else a sentence-ending period, else a line break. Returns the cut
// position, or -1 when no boundary exists after start.
func findBoundary(text string, start int, end int) int {
	window := text[start:end]

	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return start + i
	}
	if i := strings.LastIndex(window, ". "); i > 0 {
		return start + i + 1 //keep the period with its sentence
	}
	if i := strings.LastIndex(window, "\n"); i > 0 {
		return start + i
	}
	return -1
}
