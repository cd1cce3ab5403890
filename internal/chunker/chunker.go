package chunker

import (
	"strings"
)

const (
	defaultMaxSize = 300
	defaultOverlap = 50
)

// Splitter cuts text into overlapping chunks, preferring to break at a
// paragraph, then a sentence end, then a word boundary inside the window
// before falling back to a raw character cut.
type Splitter struct {
	maxSize int
	overlap int
}

func New(maxSize, overlap int) *Splitter {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 2
	}
	return &Splitter{maxSize: maxSize, overlap: overlap}
}

// Split returns the chunks of text in original order. Text no longer than
// the window yields a single chunk; consecutive chunks share an overlap
// region whose exact size shifts with the chosen break point.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.maxSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + s.maxSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = s.breakPoint(text, start, end)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(text) {
			break
		}
		start = end - s.overlap
	}
	return chunks
}

// breakPoint picks the cut position inside text[start:limit]. Candidates
// below the window midpoint are rejected so chunks stay near maxSize, and
// candidates at or below start+overlap are rejected so the next window
// still overlaps the realized chunk by the configured amount.
func (s *Splitter) breakPoint(text string, start, limit int) int {
	window := text[start:limit]
	floor := len(window) / 2
	if floor <= s.overlap {
		floor = s.overlap + 1
	}

	if i := strings.LastIndex(window, "\n\n"); i >= floor {
		return start + i
	}
	for i := len(window) - 1; i >= floor; i-- {
		switch window[i] {
		case '.', '!', '?':
			if i+1 == len(window) || window[i+1] == ' ' || window[i+1] == '\n' {
				return start + i + 1
			}
		}
	}
	if i := strings.LastIndexAny(window, " \n"); i >= floor {
		return start + i
	}
	return limit
}
