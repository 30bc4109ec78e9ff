package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

// SplitMessage cuts text into chunks of at most limit characters, preferring
// paragraph breaks, then line breaks, then spaces. Grapheme clusters are never
// split.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}

	var chunks []string
	for utf8.RuneCountInString(text) > limit {
		cut := graphemeBoundary(text, limit)
		split := cut
		window := text[:cut]
		for _, sep := range []string{"\n\n", "\n", " "} {
			if idx := strings.LastIndex(window, sep); idx > 0 {
				split = idx
				break
			}
		}

		if chunk := strings.TrimRight(text[:split], " \n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		text = strings.TrimLeft(text[split:], " \n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}

	return chunks
}

// graphemeBoundary returns the largest byte offset that ends a grapheme cluster
// and keeps at most limit runes before it. It always advances by at least one
// cluster.
func graphemeBoundary(text string, limit int) int {
	offset, runes, state := 0, 0, -1
	rest := text
	for rest != "" {
		cluster, next, _, newState := uniseg.FirstGraphemeClusterInString(rest, state)
		n := utf8.RuneCountInString(cluster)
		if runes+n > limit {
			if offset == 0 {
				return len(cluster)
			}
			break
		}
		runes += n
		offset += len(cluster)
		rest = next
		state = newState
	}
	return offset
}
