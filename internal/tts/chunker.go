package tts

import (
	"strings"
	"unicode/utf8"
)

// Split breaks text into chunks of at most maxChars bytes, cutting at
// sentence-ending periods. Text that already fits is returned unchanged as
// a single chunk. Otherwise newlines are folded into spaces, each sentence
// is trimmed and re-terminated with a period, and sentences are packed
// greedily. A sentence longer than maxChars is broken between words.
//
// Text with no period at all is truncated to maxChars. This is the only
// case where content is dropped.
func Split(text string, maxChars int) []Chunk {
	if maxChars <= 0 || len(text) <= maxChars {
		return []Chunk{{Index: 0, Content: text, MaxChars: maxChars}}
	}
	if !strings.Contains(text, ".") {
		return []Chunk{{Index: 0, Content: truncate(text, maxChars), MaxChars: maxChars}}
	}

	var (
		parts   []string
		current string
	)
	flush := func() {
		if c := strings.TrimSpace(current); c != "" {
			parts = append(parts, c)
		}
		current = ""
	}

	for _, sentence := range strings.Split(strings.ReplaceAll(text, "\n", " "), ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		for _, piece := range breakWords(sentence+".", maxChars) {
			switch {
			case current == "":
				current = piece
			case len(current)+1+len(piece) > maxChars:
				flush()
				current = piece
			default:
				current += " " + piece
			}
		}
	}
	flush()

	if len(parts) == 0 {
		parts = []string{truncate(text, maxChars)}
	}

	chunks := make([]Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = Chunk{Index: i, Content: p, MaxChars: maxChars}
	}
	return chunks
}

// breakWords returns s unchanged when it fits, otherwise packs its words
// into pieces of at most n bytes. Words longer than n are cut.
func breakWords(s string, n int) []string {
	if len(s) <= n {
		return []string{s}
	}

	var (
		pieces []string
		cur    string
	)
	for _, w := range strings.Fields(s) {
		for len(w) > n {
			head := truncate(w, n)
			if head == "" {
				// n is smaller than the first rune.
				_, size := utf8.DecodeRuneInString(w)
				head = w[:size]
			}
			if cur != "" {
				pieces = append(pieces, cur)
				cur = ""
			}
			pieces = append(pieces, head)
			w = w[len(head):]
		}
		if w == "" {
			continue
		}
		if cur == "" {
			cur = w
		} else if len(cur)+1+len(w) > n {
			pieces = append(pieces, cur)
			cur = w
		} else {
			cur += " " + w
		}
	}
	if cur != "" {
		pieces = append(pieces, cur)
	}
	return pieces
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
