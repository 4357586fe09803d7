package modelworker

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// encoding is one tokenized comment, padded to maxSeqLen
type encoding struct {
	inputIDs      []int64
	attentionMask []int64
	tokenTypeIDs  []int64
}

// tokenizer is an uncased BERT WordPiece tokenizer
type tokenizer struct {
	vocab *vocab
}

func newTokenizer(v *vocab) *tokenizer {
	return &tokenizer{vocab: v}
}

// encode wraps the comment in [CLS] ... [SEP] and pads it
func (t *tokenizer) encode(text string) encoding {
	pieces := t.pieces(text)
	if len(pieces) > maxSeqLen-2 {
		pieces = pieces[:maxSeqLen-2]
	}

	enc := encoding{
		inputIDs:      make([]int64, maxSeqLen),
		attentionMask: make([]int64, maxSeqLen),
		tokenTypeIDs:  make([]int64, maxSeqLen),
	}
	for i := range enc.inputIDs {
		enc.inputIDs[i] = t.vocab.padID
	}

	enc.inputIDs[0] = t.vocab.clsID
	for i, p := range pieces {
		enc.inputIDs[i+1] = t.vocab.id(p)
	}
	enc.inputIDs[len(pieces)+1] = t.vocab.sepID
	for i := 0; i < len(pieces)+2; i++ {
		enc.attentionMask[i] = 1
	}
	return enc
}

// pieces splits text into words and each word into WordPiece sub-tokens
func (t *tokenizer) pieces(text string) []string {
	var out []string
	for _, word := range splitWords(normalizeText(text)) {
		out = append(out, t.wordPieces(word)...)
	}
	return out
}

// wordPieces greedily takes the longest vocabulary prefix at each position
func (t *tokenizer) wordPieces(word string) []string {
	rs := []rune(word)
	if len(rs) > maxWordRunes {
		return []string{unknownToken}
	}

	var pieces []string
	for start := 0; start < len(rs); {
		end := len(rs)
		match := ""
		for ; end > start; end-- {
			candidate := string(rs[start:end])
			if start > 0 {
				candidate = continuationMark + candidate
			}
			if t.vocab.has(candidate) {
				match = candidate
				break
			}
		}
		if match == "" {
			return []string{unknownToken}
		}
		pieces = append(pieces, match)
		start = end
	}
	return pieces
}

// normalizeText folds case, drops control characters and strips accents
func normalizeText(text string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r == 0 || r == unicode.ReplacementChar:
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r):
		case isCJK(r):
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return cases.Lower(language.Und).String(b.String())
}

// splitWords splits on whitespace and isolates every punctuation rune
func splitWords(text string) []string {
	var words []string
	for _, field := range strings.Fields(text) {
		start := 0
		for i, r := range field {
			if !isPunct(r) {
				continue
			}
			if i > start {
				words = append(words, field[start:i])
			}
			words = append(words, string(r))
			start = i + len(string(r))
		}
		if start < len(field) {
			words = append(words, field[start:])
		}
	}
	return words
}

func isPunct(r rune) bool {
	if r < 128 {
		return (r >= '!' && r <= '/') || (r >= ':' && r <= '@') || (r >= '[' && r <= '`') || (r >= '{' && r <= '~')
	}
	return unicode.IsPunct(r)
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r)
}
