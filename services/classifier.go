package services

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/cloudflare/ahocorasick"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed wordlist.txt
var defaultWordList string

// Classifier reports whether text contains profanity.
type Classifier interface {
	ContainsProfanity(text string) bool
}

var leet = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'@': 'a',
	'$': 's',
}

// censorMark stands in for any vowel, as in "f*ck".
const censorMark = '*'

// maxMaskedVowels bounds how many vowels of one word get masked variants.
const maxMaskedVowels = 4

// WordListClassifier matches whole words from a word list. Input is
// lowercased, common character substitutions are undone, and punctuation
// separates words, so "Sh1t!" and "f*ck" are caught but "Scunthorpe" is not.
type WordListClassifier struct {
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
	logger  zerolog.Logger
}

// NewWordListClassifier builds a classifier from the embedded word list plus extra.
func NewWordListClassifier(extra ...string) *WordListClassifier {
	words := parseWordList(defaultWordList)
	words = append(words, extra...)

	patterns := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		word := strings.TrimSpace(normalize(w))
		if word == "" {
			continue
		}
		for _, variant := range maskedVariants(word) {
			p := " " + variant + " "
			if seen[p] {
				continue
			}
			seen[p] = true
			patterns = append(patterns, p)
		}
	}

	return &WordListClassifier{
		matcher: ahocorasick.NewStringMatcher(patterns),
		logger:  log.With().Str("service", "WordListClassifier").Logger(),
	}
}

// LoadWordList reads extra words from a file, one per line; blank lines and
// lines starting with # are skipped.
func LoadWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, parseWordList(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}

// ContainsProfanity fails open: an internal error is logged and reported as clean.
func (c *WordListClassifier) ContainsProfanity(text string) (found bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msg("Profanity check failed")
			found = false
		}
	}()

	normalized := normalize(text)
	if strings.TrimSpace(normalized) == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.matcher.Match([]byte(normalized))) > 0
}

func parseWordList(raw string) []string {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}

// maskedVariants returns word plus every spelling with some of its vowels
// replaced by censorMark. Only the first maxMaskedVowels vowels are masked.
func maskedVariants(word string) []string {
	runes := []rune(word)
	var vowels []int
	for i, r := range runes {
		if strings.ContainsRune("aeiou", r) && len(vowels) < maxMaskedVowels {
			vowels = append(vowels, i)
		}
	}

	variants := make([]string, 0, 1<<len(vowels))
	for mask := 0; mask < 1<<len(vowels); mask++ {
		masked := append([]rune(nil), runes...)
		for bit, pos := range vowels {
			if mask&(1<<bit) != 0 {
				masked[pos] = censorMark
			}
		}
		variants = append(variants, string(masked))
	}
	return variants
}

// normalize maps text to " word word ... " so patterns only match on word boundaries.
func normalize(text string) string {
	var b strings.Builder
	b.WriteByte(' ')
	pendingSpace := false
	for _, r := range strings.ToLower(text) {
		if sub, ok := leet[r]; ok {
			r = sub
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == censorMark {
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
			continue
		}
		if b.Len() > 1 {
			pendingSpace = true
		}
	}
	b.WriteByte(' ')
	return b.String()
}
