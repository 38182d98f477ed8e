// internal/words/words.go
//
// Word source for dealing boards.
//
// Responsibilities:
//   - Load the board word list from a file (WORDS_FILE) or fall back to the
//     embedded default list in package assets.
//   - Normalize words (trimmed, lowercase, a–z only) and drop duplicates.
//   - Hand out N distinct random words per board (RandomWords).
//
// Randomness comes from crypto/rand so boards are not predictable from
// earlier ones.

package words

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/codenames/assets"
)

// ErrNotEnoughWords is returned when a list cannot supply the requested count.
var ErrNotEnoughWords = errors.New("words: not enough words")

// Source supplies distinct random words. The dealer's only collaborator.
type Source interface {
	RandomWords(ctx context.Context, count int) ([]string, error)
}

// List is an immutable, deduplicated word list.
type List struct {
	words []string
	set   map[string]struct{}
}

// New builds a List from raw words, keeping only valid, unique entries.
func New(raw []string) *List {
	l := &List{set: make(map[string]struct{}, len(raw))}
	for _, w := range raw {
		w = strings.TrimSpace(strings.ToLower(w))
		if len(w) < 2 || !isAlpha(w) {
			continue
		}
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.words = append(l.words, w)
	}
	return l
}

// Load reads the list at path, or the embedded default list when path is empty.
func Load(path string) (*List, error) {
	var raw []string
	if path == "" {
		var err error
		if raw, err = assets.BoardWords(); err != nil {
			return nil, fmt.Errorf("read embedded words: %w", err)
		}
	} else {
		var err error
		if raw, err = readWordFile(path); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	l := New(raw)
	if l.Len() == 0 {
		return nil, errors.New("words: list is empty")
	}
	return l, nil
}

// readWordFile loads one word per line, skipping blanks and # comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Len is the number of usable words.
func (l *List) Len() int { return len(l.words) }

// RandomWords returns count distinct words chosen uniformly at random.
// It runs a partial Fisher–Yates over a copy of the list.
func (l *List) RandomWords(ctx context.Context, count int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count < 0 || count > len(l.words) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrNotEnoughWords, count, len(l.words))
	}
	pool := append([]string(nil), l.words...)
	for i := 0; i < count; i++ {
		nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool)-i)))
		if err != nil {
			return nil, fmt.Errorf("words: random: %w", err)
		}
		j := i + int(nBig.Int64())
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count], nil
}
