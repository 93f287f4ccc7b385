// Package mapreduce counts word frequencies with an in-process map, shuffle,
// and reduce pipeline running on a bounded worker pool.
package mapreduce

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	// ErrInvalidArgument is returned for a negative top-N or a malformed allowlist.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrWorkerFailure is matched by errors raised inside map or reduce tasks.
	ErrWorkerFailure = errors.New("worker failure")
)

// Pair is a single mapped occurrence of a word.
type Pair struct {
	Key   string
	Value int
}

// Group holds every value mapped for one key, in shuffle order.
type Group struct {
	Key    string
	Values []int
}

// WordCount is the reduced count for one word.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Frequencies is a word-count mapping ordered by the first appearance of
// each word in the token stream.
type Frequencies []WordCount

// Map converts the frequencies into a plain map.
func (f Frequencies) Map() map[string]int {
	m := make(map[string]int, len(f))
	for _, wc := range f {
		m[wc.Word] = wc.Count
	}
	return m
}

// Total returns the sum of all counts.
func (f Frequencies) Total() int {
	total := 0
	for _, wc := range f {
		total += wc.Count
	}
	return total
}

// Labels splits the frequencies into parallel word and count slices.
func (f Frequencies) Labels() ([]string, []int) {
	words := make([]string, len(f))
	counts := make([]int, len(f))
	for i, wc := range f {
		words[i] = wc.Word
		counts[i] = wc.Count
	}
	return words, counts
}

// MapToken emits one occurrence of token.
func MapToken(token string) Pair {
	return Pair{Key: token, Value: 1}
}

// Shuffle groups pairs by key. Groups come out in the order their key first
// appears in pairs and values keep their input order.
func Shuffle(pairs []Pair) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, p := range pairs {
		i, ok := index[p.Key]
		if !ok {
			i = len(groups)
			index[p.Key] = i
			groups = append(groups, Group{Key: p.Key})
		}
		groups[i].Values = append(groups[i].Values, p.Value)
	}

	return groups
}

// ReduceGroup sums the values of a group.
func ReduceGroup(g Group) WordCount {
	sum := 0
	for _, v := range g.Values {
		sum += v
	}
	return WordCount{Word: g.Key, Count: sum}
}

// Engine runs the word-count pipeline.
type Engine struct {
	executor *Executor
	exclude  func(string) bool
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithExclude drops tokens for which exclude returns true before the map phase.
func WithExclude(exclude func(string) bool) Option {
	return func(e *Engine) {
		e.exclude = exclude
	}
}

// NewEngine creates an Engine whose map and reduce phases share one pool of
// at most workers goroutines.
func NewEngine(workers int, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Engine{
		executor: NewExecutor(workers, logger),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the size of the engine's worker pool.
func (e *Engine) Workers() int {
	return e.executor.Workers()
}

// Tokens returns the tokens the engine would count for text.
func (e *Engine) Tokens(text string, allowlist Allowlist) []string {
	tokens := Tokenize(text, allowlist)
	if e.exclude == nil {
		return tokens
	}

	kept := tokens[:0]
	for _, t := range tokens {
		if !e.exclude(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

// MapReduce counts word occurrences in text. When searchWords is non-empty
// only those exact words are counted.
func (e *Engine) MapReduce(ctx context.Context, text string, searchWords []string) (Frequencies, error) {
	allowlist, err := NewAllowlist(searchWords)
	if err != nil {
		return nil, err
	}

	tokens := e.Tokens(text, allowlist)
	e.logger.Debug("Tokenized text", "tokens", len(tokens), "search_words", len(allowlist))

	pairs, err := RunAll(ctx, e.executor, tokens, func(t string) (Pair, error) {
		return MapToken(t), nil
	})
	if err != nil {
		return nil, fmt.Errorf("map phase failed: %w", err)
	}
	e.logger.Debug("Map phase complete", "pairs", len(pairs), "workers", e.executor.Workers())

	groups := Shuffle(pairs)
	e.logger.Debug("Shuffle phase complete", "groups", len(groups))

	reduced, err := RunAll(ctx, e.executor, groups, func(g Group) (WordCount, error) {
		return ReduceGroup(g), nil
	})
	if err != nil {
		return nil, fmt.Errorf("reduce phase failed: %w", err)
	}
	e.logger.Debug("Reduce phase complete", "words", len(reduced))

	return Frequencies(reduced), nil
}
