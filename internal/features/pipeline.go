// Package features turns diffs into feature descriptions and folds many
// descriptions into one summary or document.
package features

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ishaan812/gitscribe/internal/constants"
	"github.com/ishaan812/gitscribe/internal/diff"
	"github.com/ishaan812/gitscribe/internal/history"
	"github.com/ishaan812/gitscribe/internal/llm"
	"github.com/ishaan812/gitscribe/internal/prompts"
)

const (
	// ChunkSize bounds the diff text sent in one analysis request.
	ChunkSize = 2000
	// FoldSize bounds the feature lines merged in one fold step.
	FoldSize = 4000
)

// NothingToSummarize is returned by Summarize when every feature is blank.
const NothingToSummarize = "Nothing to summarize."

// ErrNoFeatures is returned by GenerateDoc when there is nothing to document.
var ErrNoFeatures = errors.New("no features to document")

type Pipeline struct {
	client    llm.Client
	language  string
	maxTokens int
	workers   int
	cache     *lru.Cache[[sha256.Size]byte, []string]
	onFold    func(step, total int)
}

type Option func(*Pipeline)

func WithLanguage(language string) Option {
	return func(p *Pipeline) { p.language = language }
}

func WithMaxTokens(n int) Option {
	return func(p *Pipeline) { p.maxTokens = n }
}

// WithWorkers sets how many diffs AnalyzeRecords analyzes at once.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithFoldProgress reports each fold step before it is sent.
func WithFoldProgress(fn func(step, total int)) Option {
	return func(p *Pipeline) { p.onFold = fn }
}

// New creates a pipeline over client. cacheSize bounds how many analyzed
// diffs are remembered; identical diff text is never sent twice.
func New(client llm.Client, cacheSize int, opts ...Option) (*Pipeline, error) {
	if cacheSize <= 0 {
		cacheSize = constants.DefaultCacheSize
	}
	cache, err := lru.New[[sha256.Size]byte, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}

	p := &Pipeline{
		client:    client,
		language:  constants.DefaultLanguage,
		maxTokens: constants.DefaultMaxTokens,
		workers:   1,
		cache:     cache,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p, nil
}

func (p *Pipeline) Language() string {
	return p.language
}

// SetLanguage changes the output language for later calls.
func (p *Pipeline) SetLanguage(language string) {
	p.language = language
}

func (p *Pipeline) cacheKey(text string) [sha256.Size]byte {
	return sha256.Sum256([]byte(p.language + "\x00" + text))
}

// Analyze describes the features in one diff. The diff is split per file,
// packed into groups of at most ChunkSize characters and each group is
// described by one query, in order.
func (p *Pipeline) Analyze(ctx context.Context, diffText string) ([]string, error) {
	text := strings.TrimSpace(diffText)
	key := p.cacheKey(text)
	if cached, ok := p.cache.Get(key); ok {
		return slices.Clone(cached), nil
	}

	groups := diff.Group(diff.Segments(text), ChunkSize, diff.Segment.Size)
	descriptions := make([]string, 0, len(groups))
	for i, group := range groups {
		contents := make([]string, len(group))
		for j, seg := range group {
			contents[j] = seg.Content
		}

		prompt := prompts.BuildFeatureAnalysisPrompt(p.language, strings.Join(contents, "\n"))
		desc, err := p.client.Query(ctx, prompt, p.maxTokens)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze chunk %d/%d: %w", i+1, len(groups), err)
		}
		descriptions = append(descriptions, desc)
	}

	p.cache.Add(key, slices.Clone(descriptions))
	return descriptions, nil
}

// Result pairs a record with the features found in it.
type Result struct {
	Record   history.Record
	Features []string
}

// Text joins the record's feature descriptions.
func (r Result) Text() string {
	return strings.Join(r.Features, "\n")
}

type AnalyzeOptions struct {
	// OnError is called for a record whose analysis failed; it is skipped.
	OnError func(r history.Record, err error)
	// OnProgress is called as each record starts.
	OnProgress func(started, total int, r history.Record)
}

// AnalyzeRecords analyzes every record, up to the configured number at a
// time, and returns the results in record order. Failed records are
// reported and left out. Only cancellation fails the call.
func (p *Pipeline) AnalyzeRecords(ctx context.Context, records []history.Record, opts AnalyzeOptions) ([]Result, error) {
	results := make([]*Result, len(records))

	var mu sync.Mutex
	started := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, rec := range records {
		g.Go(func() error {
			if opts.OnProgress != nil {
				mu.Lock()
				opts.OnProgress(started, len(records), rec)
				started++
				mu.Unlock()
			}

			descs, err := p.Analyze(ctx, rec.DiffText)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if opts.OnError != nil {
					mu.Lock()
					opts.OnError(rec, err)
					mu.Unlock()
				}
				return nil
			}
			results[i] = &Result{Record: rec, Features: descs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(records))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// featureLines flattens descriptions into their non-blank lines.
func featureLines(features []string) []string {
	var lines []string
	for _, f := range features {
		for line := range strings.Lines(f) {
			if l := strings.TrimSpace(line); l != "" {
				lines = append(lines, strings.TrimRight(line, "\r\n"))
			}
		}
	}
	return lines
}

func lineGroups(lines []string) [][]string {
	return diff.Group(slices.Values(lines), FoldSize, func(s string) int { return len(s) })
}

// Summarize folds the features into one consolidated summary, one chat
// request per group of lines. Blank input returns NothingToSummarize without
// contacting the model.
func (p *Pipeline) Summarize(ctx context.Context, features []string) (string, error) {
	lines := featureLines(features)
	if len(lines) == 0 {
		return NothingToSummarize, nil
	}
	return p.fold(ctx, lineGroups(lines),
		prompts.BuildSummarySystemPrompt(p.language),
		prompts.BuildSummaryFirstPrompt,
		prompts.BuildSummaryNextPrompt,
	)
}

// GenerateDoc writes a new document from the features.
func (p *Pipeline) GenerateDoc(ctx context.Context, features []string) (string, error) {
	lines := featureLines(features)
	if len(lines) == 0 {
		return "", ErrNoFeatures
	}
	return p.fold(ctx, lineGroups(lines),
		prompts.BuildDocSystemPrompt(p.language),
		prompts.BuildDocCreateFirstPrompt,
		prompts.BuildDocNextPrompt,
	)
}

// UpdateDoc merges the features into an existing document, keeping its
// structure. With no features the document is returned unchanged.
func (p *Pipeline) UpdateDoc(ctx context.Context, existing string, features []string) (string, error) {
	lines := featureLines(features)
	if len(lines) == 0 {
		return existing, nil
	}
	return p.fold(ctx, lineGroups(lines),
		prompts.BuildDocSystemPrompt(p.language),
		func(part string) string { return prompts.BuildDocUpdateFirstPrompt(existing, part) },
		prompts.BuildDocNextPrompt,
	)
}

// fold sends one chat per chunk: the system message plus a single user turn
// carrying the running result. Each reply replaces the running result.
func (p *Pipeline) fold(ctx context.Context, chunks [][]string, system string, first func(part string) string, next func(acc, part string) string) (string, error) {
	var acc string
	for i, chunk := range chunks {
		if p.onFold != nil {
			p.onFold(i, len(chunks))
		}

		part := strings.Join(chunk, "\n")
		user := first(part)
		if i > 0 {
			user = next(acc, part)
		}

		reply, err := p.client.Chat(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		}, p.maxTokens)
		if err != nil {
			return "", fmt.Errorf("fold step %d/%d failed: %w", i+1, len(chunks), err)
		}
		acc = reply
	}
	return acc, nil
}
