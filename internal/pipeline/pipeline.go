// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs footnotes through classification, formatting, and
// colorizing. Footnotes are independent, so they may be processed across
// worker goroutines; results are collected back into input order either
// way. The pipeline itself prints nothing: progress goes through the
// Reporter the caller supplies.
package pipeline

import (
	"sync"

	"github.com/pdiddy/footnote-engine/internal/classify"
	"github.com/pdiddy/footnote-engine/internal/format"
	"github.com/pdiddy/footnote-engine/internal/rules"
	"github.com/pdiddy/footnote-engine/pkg/types"
)

// Reporter receives progress events from a pipeline run.
type Reporter interface {
	// Progress is called after each footnote completes.
	Progress(done, total int)

	// Message is called for informational notes about the run.
	Message(msg string)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Progress(done, total int) {}
func (NopReporter) Message(msg string)       {}

// Result is the processed form of one footnote.
type Result struct {
	// Index is the footnote's position in the input sequence.
	Index int

	// Match is the classification outcome.
	Match types.MatchResult

	// Runs is the formatted, confidence-colored output. May be empty
	// when the source footnote carried no text.
	Runs []types.Run
}

// Paragraphs shapes the result for the document writer: one paragraph per
// footnote. An empty run sequence still yields an (empty) paragraph so the
// output footnote count equals the input count.
func (r Result) Paragraphs() []types.Paragraph {
	return []types.Paragraph{types.Paragraph(r.Runs)}
}

// Process classifies, formats, and colorizes every footnote. The returned
// slice is in input order and has exactly one entry per input footnote.
// The rule set is shared read-only across workers; no locking is needed.
func Process(footnotes []types.Footnote, set *rules.Set, cfg types.ProcessConfig, rep Reporter) []Result {
	if rep == nil {
		rep = NopReporter{}
	}
	results := make([]Result, len(footnotes))
	total := len(footnotes)

	workers := cfg.Workers
	if workers > total {
		workers = total
	}
	if workers < 2 {
		for i, fn := range footnotes {
			results[i] = processOne(i, fn, set, cfg.Colors)
			rep.Progress(i+1, total)
		}
		return results
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	indexes := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = processOne(i, footnotes[i], set, cfg.Colors)
				mu.Lock()
				done++
				rep.Progress(done, total)
				mu.Unlock()
			}
		}()
	}
	for i := range footnotes {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results
}

func processOne(index int, fn types.Footnote, set *rules.Set, colors types.ColorConfig) Result {
	match := classify.Match(fn, set)
	runs := format.Format(match, set)
	runs = format.Colorize(runs, match.Confidence, colors)
	return Result{Index: index, Match: match, Runs: runs}
}

// Summary tallies a run by confidence.
type Summary struct {
	Total  int
	Green  int
	Yellow int
	Red    int
}

// Summarize counts results per confidence level.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Match.Confidence {
		case types.ConfidenceGreen:
			s.Green++
		case types.ConfidenceYellow:
			s.Yellow++
		case types.ConfidenceRed:
			s.Red++
		}
	}
	return s
}
