// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package assistant answers questions about meetings and canvas boards.
//
// An Assistant wires the pipeline together: the question is classified,
// follow-ups are rewritten against the conversation history, meetings and
// boards are searched concurrently, and the ranked results are handed to the
// synthesizer for the query type. The Assistant keeps no state between calls;
// the caller owns the corpus and the history.
package assistant

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/poiesic/recollect/classify"
	"github.com/poiesic/recollect/conversation"
	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/search"
	"github.com/poiesic/recollect/synth"
)

// Assistant answers questions against a caller-supplied corpus.
type Assistant struct {
	searcher    *search.Searcher
	synthesizer *synth.Synthesizer
	monitor     Monitor
	logger      *slog.Logger

	searchOpts []search.Option
	synthOpts  []synth.Option
}

// Option configures an Assistant.
type Option func(*Assistant) error

// WithLogger sets the logger used by the assistant and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger.With("component", "assistant")
		a.searchOpts = append(a.searchOpts, search.WithLogger(logger))
		a.synthOpts = append(a.synthOpts, synth.WithLogger(logger))
		return nil
	}
}

// WithPoolSize sets the number of workers scoring meetings and boards.
func WithPoolSize(size int) Option {
	return func(a *Assistant) error {
		a.searchOpts = append(a.searchOpts, search.WithPoolSize(size))
		return nil
	}
}

// WithClock sets the time source for recency ranking.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) error {
		a.searchOpts = append(a.searchOpts, search.WithClock(now))
		return nil
	}
}

// WithRand sets the random source for picking fallback answers.
func WithRand(rng *rand.Rand) Option {
	return func(a *Assistant) error {
		a.synthOpts = append(a.synthOpts, synth.WithRand(rng))
		return nil
	}
}

// WithMonitor installs a pipeline observer. A nil monitor disables observation.
func WithMonitor(monitor Monitor) Option {
	return func(a *Assistant) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		a.monitor = monitor
		return nil
	}
}

// New creates an Assistant. Call Release when done with it.
func New(opts ...Option) (*Assistant, error) {
	a := &Assistant{
		monitor: &noopMonitor{},
		logger:  slog.Default().With("component", "assistant"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	synthesizer, err := synth.New(a.synthOpts...)
	if err != nil {
		return nil, err
	}
	searcher, err := search.NewSearcher(a.searchOpts...)
	if err != nil {
		return nil, err
	}
	a.synthesizer = synthesizer
	a.searcher = searcher
	a.searchOpts, a.synthOpts = nil, nil
	return a, nil
}

// Release frees the search worker pool.
func (a *Assistant) Release() {
	a.searcher.Release()
}

// Answer answers query against meetings and boards. history is the
// conversation so far, oldest first; it is read but never modified.
//
// Answer never fails. When nothing relevant is found the answer has zero
// confidence and no sources.
func (a *Assistant) Answer(query string, meetings []core.Meeting, boards []core.Board, history []core.Turn) core.Answer {
	a.monitor.Start(query)

	classified := classify.Classify(query, history)
	a.monitor.AfterClassify(classified)
	a.logger.Debug("classified query",
		"type", classified.Type,
		"speaker", classified.Speaker,
		"topic", classified.Topic)

	effective := conversation.EffectiveQuery(query, classified.Type, history)

	var (
		canvas []core.CanvasResult
		wg     sync.WaitGroup
	)
	if len(boards) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			canvas = a.searcher.SearchBoards(effective, boards)
		}()
	}
	results := a.searcher.SearchMeetings(effective, meetings, classified.Type, classified.Speaker)
	wg.Wait()
	a.monitor.AfterMeetingSearch(results)
	a.monitor.AfterBoardSearch(canvas)

	a.monitor.BeforeSynthesis(effective, classified.Type)
	answer := a.synthesizer.Synthesize(synth.Input{
		Query:    query,
		Type:     classified.Type,
		Speaker:  classified.Speaker,
		Meetings: results,
		Canvas:   canvas,
		Corpus:   meetings,
		History:  history,
	})
	a.monitor.Finish(answer)

	a.logger.Debug("answered query",
		"type", answer.Type,
		"meetingResults", len(results),
		"canvasResults", len(canvas),
		"confidence", answer.Confidence)
	return answer
}
