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

package synth

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/poiesic/recollect/conversation"
	"github.com/poiesic/recollect/core"
)

var fallbackAnswers = [...]string{
	"I couldn't find anything about that in your meetings or boards. Try rephrasing, or ask about a specific person or topic.",
	"I don't have enough information to answer that. None of your meetings or canvas boards seem to cover it.",
	"Nothing in the available meetings matches that question. You could ask about decisions, action items, or what someone said.",
}

// FallbackAnswers returns the fixed "I don't know" answers.
func FallbackAnswers() []string {
	out := make([]string, len(fallbackAnswers))
	copy(out, fallbackAnswers[:])
	return out
}

// Input is everything a strategy may consult.
type Input struct {
	// Query is the question as asked. Follow-ups are rewritten against History.
	Query string
	Type  core.QueryType
	// Speaker extracted by the classifier, "" if none.
	Speaker string
	// Meetings are ranked meeting search results.
	Meetings []core.MeetingResult
	// Canvas are ranked board search results.
	Canvas []core.CanvasResult
	// Corpus is every meeting available; action items are collected from it.
	Corpus  []core.Meeting
	History []core.Turn
}

// Synthesizer turns ranked results into an Answer.
type Synthesizer struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer) error

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "synth")
		return nil
	}
}

// WithRand sets the random source used to pick fallback answers.
func WithRand(rng *rand.Rand) Option {
	return func(s *Synthesizer) error {
		if rng == nil {
			return ErrRandRequired
		}
		s.rng = rng
		return nil
	}
}

// New creates a Synthesizer.
func New(opts ...Option) (*Synthesizer, error) {
	s := &Synthesizer{
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: slog.Default().With("component", "synth"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Synthesize builds the answer for in. It never fails; when nothing relevant
// was found the answer is a fallback with zero confidence.
func (s *Synthesizer) Synthesize(in Input) core.Answer {
	queryType := in.Type
	if !queryType.Valid() {
		queryType = core.QueryTypeGeneral
	}

	var (
		answer   core.Answer
		strategy string
	)
	switch {
	case len(in.Meetings) == 0 && len(in.Canvas) == 0:
		strategy = "fallback"
		answer = s.fallback()
	case queryType == core.QueryTypeActionItems && len(in.Corpus) > 0:
		// Items are collected from the whole corpus once the query matched anything.
		strategy = "action_items"
		answer = actionItems(in.Query, in.Corpus)
	case queryType == core.QueryTypeFollowUp:
		strategy = "follow_up"
		answer = general(conversation.ResolveFollowUp(in.Query, in.History), in.Meetings, in.Canvas)
	case len(in.Meetings) == 0 || queryType == core.QueryTypeGeneral:
		strategy = "general"
		answer = general(in.Query, in.Meetings, in.Canvas)
	case queryType == core.QueryTypeWhatSaid:
		strategy = "what_said"
		answer = whatSaid(in.Query, in.Speaker, in.Meetings)
	case queryType == core.QueryTypeWhenDiscussed:
		strategy = "when_discussed"
		answer = whenDiscussed(in.Query, in.Meetings)
	case queryType == core.QueryTypeSummarize:
		strategy = "summarize"
		answer = summarize(in.Meetings)
	case queryType == core.QueryTypeConcerns:
		strategy = "concerns"
		answer = concerns(in.Query, in.Meetings)
	default:
		strategy = "general"
		answer = general(in.Query, in.Meetings, in.Canvas)
	}

	answer.Type = queryType
	answer.Confidence = clamp(answer.Confidence)
	if answer.Sources == nil {
		answer.Sources = []core.Source{}
	}

	s.logger.Debug("synthesized answer",
		"type", queryType,
		"strategy", strategy,
		"sources", len(answer.Sources),
		"canvasSources", len(answer.CanvasSources),
		"confidence", answer.Confidence)
	return answer
}

func (s *Synthesizer) fallback() core.Answer {
	s.mu.Lock()
	i := s.rng.IntN(len(fallbackAnswers))
	s.mu.Unlock()
	return core.Answer{
		Content: fallbackAnswers[i],
		Sources: []core.Source{},
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
