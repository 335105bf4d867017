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

package search

import (
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recollect/core"
)

// Result limits and score thresholds.
const (
	MaxMeetingResults     = 5
	MaxSegmentsPerMeeting = 5
	MaxCanvasResults      = 15

	minSegmentScore = 0.15
	minCanvasScore  = 0.12
	minCanvasLength = 5
)

// Searcher ranks meetings and board content against a query.
// It is safe for concurrent use.
type Searcher struct {
	pool   *ants.Pool
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the number of workers used to score meetings and boards.
// Default is half the CPU count.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		if s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		return nil
	}
}

// WithClock sets the function used to read the current time for recency bonuses.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now == nil {
			return ErrClockRequired
		}
		s.now = now
		return nil
	}
}

// NewSearcher creates a new searcher.
// Call Release when done to free the worker pool.
func NewSearcher(opts ...Option) (*Searcher, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		pool:   pool,
		now:    time.Now,
		logger: slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}

	return s, nil
}

// Release frees the worker pool.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// SearchMeetings scores every transcript segment of every meeting and returns up to
// MaxMeetingResults meetings ranked by overall relevance.
//
// When queryType is QueryTypeWhatSaid and speaker is non-empty, only segments whose
// speaker fuzzy-matches it are considered.
func (s *Searcher) SearchMeetings(query string, meetings []core.Meeting, queryType core.QueryType, speaker string) []core.MeetingResult {
	now := s.now()
	filterSpeaker := ""
	if queryType == core.QueryTypeWhatSaid {
		filterSpeaker = speaker
	}

	// One slot per meeting keeps fan-in order independent of scheduling
	slots := make([]*core.MeetingResult, len(meetings))
	s.fanOut(len(meetings), func(i int) {
		slots[i] = scoreMeeting(query, &meetings[i], queryType, filterSpeaker, now)
	})

	results := make([]core.MeetingResult, 0, len(meetings))
	for _, result := range slots {
		if result != nil {
			results = append(results, *result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].OverallRelevance > results[j].OverallRelevance
	})
	if len(results) > MaxMeetingResults {
		results = results[:MaxMeetingResults]
	}

	s.logger.Debug("meeting search complete",
		"meetings", len(meetings),
		"hits", len(results),
		"speaker", filterSpeaker)

	return results
}

// SearchBoards scores node contents, node comments and board transcript entries and
// returns up to MaxCanvasResults items ranked by score. A query with no searchable
// tokens returns nothing.
func (s *Searcher) SearchBoards(query string, boards []core.Board) []core.CanvasResult {
	if len(Tokenize(query)) == 0 {
		return []core.CanvasResult{}
	}

	slots := make([][]core.CanvasResult, len(boards))
	s.fanOut(len(boards), func(i int) {
		slots[i] = scoreBoard(query, &boards[i])
	})

	results := make([]core.CanvasResult, 0)
	for _, hits := range slots {
		results = append(results, hits...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > MaxCanvasResults {
		results = results[:MaxCanvasResults]
	}

	s.logger.Debug("board search complete", "boards", len(boards), "hits", len(results))

	return results
}

// fanOut runs fn(0..n-1) on the pool and waits for all calls to return.
func (s *Searcher) fanOut(n int, fn func(i int)) {
	if n == 1 {
		fn(0)
		return
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		task := func() {
			defer wg.Done()
			fn(i)
		}
		if err := s.pool.Submit(task); err != nil {
			s.logger.Warn("worker pool rejected task, scoring inline", "err", err)
			task()
		}
	}
	wg.Wait()
}

// scoreMeeting returns nil when no segment clears the threshold.
func scoreMeeting(query string, meeting *core.Meeting, queryType core.QueryType, speaker string, now time.Time) *core.MeetingResult {
	var kept []core.ScoredSegment
	for _, segment := range meeting.Transcript {
		if speaker != "" && !speakerMatches(segment.Speaker, speaker) {
			continue
		}
		score := Score(query, segment.Text, segment.Speaker, queryType)
		if score > minSegmentScore {
			kept = append(kept, core.ScoredSegment{Segment: segment, Score: score})
		}
	}

	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if len(kept) > MaxSegmentsPerMeeting {
		kept = kept[:MaxSegmentsPerMeeting]
	}

	var sum float64
	for _, segment := range kept {
		sum += segment.Score
	}
	mean := sum / float64(len(kept))

	return &core.MeetingResult{
		Meeting:          meeting,
		Segments:         kept,
		OverallRelevance: mean * (1 + RecencyBonus(meeting.Date, now)),
	}
}

func scoreBoard(query string, board *core.Board) []core.CanvasResult {
	var hits []core.CanvasResult

	add := func(nodeID, nodeType, content, createdBy, speaker string) {
		content = strings.TrimSpace(content)
		if len([]rune(content)) < minCanvasLength {
			return
		}
		score := Score(query, content, speaker, core.QueryTypeGeneral)
		if score > minCanvasScore {
			hits = append(hits, core.CanvasResult{
				BoardID:   board.ID,
				BoardName: board.Name,
				NodeID:    nodeID,
				NodeType:  nodeType,
				Content:   content,
				CreatedBy: createdBy,
				Score:     score,
			})
		}
	}

	for _, node := range board.Nodes {
		add(node.ID, node.Type, node.Content, node.CreatedBy, "")
		for _, comment := range node.Comments {
			add(node.ID, NodeTypeComment, comment.Content, comment.UserID, "")
		}
	}

	for _, transcript := range board.Transcripts {
		for _, entry := range transcript.Entries {
			add(transcript.ID, NodeTypeTranscript, entry.Text, entry.Speaker, entry.Speaker)
		}
	}

	return hits
}

// Node types assigned to canvas hits that did not come from a node's own content.
const (
	NodeTypeComment    = "comment"
	NodeTypeTranscript = "transcript"
)

// speakerMatches reports whether the segment speaker and the requested name contain
// one another, ignoring case. Unattributed segments never match.
func speakerMatches(segmentSpeaker, name string) bool {
	if segmentSpeaker == "" {
		return false
	}
	a := strings.ToLower(segmentSpeaker)
	b := strings.ToLower(name)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// RecencyBonus rewards recent meetings: 0.2 under a week old, 0.1 under 30 days,
// 0.05 under 90 days, otherwise 0.
func RecencyBonus(date, now time.Time) float64 {
	age := now.Sub(date)
	day := 24 * time.Hour
	switch {
	case age < 7*day:
		return 0.2
	case age < 30*day:
		return 0.1
	case age < 90*day:
		return 0.05
	default:
		return 0
	}
}
