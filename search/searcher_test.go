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
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/recollect/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestSearcher(t *testing.T, opts ...Option) *Searcher {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	s, err := NewSearcher(opts...)
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s
}

func budgetSync(date time.Time) core.Meeting {
	return core.Meeting{
		ID:    "m1",
		Title: "Budget Sync",
		Date:  date,
		Transcript: []core.TranscriptSegment{
			{Speaker: "John", Text: "I think we should cut the marketing budget by 10%"},
			{Speaker: "Mary", Text: "The marketing budget pays for the conference booth"},
			{Speaker: "John", Text: "Let's grab lunch after this"},
		},
	}
}

func TestNewSearcher(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := NewSearcher()
		require.NoError(t, err)
		defer s.Release()
		assert.NotNil(t, s.pool)
		assert.NotNil(t, s.now)
	})

	t.Run("with options", func(t *testing.T) {
		s, err := NewSearcher(WithPoolSize(2), WithLogger(slog.Default()))
		require.NoError(t, err)
		defer s.Release()
		assert.Equal(t, 2, s.pool.Cap())
	})

	t.Run("pool size below one is clamped", func(t *testing.T) {
		s, err := NewSearcher(WithPoolSize(0))
		require.NoError(t, err)
		defer s.Release()
		assert.Equal(t, 1, s.pool.Cap())
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		s, err := NewSearcher(WithLogger(nil))
		require.NoError(t, err)
		defer s.Release()
		assert.NotNil(t, s.logger)
	})

	t.Run("nil clock", func(t *testing.T) {
		_, err := NewSearcher(WithClock(nil))
		assert.ErrorIs(t, err, ErrClockRequired)
	})
}

func TestSearchMeetings_Empty(t *testing.T) {
	s := newTestSearcher(t)
	assert.Empty(t, s.SearchMeetings("budget", nil, core.QueryTypeGeneral, ""))
	assert.Empty(t, s.SearchMeetings("", []core.Meeting{budgetSync(testNow)}, core.QueryTypeGeneral, ""))
}

func TestSearchMeetings_WhatSaid(t *testing.T) {
	s := newTestSearcher(t)
	meetings := []core.Meeting{budgetSync(testNow.AddDate(0, 0, -40))}

	results := s.SearchMeetings("What did John say about the budget?", meetings, core.QueryTypeWhatSaid, "John")
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, "Budget Sync", result.Meeting.Title)
	require.NotEmpty(t, result.Segments)
	for _, segment := range result.Segments {
		assert.Equal(t, "John", segment.Segment.Speaker)
	}
	assert.Contains(t, result.Segments[0].Segment.Text, "cut the marketing budget")
	assert.Greater(t, result.Segments[0].Score, 0.15)
}

func TestSearchMeetings_SpeakerFilterOnlyForWhatSaid(t *testing.T) {
	s := newTestSearcher(t)
	meetings := []core.Meeting{budgetSync(testNow)}

	results := s.SearchMeetings("marketing budget", meetings, core.QueryTypeGeneral, "John")
	require.Len(t, results, 1)

	speakers := map[string]bool{}
	for _, segment := range results[0].Segments {
		speakers[segment.Segment.Speaker] = true
	}
	assert.True(t, speakers["Mary"])
	assert.True(t, speakers["John"])
}

func TestSearchMeetings_FuzzySpeaker(t *testing.T) {
	s := newTestSearcher(t)
	meeting := budgetSync(testNow)
	meeting.Transcript[0].Speaker = "John Smith"
	meeting.Transcript = append(meeting.Transcript, core.TranscriptSegment{Text: "Unattributed budget note about marketing"})

	results := s.SearchMeetings("What did john say about the budget?", []core.Meeting{meeting}, core.QueryTypeWhatSaid, "john")
	require.Len(t, results, 1)

	speakers := map[string]bool{}
	for _, segment := range results[0].Segments {
		speakers[segment.Segment.Speaker] = true
	}
	assert.True(t, speakers["John Smith"])
	assert.False(t, speakers["Mary"])
	assert.False(t, speakers[""])
}

func TestSearchMeetings_LimitsAndOrdering(t *testing.T) {
	s := newTestSearcher(t, WithPoolSize(4))

	var meetings []core.Meeting
	for m := 0; m < 8; m++ {
		meeting := core.Meeting{
			ID:    fmt.Sprintf("m%d", m),
			Title: fmt.Sprintf("Planning %d", m),
			Date:  testNow.AddDate(0, 0, -m*15),
		}
		for i := 0; i < 7; i++ {
			filler := ""
			for j := 0; j < i+m; j++ {
				filler += fmt.Sprintf(" filler%d", j)
			}
			meeting.Transcript = append(meeting.Transcript, core.TranscriptSegment{
				Speaker: "Ana",
				Text:    "roadmap launch timeline" + filler,
			})
		}
		meetings = append(meetings, meeting)
	}

	results := s.SearchMeetings("roadmap launch timeline", meetings, core.QueryTypeGeneral, "")
	require.Len(t, results, MaxMeetingResults)

	for i, result := range results {
		assert.LessOrEqual(t, len(result.Segments), MaxSegmentsPerMeeting)
		for j := 1; j < len(result.Segments); j++ {
			assert.GreaterOrEqual(t, result.Segments[j-1].Score, result.Segments[j].Score)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].OverallRelevance, result.OverallRelevance)
		}
	}
}

func TestSearchMeetings_RecencyBreaksTies(t *testing.T) {
	s := newTestSearcher(t)

	old := budgetSync(testNow.AddDate(0, 0, -200))
	old.ID = "old"
	recent := budgetSync(testNow.AddDate(0, 0, -2))
	recent.ID = "recent"

	results := s.SearchMeetings("marketing budget", []core.Meeting{old, recent}, core.QueryTypeGeneral, "")
	require.Len(t, results, 2)
	assert.Equal(t, "recent", results[0].Meeting.ID)
	assert.Equal(t, "old", results[1].Meeting.ID)
	assert.InDelta(t, results[1].OverallRelevance*1.2, results[0].OverallRelevance, 1e-9)
}

func TestSearchMeetings_Deterministic(t *testing.T) {
	s := newTestSearcher(t, WithPoolSize(3))
	var meetings []core.Meeting
	for i := 0; i < 6; i++ {
		m := budgetSync(testNow.AddDate(0, 0, -100))
		m.ID = fmt.Sprintf("same-%d", i)
		meetings = append(meetings, m)
	}

	first := s.SearchMeetings("marketing budget", meetings, core.QueryTypeGeneral, "")
	for i := 0; i < 5; i++ {
		again := s.SearchMeetings("marketing budget", meetings, core.QueryTypeGeneral, "")
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Meeting.ID, again[j].Meeting.ID)
		}
	}
	// equal scores keep input order
	assert.Equal(t, "same-0", first[0].Meeting.ID)
}

func TestRecencyBonus(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want float64
	}{
		{-time.Hour, 0.2},
		{2 * 24 * time.Hour, 0.2},
		{10 * 24 * time.Hour, 0.1},
		{45 * 24 * time.Hour, 0.05},
		{200 * 24 * time.Hour, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RecencyBonus(testNow.Add(-tt.age), testNow), "age %v", tt.age)
	}
}

func roadmapBoard() core.Board {
	return core.Board{
		ID:   "b1",
		Name: "Q3 Roadmap",
		Nodes: []core.VisualNode{
			{ID: "n1", Type: "risk", Content: "Vendor delay could slip the launch timeline", CreatedBy: "u1",
				Comments: []core.Comment{
					{ID: "c1", UserID: "u2", Content: "Launch timeline depends on vendor contract"},
					{ID: "c2", UserID: "u3", Content: "ok"},
				}},
			{ID: "n2", Type: "sticky", Content: "Team offsite ideas", CreatedBy: "u1"},
			{ID: "n3", Type: "sticky", Content: "Lnch", CreatedBy: "u1"},
		},
		Transcripts: []core.Transcript{
			{ID: "t1", Entries: []core.TranscriptEntry{
				{Speaker: "Priya", Text: "The launch timeline is still at risk", TimestampMillis: 1000},
			}},
		},
	}
}

func TestSearchBoards(t *testing.T) {
	s := newTestSearcher(t)
	boards := []core.Board{roadmapBoard()}

	t.Run("trivial queries return nothing", func(t *testing.T) {
		assert.Empty(t, s.SearchBoards("", boards))
		assert.Empty(t, s.SearchBoards("what about the", boards))
	})

	t.Run("nodes comments and transcripts", func(t *testing.T) {
		results := s.SearchBoards("launch timeline", boards)
		require.Len(t, results, 3)

		types := map[string]core.CanvasResult{}
		for _, r := range results {
			types[r.NodeType] = r
			assert.Equal(t, "b1", r.BoardID)
			assert.Equal(t, "Q3 Roadmap", r.BoardName)
		}
		assert.Equal(t, "n1", types["risk"].NodeID)
		assert.Equal(t, "u2", types[NodeTypeComment].CreatedBy)
		assert.Equal(t, "n1", types[NodeTypeComment].NodeID)
		assert.Equal(t, "t1", types[NodeTypeTranscript].NodeID)
		assert.Equal(t, "Priya", types[NodeTypeTranscript].CreatedBy)

		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("short content is skipped", func(t *testing.T) {
		results := s.SearchBoards("lnch", boards)
		assert.Empty(t, results)
	})

	t.Run("capped", func(t *testing.T) {
		board := core.Board{ID: "big", Name: "Big"}
		for i := 0; i < 25; i++ {
			board.Nodes = append(board.Nodes, core.VisualNode{
				ID:      fmt.Sprintf("n%d", i),
				Type:    "sticky",
				Content: fmt.Sprintf("hiring plan item %d", i),
			})
		}
		results := s.SearchBoards("hiring plan", []core.Board{board, roadmapBoard()})
		assert.Len(t, results, MaxCanvasResults)
	})
}
