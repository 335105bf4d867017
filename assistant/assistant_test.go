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

package assistant

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recollect/classify"
	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/synth"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingMonitor struct {
	events     []string
	classified classify.Query
	effective  string
	meetings   int
	canvas     int
	answer     core.Answer
}

func (m *recordingMonitor) Start(_ string) { m.events = append(m.events, "start") }
func (m *recordingMonitor) AfterClassify(q classify.Query) {
	m.events = append(m.events, "classify")
	m.classified = q
}
func (m *recordingMonitor) AfterMeetingSearch(results []core.MeetingResult) {
	m.events = append(m.events, "meetings")
	m.meetings = len(results)
}
func (m *recordingMonitor) AfterBoardSearch(results []core.CanvasResult) {
	m.events = append(m.events, "boards")
	m.canvas = len(results)
}
func (m *recordingMonitor) BeforeSynthesis(effective string, _ core.QueryType) {
	m.events = append(m.events, "synthesis")
	m.effective = effective
}
func (m *recordingMonitor) Finish(answer core.Answer) {
	m.events = append(m.events, "finish")
	m.answer = answer
}

func newTestAssistant(t *testing.T, opts ...Option) *Assistant {
	t.Helper()
	opts = append([]Option{
		WithClock(func() time.Time { return now }),
		WithRand(rand.New(rand.NewPCG(7, 7))),
		WithPoolSize(2),
	}, opts...)
	a, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(a.Release)
	return a
}

func budgetSync() core.Meeting {
	return core.Meeting{
		ID:    "budget-sync",
		Title: "Budget Sync",
		Date:  now.AddDate(0, 0, -3),
		Transcript: []core.TranscriptSegment{
			{Speaker: "John", Text: "I think we should cut the marketing budget by 10%", Timestamp: "00:04"},
			{Speaker: "Mary", Text: "Lunch options for the offsite", Timestamp: "00:09"},
		},
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithRand(nil))
	assert.ErrorIs(t, err, synth.ErrRandRequired)
}

func TestAnswer_EmptyCorpus(t *testing.T) {
	a := newTestAssistant(t)

	answer := a.Answer("anything", nil, nil, nil)

	assert.Zero(t, answer.Confidence)
	assert.Empty(t, answer.Sources)
	assert.Contains(t, synth.FallbackAnswers(), answer.Content)
}

func TestAnswer_WhatSaid(t *testing.T) {
	monitor := &recordingMonitor{}
	a := newTestAssistant(t, WithMonitor(monitor))

	answer := a.Answer("What did John say about the budget?", []core.Meeting{budgetSync()}, nil, nil)

	assert.Equal(t, core.QueryTypeWhatSaid, answer.Type)
	assert.Equal(t, "John", monitor.classified.Speaker)
	require.NotEmpty(t, answer.Sources)
	assert.Contains(t, answer.Sources[0].Excerpt, "cut the marketing budget")
	assert.Greater(t, answer.Sources[0].RelevanceScore, 0.15)
	assert.Greater(t, answer.Confidence, 0.3)

	assert.Equal(t, []string{"start", "classify", "meetings", "boards", "synthesis", "finish"}, monitor.events)
	assert.Equal(t, answer, monitor.answer)
}

func TestAnswer_ActionItemsForPerson(t *testing.T) {
	a := newTestAssistant(t)
	meeting := budgetSync()
	meeting.Transcript = append(meeting.Transcript,
		core.TranscriptSegment{Speaker: "John", Text: "Sarah owns the pending action items", Timestamp: "00:12"})
	meeting.ActionItems = []string{"Sarah will finalize the deck by Friday"}

	answer := a.Answer("What action items are pending for Sarah?", []core.Meeting{meeting}, nil, nil)

	assert.Equal(t, core.QueryTypeActionItems, answer.Type)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "Sarah will finalize the deck by Friday", answer.Sources[0].Excerpt)
	assert.InDelta(t, 0.85, answer.Confidence, 1e-9)
}

func TestAnswer_ActionItemsWithoutHits(t *testing.T) {
	monitor := &recordingMonitor{}
	a := newTestAssistant(t, WithMonitor(monitor))
	meeting := core.Meeting{
		ID: "offsite", Title: "Offsite", Date: now.AddDate(0, 0, -2),
		Transcript:  []core.TranscriptSegment{{Speaker: "Mary", Text: "Lunch options for the offsite"}},
		ActionItems: []string{"Mary will book the venue"},
	}

	answer := a.Answer("What are the next steps on the kubernetes migration?", []core.Meeting{meeting}, nil, nil)

	assert.Equal(t, core.QueryTypeActionItems, answer.Type)
	assert.Zero(t, monitor.meetings)
	assert.Zero(t, answer.Confidence)
	assert.Empty(t, answer.Sources)
	assert.Contains(t, synth.FallbackAnswers(), answer.Content)
	assert.NotContains(t, answer.Content, "venue")
}

func TestAnswer_FollowUp(t *testing.T) {
	monitor := &recordingMonitor{}
	a := newTestAssistant(t, WithMonitor(monitor))
	meeting := core.Meeting{
		ID: "q3", Title: "Quarterly Planning", Date: now.AddDate(0, 0, -1),
		Transcript: []core.TranscriptSegment{{Speaker: "Ana", Text: "The Q3 budget is tight"}},
	}
	history := []core.Turn{
		{Role: core.RoleUser, Content: "Tell me about the budget", Timestamp: now},
		{Role: core.RoleAssistant, Content: "The budget came up in planning.", Timestamp: now},
	}

	answer := a.Answer("what about Q3?", []core.Meeting{meeting}, nil, history)

	assert.Equal(t, core.QueryTypeFollowUp, answer.Type)
	assert.Equal(t, "Tell me about the budget what about Q3?", monitor.effective)
	assert.Equal(t, 1, monitor.meetings)
	assert.Contains(t, answer.Content, "the budget what about Q3")
	assert.Greater(t, answer.Confidence, 0.0)
}

func TestAnswer_RecencyRanking(t *testing.T) {
	a := newTestAssistant(t)
	segment := []core.TranscriptSegment{{Speaker: "Ana", Text: "Roadmap planning for the platform"}}
	old := core.Meeting{ID: "old", Title: "Roadmap", Date: now.AddDate(0, 0, -200), Transcript: segment}
	recent := core.Meeting{ID: "recent", Title: "Roadmap", Date: now.AddDate(0, 0, -2), Transcript: segment}

	answer := a.Answer("roadmap planning", []core.Meeting{old, recent}, nil, nil)

	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "recent", answer.Sources[0].MeetingID)
	assert.Equal(t, "old", answer.Sources[1].MeetingID)
}

func TestAnswer_Boards(t *testing.T) {
	monitor := &recordingMonitor{}
	a := newTestAssistant(t, WithMonitor(monitor))
	board := core.Board{
		ID:   "launch",
		Name: "Launch Board",
		Nodes: []core.VisualNode{
			{ID: "n1", Type: "risk", Content: "Vendor timeline risk for launch", CreatedBy: "ana"},
		},
	}

	answer := a.Answer("What is the launch timeline?", nil, []core.Board{board}, nil)

	assert.Equal(t, core.QueryTypeGeneral, answer.Type)
	assert.Equal(t, 1, monitor.canvas)
	require.Len(t, answer.CanvasSources, 1)
	assert.Equal(t, "n1", answer.CanvasSources[0].NodeID)
	assert.Contains(t, answer.Content, "**From Canvas Boards:**")
	assert.Greater(t, answer.Confidence, 0.0)
}

func TestAnswer_Idempotent(t *testing.T) {
	a := newTestAssistant(t)
	meetings := []core.Meeting{budgetSync()}

	first := a.Answer("Tell me about the marketing budget", meetings, nil, nil)
	second := a.Answer("Tell me about the marketing budget", meetings, nil, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, "budget-sync", meetings[0].ID)
	assert.Len(t, meetings[0].Transcript, 2)
}
