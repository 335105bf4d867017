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

package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a fixed-width identifier derived from an entity's string id.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Meeting is a recorded meeting with its transcript. The engine never mutates it.
type Meeting struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Date        time.Time           `json:"date"`
	Transcript  []TranscriptSegment `json:"transcript"`
	Summary     string              `json:"summary,omitempty"`
	ActionItems []string            `json:"actionItems,omitempty"`
}

// TranscriptSegment is a single utterance and the atomic unit of meeting search.
type TranscriptSegment struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"` // display label, e.g. "12:04"
}

// Board is a canvas/whiteboard with its nodes and any transcripts recorded on it.
type Board struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Nodes       []VisualNode `json:"nodes"`
	Transcripts []Transcript `json:"transcripts,omitempty"`
}

// VisualNode is an item placed on a board. Type is free-form ("sticky", "risk", "action", ...).
type VisualNode struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
}

// Comment is a remark attached to a VisualNode.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is a conversation recorded while a board was in use.
type Transcript struct {
	ID        string            `json:"id"`
	Entries   []TranscriptEntry `json:"entries"`
	StartTime time.Time         `json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
}

// TranscriptEntry is one utterance of a board transcript.
type TranscriptEntry struct {
	Speaker         string `json:"speaker"`
	Text            string `json:"text"`
	TimestampMillis int64  `json:"timestamp"`
}

// Corpus is a snapshot of everything the assistant can search.
type Corpus struct {
	Meetings []Meeting `json:"meetings"`
	Boards   []Board   `json:"boards"`
}

// QueryType is the classified intent of a question.
type QueryType string

const (
	QueryTypeWhatSaid      QueryType = "what_said"
	QueryTypeWhenDiscussed QueryType = "when_discussed"
	QueryTypeActionItems   QueryType = "action_items"
	QueryTypeSummarize     QueryType = "summarize"
	QueryTypeConcerns      QueryType = "concerns"
	QueryTypeGeneral       QueryType = "general"
	QueryTypeFollowUp      QueryType = "follow_up"
)

// Valid reports whether t is one of the known query types.
func (t QueryType) Valid() bool {
	switch t {
	case QueryTypeWhatSaid, QueryTypeWhenDiscussed, QueryTypeActionItems,
		QueryTypeSummarize, QueryTypeConcerns, QueryTypeGeneral, QueryTypeFollowUp:
		return true
	}
	return false
}

// ScoredSegment is a transcript segment with its relevance to a query.
type ScoredSegment struct {
	Segment TranscriptSegment
	Score   float64 // in [0,1]
}

// MeetingResult is a meeting that matched a query along with its best segments.
type MeetingResult struct {
	Meeting          *Meeting
	Segments         []ScoredSegment // sorted descending, at most 5
	OverallRelevance float64
}

// CanvasResult is a board item (node, comment or transcript entry) that matched a query.
type CanvasResult struct {
	BoardID   string
	BoardName string
	NodeID    string
	NodeType  string // node type, or "comment" / "transcript"
	Content   string
	CreatedBy string
	Score     float64
}

// Source is a meeting excerpt cited by an Answer.
type Source struct {
	MeetingID      string    `json:"meetingId"`
	Title          string    `json:"title"`
	Date           time.Time `json:"date"`
	Excerpt        string    `json:"excerpt"`
	Speaker        string    `json:"speaker,omitempty"`
	RelevanceScore float64   `json:"relevanceScore"`
}

// CanvasSource is a board item cited by an Answer.
type CanvasSource struct {
	BoardID        string  `json:"boardId"`
	BoardName      string  `json:"boardName"`
	NodeID         string  `json:"nodeId"`
	NodeType       string  `json:"nodeType"`
	Excerpt        string  `json:"excerpt"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// Answer is the synthesized reply to a question. Content uses **bold** and "• " bullets,
// which renderers must preserve verbatim. Confidence is 0 only when nothing was found.
type Answer struct {
	Content       string         `json:"content"`
	Sources       []Source       `json:"sources"`
	CanvasSources []CanvasSource `json:"canvasSources,omitempty"`
	Confidence    float64        `json:"confidence"`
	Type          QueryType      `json:"queryType"`
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation history.
type Turn struct {
	Role          Role           `json:"role"`
	Content       string         `json:"content"`
	Sources       []Source       `json:"sources,omitempty"`
	CanvasSources []CanvasSource `json:"canvasSources,omitempty"`
	Confidence    float64        `json:"confidence,omitempty"`
	QueryType     QueryType      `json:"queryType,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}
