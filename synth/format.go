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
	"strings"
	"time"
	"unicode/utf8"

	"github.com/poiesic/recollect/core"
)

const (
	excerptLength       = 150
	canvasExcerptLength = 120
	dateLayout          = "Jan 2, 2006"
	bullet              = "• "
)

var nodeIcons = map[string]string{
	"sticky":     "📝",
	"note":       "📝",
	"risk":       "⚠️",
	"action":     "✅",
	"decision":   "🎯",
	"question":   "❓",
	"comment":    "💬",
	"transcript": "🎙️",
	"idea":       "💡",
}

const defaultNodeIcon = "📌"

func nodeIcon(nodeType string) string {
	if icon, ok := nodeIcons[strings.ToLower(nodeType)]; ok {
		return icon
	}
	return defaultNodeIcon
}

// truncate shortens text to at most limit runes, marking the cut with "...".
func truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:limit]), " ,;:") + "..."
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "undated"
	}
	return t.Format(dateLayout)
}

func bold(s string) string {
	return "**" + s + "**"
}

func meetingSource(meeting *core.Meeting, segment core.ScoredSegment) core.Source {
	return core.Source{
		MeetingID:      meeting.ID,
		Title:          meeting.Title,
		Date:           meeting.Date,
		Excerpt:        truncate(segment.Segment.Text, excerptLength),
		Speaker:        segment.Segment.Speaker,
		RelevanceScore: segment.Score,
	}
}

func canvasSource(result core.CanvasResult) core.CanvasSource {
	return core.CanvasSource{
		BoardID:        result.BoardID,
		BoardName:      result.BoardName,
		NodeID:         result.NodeID,
		NodeType:       result.NodeType,
		Excerpt:        truncate(result.Content, canvasExcerptLength),
		RelevanceScore: result.Score,
	}
}

func top[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sourceScores(sources []core.Source) []float64 {
	scores := make([]float64, len(sources))
	for i, s := range sources {
		scores[i] = s.RelevanceScore
	}
	return scores
}

// speakerPrefix renders "**Speaker:** " or nothing for unattributed text.
func speakerPrefix(speaker string) string {
	if speaker == "" {
		return ""
	}
	return bold(speaker+":") + " "
}
