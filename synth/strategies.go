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
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/recollect/classify"
	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/search"
)

const (
	maxAnswerMeetings    = 3
	maxQuotesPerMeeting  = 4
	maxDatedMentions     = 3
	maxExcerptsPerResult = 2
	maxCanvasItems       = 4

	maxSummarySentences = 2
	minSentenceLength   = 20
	maxDecisions        = 5

	maxConcernMeetings   = 4
	maxConcernsPerResult = 3

	whenDiscussedConfidence = 0.8
	summarizeConfidence     = 0.75
	concernsConfidence      = 0.75
	noConcernsConfidence    = 0.4

	canvasWeight  = 0.4
	meetingWeight = 0.6
)

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

var decisionKeywords = []string{
	"decided", "agreed", "conclusion", "decision", "going with",
	"approved", "settled on", "final call", "signed off",
}

// Each family is one flavor of risk or uncertainty language.
var concernFamilies = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:risks?|risky|danger(?:ous)?|threats?|exposure)\b`),
	regexp.MustCompile(`(?i)\b(?:concern(?:s|ed)?|worr(?:y|ied|ies)|afraid|nervous|uneasy)\b`),
	regexp.MustCompile(`(?i)\b(?:block(?:er|ers|ed|ing)?|issues?|problems?|challenges?|obstacles?|bottlenecks?|delay(?:s|ed)?)\b`),
	regexp.MustCompile(`(?i)\b(?:not sure|unsure|uncertain|unclear|might not|may not|doubts?|questionable)\b`),
}

func whatSaid(query, speaker string, results []core.MeetingResult) core.Answer {
	if speaker == "" {
		speaker = classify.ExtractSpeaker(query)
	}
	topic := classify.ExtractTopic(query)

	var b strings.Builder
	switch {
	case speaker != "" && topic != "":
		fmt.Fprintf(&b, "Here's what %s said about %s:\n", bold(speaker), topic)
	case speaker != "":
		fmt.Fprintf(&b, "Here's what %s said:\n", bold(speaker))
	default:
		b.WriteString("Here's what was said:\n")
	}

	var sources []core.Source
	for _, result := range top(results, maxAnswerMeetings) {
		fmt.Fprintf(&b, "\n%s (%s)\n", bold(result.Meeting.Title), formatDate(result.Meeting.Date))
		for _, segment := range top(result.Segments, maxQuotesPerMeeting) {
			fmt.Fprintf(&b, "%s%s\"%s\"\n", bullet, speakerPrefix(segment.Segment.Speaker), strings.TrimSpace(segment.Segment.Text))
			sources = append(sources, meetingSource(result.Meeting, segment))
		}
	}

	return core.Answer{
		Content:    strings.TrimRight(b.String(), "\n"),
		Sources:    sources,
		Confidence: mean(sourceScores(sources)),
	}
}

func whenDiscussed(query string, results []core.MeetingResult) core.Answer {
	sorted := make([]core.MeetingResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Meeting.Date.After(sorted[j].Meeting.Date)
	})

	topic := classify.ExtractTopic(query)
	if topic == "" {
		topic = "this"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Discussions of %s, most recent first:\n\n", bold(topic))

	var sources []core.Source
	shown := top(sorted, maxDatedMentions)
	for _, result := range shown {
		if len(result.Segments) == 0 {
			continue
		}
		best := result.Segments[0]
		fmt.Fprintf(&b, "%s%s in %s: %s\"%s\"\n", bullet,
			bold(formatDate(result.Meeting.Date)), bold(result.Meeting.Title),
			speakerPrefix(best.Segment.Speaker), truncate(best.Segment.Text, excerptLength))
		sources = append(sources, meetingSource(result.Meeting, best))
	}
	if rest := len(sorted) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\nIt also came up in %d earlier meeting%s.\n", rest, plural(rest))
	}

	return core.Answer{
		Content:    strings.TrimRight(b.String(), "\n"),
		Sources:    sources,
		Confidence: whenDiscussedConfidence,
	}
}

func summarize(results []core.MeetingResult) core.Answer {
	shown := top(results, maxAnswerMeetings)

	var points []string
	for _, result := range shown {
		count := 0
		for _, sentence := range sentenceBoundary.Split(result.Meeting.Summary, -1) {
			sentence = strings.TrimSpace(sentence)
			if utf8.RuneCountInString(sentence) <= minSentenceLength {
				continue
			}
			points = append(points, fmt.Sprintf("%s%s. (%s)", bullet, sentence, result.Meeting.Title))
			count++
			if count == maxSummarySentences {
				break
			}
		}
	}

	var decisions []string
collect:
	for _, result := range shown {
		for _, segment := range result.Meeting.Transcript {
			if !containsAny(strings.ToLower(segment.Text), decisionKeywords) {
				continue
			}
			decisions = append(decisions, fmt.Sprintf("%s%s\"%s\"", bullet,
				speakerPrefix(segment.Speaker), truncate(segment.Text, excerptLength)))
			if len(decisions) == maxDecisions {
				break collect
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summary of %d meeting%s:\n", len(shown), plural(len(shown)))
	if len(points) > 0 {
		b.WriteString("\n**Key points:**\n")
		b.WriteString(strings.Join(points, "\n"))
		b.WriteString("\n")
	}
	if len(decisions) > 0 {
		b.WriteString("\n**Decisions:**\n")
		b.WriteString(strings.Join(decisions, "\n"))
		b.WriteString("\n")
	}
	if len(points) == 0 && len(decisions) == 0 {
		b.WriteString("\n**Highlights:**\n")
		for _, result := range shown {
			for _, segment := range top(result.Segments, maxExcerptsPerResult) {
				fmt.Fprintf(&b, "%s%s\"%s\" (%s)\n", bullet, speakerPrefix(segment.Segment.Speaker),
					truncate(segment.Segment.Text, excerptLength), result.Meeting.Title)
			}
		}
	}

	sources := make([]core.Source, 0, len(shown))
	for _, result := range shown {
		if len(result.Segments) > 0 {
			sources = append(sources, meetingSource(result.Meeting, result.Segments[0]))
		}
	}

	return core.Answer{
		Content:    strings.TrimRight(b.String(), "\n"),
		Sources:    sources,
		Confidence: summarizeConfidence,
	}
}

func concerns(query string, results []core.MeetingResult) core.Answer {
	topic := classify.ExtractTopic(query)
	if topic == "" {
		topic = "this topic"
	}
	shown := top(results, maxConcernMeetings)

	var (
		b       strings.Builder
		sources []core.Source
	)
	for _, result := range shown {
		found := 0
		for _, segment := range result.Meeting.Transcript {
			if !matchesAny(concernFamilies, segment.Text) {
				continue
			}
			if found == 0 {
				fmt.Fprintf(&b, "\n%s (%s)\n", bold(result.Meeting.Title), formatDate(result.Meeting.Date))
			}
			fmt.Fprintf(&b, "%s%s\"%s\"\n", bullet, speakerPrefix(segment.Speaker), truncate(segment.Text, excerptLength))
			sources = append(sources, meetingSource(result.Meeting, core.ScoredSegment{
				Segment: segment,
				Score:   search.Score(query, segment.Text, segment.Speaker, core.QueryTypeConcerns),
			}))
			found++
			if found == maxConcernsPerResult {
				break
			}
		}
	}

	if len(sources) > 0 {
		return core.Answer{
			Content:    fmt.Sprintf("Concerns raised about %s:\n%s", bold(topic), strings.TrimRight(b.String(), "\n")),
			Sources:    sources,
			Confidence: concernsConfidence,
		}
	}

	b.Reset()
	fmt.Fprintf(&b, "I didn't find any explicit concerns about %s. It was discussed in:\n", bold(topic))
	for _, result := range shown {
		fmt.Fprintf(&b, "%s%s (%s)\n", bullet, bold(result.Meeting.Title), formatDate(result.Meeting.Date))
		if len(result.Segments) > 0 {
			sources = append(sources, meetingSource(result.Meeting, result.Segments[0]))
		}
	}
	return core.Answer{
		Content:    strings.TrimRight(b.String(), "\n"),
		Sources:    sources,
		Confidence: noConcernsConfidence,
	}
}

// general lists excerpts. Canvas hits, when present, are shown first and
// weighted into the confidence alongside meeting hits.
func general(query string, meetings []core.MeetingResult, canvas []core.CanvasResult) core.Answer {
	topic := classify.ExtractTopic(query)
	if topic == "" {
		topic = strings.TrimSpace(query)
	}

	var (
		b             strings.Builder
		sources       []core.Source
		canvasSources []core.CanvasSource
	)
	fmt.Fprintf(&b, "Here's what I found about %s:\n", bold(topic))

	if len(canvas) == 0 {
		for _, result := range top(meetings, maxAnswerMeetings) {
			fmt.Fprintf(&b, "\n%s (%s)\n", bold(result.Meeting.Title), formatDate(result.Meeting.Date))
			for _, segment := range top(result.Segments, maxExcerptsPerResult) {
				fmt.Fprintf(&b, "%s%s\"%s\"\n", bullet, speakerPrefix(segment.Segment.Speaker),
					truncate(segment.Segment.Text, excerptLength))
				sources = append(sources, meetingSource(result.Meeting, segment))
			}
		}
		return core.Answer{
			Content:    strings.TrimRight(b.String(), "\n"),
			Sources:    sources,
			Confidence: mean(sourceScores(sources)),
		}
	}

	b.WriteString("\n**From Canvas Boards:**\n")
	canvasScores := make([]float64, 0, maxCanvasItems)
	for _, result := range top(canvas, maxCanvasItems) {
		fmt.Fprintf(&b, "%s%s %s (%s): %s\n", bullet, nodeIcon(result.NodeType), bold(result.BoardName),
			result.NodeType, truncate(result.Content, canvasExcerptLength))
		canvasSources = append(canvasSources, canvasSource(result))
		canvasScores = append(canvasScores, result.Score)
	}

	if len(meetings) > 0 {
		b.WriteString("\n**From Meetings:**\n")
		for _, result := range top(meetings, maxAnswerMeetings) {
			if len(result.Segments) == 0 {
				continue
			}
			best := result.Segments[0]
			fmt.Fprintf(&b, "%s%s (%s): %s\"%s\"\n", bullet, bold(result.Meeting.Title),
				formatDate(result.Meeting.Date), speakerPrefix(best.Segment.Speaker),
				truncate(best.Segment.Text, excerptLength))
			sources = append(sources, meetingSource(result.Meeting, best))
		}
	}

	confidence := mean(canvasScores)
	if len(sources) > 0 {
		confidence = canvasWeight*confidence + meetingWeight*mean(sourceScores(sources))
	}

	return core.Answer{
		Content:       strings.TrimRight(b.String(), "\n"),
		Sources:       sources,
		CanvasSources: canvasSources,
		Confidence:    confidence,
	}
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
