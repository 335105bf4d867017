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

	"github.com/poiesic/recollect/classify"
	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/search"
)

const (
	maxActionItems = 8

	personConfidence        = 0.85
	personMissingConfidence = 0.3
	aggregateConfidence     = 0.8
	noActionItemsConfidence = 0.2
)

const commitmentVerbs = `(?:will|needs to|need to|should|is going to|has to|must|is supposed to)`

// Commitments a speaker makes about themselves.
var firstPersonCommitment = regexp.MustCompile(
	`(?i)\bI(?:'ll|'m going to|\s+will|\s+need to|\s+have to|\s+am going to|\s+should)\s+[^.!?]+`)

type actionItem struct {
	text    string
	speaker string
	meeting *core.Meeting
}

// actionItems answers from the whole corpus rather than search results, since
// action items rarely share vocabulary with the question.
func actionItems(query string, corpus []core.Meeting) core.Answer {
	meetings := newestFirst(corpus)
	if person := classify.ExtractPerson(query); person != "" {
		return personActionItems(query, person, meetings)
	}
	return recentActionItems(query, meetings)
}

func personActionItems(query, person string, meetings []*core.Meeting) core.Answer {
	mentions := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(person) + `\s+` + commitmentVerbs + `\s+[^.!?]+`)
	lowerPerson := strings.ToLower(person)

	seen := make(map[string]bool)
	var items []actionItem
	add := func(text, speaker string, meeting *core.Meeting) {
		key := normalizeItem(text)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		items = append(items, actionItem{text: strings.TrimSpace(text), speaker: speaker, meeting: meeting})
	}

	for _, meeting := range meetings {
		for _, item := range meeting.ActionItems {
			if strings.Contains(strings.ToLower(item), lowerPerson) {
				add(item, "", meeting)
			}
		}
		for _, segment := range meeting.Transcript {
			for _, clause := range mentions.FindAllString(segment.Text, -1) {
				add(clause, segment.Speaker, meeting)
			}
			if !isPerson(segment.Speaker, lowerPerson) {
				continue
			}
			for _, clause := range firstPersonCommitment.FindAllString(segment.Text, -1) {
				add(clause, segment.Speaker, meeting)
			}
		}
	}

	if len(items) == 0 {
		return core.Answer{
			Content:    fmt.Sprintf("I couldn't find any action items for %s.", bold(person)),
			Confidence: personMissingConfidence,
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Action items for %s:\n", bold(person))
	sources := writeItems(&b, query, items)
	return core.Answer{
		Content:    strings.TrimRight(b.String(), "\n"),
		Sources:    sources,
		Confidence: personConfidence,
	}
}

func recentActionItems(query string, meetings []*core.Meeting) core.Answer {
	var items []actionItem
	for _, meeting := range meetings {
		for _, item := range meeting.ActionItems {
			if strings.TrimSpace(item) != "" {
				items = append(items, actionItem{text: strings.TrimSpace(item), meeting: meeting})
			}
		}
	}

	if len(items) == 0 {
		return core.Answer{
			Content:    "No action items have been recorded in your meetings.",
			Confidence: noActionItemsConfidence,
		}
	}

	shown := top(items, maxActionItems)
	var b strings.Builder
	b.WriteString("Most recent action items:\n")
	sources := writeItems(&b, query, shown)
	if rest := len(items) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n...and %d more.\n", rest)
	}
	return core.Answer{
		Content:    strings.TrimRight(b.String(), "\n"),
		Sources:    sources,
		Confidence: aggregateConfidence,
	}
}

func writeItems(b *strings.Builder, query string, items []actionItem) []core.Source {
	sources := make([]core.Source, 0, len(items))
	for _, item := range items {
		text := item.text
		if item.speaker != "" {
			text = speakerPrefix(item.speaker) + text
		}
		fmt.Fprintf(b, "%s%s (%s, %s)\n", bullet, text, item.meeting.Title, formatDate(item.meeting.Date))
		sources = append(sources, core.Source{
			MeetingID:      item.meeting.ID,
			Title:          item.meeting.Title,
			Date:           item.meeting.Date,
			Excerpt:        truncate(item.text, excerptLength),
			Speaker:        item.speaker,
			RelevanceScore: search.Score(query, item.text, item.speaker, core.QueryTypeActionItems),
		})
	}
	return sources
}

func newestFirst(corpus []core.Meeting) []*core.Meeting {
	meetings := make([]*core.Meeting, len(corpus))
	for i := range corpus {
		meetings[i] = &corpus[i]
	}
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].Date.After(meetings[j].Date)
	})
	return meetings
}

func isPerson(speaker, lowerPerson string) bool {
	if speaker == "" {
		return false
	}
	lowerSpeaker := strings.ToLower(speaker)
	return strings.Contains(lowerSpeaker, lowerPerson) || strings.Contains(lowerPerson, lowerSpeaker)
}

func normalizeItem(text string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(text), ".!?;, "))
}
