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

// Package classify detects the intent of a question about meetings and extracts
// the entities (speaker, person, topic) the answer strategies need.
//
// Classification is an ordered rule table: the first query type with a matching
// pattern wins, so the order of rules is significant.
package classify

import (
	"regexp"
	"strings"

	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/search"
)

// maxFollowUpWords is the longest query (in words) treated as a follow-up when
// there is prior conversation.
const maxFollowUpWords = 3

var followUpPatterns = compile(
	`(?i)^\s*tell me more\b`,
	`(?i)^\s*what else\b`,
	`(?i)^\s*what about\b`,
	`(?i)^\s*(?:and|also|how about)\b`,
	`(?i)\b(?:more details|elaborate|expand on that|go on)\b`,
)

// The first capture group of each pattern is the speaker's name.
var whatSaidPatterns = compile(
	`(?i)\bwhat did (\w+) (?:say|mention|think|suggest|propose)\b`,
	`(?i)\bwhat (?:has|had) (\w+) (?:said|mentioned|suggested)\b`,
	`(?i)\bwhat (?:does|do) (\w+) think\b`,
	`(?i)^\s*did (\w+) (?:say|mention|talk about|bring up)\b`,
	`(?i)\b(\w+)'s (?:opinion|thoughts|view|take|comments?|position)\b`,
	`(?i)\b(?:quotes?|statements?) (?:from|by) (\w+)\b`,
)

var whenDiscussedPatterns = compile(
	`(?i)^\s*when (?:did|was|were|have|has|had)\b`,
	`(?i)\bwhen\b.*\b(?:discuss|discussed|talk|talked|mention|mentioned|bring up|brought up|come up|came up)\b`,
	`(?i)\bwhat (?:date|day|time)\b`,
	`(?i)\bwhich meetings?\b`,
	`(?i)\b(?:last|first) time\b`,
)

var actionItemPatterns = compile(
	`(?i)\baction items?\b`,
	`(?i)\bto-?dos?\b`,
	`(?i)\btasks?\b`,
	`(?i)\bfollow[- ]?ups?\b`,
	`(?i)\bnext steps?\b`,
	`(?i)\bassigned to\b`,
	`(?i)\bwho (?:is|was) responsible\b`,
	`(?i)\bdeliverables?\b`,
	`(?i)\bpending\b`,
)

var summarizePatterns = compile(
	`(?i)\bsummar(?:y|ies|ize|ise)\b`,
	`(?i)\brecap\b`,
	`(?i)\boverview\b`,
	`(?i)\bkey (?:points|takeaways|decisions)\b`,
	`(?i)\bmain points\b`,
	`(?i)\bwhat (?:happened|was decided|did we decide)\b`,
	`(?i)\bhighlights?\b`,
	`(?i)\btl;?dr\b`,
)

var concernPatterns = compile(
	`(?i)\bconcern(?:s|ed)?\b`,
	`(?i)\brisks?\b`,
	`(?i)\bissues?\b`,
	`(?i)\bproblems?\b`,
	`(?i)\bworr(?:y|ied|ies)\b`,
	`(?i)\bblockers?\b`,
	`(?i)\bchallenges?\b`,
	`(?i)\bobjections?\b`,
	`(?i)\bpushback\b`,
)

type rule struct {
	queryType core.QueryType
	patterns  []*regexp.Regexp
}

// rules are evaluated in order; first match wins.
var rules = []rule{
	{core.QueryTypeWhatSaid, whatSaidPatterns},
	{core.QueryTypeWhenDiscussed, whenDiscussedPatterns},
	{core.QueryTypeActionItems, actionItemPatterns},
	{core.QueryTypeSummarize, summarizePatterns},
	{core.QueryTypeConcerns, concernPatterns},
}

var personPattern = regexp.MustCompile(`(?i)\b(?:for|assigned to|does|has|pending for)\s+(\w+)`)

// Words captured by the name patterns that never refer to a single person.
var notNames = map[string]bool{
	"i": true, "me": true, "we": true, "us": true, "you": true, "he": true, "she": true,
	"him": true, "her": true, "they": true, "them": true, "it": true, "my": true,
	"everyone": true, "everybody": true, "anyone": true, "someone": true, "people": true,
	"team": true, "group": true, "every": true, "today": true, "tomorrow": true,
	"now": true, "pending": true, "next": true,
}

var topicStrippers = compile(
	`(?i)^\s*(?:can|could|would) you\s+`,
	`(?i)^\s*please\s+`,
	`(?i)^(?:tell me|show me|give me|remind me|summari[sz]e|recap|list)\s+(?:about\s+|of\s+)?`,
	`(?i)^(?:what|when|where|who|why|how|which)(?:'s)?\s+(?:(?:did|does|do|was|were|is|are|has|have|had)\b)?\s*`,
	`(?i)^\w+\s+(?:say|said|mention|mentioned|think|thought)\s+(?:about\s+|of\s+)?`,
	`(?i)^(?:we|they|you|i|the team)\s+`,
	`(?i)\b(?:discuss(?:ed)?|talk(?:ed)? about|mention(?:ed)?|bring up|brought up|decide(?:d)? on)\s*`,
	`(?i)^(?:about|regarding|on)\s+`,
)

var trailingPunctuation = regexp.MustCompile(`[\s?.!,;:]+$`)

// Query is a classified question.
type Query struct {
	Text    string
	Type    core.QueryType
	Speaker string // "" when no speaker was named
	Topic   string
}

// Classify detects the query type and extracts the speaker and topic.
func Classify(text string, history []core.Turn) Query {
	return Query{
		Text:    text,
		Type:    DetectType(text, history),
		Speaker: ExtractSpeaker(text),
		Topic:   ExtractTopic(text),
	}
}

// DetectType returns the query type of query given the conversation so far.
//
// With prior turns, a query that matches a follow-up pattern or has at most three
// words is a follow-up. Otherwise the rule table is consulted in priority order,
// falling back to QueryTypeGeneral.
func DetectType(query string, history []core.Turn) core.QueryType {
	if len(history) > 0 {
		if matchesAny(followUpPatterns, query) || len(strings.Fields(query)) <= maxFollowUpWords {
			return core.QueryTypeFollowUp
		}
	}

	for _, r := range rules {
		if matchesAny(r.patterns, query) {
			return r.queryType
		}
	}

	return core.QueryTypeGeneral
}

// ExtractSpeaker returns the speaker named by a "what did X say" style question,
// or "" if none. Pronouns and group words are skipped.
func ExtractSpeaker(query string) string {
	for _, pattern := range whatSaidPatterns {
		match := pattern.FindStringSubmatch(query)
		if len(match) < 2 || match[1] == "" {
			continue
		}
		if notNames[strings.ToLower(match[1])] {
			continue
		}
		return match[1]
	}
	return ""
}

// ExtractPerson returns the person an action item question is about ("pending
// for Sarah", "assigned to Mike"), or "" if no name is found.
func ExtractPerson(query string) string {
	for _, match := range personPattern.FindAllStringSubmatch(query, -1) {
		if len(match) < 2 {
			continue
		}
		name := strings.ToLower(match[1])
		if name == "" || notNames[name] || search.IsStopWord(name) {
			continue
		}
		return match[1]
	}
	return ""
}

// ExtractTopic strips interrogatives, auxiliaries and discussion verbs from query
// and returns what is left. It is a heuristic and can return odd fragments, or ""
// for queries that are nothing but filler.
func ExtractTopic(query string) string {
	topic := query
	for _, pattern := range topicStrippers {
		topic = pattern.ReplaceAllString(topic, "")
	}
	return strings.TrimSpace(trailingPunctuation.ReplaceAllString(topic, ""))
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func compile(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}
