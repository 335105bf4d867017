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
	"strings"

	"github.com/poiesic/recollect/core"
)

// Signal weights. Changing any of these changes ranking order.
const (
	exactPhraseBonus    = 0.3
	overlapWeight       = 0.3
	similarityWeight    = 0.3
	speakerBonus        = 0.2
	termFrequencyWeight = 0.2
)

// Score returns the relevance of text to query in [0,1].
//
// speaker is the author of text, or "" when unknown. The speaker bonus only applies
// to QueryTypeWhatSaid queries that mention the speaker by name. Score is 0 when
// either query or text has no tokens.
func Score(query, text, speaker string, queryType core.QueryType) float64 {
	queryTokens := Tokenize(query)
	textTokens := Tokenize(text)
	if len(queryTokens) == 0 || len(textTokens) == 0 {
		return 0
	}

	var score float64
	if strings.Contains(strings.ToLower(text), strings.ToLower(query)) {
		score += exactPhraseBonus
	}

	score += overlapWeight * tokenOverlap(queryTokens, textTokens)
	score += similarityWeight * jaccard(queryTokens, textTokens)

	if queryType == core.QueryTypeWhatSaid && speakerMentioned(speaker, query) {
		score += speakerBonus
	}

	score += termFrequencyWeight * termFrequency(queryTokens, textTokens)

	return min(1, score)
}

// tokenOverlap is the fraction of query tokens related to some text token, where
// two tokens are related if either contains the other. Short tokens can over-match.
func tokenOverlap(queryTokens, textTokens []string) float64 {
	matched := 0
	for _, qt := range queryTokens {
		for _, tt := range textTokens {
			if strings.Contains(tt, qt) || strings.Contains(qt, tt) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

// jaccard is |Q ∩ T| / |Q ∪ T| over the token sets.
func jaccard(queryTokens, textTokens []string) float64 {
	querySet := tokenSet(queryTokens)
	textSet := tokenSet(textTokens)

	intersection := 0
	for token := range querySet {
		if textSet[token] {
			intersection++
		}
	}
	union := len(querySet) + len(textSet) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// termFrequency sums, for each query token present in the text, its share of
// the text's tokens.
func termFrequency(queryTokens, textTokens []string) float64 {
	counts := make(map[string]int, len(textTokens))
	for _, token := range textTokens {
		counts[token]++
	}

	var tf float64
	total := float64(len(textTokens))
	for _, qt := range queryTokens {
		if n := counts[qt]; n > 0 {
			tf += float64(n) / total
		}
	}
	return tf
}

func speakerMentioned(speaker, query string) bool {
	if speaker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(query), strings.ToLower(speaker))
}
