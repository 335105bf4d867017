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
	"regexp"
	"strings"
)

// minTokenLength is the shortest token kept by Tokenize.
const minTokenLength = 3

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// Stop words dropped by Tokenize. Tokens shorter than minTokenLength are dropped
// anyway, so only longer function words are listed.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true, "not": true,
	"you": true, "all": true, "any": true, "can": true, "had": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "has": true, "have": true,
	"been": true, "were": true, "they": true, "this": true, "that": true, "with": true,
	"from": true, "what": true, "when": true, "where": true, "which": true, "who": true,
	"whom": true, "why": true, "how": true, "will": true, "would": true, "could": true,
	"should": true, "did": true, "does": true, "doing": true, "about": true, "into": true,
	"over": true, "then": true, "than": true, "there": true, "their": true, "them": true,
	"these": true, "those": true, "some": true, "such": true, "only": true, "own": true,
	"same": true, "very": true, "just": true, "also": true, "more": true, "most": true,
	"other": true, "each": true, "few": true, "both": true, "its": true, "his": true,
	"she": true, "him": true, "being": true, "having": true, "because": true, "while": true,
	"until": true, "again": true, "once": true, "here": true, "between": true, "through": true,
	"during": true, "before": true, "after": true, "above": true, "below": true, "off": true,
	"too": true, "nor": true, "your": true, "yours": true, "ours": true, "theirs": true,
	"myself": true, "yourself": true, "itself": true, "themselves": true, "may": true,
	"might": true, "must": true, "shall": true, "upon": true, "whether": true, "within": true,
	"without": true, "tell": true, "let": true, "get": true, "got": true,
}

// IsStopWord reports whether the lowercase word is in the stop-word set.
func IsStopWord(word string) bool {
	return stopWords[word]
}

// Tokenize lowercases text, replaces punctuation with spaces and splits on
// whitespace, keeping tokens of at least three characters that are not stop words.
// Order and duplicates are preserved.
func Tokenize(text string) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")
	words := strings.Fields(cleaned)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if len(word) < minTokenLength || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}
