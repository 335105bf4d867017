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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "  \t\n ", []string{}},
		{"stop words only", "The and for what about", []string{}},
		{"punctuation becomes whitespace", "Hello, World! It's a test_case of 10% growth",
			[]string{"hello", "world", "test_case", "growth"}},
		{"duplicates preserved", "budget Budget BUDGET", []string{"budget", "budget", "budget"}},
		{"short tokens dropped", "Q3 is up by 5 pts", []string{"pts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestTokenize_Properties(t *testing.T) {
	wordPattern := regexp.MustCompile(`^[a-z0-9_]+$`)
	inputs := []string{
		"What did John say about the budget?",
		"ACTION ITEMS: Sarah -> deck; Mike -> Q3 forecast!!",
		"We're <not> sure about the vendor's timeline...",
		"naïve café résumé",
		"1234 56 7",
	}

	for _, input := range inputs {
		for _, token := range Tokenize(input) {
			assert.Regexp(t, wordPattern, token, "input %q", input)
			assert.Greater(t, len(token), 2, "input %q", input)
			assert.False(t, IsStopWord(token), "input %q produced stop word %q", input, token)
		}
	}
}
