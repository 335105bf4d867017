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

// Package conversation reads and extends the ordered turn history that the
// caller keeps between questions.
//
// The engine holds no conversation state of its own. Follow-up questions are
// resolved by literal concatenation with the most recent user turn; there is no
// entity or topic memory beyond that.
package conversation

import (
	"strings"
	"time"

	"github.com/poiesic/recollect/core"
)

// LastUserContent returns the content of the most recent user turn.
func LastUserContent(history []core.Turn) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == core.RoleUser {
			return history[i].Content, true
		}
	}
	return "", false
}

// ResolveFollowUp rewrites a follow-up query into a standalone one by prefixing
// the previous user question. With no previous user turn the query is returned
// unchanged.
func ResolveFollowUp(query string, history []core.Turn) string {
	previous, ok := LastUserContent(history)
	if !ok || strings.TrimSpace(previous) == "" {
		return query
	}
	return previous + " " + query
}

// EffectiveQuery is the query the pipeline searches and answers with: the
// follow-up rewrite for follow-ups, the query itself otherwise.
func EffectiveQuery(query string, queryType core.QueryType, history []core.Turn) string {
	if queryType != core.QueryTypeFollowUp {
		return query
	}
	return ResolveFollowUp(query, history)
}

// NewUserTurn records a question asked at now.
func NewUserTurn(content string, now time.Time) core.Turn {
	return core.Turn{
		Role:      core.RoleUser,
		Content:   content,
		Timestamp: now,
	}
}

// AssistantTurn records answer as an assistant turn.
func AssistantTurn(answer core.Answer, now time.Time) core.Turn {
	return core.Turn{
		Role:          core.RoleAssistant,
		Content:       answer.Content,
		Sources:       answer.Sources,
		CanvasSources: answer.CanvasSources,
		Confidence:    answer.Confidence,
		QueryType:     answer.Type,
		Timestamp:     now,
	}
}

// Append adds turns to the end of history after validating them. history is not
// modified; the returned slice is a copy.
func Append(history []core.Turn, turns ...core.Turn) ([]core.Turn, error) {
	for i := range turns {
		if err := core.ValidateTurn(&turns[i]); err != nil {
			return nil, err
		}
	}
	out := make([]core.Turn, 0, len(history)+len(turns))
	out = append(out, history...)
	return append(out, turns...), nil
}
