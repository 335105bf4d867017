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

// Package search scores and ranks meeting transcripts and canvas boards against
// a natural-language query.
//
// Relevance is a heuristic in [0,1] that blends five signals:
//   - an exact phrase bonus when the text contains the query verbatim
//   - token overlap, where tokens match if either is a substring of the other
//   - Jaccard similarity over the token sets
//   - a speaker bonus for "what did X say" questions naming the segment's speaker
//   - a term-frequency signal for query tokens present in the text
//
// The Searcher fans scoring out across meetings and boards on a bounded worker
// pool and ranks the pooled results with a stable sort, so identical inputs
// always produce identical output.
package search
