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

// Package synth assembles answers from ranked search results.
//
// Each query type has its own strategy: quoting a speaker, dating mentions,
// listing action items, summarizing, surfacing concerns, or a general excerpt
// listing that fuses canvas board hits with meeting hits. Answers are plain
// templated text. Markdown-like markers (**bold** and "• " bullets) are part of
// the output contract and are rendered by the caller.
//
// When nothing relevant was found the synthesizer returns one of a fixed set of
// "I don't know" answers with zero confidence. The choice among them is random;
// inject a seeded source with WithRand for reproducible output.
package synth
