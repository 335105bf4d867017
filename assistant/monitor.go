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

package assistant

import (
	"github.com/poiesic/recollect/classify"
	"github.com/poiesic/recollect/core"
)

// Monitor provides hooks to observe the answering pipeline.
// Implement this interface to trace intermediate results of a question.
type Monitor interface {
	Start(query string)
	AfterClassify(query classify.Query)
	AfterMeetingSearch(results []core.MeetingResult)
	AfterBoardSearch(results []core.CanvasResult)
	BeforeSynthesis(effectiveQuery string, queryType core.QueryType)
	Finish(answer core.Answer)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterClassify(_ classify.Query)             {}
func (n *noopMonitor) AfterMeetingSearch(_ []core.MeetingResult)  {}
func (n *noopMonitor) AfterBoardSearch(_ []core.CanvasResult)     {}
func (n *noopMonitor) BeforeSynthesis(_ string, _ core.QueryType) {}
func (n *noopMonitor) Finish(_ core.Answer)                       {}
