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

package core

import "fmt"

// ValidateMeeting validates a Meeting before it is stored.
//
// Validation rules:
//   - ID and Title must not be empty
//   - Date must be set
//   - every transcript segment must have text
//
// NOT validated:
//   - Summary and ActionItems (optional)
//   - segment Speaker (unattributed segments are allowed)
func ValidateMeeting(meeting *Meeting) error {
	if meeting == nil {
		return fmt.Errorf("%w: meeting is nil", ErrInvalidMeeting)
	}

	if meeting.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMeeting, ErrEmptyID)
	}

	if meeting.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMeeting, ErrEmptyTitle)
	}

	if meeting.Date.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidMeeting, ErrMissingDate)
	}

	for i, segment := range meeting.Transcript {
		if segment.Text == "" {
			return fmt.Errorf("%w: segment %d: %w", ErrInvalidMeeting, i, ErrEmptyContent)
		}
	}

	return nil
}

// ValidateBoard validates a Board before it is stored.
//
// Validation rules:
//   - ID must not be empty
//   - every node must have an ID
//
// Empty node content is allowed; search skips it.
func ValidateBoard(board *Board) error {
	if board == nil {
		return fmt.Errorf("%w: board is nil", ErrInvalidBoard)
	}

	if board.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBoard, ErrEmptyID)
	}

	for i, node := range board.Nodes {
		if node.ID == "" {
			return fmt.Errorf("%w: node %d: %w", ErrInvalidBoard, i, ErrEmptyID)
		}
	}

	return nil
}

// ValidateQueryType validates that a QueryType has a known value.
func ValidateQueryType(t QueryType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: value %q", ErrInvalidQueryType, t)
	}
	return nil
}

// ValidateTurn validates a conversation Turn loaded from outside the process.
func ValidateTurn(turn *Turn) error {
	if turn.Role != RoleUser && turn.Role != RoleAssistant {
		return fmt.Errorf("%w: value %q", ErrInvalidRole, turn.Role)
	}
	if turn.QueryType != "" {
		return ValidateQueryType(turn.QueryType)
	}
	return nil
}
