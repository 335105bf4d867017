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

import "errors"

// Domain validation errors
var (
	// ErrInvalidMeeting indicates a Meeting failed validation.
	ErrInvalidMeeting = errors.New("invalid meeting")

	// ErrInvalidBoard indicates a Board failed validation.
	ErrInvalidBoard = errors.New("invalid board")

	// ErrEmptyID indicates a required id field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyTitle indicates the meeting Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrMissingDate indicates the meeting Date is the zero time.
	ErrMissingDate = errors.New("date is required")

	// ErrEmptyContent indicates a transcript segment has no text.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidQueryType indicates an unknown QueryType value.
	ErrInvalidQueryType = errors.New("invalid query type")

	// ErrInvalidRole indicates an unknown conversation Role.
	ErrInvalidRole = errors.New("invalid role")
)
