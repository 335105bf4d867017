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

package storage

import (
	"context"
	"time"

	"github.com/poiesic/recollect/core"
)

// Repository provides operations shared by all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	// The underlying backend is closed separately.
	Close() error
}

// MeetingRepository provides operations for managing meetings.
type MeetingRepository interface {
	Repository

	// PutMeetings inserts or replaces meetings, keyed by Meeting.ID.
	// Meetings are validated before anything is written.
	PutMeetings(ctx context.Context, meetings ...*core.Meeting) error

	// GetMeeting retrieves a single meeting by ID.
	// Returns ErrNotFound if the meeting doesn't exist.
	GetMeeting(ctx context.Context, id string) (*core.Meeting, error)

	// ListMeetings returns every meeting ordered by date ascending.
	ListMeetings(ctx context.Context) ([]*core.Meeting, error)

	// ListMeetingsByDateRange returns meetings where start <= Date < end,
	// ordered by date ascending.
	ListMeetingsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Meeting, error)

	// DeleteMeetings removes meetings by ID.
	// Returns ErrNotFound if any meeting doesn't exist.
	DeleteMeetings(ctx context.Context, ids ...string) error
}

// BoardRepository provides operations for managing canvas boards.
type BoardRepository interface {
	Repository

	// PutBoards inserts or replaces boards, keyed by Board.ID.
	PutBoards(ctx context.Context, boards ...*core.Board) error

	// GetBoard retrieves a single board by ID.
	// Returns ErrNotFound if the board doesn't exist.
	GetBoard(ctx context.Context, id string) (*core.Board, error)

	// ListBoards returns every board in key order.
	ListBoards(ctx context.Context) ([]*core.Board, error)

	// DeleteBoards removes boards by ID.
	// Returns ErrNotFound if any board doesn't exist.
	DeleteBoards(ctx context.Context, ids ...string) error
}
