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

package badger

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/storage"
)

// MeetingRepository implements storage.MeetingRepository for BadgerDB.
type MeetingRepository struct {
	backend *Backend
}

var _ storage.MeetingRepository = (*MeetingRepository)(nil)

// NewMeetingRepository creates a new MeetingRepository.
func NewMeetingRepository(backend *Backend) *MeetingRepository {
	return &MeetingRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns the database.
func (r *MeetingRepository) Close() error {
	return nil
}

// PutMeetings inserts or replaces meetings in a single transaction.
func (r *MeetingRepository) PutMeetings(ctx context.Context, meetings ...*core.Meeting) error {
	for i, meeting := range meetings {
		if err := core.ValidateMeeting(meeting); err != nil {
			return fmt.Errorf("meeting %d: %w", i, err)
		}
	}

	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, meeting := range meetings {
			id := core.IDFromContent(meeting.ID)
			key := makeMeetingKey(meeting.ID)

			old, err := readMeeting(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				if old.ID != meeting.ID {
					return fmt.Errorf("%w: meeting %q collides with %q", storage.ErrDuplicateKey, meeting.ID, old.ID)
				}
				if !old.Date.Equal(meeting.Date) {
					if err := tx.Delete(makeMeetingDateKey(old.Date, id)); err != nil {
						return err
					}
				}
			}

			if err := tx.Set(key, storage.MarshalMeeting(meeting)); err != nil {
				return err
			}
			if err := tx.Set(makeMeetingDateKey(meeting.Date, id), storage.MarshalID(id)); err != nil {
				return err
			}
		}
		return commit(tx)
	}, true)
}

// GetMeeting retrieves a single meeting by ID.
func (r *MeetingRepository) GetMeeting(ctx context.Context, id string) (*core.Meeting, error) {
	var result *core.Meeting
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readMeeting(tx, makeMeetingKey(id))
		if err != nil {
			return err
		}
		if result == nil || result.ID != id {
			return fmt.Errorf("%w: meeting %q", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListMeetings returns every meeting ordered by date ascending.
func (r *MeetingRepository) ListMeetings(ctx context.Context) ([]*core.Meeting, error) {
	return r.scanDateIndex(ctx, nil)
}

// ListMeetingsByDateRange returns meetings where start <= Date < end.
func (r *MeetingRepository) ListMeetingsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Meeting, error) {
	if !start.Before(end) {
		return nil, nil
	}
	return r.scanDateIndex(ctx, &dateRange{
		start: makePartialMeetingDateKey(start),
		end:   makePartialMeetingDateKey(end),
	})
}

type dateRange struct {
	start, end []byte
}

func (r *MeetingRepository) scanDateIndex(ctx context.Context, span *dateRange) ([]*core.Meeting, error) {
	var results []*core.Meeting
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixOf(meetingDatePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		seek := opts.Prefix
		if span != nil {
			seek = span.start
		}
		for iter.Seek(seek); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if span != nil && bytes.Compare(key, span.end) >= 0 {
				break
			}

			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			meeting, err := readMeeting(tx, makeRecordKey(meetingRecordPrefix, id))
			if err != nil {
				return err
			}
			if meeting != nil {
				results = append(results, meeting)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteMeetings removes meetings and their date index entries.
func (r *MeetingRepository) DeleteMeetings(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeMeetingKey(id)
			meeting, err := readMeeting(tx, key)
			if err != nil {
				return err
			}
			if meeting == nil || meeting.ID != id {
				return fmt.Errorf("%w: meeting %q", storage.ErrNotFound, id)
			}

			if err := tx.Delete(makeMeetingDateKey(meeting.Date, core.IDFromContent(id))); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return commit(tx)
	}, true)
}

func readMeeting(tx *badger.Txn, key []byte) (*core.Meeting, error) {
	return readValue(tx, key, storage.UnmarshalMeeting)
}
