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

// Package storage provides the corpus store abstraction for recollect.
//
// The answering engine never touches storage: it is handed a snapshot of
// meetings and boards. This package is the caller side that persists that
// corpus between runs. Repository interfaces decouple the store from the
// BadgerDB implementation in storage/badger.
//
// # Architecture
//
//   - MeetingRepository: meetings, indexed by content hash of their id and by date
//   - BoardRepository: canvas boards, indexed by content hash of their id
//
// Values are encoded with mus-go (see MarshalMeeting and MarshalBoard).
// Timestamps are stored as Unix microseconds in UTC.
//
// # Usage
//
//	meetings, boards, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Errors
//
// Missing records yield ErrNotFound. Write transactions that lose a race with
// another writer yield ErrConflict, which callers may retry.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
