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
	"encoding/binary"
	"time"

	"github.com/poiesic/recollect/core"
)

const (
	meetingRecordPrefix = "meetrec"
	meetingDatePrefix   = "meetdat"
	boardRecordPrefix   = "boardrec"
)

// makeRecordKey generates a key for a record by the content hash of its id.
// Format: prefix:id
func makeRecordKey(prefix string, id core.ID) []byte {
	buf := make([]byte, len(prefix)+1+8)
	offset := copy(buf, prefix)
	buf[offset] = ':'
	binary.BigEndian.PutUint64(buf[offset+1:], uint64(id))
	return buf
}

func makeMeetingKey(id string) []byte {
	return makeRecordKey(meetingRecordPrefix, core.IDFromContent(id))
}

func makeBoardKey(id string) []byte {
	return makeRecordKey(boardRecordPrefix, core.IDFromContent(id))
}

// makeMeetingDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeMeetingDateKey(date time.Time, id core.ID) []byte {
	buf := makePartialMeetingDateKey(date)
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// makePartialMeetingDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialMeetingDateKey(date time.Time) []byte {
	buf := make([]byte, 0, len(meetingDatePrefix)+1+16)
	buf = append(buf, meetingDatePrefix...)
	buf = append(buf, ':')
	return binary.BigEndian.AppendUint64(buf, sortableMicros(date))
}

// sortableMicros flips the sign bit so that dates before 1970 sort first
// under byte-wise comparison.
func sortableMicros(t time.Time) uint64 {
	return uint64(t.UnixMicro()) ^ (1 << 63)
}

func prefixOf(prefix string) []byte {
	return []byte(prefix + ":")
}
