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
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/recollect/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(id), nil
}

// MarshalMeeting serializes a Meeting to bytes.
func MarshalMeeting(meeting *core.Meeting) []byte {
	size := &encoder{sizing: true}
	encodeMeeting(size, meeting)
	e := &encoder{buf: make([]byte, size.n)}
	encodeMeeting(e, meeting)
	return e.buf
}

// UnmarshalMeeting deserializes a Meeting from bytes.
func UnmarshalMeeting(data []byte) (*core.Meeting, error) {
	d := &decoder{data: data}
	meeting := decodeMeeting(d)
	if d.err != nil {
		return nil, fmt.Errorf("%w: meeting: %w", ErrSerializationFailed, d.err)
	}
	return meeting, nil
}

// MarshalBoard serializes a Board to bytes.
func MarshalBoard(board *core.Board) []byte {
	size := &encoder{sizing: true}
	encodeBoard(size, board)
	e := &encoder{buf: make([]byte, size.n)}
	encodeBoard(e, board)
	return e.buf
}

// UnmarshalBoard deserializes a Board from bytes.
func UnmarshalBoard(data []byte) (*core.Board, error) {
	d := &decoder{data: data}
	board := decodeBoard(d)
	if d.err != nil {
		return nil, fmt.Errorf("%w: board: %w", ErrSerializationFailed, d.err)
	}
	return board, nil
}

// Field order is the wire format; append new fields at the end.

func encodeMeeting(e *encoder, m *core.Meeting) {
	e.string(m.ID)
	e.string(m.Title)
	e.time(m.Date)
	e.string(m.Summary)
	e.length(len(m.Transcript))
	for _, segment := range m.Transcript {
		e.string(segment.Speaker)
		e.string(segment.Text)
		e.string(segment.Timestamp)
	}
	e.length(len(m.ActionItems))
	for _, item := range m.ActionItems {
		e.string(item)
	}
}

func decodeMeeting(d *decoder) *core.Meeting {
	m := &core.Meeting{
		ID:      d.string(),
		Title:   d.string(),
		Date:    d.time(),
		Summary: d.string(),
	}
	if n := d.length(); n > 0 {
		m.Transcript = make([]core.TranscriptSegment, n)
		for i := range m.Transcript {
			m.Transcript[i] = core.TranscriptSegment{
				Speaker:   d.string(),
				Text:      d.string(),
				Timestamp: d.string(),
			}
		}
	}
	if n := d.length(); n > 0 {
		m.ActionItems = make([]string, n)
		for i := range m.ActionItems {
			m.ActionItems[i] = d.string()
		}
	}
	return m
}

func encodeBoard(e *encoder, b *core.Board) {
	e.string(b.ID)
	e.string(b.Name)
	e.length(len(b.Nodes))
	for _, node := range b.Nodes {
		e.string(node.ID)
		e.string(node.Type)
		e.string(node.Content)
		e.string(node.CreatedBy)
		e.length(len(node.Comments))
		for _, comment := range node.Comments {
			e.string(comment.ID)
			e.string(comment.UserID)
			e.string(comment.Content)
			e.time(comment.Timestamp)
		}
	}
	e.length(len(b.Transcripts))
	for _, transcript := range b.Transcripts {
		e.string(transcript.ID)
		e.time(transcript.StartTime)
		e.time(transcript.EndTime)
		e.length(len(transcript.Entries))
		for _, entry := range transcript.Entries {
			e.string(entry.Speaker)
			e.string(entry.Text)
			e.int64(entry.TimestampMillis)
		}
	}
}

func decodeBoard(d *decoder) *core.Board {
	b := &core.Board{
		ID:   d.string(),
		Name: d.string(),
	}
	if n := d.length(); n > 0 {
		b.Nodes = make([]core.VisualNode, n)
		for i := range b.Nodes {
			node := &b.Nodes[i]
			node.ID = d.string()
			node.Type = d.string()
			node.Content = d.string()
			node.CreatedBy = d.string()
			if c := d.length(); c > 0 {
				node.Comments = make([]core.Comment, c)
				for j := range node.Comments {
					node.Comments[j] = core.Comment{
						ID:        d.string(),
						UserID:    d.string(),
						Content:   d.string(),
						Timestamp: d.time(),
					}
				}
			}
		}
	}
	if n := d.length(); n > 0 {
		b.Transcripts = make([]core.Transcript, n)
		for i := range b.Transcripts {
			transcript := &b.Transcripts[i]
			transcript.ID = d.string()
			transcript.StartTime = d.time()
			transcript.EndTime = d.time()
			if c := d.length(); c > 0 {
				transcript.Entries = make([]core.TranscriptEntry, c)
				for j := range transcript.Entries {
					transcript.Entries[j] = core.TranscriptEntry{
						Speaker:         d.string(),
						Text:            d.string(),
						TimestampMillis: d.int64(),
					}
				}
			}
		}
	}
	return b
}

// encoder runs twice per value: once to size the buffer, once to fill it.
type encoder struct {
	buf    []byte
	n      int
	sizing bool
}

func (e *encoder) string(s string) {
	if e.sizing {
		e.n += ord.String.Size(s)
		return
	}
	e.n += ord.String.Marshal(s, e.buf[e.n:])
}

func (e *encoder) int64(v int64) {
	if e.sizing {
		e.n += varint.Int64.Size(v)
		return
	}
	e.n += varint.Int64.Marshal(v, e.buf[e.n:])
}

func (e *encoder) length(n int) {
	e.int64(int64(n))
}

// Zero times stay zero; everything else is stored as UTC microseconds.
func (e *encoder) time(t time.Time) {
	e.int64(t.UnixMicro())
}

// decoder stops at the first error; later reads return zero values.
type decoder struct {
	data []byte
	n    int
	err  error
}

func (d *decoder) string() string {
	if d.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.data[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) int64() int64 {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(d.data[d.n:])
	d.n += n
	d.err = err
	return v
}

// length reads a collection length. Every element occupies at least one byte,
// so a length beyond the remaining input means the data is corrupt.
func (d *decoder) length() int {
	v := d.int64()
	if d.err != nil {
		return 0
	}
	if v < 0 || v > int64(len(d.data)-d.n) {
		d.err = ErrTruncatedData
		return 0
	}
	return int(v)
}

func (d *decoder) time() time.Time {
	v := d.int64()
	if d.err != nil {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}
