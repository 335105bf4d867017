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

package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCorpus = `{
  "meetings": [
    {
      "id": "m1",
      "title": "Budget Review",
      "date": "2024-03-04T15:00:00Z",
      "transcript": [
        {"speaker": "John", "text": "The budget needs another pass.", "timestamp": "00:01"}
      ],
      "summary": "Budget discussion.",
      "actionItems": ["Sarah will send the revised budget"],
      "recordedBy": "ignored"
    }
  ],
  "boards": [
    {
      "id": "b1",
      "name": "Planning",
      "nodes": [
        {"id": "n1", "type": "risk", "content": "Vendor delay", "createdBy": "Maria",
         "comments": [{"id": "c1", "userId": "Alex", "content": "Follow up", "timestamp": "2024-03-05T10:00:00Z"}]}
      ],
      "transcripts": [
        {"id": "t1", "startTime": "2024-03-05T09:00:00Z", "endTime": "2024-03-05T09:30:00Z",
         "entries": [{"speaker": "Priya", "text": "Timeline slips a week", "timestamp": 1709629200000}]}
      ]
    }
  ]
}`

func TestReadCorpus(t *testing.T) {
	corpus, err := ReadCorpus(strings.NewReader(sampleCorpus))
	require.NoError(t, err)

	require.Len(t, corpus.Meetings, 1)
	m := corpus.Meetings[0]
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "Budget Review", m.Title)
	assert.True(t, m.Date.Equal(time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)))
	require.Len(t, m.Transcript, 1)
	assert.Equal(t, "John", m.Transcript[0].Speaker)
	assert.Equal(t, "00:01", m.Transcript[0].Timestamp)
	assert.Equal(t, []string{"Sarah will send the revised budget"}, m.ActionItems)

	require.Len(t, corpus.Boards, 1)
	b := corpus.Boards[0]
	assert.Equal(t, "Planning", b.Name)
	require.Len(t, b.Nodes, 1)
	assert.Equal(t, "risk", b.Nodes[0].Type)
	require.Len(t, b.Nodes[0].Comments, 1)
	assert.Equal(t, "Alex", b.Nodes[0].Comments[0].UserID)
	require.Len(t, b.Transcripts, 1)
	assert.Equal(t, int64(1709629200000), b.Transcripts[0].Entries[0].TimestampMillis)
}

func TestReadCorpus_Invalid(t *testing.T) {
	_, err := ReadCorpus(strings.NewReader(`{"meetings": [`))
	assert.ErrorIs(t, err, ErrInvalidCorpus)

	_, err = ReadCorpus(strings.NewReader(`{"meetings": [{"date": "yesterday"}]}`))
	assert.ErrorIs(t, err, ErrInvalidCorpus)
}

func TestReadCorpusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCorpus), 0o600))

	corpus, err := ReadCorpusFile(path)
	require.NoError(t, err)
	assert.Len(t, corpus.Meetings, 1)

	_, err = ReadCorpusFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
