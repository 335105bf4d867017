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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/storage/badger"
)

func testCorpus(meetings, boards int) *core.Corpus {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	corpus := &core.Corpus{}
	for i := range meetings {
		corpus.Meetings = append(corpus.Meetings, core.Meeting{
			ID:    fmt.Sprintf("meeting-%d", i),
			Title: fmt.Sprintf("Standup %d", i),
			Date:  base.AddDate(0, 0, i),
			Transcript: []core.TranscriptSegment{
				{Speaker: "John", Text: "Shipping the release today"},
			},
		})
	}
	for i := range boards {
		corpus.Boards = append(corpus.Boards, core.Board{
			ID:   fmt.Sprintf("board-%d", i),
			Name: fmt.Sprintf("Board %d", i),
			Nodes: []core.VisualNode{
				{ID: "n1", Type: "sticky", Content: "Release checklist"},
			},
		})
	}
	return corpus
}

func TestImporter_Run(t *testing.T) {
	meetings, boards, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	cfg := DefaultConfig()
	cfg.BatchSize = 3
	cfg.ReportInterval = 2

	var progress bytes.Buffer
	importer := NewImporter(meetings, boards, cfg, &progress)

	result, err := importer.Run(context.Background(), testCorpus(7, 2))
	require.NoError(t, err)
	assert.Equal(t, 7, result.Meetings)
	assert.Equal(t, 2, result.Boards)

	ctx := context.Background()
	stored, err := meetings.ListMeetings(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 7)
	assert.Equal(t, "meeting-0", stored[0].ID)
	assert.Equal(t, "meeting-6", stored[6].ID)

	storedBoards, err := boards.ListBoards(ctx)
	require.NoError(t, err)
	assert.Len(t, storedBoards, 2)

	assert.Contains(t, progress.String(), "Importing 7 meetings and 2 boards")
	assert.Contains(t, progress.String(), "Imported: 9/9")
}

func TestImporter_WithLogger(t *testing.T) {
	meetings, boards, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	_, err = NewImporter(meetings, boards, nil, nil, WithLogger(logger)).Run(context.Background(), testCorpus(2, 1))
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "import complete")
	assert.Contains(t, logs.String(), "component=ingest")
	assert.Contains(t, logs.String(), "meetings=2")
}

func TestImporter_RunIsIdempotent(t *testing.T) {
	meetings, boards, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	importer := NewImporter(meetings, boards, nil, nil)
	corpus := testCorpus(3, 1)

	_, err = importer.Run(context.Background(), corpus)
	require.NoError(t, err)
	_, err = importer.Run(context.Background(), corpus)
	require.NoError(t, err)

	stored, err := meetings.ListMeetings(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestImporter_InvalidItemAborts(t *testing.T) {
	meetings, boards, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	corpus := testCorpus(3, 0)
	corpus.Meetings[2].Title = ""

	importer := NewImporter(meetings, boards, nil, nil)
	_, err = importer.Run(context.Background(), corpus)
	require.ErrorIs(t, err, core.ErrInvalidMeeting)
	assert.ErrorIs(t, err, core.ErrEmptyTitle)
	assert.Contains(t, err.Error(), "meeting-2")

	stored, err := meetings.ListMeetings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored, "nothing should be written")
}

func TestImporter_InvalidBoard(t *testing.T) {
	meetings, boards, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	corpus := testCorpus(0, 1)
	corpus.Boards[0].Nodes[0].ID = ""

	_, err = NewImporter(meetings, boards, nil, nil).Run(context.Background(), corpus)
	assert.ErrorIs(t, err, core.ErrInvalidBoard)
}

func TestImporter_EmptyCorpus(t *testing.T) {
	meetings, boards, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	var progress bytes.Buffer
	result, err := NewImporter(meetings, boards, nil, &progress).Run(context.Background(), &core.Corpus{})
	require.NoError(t, err)
	assert.Equal(t, &Result{}, result)
	assert.Contains(t, progress.String(), "Nothing to import")
}

func TestImporter_NilCorpus(t *testing.T) {
	meetings, boards, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewImporter(meetings, boards, nil, nil).Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidCorpus)
}

func TestImporter_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatchSize = 0

	_, err := NewImporter(nil, nil, cfg, nil).Run(context.Background(), testCorpus(1, 0))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestImporter_CanceledContext(t *testing.T) {
	meetings, boards, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewImporter(meetings, boards, nil, nil).Run(ctx, testCorpus(2, 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatches(t *testing.T) {
	got := batches([]int{1, 2, 3, 4, 5}, 2)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, got)
	assert.Empty(t, batches([]int{}, 3))
}
