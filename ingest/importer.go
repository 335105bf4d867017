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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/storage"
)

// Importer writes a corpus into meeting and board repositories.
type Importer struct {
	meetings storage.MeetingRepository
	boards   storage.BoardRepository
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Result counts what an import wrote.
type Result struct {
	Meetings int
	Boards   int
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the importer's logger. A nil logger uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) {
		if logger == nil {
			logger = slog.Default()
		}
		im.logger = logger.With("component", "ingest")
	}
}

// NewImporter creates a new importer.
// progress: where to write progress output (typically os.Stderr); nil discards it
func NewImporter(meetings storage.MeetingRepository, boards storage.BoardRepository, config *Config, progress io.Writer, opts ...Option) *Importer {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	im := &Importer{
		meetings: meetings,
		boards:   boards,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Run validates every item in corpus and then writes it in batches.
// An invalid item aborts the import before anything is written.
func (im *Importer) Run(ctx context.Context, corpus *core.Corpus) (*Result, error) {
	if err := im.config.Validate(); err != nil {
		return nil, err
	}
	if err := validateCorpus(corpus); err != nil {
		im.logger.Warn("rejected corpus", "err", err)
		return nil, err
	}

	total := len(corpus.Meetings) + len(corpus.Boards)
	if total == 0 {
		fmt.Fprintf(im.progress, "Nothing to import (0 items)\n")
		return &Result{}, nil
	}

	fmt.Fprintf(im.progress, "Importing %d meetings and %d boards (batch size: %d)\n",
		len(corpus.Meetings), len(corpus.Boards), im.config.BatchSize)

	tracker := NewProgressTracker(im.progress, "Imported", total, im.config.ReportInterval)
	tracker.Start()

	result := &Result{}
	for _, batch := range batches(pointers(corpus.Meetings), im.config.BatchSize) {
		err := im.retry(ctx, func() error {
			return im.meetings.PutMeetings(ctx, batch...)
		})
		if err != nil {
			return result, fmt.Errorf("failed to write meetings: %w", err)
		}
		result.Meetings += len(batch)
		tracker.Increment(len(batch))
	}

	for _, batch := range batches(pointers(corpus.Boards), im.config.BatchSize) {
		err := im.retry(ctx, func() error {
			return im.boards.PutBoards(ctx, batch...)
		})
		if err != nil {
			return result, fmt.Errorf("failed to write boards: %w", err)
		}
		result.Boards += len(batch)
		tracker.Increment(len(batch))
	}

	tracker.Finish()
	im.logger.Info("import complete",
		"meetings", result.Meetings,
		"boards", result.Boards,
		"elapsed", tracker.Elapsed())
	return result, nil
}

func (im *Importer) retry(ctx context.Context, operation func() error) error {
	return RetryWithBackoff(ctx, operation, im.config.MaxRetries, im.config.RetryDelay, isConflict)
}

func isConflict(err error) bool {
	return errors.Is(err, storage.ErrConflict)
}

func validateCorpus(corpus *core.Corpus) error {
	if corpus == nil {
		return fmt.Errorf("%w: corpus is nil", ErrInvalidCorpus)
	}
	for i := range corpus.Meetings {
		if err := core.ValidateMeeting(&corpus.Meetings[i]); err != nil {
			return fmt.Errorf("meeting %d (%q): %w", i, corpus.Meetings[i].ID, err)
		}
	}
	for i := range corpus.Boards {
		if err := core.ValidateBoard(&corpus.Boards[i]); err != nil {
			return fmt.Errorf("board %d (%q): %w", i, corpus.Boards[i].ID, err)
		}
	}
	return nil
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

// batches splits items into consecutive chunks of at most size.
func batches[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		out = append(out, items[start:min(start+size, len(items))])
	}
	return out
}
