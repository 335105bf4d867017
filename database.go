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

package recollect

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/recollect/assistant"
	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/ingest"
	"github.com/poiesic/recollect/storage"
	"github.com/poiesic/recollect/storage/badger"
)

// Database owns the corpus store and hands out the components that read and write it.
type Database struct {
	backend     *badger.Backend
	meetingRepo storage.MeetingRepository
	boardRepo   storage.BoardRepository
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions) error

type databaseOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used by the database and the components it creates.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewDatabase opens (or creates) the store at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	return open(filePath, false, opts)
}

// NewMemoryDatabase opens a store that lives only as long as the process.
func NewMemoryDatabase(opts ...DatabaseOption) (*Database, error) {
	return open("", true, opts)
}

func open(filePath string, inMemory bool, opts []DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(filePath, inMemory, badger.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	return &Database{
		backend:     backend,
		meetingRepo: badger.NewMeetingRepository(backend),
		boardRepo:   badger.NewBoardRepository(backend),
		logger:      options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.boardRepo.Close(); err != nil {
		db.logger.Error("error closing board repository", "err", err)
		return err
	}
	if err := db.meetingRepo.Close(); err != nil {
		db.logger.Error("error closing meeting repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) MeetingRepository() storage.MeetingRepository {
	return db.meetingRepo
}

func (db *Database) BoardRepository() storage.BoardRepository {
	return db.boardRepo
}

// NewImporter returns an importer writing into this database and logging
// through the database logger. A nil config uses ingest.DefaultConfig().
func (db *Database) NewImporter(config *ingest.Config, progress io.Writer) *ingest.Importer {
	return ingest.NewImporter(db.meetingRepo, db.boardRepo, config, progress, ingest.WithLogger(db.logger))
}

// NewAssistant creates an assistant that logs through the database logger
// unless opts supply another one. Callers must Release it.
func (db *Database) NewAssistant(opts ...assistant.Option) (*assistant.Assistant, error) {
	return assistant.New(append([]assistant.Option{assistant.WithLogger(db.logger)}, opts...)...)
}

// Snapshot loads every stored meeting (ascending by date) and board.
func (db *Database) Snapshot(ctx context.Context) (*core.Corpus, error) {
	meetings, err := db.meetingRepo.ListMeetings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	boards, err := db.boardRepo.ListBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	corpus := &core.Corpus{
		Meetings: make([]core.Meeting, 0, len(meetings)),
		Boards:   make([]core.Board, 0, len(boards)),
	}
	for _, m := range meetings {
		corpus.Meetings = append(corpus.Meetings, *m)
	}
	for _, b := range boards {
		corpus.Boards = append(corpus.Boards, *b)
	}
	db.logger.Debug("loaded snapshot", "meetings", len(corpus.Meetings), "boards", len(corpus.Boards))
	return corpus, nil
}

// Ask answers query against the current contents of the database.
func (db *Database) Ask(ctx context.Context, a *assistant.Assistant, query string, history []core.Turn) (core.Answer, error) {
	corpus, err := db.Snapshot(ctx)
	if err != nil {
		return core.Answer{}, err
	}
	return a.Answer(query, corpus.Meetings, corpus.Boards, history), nil
}
