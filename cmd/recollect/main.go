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

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/poiesic/recollect"
	"github.com/poiesic/recollect/assistant"
	"github.com/poiesic/recollect/conversation"
	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/ingest"
	"github.com/urfave/cli/v2"
)

const dateLayout = "2006-01-02"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func seedFlag() cli.Flag {
	return &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Seed for choosing among fallback answers (random if unset)",
	}
}

func newApp() *cli.App {
	defaults := ingest.DefaultConfig()
	return &cli.App{
		Name:  "recollect",
		Usage: "Answer questions about meeting transcripts and canvas boards",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import meetings and boards from a JSON corpus file",
				Action: importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the JSON corpus file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to write in each transaction",
						Value: defaults.BatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: defaults.ReportInterval,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for a conflicting batch",
						Value: defaults.MaxRetries,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: defaults.RetryDelay,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List stored meetings and boards",
				Action: listCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.TimestampFlag{
						Name:   "since",
						Usage:  "Only list meetings on or after this date (YYYY-MM-DD)",
						Layout: dateLayout,
					},
					&cli.TimestampFlag{
						Name:   "until",
						Usage:  "Only list meetings before this date (YYYY-MM-DD)",
						Layout: dateLayout,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a single question",
				ArgsUsage: "QUESTION...",
				Action:    askCommand,
				Flags: []cli.Flag{
					dbFlag(),
					seedFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the answer as JSON",
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Ask questions interactively; follow-ups refer to the previous question",
				Action: chatCommand,
				Flags: []cli.Flag{
					dbFlag(),
					seedFlag(),
				},
			},
		},
	}
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	config := &ingest.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if err := config.Validate(); err != nil {
		return err
	}

	corpus, err := ingest.ReadCorpusFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read corpus: %w", err)
	}

	db, err := recollect.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", c.String("db"))
	fmt.Fprintf(c.App.ErrWriter, "Corpus: %s\n", c.String("file"))
	fmt.Fprintln(c.App.ErrWriter)

	result, err := db.NewImporter(config, c.App.ErrWriter).Run(ctx, corpus)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Imported %d meetings and %d boards\n", result.Meetings, result.Boards)
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := recollect.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var meetings []*core.Meeting
	if c.IsSet("since") || c.IsSet("until") {
		start, end := time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		if since := c.Timestamp("since"); since != nil {
			start = *since
		}
		if until := c.Timestamp("until"); until != nil {
			end = *until
		}
		meetings, err = db.MeetingRepository().ListMeetingsByDateRange(ctx, start, end)
	} else {
		meetings, err = db.MeetingRepository().ListMeetings(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list meetings: %w", err)
	}

	boards, err := db.BoardRepository().ListBoards(ctx)
	if err != nil {
		return fmt.Errorf("failed to list boards: %w", err)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Meetings (%d):\n", len(meetings))
	for _, m := range meetings {
		fmt.Fprintf(out, "  %s  %-20s %s (%d segments)\n", m.Date.Format(dateLayout), m.ID, m.Title, len(m.Transcript))
	}
	fmt.Fprintf(out, "Boards (%d):\n", len(boards))
	for _, b := range boards {
		fmt.Fprintf(out, "  %-20s %s (%d nodes)\n", b.ID, b.Name, len(b.Nodes))
	}
	return nil
}

func askCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a question is required")
	}

	db, a, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer db.Close()
	defer a.Release()

	answer, err := db.Ask(context.Background(), a, query, nil)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}
	printAnswer(c.App.Writer, answer)
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	db, a, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer db.Close()
	defer a.Release()

	corpus, err := db.Snapshot(ctx)
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Loaded %d meetings and %d boards. Type \"exit\" to quit.\n",
		len(corpus.Meetings), len(corpus.Boards))

	var history []core.Turn
	scanner := bufio.NewScanner(c.App.Reader)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		switch query {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		answer := a.Answer(query, corpus.Meetings, corpus.Boards, history)
		printAnswer(out, answer)

		now := time.Now()
		history, err = conversation.Append(history,
			conversation.NewUserTurn(query, now),
			conversation.AssistantTurn(answer, now))
		if err != nil {
			return err
		}
	}
}

func openAssistant(c *cli.Context) (*recollect.Database, *assistant.Assistant, error) {
	db, err := recollect.NewDatabase(c.String("db"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	var opts []assistant.Option
	if c.IsSet("seed") {
		seed := c.Uint64("seed")
		opts = append(opts, assistant.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}

	a, err := db.NewAssistant(opts...)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create assistant: %w", err)
	}
	return db, a, nil
}

func printAnswer(out io.Writer, answer core.Answer) {
	fmt.Fprintln(out, answer.Content)

	if len(answer.Sources) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Sources:")
		for _, s := range answer.Sources {
			speaker := ""
			if s.Speaker != "" {
				speaker = s.Speaker + ": "
			}
			fmt.Fprintf(out, "  [%.2f] %s (%s) %s%s\n",
				s.RelevanceScore, s.Title, s.Date.Format(dateLayout), speaker, s.Excerpt)
		}
	}
	if len(answer.CanvasSources) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Canvas:")
		for _, s := range answer.CanvasSources {
			fmt.Fprintf(out, "  [%.2f] %s / %s: %s\n", s.RelevanceScore, s.BoardName, s.NodeType, s.Excerpt)
		}
	}

	fmt.Fprintf(out, "\nConfidence: %.0f%% (%s)\n", answer.Confidence*100, answer.Type)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
