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

// Package ingest loads a meeting and board corpus into the store.
//
// A corpus is a JSON document with "meetings" and "boards" arrays (see
// core.Corpus). The Importer validates every item before writing anything,
// writes in batches, and retries a batch with exponential backoff when the
// store reports a transaction conflict.
//
// Example usage:
//
//	corpus, err := ingest.ReadCorpusFile("corpus.json")
//	if err != nil {
//	    return err
//	}
//	importer := ingest.NewImporter(meetings, boards, ingest.DefaultConfig(), os.Stderr)
//	result, err := importer.Run(ctx, corpus)
package ingest
