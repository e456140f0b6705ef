// Package tasks orchestrates the curation pipeline stages with real-time progress reporting.
//
// # Core Operations
//
// The [CurationEngine] carries three operations:
//
//  1. [CurationEngine.Run] : Full curation pass over analyst-approved candidates
//     - Loads the processed ledger and partitions candidates ([CurationEngine.Select]):
//       invalid → SKIPPED_INVALID, already-recorded → SKIPPED_DUPLICATE,
//       favorites capped at the configured maximum by relevance rank
//     - Resolves and acts on each selected candidate ([CurationEngine.Execute])
//     - Records LIKED/ADDED outcomes in the ledger; leaves NOT_FOUND and
//       ERROR unrecorded so the next run retries them
//
//  2. [CurationEngine.Reconcile] : Staged command queue processing
//     - Reads the remove and promote queue playlists
//     - Groups staged items by album, handles each distinct album once
//     - Removes the album's tracks from the target playlist, favorites on
//       promote, and updates the ledger
//     - Drains every originally-read item from the queue
//
//  3. [AnalyzePages] : Analyst fan-out over harvested pages, aggregating
//     approved candidates and collapsing duplicates by ledger key
//
// # Failure Model
//
// Per-candidate and per-album failures become [models.ActionOutcome] records
// and never abort the batch. The only fatal condition in a pass is failing
// to establish a catalog session, which callers check before invoking the
// engine.
//
// # Progress Reporting
//
// All operations accept an optional progress channel. Updates use select
// with default so reporting never blocks execution.
//
// # Pacing
//
// Catalog mutations (favorite, playlist add/remove) pass through a
// [rate.Limiter] so a large batch cannot burst the external API.
package tasks
