// Package services defines the [Catalog] and [Analyst] interfaces for aria's
// external collaborators and implements them for Tidal and Gemini.
//
// # Catalog Implementation
//
// [TidalService] talks to the Tidal v1 API with [oauth2] authentication and
// automatic token refresh. Tokens persist across runs via
// [TidalService.SaveToken] / [TidalService.LoadToken].
//
// [TidalService.EstablishSession] validates the token and captures the user
// ID and country code. It is the one fatal boundary of a curation run:
// callers abort before any mutation when it fails. Every other failure is
// caught per-item by the tasks layer and converted to an outcome record.
//
// # Analyst Implementation
//
// [GeminiService] calls the Generative Language REST API directly. The
// analyzer prompt instructs the model to return a JSON array of verdicts
// ({artist, album, relevance_score, decision, reasoning}); markdown fences
// around the JSON are tolerated. LIKE_IMMEDIATELY maps to
// [models.DecisionFavorite], ADD_TO_PLAYLIST to [models.DecisionCollect],
// anything else is dropped.
//
// # Error Handling
//
// Both clients wrap failures in typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no token installed or loadable
//   - [shared.ErrAuthFailed] : token exchange or session validation failed
//   - [shared.ErrAPIRequest] : HTTP transport failed
//   - [shared.ErrAnalystResponse] : the model's completion was not the
//     expected JSON shape
package services
