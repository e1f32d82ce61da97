// Package forum provides an HTTP client for the campus forum REST API.
//
// # Overview
//
// The client reads four endpoints, all relative to the configured API root
// (Django-style, with trailing slashes):
//
//   - GET threads/: filtered listing (page, tag, category, ids, include_deleted)
//   - GET search/: relevance search over thread titles and bodies
//   - GET categories/: every category
//   - GET tags/: every tag with its thread count
//
// # Response Shapes
//
// Listings come back either as a bare JSON array or as a paginated
// {"results": [...], "count": N} object depending on server configuration.
// Search returns {"threads": [...], "total_threads": N, ...}. The decoders in
// types.go inspect the first JSON token and normalize every shape into one
// ResultPage before anything outside this package sees it. A bare array has
// no count, so HasTotal is false.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Wait on the optional token-bucket limiter first
//   - Set Accept: application/json and a commons/<version> User-Agent
//   - Carry a fresh X-Request-ID, logged alongside the response status
//   - Send Authorization: Token <token> when a token is configured
//
// # Errors
//
//   - "execute request: ..." wraps transport failures
//   - *APIError reports a non-2xx status with the backend's error payload
//   - ErrMalformed is wrapped when a body has an unexpected shape
//
// # Thread Safety
//
// The Client is safe for concurrent use.
package forum
