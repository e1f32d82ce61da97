// Package discovery turns a filter.State into a page of threads.
//
// # Strategies
//
//   - list: no keyword. One threads/ request with page, tag and category;
//     the backend filters server-side.
//   - search: keyword without tag or category. One search/ request; hits are
//     used as they are.
//   - search+intersect: keyword plus tag or category. The search page's ids
//     are sent back through threads/ with the filters, and that ordered
//     output replaces the raw hits. The search total still drives paging.
//
// # Ordering
//
// Resolve stamps each request with a strictly increasing sequence number.
// Completions may arrive in any order; Commit hands them to state.Store,
// which only accepts a sequence number higher than every one before it. A
// late response from a superseded request, success or failure, is dropped.
//
// A newer Resolve also cancels the previous request's context. That only
// saves work: the guard alone keeps the view correct.
package discovery
