// Package services retrieves raw catalog records from the remote song listings.
//
// # Client
//
// [Client] wraps an [http.Client] with a user agent, an optional request rate limit and the
// worker count used for paginated sources. Every request honors the caller's context.
//
// # Extraction Strategies
//
// [Extract] dispatches on [models.Strategy]:
//   - DirectJSON : [FetchJSON] issues a GET whose body is a JSON array
//   - FormJSON : [FetchFormJSON] POSTs a form and unwraps data.musiclist.music
//   - PagedHTML : [FetchPages] POSTs page numbers and scrapes each page with goquery
//
// Paginated sources fetch the first page, read the page count from it and fetch the remaining pages
// through a weighted semaphore. Pages are reassembled by index, so the result never depends on completion order.
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrTransport] : request construction, connection failures and non-2xx statuses
//   - [shared.ErrDecode] : bodies or pages that do not match the expected shape
package services
