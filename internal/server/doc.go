// Package server provides HTTP routing, middleware, and the read-only data server behind the serve command.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Data Handler
//
// [DataHandler] exposes exported catalogs to a local frontend:
//
//	GET /data/music/{name}.json → <generated_dir>/music/<name>.json
//	GET /data/sources           → configured sources and whether each has been exported
//	GET /health                 → {"status":"ok"}
//
// Names outside the configured source list are answered with 404 without touching the filesystem.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
