// Package server provides HTTP routing, middleware, and the public API handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handlers
//
// [GateHandler] controls entry: it validates or issues capability tokens against the
// shared password and replies with the configured entry links.
//
// [MusicHandler] serves the catalog operations (search, link resolution, lyrics) behind
// the token check. Source selection is a query parameter resolved through the
// [services.Registry]; an unknown source is a client error even when the rest of the
// request would fail anyway.
//
// # Tokens
//
// Tokens travel in a cookie named "token". The cookie is readable by scripts because
// browser frontends manage it directly. Server-side validity is pure set membership in
// [auth.TokenStore]; the cookie lifetime is advisory.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
