// Package probe checks whether a single proxy can reach a single target URL.
//
// # Protocol
//
// Executor.Probe runs at most two requests through the proxy:
//  1. HEAD, following redirects. A 2xx/3xx answer is a "real" verdict.
//  2. GET, when HEAD failed or answered outside 2xx/3xx. A 2xx/3xx answer
//     is "real"; any other status is "fake" with the status recorded; a
//     transport error is "fake" with the error text recorded.
//
// A non-qualifying HEAD status is not remembered; only a HEAD transport
// error is, and it is reported when the GET error carries no text.
//
// # Transport
//
// Certificate verification is disabled. With the "randomized" TLS
// fingerprint, HTTPS targets are reached through a tunnel built here
// (HTTP CONNECT or SOCKS5) and the handshake is performed with uTLS so the
// ClientHello does not look like Go's. Plain HTTP targets always use the
// standard proxy support of net/http.
//
// # Errors
//
// Probe never returns an error. Every failure becomes part of the returned
// model.Report. It is safe to call concurrently.
package probe
