// Package accountd implements the account lifecycle behind the REST API:
// registration with email activation, credential login with JWT session
// tokens, and password reset with expiring opaque tokens.
//
// The package holds the domain core only. Persistence, mail transport, and
// the HTTP surface live in their own packages and are injected through the
// interfaces declared in types.go, which keeps every transition testable
// against in-memory fakes.
package accountd
