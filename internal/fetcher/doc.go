// Package fetcher retrieves the monitored status page for statuswatch.
//
// This package is internal to statuswatch. It wraps net/http with a
// per-request timeout, a response size limit, and a uniform [Response] type
// whose Error field covers both transport failures and non-2xx replies.
//
// Users of the statuswatch library should not need to interact with this
// package directly. Configuration is done through [statuswatch.Target].
package fetcher
