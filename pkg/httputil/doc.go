// Package httputil provides the HTTP plumbing used by network sources.
//
// # Overview
//
//   - [Client]: GET requests with default headers, status classification,
//     retry and an optional byte [cache.Cache] in front
//   - [Retry]: automatic retry with exponential backoff
//
// # Retry
//
// [Retry] only retries errors wrapped in [RetryableError]. [Client] wraps
// transport failures, 429 and 5xx responses; other statuses fail at once:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    body, err = fetch(ctx)
//	    return err
//	})
//
// # Configuration
//
// Default settings are suitable for fetching a single published table:
//
//   - Request timeout: 30 seconds
//   - Max attempts: 3
//   - Base backoff: 1 second, doubling per attempt
package httputil
