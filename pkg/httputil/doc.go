// Package httputil provides HTTP helpers shared by outbound clients.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff. Only errors wrapped in
// [RetryableError] are retried; anything else returns at once. Use
// [CheckResponse] to turn an HTTP status into the right kind of error:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp)
//	})
//
// 5xx and 429 responses are retryable; other non-2xx statuses are not.
package httputil
