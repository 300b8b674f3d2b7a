// Package httputil provides retry helpers for outbound HTTP calls.
//
// The LLM client in graphgen is the main caller: model servers such as
// Ollama answer 503 while a model is loading and 429 under load, and those
// responses are worth a second attempt.
//
// Mark transient failures with [Retryable] and run the call under a
// [Policy]:
//
//	p := httputil.Policy{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}
//	err := p.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    if httputil.TransientStatus(resp.StatusCode) {
//	        return httputil.Retryable(fmt.Errorf("status %d", resp.StatusCode))
//	    }
//	    return decode(resp.Body)
//	})
//
// Unmarked errors stop the loop immediately, as does cancelling ctx. The
// error Do returns never carries the mark, so callers see the cause.
package httputil
