package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
)

func (c *OpenAIClient) createChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var resp openai.ChatCompletionResponse

	op := func() error {
		r, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.log.Warn("chat completion failed, retrying", "model", req.Model, "wait", wait, "err", err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackoff(), c.maxRetries), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	return resp, nil
}

func (c *OpenAIClient) newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.Multiplier = 2
	b.MaxElapsedTime = 2 * time.Minute
	return b
}

// retryable reports whether a request failed on rate limiting or a server error.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
