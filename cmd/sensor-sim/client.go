package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/goodnatureofminers/sensorledger/internal/jsonx"
	"github.com/goodnatureofminers/sensorledger/internal/model"
)

// uploadResult is the server's answer to an upload.
type uploadResult struct {
	Status        string  `json:"status"`
	Index         uint64  `json:"index"`
	Duplicate     bool    `json:"duplicate"`
	Code          string  `json:"code"`
	Reason        string  `json:"reason"`
	ExpectedIndex *uint64 `json:"expected_index"`
}

// rejectedError is a well-formed refusal that retrying cannot fix.
type rejectedError struct {
	StatusCode int
	Result     uploadResult
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("upload rejected (%d %s): %s", e.StatusCode, e.Result.Code, e.Result.Reason)
}

// retryPolicy describes upload retries. ExponentialBackOff is stateful, so
// every upload gets its own instance.
type retryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	Notify          backoff.Notify
}

func (p retryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = 30 * time.Second
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, p.MaxRetries), ctx)
}

type ledgerClient struct {
	baseURL string
	http    *http.Client
	retry   retryPolicy
}

func newLedgerClient(baseURL string, httpClient *http.Client, retry retryPolicy) *ledgerClient {
	return &ledgerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		retry:   retry,
	}
}

// Upload posts rec, retrying transport failures and 5xx answers.
func (c *ledgerClient) Upload(ctx context.Context, rec model.BlockRecord) (uploadResult, error) {
	body, err := jsonx.Marshal(rec)
	if err != nil {
		return uploadResult{}, fmt.Errorf("marshal block %d: %w", rec.Index, err)
	}

	var res uploadResult
	err = backoff.RetryNotify(func() error {
		var attemptErr error
		res, attemptErr = c.post(ctx, body)
		return attemptErr
	}, c.retry.backOff(ctx), c.retry.Notify)
	return res, err
}

func (c *ledgerClient) post(ctx context.Context, body []byte) (uploadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload_block", bytes.NewReader(body))
	if err != nil {
		return uploadResult{}, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return uploadResult{}, fmt.Errorf("post block: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return uploadResult{}, fmt.Errorf("read response: %w", err)
	}

	var res uploadResult
	if err := jsonx.Unmarshal(raw, &res); err != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			return uploadResult{}, fmt.Errorf("server error %d", resp.StatusCode)
		}
		return uploadResult{}, backoff.Permanent(fmt.Errorf("decode response (%d): %w", resp.StatusCode, err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return res, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return res, fmt.Errorf("server error %d: %s", resp.StatusCode, res.Reason)
	default:
		return res, backoff.Permanent(&rejectedError{StatusCode: resp.StatusCode, Result: res})
	}
}

// Blocks fetches the server's chain.
func (c *ledgerClient) Blocks(ctx context.Context) ([]model.BlockRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/blocks", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get blocks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get blocks: status %d", resp.StatusCode)
	}

	var blocks []model.BlockRecord
	if err := jsonx.NewDecoder(resp.Body).Decode(&blocks); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	return blocks, nil
}

func asRejected(err error) (*rejectedError, bool) {
	var rej *rejectedError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
