/*
Copyright 2025 Tandem Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/tandempay/hubgov/internal/apierror"
	"github.com/tandempay/hubgov/internal/request"
)

const clientMaxRetries = 3

// Client talks to the ledger service over HTTP. Transport-level failures are
// retried with exponential backoff; business failures are not.
type Client struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

// NewClient returns a ledger client for the given base URL. serviceToken is
// the identity used until SetToken installs a caller token.
func NewClient(baseURL, serviceToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		token:   serviceToken,
	}
}

// SetToken installs the access token used on subsequent calls.
func (c *Client) SetToken(accessToken string) {
	c.mu.Lock()
	c.token = accessToken
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) call(ctx context.Context, method, path string, payload, response interface{}) error {
	operation := func() error {
		var req *http.Request
		var err error
		if payload != nil {
			body, err := request.ToJsonReq(payload)
			if err != nil {
				return backoff.Permanent(err)
			}
			req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
			if err != nil {
				return backoff.Permanent(err)
			}
		} else {
			req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
			if err != nil {
				return backoff.Permanent(err)
			}
		}
		req.Header.Set("Authorization", "Bearer "+c.bearer())

		var raw json.RawMessage
		resp, err := request.Call(req, &raw)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("ledger service returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(decodeAPIError(resp.StatusCode, raw))
		}
		if response != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, response); err != nil {
				return backoff.Permanent(err)
			}
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), clientMaxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return errors.Wrapf(err, "ledger %s %s failed", method, path)
	}
	return nil
}

// decodeAPIError turns a ledger rejection into a typed error. The ledger's
// standard error envelope carries a code and message; bodies that are not
// the envelope fall back to a code derived from the HTTP status.
func decodeAPIError(status int, body []byte) error {
	var apiErr apierror.APIError
	if len(body) > 0 {
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
			return apiErr
		}
	}

	code := apierror.ErrBadRequest
	switch status {
	case http.StatusNotFound:
		code = apierror.ErrNotFound
	case http.StatusConflict:
		code = apierror.ErrConflict
	case http.StatusForbidden:
		code = apierror.ErrForbidden
	}
	return apierror.APIError{Code: code, Message: fmt.Sprintf("ledger service rejected request with %d", status)}
}

type idResponse struct {
	ID string `json:"id"`
}

type idsResponse struct {
	IDs []string `json:"ids"`
}

func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (string, error) {
	var resp idResponse
	if err := c.call(ctx, http.MethodPost, "/accounts", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*Account, error) {
	var resp Account
	if err := c.call(ctx, http.MethodGet, "/accounts/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetAccounts(ctx context.Context, ids []string) ([]*Account, error) {
	var resp []*Account
	path := "/accounts?ids=" + url.QueryEscape(strings.Join(ids, ","))
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateJournalEntry(ctx context.Context, req JournalEntryRequest) (string, error) {
	var resp idResponse
	if err := c.call(ctx, http.MethodPost, "/journal-entries", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateJournalEntries submits the batch as one atomic call. The ledger
// guarantees all-or-nothing; callers must never split a failed batch into
// per-entry retries.
func (c *Client) CreateJournalEntries(ctx context.Context, reqs []JournalEntryRequest) ([]string, error) {
	var resp idsResponse
	if err := c.call(ctx, http.MethodPost, "/journal-entries/batch", reqs, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}
