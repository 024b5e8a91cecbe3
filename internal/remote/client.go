package remote

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/rs/zerolog/log"
)

// IdentityHeader carries the authenticated identity to the document server.
const IdentityHeader = "X-Budget-Identity"

// StatusError is returned for responses with a status code other than 2xx.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrRemote, e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRemote
}

// Client is a RemoteLedgerStore backed by the document server's HTTP API.
type Client struct {
	base *url.URL
	http *http.Client
}

var _ RemoteLedgerStore = (*Client)(nil)

// NewClient returns a client for the server at baseURL. If httpClient is
// nil, http.DefaultClient is used.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL %q: %w", baseURL, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid remote URL %q: scheme must be http or https", baseURL)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{base: base, http: httpClient}, nil
}

func (c *Client) ledgerURL(identity string, suffix string) string {
	return fmt.Sprintf("%s/v1/ledgers/%s%s", c.base.String(), url.PathEscape(identity), suffix)
}

func (c *Client) do(ctx context.Context, method, target, identity string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set(IdentityHeader, identity)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("method", method).Str("url", target).Msg("remote request")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemote, err)
	}

	return resp, nil
}

// statusError reads the error message of a failed response.
func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}

func (c *Client) Pull(ctx context.Context, identity string) (ledger.Snapshot, error) {
	resp, err := c.do(ctx, http.MethodGet, c.ledgerURL(identity, ""), identity, nil)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ledger.Empty(), nil
	}

	if resp.StatusCode != http.StatusOK {
		return ledger.Snapshot{}, statusError(resp)
	}

	var body struct {
		Data Document `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("%w: decoding document: %w", ErrRemote, err)
	}

	return body.Data.Snapshot, nil
}

func (c *Client) Push(ctx context.Context, identity string, snapshot ledger.Snapshot) error {
	resp, err := c.do(ctx, http.MethodPut, c.ledgerURL(identity, ""), identity, snapshot)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}

	return nil
}

func (c *Client) Subscribe(ctx context.Context, identity string, collection Collection) (<-chan ledger.Snapshot, error) {
	if _, err := ParseCollection(string(collection)); err != nil {
		return nil, err
	}

	target := c.ledgerURL(identity, "/events?collection="+url.QueryEscape(string(collection)))
	resp, err := c.do(ctx, http.MethodGet, target, identity, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	ch := make(chan ledger.Snapshot, 1)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		err := readEvents(resp.Body, func(e event) {
			if e.name != "snapshot" {
				return
			}

			var s ledger.Snapshot
			if err := json.Unmarshal([]byte(e.data), &s); err != nil {
				log.Error().Err(err).Str("collection", string(collection)).Msg("could not decode remote snapshot")
				return
			}
			deliver(ch, s)
		})

		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("collection", string(collection)).Msg("remote event stream failed")
		}
	}()

	return ch, nil
}

type event struct {
	name string
	data string
}

// readEvents parses a text/event-stream and calls fn for every complete event.
func readEvents(r io.Reader, fn func(event)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		name string
		data []string
	)

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			if len(data) > 0 {
				if name == "" {
					name = "message"
				}
				fn(event{name: name, data: strings.Join(data, "\n")})
			}
			name, data = "", nil
			continue
		}

		// Comments
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}

	return scanner.Err()
}
