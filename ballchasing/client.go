package ballchasing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/ballchaser/internal/backoff"
)

const defaultBaseURL = "https://ballchasing.com/api"

// Client represents a ballchasing.com API client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
	backoff    bool
	maxTries   int
	schedule   backoff.Schedule
}

// NewClient creates a new ballchasing client. The token is attached to the
// Authorization header of every request. Construction performs no network
// I/O; use Ping to verify the token.
func NewClient(token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: API token is required", ErrInvalidConfig)
	}

	client := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:   logger,
		maxTries: 1,
		schedule: backoff.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.backoff && client.maxTries < 1 {
		return nil, fmt.Errorf("%w: max tries must be a positive integer, got %d",
			ErrInvalidConfig, client.maxTries)
	}

	return client, nil
}

// endpoint builds a request URL for path and its query parameters.
func (c *Client) endpoint(path string, params url.Values) string {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}
	return requestURL
}

// doRequest performs an authenticated HTTP request against a fully built
// URL, retrying rate-limited responses per the client's backoff policy.
// The body is kept as bytes so each attempt can resend it.
func (c *Client) doRequest(ctx context.Context, method, requestURL string, body []byte, contentType string) ([]byte, error) {
	call := func() (*http.Response, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", c.token)
		req.Header.Set("Accept", "application/json")
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		return c.httpClient.Do(req)
	}

	maxTries := 1
	if c.backoff {
		maxTries = c.maxTries
	}

	resp, err := retryWithBackoff(ctx, call, isRateLimited, maxTries, c.schedule)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// newAPIError maps an error response to an APIError, pulling the message
// from the API's {"error": "..."} envelope when present.
func newAPIError(statusCode int, body []byte) *APIError {
	message := http.StatusText(statusCode)
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Body:       string(body),
	}
}

// Ping checks the token against the API root and returns the account's
// patronage tier, which determines the server-side rate limits.
func (c *Client) Ping(ctx context.Context) (*AccountStatus, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.baseURL, nil, "")
	if err != nil {
		return nil, err
	}

	var status AccountStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &status, nil
}

// GetMaps retrieves the map-id to map-name table.
func (c *Client) GetMaps(ctx context.Context) (map[string]string, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.endpoint("/maps", nil), nil, "")
	if err != nil {
		return nil, err
	}

	maps := map[string]string{}
	if err := json.Unmarshal(body, &maps); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return maps, nil
}

// ListReplays searches replays matching filter, returning a lazy iterator
// over the results. Pages are fetched on demand as the iterator advances;
// iteration stops when the server reports no further page or after
// replayCount records (replayCount <= 0 means no cap). The iterator is
// forward-only and not restartable.
func (c *Client) ListReplays(ctx context.Context, filter ReplayFilter, replayCount int) (*ReplayIterator, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	return &ReplayIterator{
		pager: newPager(ctx, c.endpoint("/replays", filter.values()), replayCount,
			func(ctx context.Context, pageURL string) ([]Replay, string, error) {
				body, err := c.doRequest(ctx, http.MethodGet, pageURL, nil, "")
				if err != nil {
					return nil, "", err
				}
				var page replayPage
				if err := json.Unmarshal(body, &page); err != nil {
					return nil, "", fmt.Errorf("failed to parse response: %w", err)
				}
				c.logger.Debug().
					Int("records", len(page.List)).
					Bool("more", page.Next != "").
					Msg("Retrieved replay page")
				return page.List, page.Next, nil
			}),
	}, nil
}

// GetReplay fetches the full statistics for one replay.
func (c *Client) GetReplay(ctx context.Context, replayID string) (Replay, error) {
	requestURL := c.endpoint("/replays/"+url.PathEscape(replayID), nil)
	body, err := c.doRequest(ctx, http.MethodGet, requestURL, nil, "")
	if err != nil {
		return nil, err
	}

	var replay Replay
	if err := json.Unmarshal(body, &replay); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return replay, nil
}

// DeleteReplay removes a replay owned by the authenticated account.
func (c *Client) DeleteReplay(ctx context.Context, replayID string) error {
	requestURL := c.endpoint("/replays/"+url.PathEscape(replayID), nil)
	_, err := c.doRequest(ctx, http.MethodDelete, requestURL, nil, "")
	return err
}

// replayPatchKeys are the fields the API accepts on a replay patch.
var replayPatchKeys = []string{"title", "visibility", "group"}

// PatchReplay updates the mutable fields of a replay. Allowed keys are
// title, visibility and group; anything else is rejected before the request
// is sent.
func (c *Client) PatchReplay(ctx context.Context, replayID string, fields map[string]any) error {
	for key, value := range fields {
		if !isAllowed(key, replayPatchKeys) {
			return &ArgumentError{Param: key, Value: fmt.Sprint(value), Allowed: replayPatchKeys}
		}
		if key == "visibility" {
			visibility, _ := value.(string)
			if err := checkEnum("visibility", Visibility(visibility), visibilities); err != nil {
				return err
			}
		}
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	requestURL := c.endpoint("/replays/"+url.PathEscape(replayID), nil)
	_, err = c.doRequest(ctx, http.MethodPatch, requestURL, body, "application/json")
	return err
}

// UploadReplay submits binary replay data for server-side processing and
// returns the identifier assigned to it. A 409 response means the replay
// was already uploaded; the returned error carries the existing id in its
// body.
func (c *Client) UploadReplay(ctx context.Context, filename string, file io.Reader, visibility Visibility, group string) (string, error) {
	if err := checkEnum("visibility", visibility, visibilities); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read replay data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}

	params := url.Values{}
	setString(params, "visibility", string(visibility))
	setString(params, "group", group)

	c.logger.Debug().Str("filename", filename).Msg("Uploading replay")

	body, err := c.doRequest(ctx, http.MethodPost, c.endpoint("/v2/upload", params), buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return created.ID, nil
}

// ListGroups searches replay groups matching filter, with the same lazy
// pagination behavior as ListReplays.
func (c *Client) ListGroups(ctx context.Context, filter GroupFilter, groupCount int) (*GroupIterator, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	return &GroupIterator{
		pager: newPager(ctx, c.endpoint("/groups", filter.values()), groupCount,
			func(ctx context.Context, pageURL string) ([]Group, string, error) {
				body, err := c.doRequest(ctx, http.MethodGet, pageURL, nil, "")
				if err != nil {
					return nil, "", err
				}
				var page groupPage
				if err := json.Unmarshal(body, &page); err != nil {
					return nil, "", fmt.Errorf("failed to parse response: %w", err)
				}
				c.logger.Debug().
					Int("records", len(page.List)).
					Bool("more", page.Next != "").
					Msg("Retrieved group page")
				return page.List, page.Next, nil
			}),
	}, nil
}

// GetGroup fetches one replay group with its aggregated statistics.
func (c *Client) GetGroup(ctx context.Context, groupID string) (Group, error) {
	requestURL := c.endpoint("/groups/"+url.PathEscape(groupID), nil)
	body, err := c.doRequest(ctx, http.MethodGet, requestURL, nil, "")
	if err != nil {
		return nil, err
	}

	var group Group
	if err := json.Unmarshal(body, &group); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return group, nil
}

// CreateGroup creates a named replay group. The identification modes control
// how the server matches players and teams across the group's replays.
func (c *Client) CreateGroup(ctx context.Context, name string, playerIdentification PlayerIdentification, teamIdentification TeamIdentification) (Group, error) {
	if name == "" {
		return nil, &ArgumentError{Param: "name", Value: "", Allowed: []string{"a non-empty group name"}}
	}
	if !isAllowed(playerIdentification, playerIdentifications) {
		return nil, &ArgumentError{
			Param:   "player_identification",
			Value:   string(playerIdentification),
			Allowed: allowedStrings(playerIdentifications),
		}
	}
	if !isAllowed(teamIdentification, teamIdentifications) {
		return nil, &ArgumentError{
			Param:   "team_identification",
			Value:   string(teamIdentification),
			Allowed: allowedStrings(teamIdentifications),
		}
	}

	body, err := json.Marshal(map[string]string{
		"name":                  name,
		"player_identification": string(playerIdentification),
		"team_identification":   string(teamIdentification),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, c.endpoint("/groups", nil), body, "application/json")
	if err != nil {
		return nil, err
	}

	var group Group
	if err := json.Unmarshal(respBody, &group); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return group, nil
}

// groupPatchKeys are the fields the API accepts on a group patch.
var groupPatchKeys = []string{"player_identification", "team_identification", "shared"}

// PatchGroup updates the mutable fields of a group. Allowed keys are
// player_identification, team_identification and shared.
func (c *Client) PatchGroup(ctx context.Context, groupID string, fields map[string]any) error {
	for key, value := range fields {
		if !isAllowed(key, groupPatchKeys) {
			return &ArgumentError{Param: key, Value: fmt.Sprint(value), Allowed: groupPatchKeys}
		}
		switch key {
		case "player_identification":
			id, _ := value.(string)
			if err := checkEnum("player_identification", PlayerIdentification(id), playerIdentifications); err != nil {
				return err
			}
		case "team_identification":
			id, _ := value.(string)
			if err := checkEnum("team_identification", TeamIdentification(id), teamIdentifications); err != nil {
				return err
			}
		}
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	requestURL := c.endpoint("/groups/"+url.PathEscape(groupID), nil)
	_, err = c.doRequest(ctx, http.MethodPatch, requestURL, body, "application/json")
	return err
}

// DeleteGroup removes a replay group owned by the authenticated account.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	requestURL := c.endpoint("/groups/"+url.PathEscape(groupID), nil)
	_, err := c.doRequest(ctx, http.MethodDelete, requestURL, nil, "")
	return err
}
