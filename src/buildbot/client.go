// Package buildbot reads build history from the CI backend's REST API and
// converts it to gate records. The backend's wire quirks stop here.
package buildbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sofmeright/buildgate/src/gate"
)

var (
	// ErrUnreachable is returned when the backend cannot be queried.
	ErrUnreachable = errors.New("backend unreachable")
	// ErrMalformedResponse is returned when the backend answers with
	// something other than a builds listing.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// Fields and properties requested from the builds endpoint.
var (
	buildFields     = []string{"buildid", "complete", "state_string", "properties", "results"}
	buildProperties = []string{"branch", "buildername", "buildnumber", "config", "head_ref", "target"}
)

// Client queries the builds endpoint.
type Client struct {
	BaseURL string // API root, e.g. "http://localhost:8010/api/v2"
	HTTP    *http.Client
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type buildsResponse struct {
	Builds *[]wireBuild `json:"builds"`
}

type wireBuild struct {
	BuildID     int        `json:"buildid"`
	Complete    bool       `json:"complete"`
	StateString string     `json:"state_string"`
	Results     *int       `json:"results"`
	Properties  Properties `json:"properties"`
}

// BuildsURL returns the fully parameterised builds query URL.
func (c *Client) BuildsURL() string {
	q := url.Values{}
	for _, f := range buildFields {
		q.Add("field", f)
	}
	for _, p := range buildProperties {
		q.Add("property", p)
	}
	return c.BaseURL + "/builds?" + q.Encode()
}

// Builds fetches every build the backend reports.
func (c *Client) Builds(ctx context.Context) ([]gate.BuildRecord, error) {
	var resp buildsResponse
	if err := c.getJSON(ctx, c.BuildsURL(), &resp); err != nil {
		return nil, err
	}
	if resp.Builds == nil {
		return nil, fmt.Errorf("buildbot: %w: no \"builds\" array", ErrMalformedResponse)
	}

	records := make([]gate.BuildRecord, 0, len(*resp.Builds))
	for _, b := range *resp.Builds {
		r, err := b.record()
		if err != nil {
			return nil, fmt.Errorf("buildbot: %w: build %d: %w", ErrMalformedResponse, b.BuildID, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (b wireBuild) record() (gate.BuildRecord, error) {
	r := gate.BuildRecord{
		BuildID:     b.BuildID,
		Complete:    b.Complete,
		StateString: b.StateString,
		Result:      gate.ResultFromCode(b.Results),
	}
	r.Branch, _ = b.Properties.Get("branch")
	r.HeadRef, _ = b.Properties.Get("head_ref")
	r.Target, _ = b.Properties.Get("target")
	r.Config, _ = b.Properties.Get("config")
	r.BuilderName, _ = b.Properties.Get("buildername")

	n, _, err := b.Properties.Int("buildnumber")
	if err != nil {
		return r, err
	}
	r.BuildNumber = n
	return r, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("buildbot: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("buildbot: %w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("buildbot: %w: reading body: %w", ErrUnreachable, err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("buildbot: %w: GET %s: %d %s", ErrUnreachable, rawURL, resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("buildbot: %w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
