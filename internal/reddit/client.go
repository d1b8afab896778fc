package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPIURL is the host for authenticated API calls.
	DefaultAPIURL = "https://oauth.reddit.com"
	// DefaultTokenURL issues password grant tokens.
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 4096
)

// Config holds the credentials and limits of a Client.
type Config struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string

	// RequestsPerSecond caps API calls. Zero or less disables the limiter.
	RequestsPerSecond float64

	// APIURL and TokenURL default to the public Reddit endpoints.
	APIURL   string
	TokenURL string
}

// Client reads posts and comment trees from the Reddit API.
type Client struct {
	apiURL  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client authenticated with the password grant.
// No request is made until the first API call.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	// Token requests and API calls both go through this client, so every
	// request carries the User-Agent Reddit requires.
	base := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &userAgentTransport{base: http.DefaultTransport, userAgent: cfg.UserAgent},
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	src := &passwordTokenSource{
		ctx: ctx,
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		username: cfg.Username,
		password: cfg.Password,
	}
	httpClient := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, src))
	httpClient.Timeout = DefaultTimeout

	return &Client{
		apiURL:  cfg.APIURL,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// TopPosts returns one page of the top posts of a subreddit.
func (c *Client) TopPosts(ctx context.Context, q TopQuery) (Listing, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Window != "" {
		params.Set("t", q.Window)
	}
	if q.After != "" {
		params.Set("after", q.After)
	}

	var resp listing
	if err := c.get(ctx, "/r/"+url.PathEscape(q.Subreddit)+"/top", params, &resp); err != nil {
		return Listing{}, fmt.Errorf("failed to get top posts of r/%s: %w", q.Subreddit, err)
	}

	posts, err := decodePosts(resp.Data.Children)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Posts: posts, After: resp.Data.After}, nil
}

// Post returns a single post by id.
func (c *Client) Post(ctx context.Context, id string) (Post, error) {
	var resp listing
	if err := c.get(ctx, "/by_id/t3_"+url.PathEscape(id), nil, &resp); err != nil {
		return Post{}, fmt.Errorf("failed to get post %s: %w", id, err)
	}

	posts, err := decodePosts(resp.Data.Children)
	if err != nil {
		return Post{}, err
	}
	if len(posts) == 0 {
		return Post{}, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return posts[0], nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.apiURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodePosts(children []thing) ([]Post, error) {
	posts := make([]Post, 0, len(children))
	for _, child := range children {
		if child.Kind != "t3" {
			continue
		}
		var p Post
		if err := json.Unmarshal(child.Data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// passwordTokenSource requests a new token with the resource owner password
// grant. Reddit issues no refresh token for this grant.
type passwordTokenSource struct {
	ctx      context.Context
	cfg      *oauth2.Config
	username string
	password string
}

func (s *passwordTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.cfg.PasswordCredentialsToken(s.ctx, s.username, s.password)
	if err != nil {
		return nil, fmt.Errorf("failed to get reddit access token: %w", err)
	}
	return tok, nil
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}
