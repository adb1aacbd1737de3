package publish

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Category int

const (
	CategoryPaper   Category = 5
	CategoryDataset Category = 6
)

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "dataset", "6":
		return CategoryDataset, nil
	case "paper", "5":
		return CategoryPaper, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

type Credentials struct {
	UID  string
	Pass string
}

var ErrInvalidAPIKey = errors.New("api key must look like uid=<uid>&pass=<pass>")

// ParseAPIKey reads credentials in the form uid=<uid>&pass=<pass>. Both
// values are taken verbatim, without query unescaping, so characters such
// as '+' or '%' in a password survive form encoding.
func ParseAPIKey(key string) (Credentials, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(key), "uid=")
	if !ok {
		return Credentials{}, ErrInvalidAPIKey
	}
	i := strings.LastIndex(rest, "&pass=")
	if i < 0 {
		return Credentials{}, ErrInvalidAPIKey
	}
	creds := Credentials{UID: rest[:i], Pass: rest[i+len("&pass="):]}
	if creds.UID == "" || creds.Pass == "" {
		return Credentials{}, ErrInvalidAPIKey
	}
	return creds, nil
}

type Request struct {
	Torrent     []byte
	Name        string
	Authors     string
	Description string
	Category    Category
	Tags        string
	URLList     string
	Credentials Credentials
}

func (r Request) form() url.Values {
	return url.Values{
		"uid":      {r.Credentials.UID},
		"pass":     {r.Credentials.Pass},
		"name":     {r.Name},
		"authors":  {r.Authors},
		"descr":    {r.Description},
		"category": {strconv.Itoa(int(r.Category))},
		"tags":     {r.Tags},
		"urllist":  {r.URLList},
		"file":     {base64.StdEncoding.EncodeToString(r.Torrent)},
	}
}

type Client interface {
	// Upload submits a torrent and returns the response body.
	Upload(ctx context.Context, req Request) ([]byte, error)
	WithHTTPClient(client *http.Client) Client
}

type client struct {
	endpoint string
	http     *http.Client
	log      *slog.Logger
}

func NewClient(endpoint string, logger *slog.Logger) Client {
	return &client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 60 * time.Second},
		log:      logger,
	}
}

func (c *client) WithHTTPClient(client *http.Client) Client {
	c.http = client
	return c
}

func (c *client) Upload(ctx context.Context, req Request) ([]byte, error) {
	if len(req.Torrent) == 0 {
		return nil, errors.New("empty torrent")
	}

	body := strings.NewReader(req.form().Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.log.Info("uploading torrent", slog.String("endpoint", c.endpoint), slog.String("name", req.Name))
	response, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	page, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("http error: %s", response.Status)
	}

	return page, nil
}
