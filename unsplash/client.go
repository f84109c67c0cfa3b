// Package unsplash fetches random photos from the Unsplash API for the discovery feed.
package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pinboard-server/core"
	"pinboard-server/observability"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.unsplash.com"
	requestTimeout = 10 * time.Second
)

type Client struct {
	baseURL   string
	accessKey string
	http      *http.Client
}

// NewClient builds a gateway. An empty accessKey is accepted here and reported on
// every Random call instead, so the rest of the API can run without it.
func NewClient(baseURL, accessKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

type photo struct {
	ID   string `json:"id"`
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	AltDescription *string `json:"alt_description"`
}

// Random returns up to count random photos.
func (c *Client) Random(ctx context.Context, count int) ([]core.UnsplashPhoto, error) {
	if c.accessKey == "" {
		observability.UpstreamRequestsTotal.WithLabelValues("unconfigured").Inc()
		return nil, core.ErrUpstreamConfig("Unsplash access key is not configured")
	}

	query := url.Values{}
	query.Set("count", strconv.Itoa(count))
	query.Set("client_id", c.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/photos/random?"+query.Encode(), nil)
	if err != nil {
		return nil, core.ErrUpstreamCall("Error connecting to Unsplash", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")

	log := logrus.WithField("count", count)
	resp, err := c.http.Do(req)
	if err != nil {
		observability.UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		log.WithError(err).Error("Failed to reach Unsplash")
		return nil, core.ErrUpstreamCall("Error connecting to Unsplash", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.UpstreamRequestsTotal.WithLabelValues("http_error").Inc()
		log.WithField("status", resp.StatusCode).Warn("Unsplash returned an error status")
		return nil, core.ErrUpstreamCall("Error connecting to Unsplash",
			fmt.Errorf("%d %s for url %s/photos/random", resp.StatusCode, http.StatusText(resp.StatusCode), c.baseURL))
	}

	var items []photo
	// An empty body is treated like an empty array.
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil && !errors.Is(err, io.EOF) {
		observability.UpstreamRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, core.ErrUpstreamCall("Error connecting to Unsplash", err)
	}

	photos := make([]core.UnsplashPhoto, 0, len(items))
	for _, item := range items {
		photos = append(photos, core.UnsplashPhoto{
			ID:             item.ID,
			URL:            item.URLs.Regular,
			Author:         item.User.Name,
			AltDescription: item.AltDescription,
		})
	}

	observability.UpstreamRequestsTotal.WithLabelValues("ok").Inc()
	log.WithField("received", len(photos)).Debug("Fetched photos from Unsplash")
	return photos, nil
}
