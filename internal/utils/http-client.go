package utils

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

type HTTPClientConfig struct {
	Timeout     time.Duration
	KATimeout   time.Duration
	UserAgent   string
	BearerToken string
}

type FetchClient struct {
	client *http.Client
	config HTTPClientConfig
}

func NewFetchClient(cfg HTTPClientConfig) *FetchClient {
	if cfg.KATimeout == 0 {
		cfg.KATimeout = 90 * time.Second
	}
	transport := &http.Transport{
		IdleConnTimeout:     cfg.KATimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100, // for connection reuse across range requests
		DisableCompression:  true,
		MaxConnsPerHost:     0,
	}
	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
	if cfg.BearerToken != "" {
		// Wrap the transport so every request carries the bearer token.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.BearerToken})
		client = oauth2.NewClient(ctx, src)
		client.Timeout = cfg.Timeout
	}
	return &FetchClient{client: client, config: cfg}
}

func (f *FetchClient) Do(req *http.Request) (*http.Response, error) {
	if f.config.UserAgent != "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", "segfetch")
	}
	return f.client.Do(req)
}
