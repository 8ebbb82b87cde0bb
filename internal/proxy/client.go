package proxy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	netproxy "golang.org/x/net/proxy"
)

// NewClient builds an HTTP client that routes every request through endpoint.
//
// http and https endpoints use the transport's CONNECT support; socks5
// endpoints dial through a SOCKS5 dialer. Credentials embedded in the
// endpoint URL are used for proxy authentication.
func NewClient(endpoint string, timeout time.Duration) (*http.Client, error) {
	proxyURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy endpoint: %w", err)
	}
	if proxyURL.Host == "" {
		return nil, fmt.Errorf("invalid proxy endpoint: missing host")
	}

	transport := &http.Transport{
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		DisableKeepAlives:     true,
	}

	switch proxyURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(proxyURL)
		transport.DialContext = (&net.Dialer{Timeout: 10 * time.Second}).DialContext
	case "socks5", "socks5h":
		dialer, err := netproxy.FromURL(proxyURL, &net.Dialer{Timeout: 10 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS dialer: %w", err)
		}
		transport.DialContext = contextDialer(dialer)
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %q", proxyURL.Scheme)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

func contextDialer(d netproxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(netproxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

// Mask hides the credentials of an endpoint so it can be logged
func Mask(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "invalid-endpoint"
	}
	if u.User != nil {
		u.User = url.User("xxxxx")
	}
	return u.String()
}

// Host returns the host:port of an endpoint, used as a rate limiting key
func Host(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	return u.Host
}
