package fetch

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/law-makers/pricefeed/internal/retry"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{
			name: "proxy connect",
			err:  &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "proxyconnect", Net: "tcp", Err: syscall.ECONNREFUSED}},
			want: ClassProxyConnect,
		},
		{
			name: "socks connect",
			err:  &net.OpError{Op: "socks connect", Net: "tcp", Err: errors.New("general failure")},
			want: ClassProxyConnect,
		},
		{
			name: "tls verification",
			err:  &url.Error{Op: "Get", URL: "https://x", Err: x509.UnknownAuthorityError{}},
			want: ClassTLS,
		},
		{
			name: "tls handshake text",
			err:  errors.New("remote error: tls: handshake failure"),
			want: ClassTLS,
		},
		{
			name: "connection refused",
			err:  &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}},
			want: ClassConnection,
		},
		{
			name: "dns",
			err:  &url.Error{Op: "Get", URL: "http://x", Err: &net.DNSError{Err: "no such host", Name: "x"}},
			want: ClassConnection,
		},
		{
			name: "timeout",
			err:  &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded},
			want: ClassTransport,
		},
		{
			name: "status",
			err:  retry.HTTPError{StatusCode: 503, Status: "Service Unavailable"},
			want: ClassTransport,
		},
		{
			name: "parse",
			err:  fmt.Errorf("failed to parse HTML: %w", errors.New("unexpected EOF")),
			want: ClassOther,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Errorf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestFetchErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &FetchError{Class: ClassTLS, Endpoint: "http://xxxxx@p:1", Attempt: 2, Underlying: errors.New("bad cert")})

	if !errors.Is(err, &FetchError{Class: ClassTLS}) {
		t.Error("Expected class match")
	}
	if errors.Is(err, &FetchError{Class: ClassConnection}) {
		t.Error("Expected class mismatch")
	}
}
