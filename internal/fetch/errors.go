// internal/fetch/errors.go
package fetch

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/law-makers/pricefeed/internal/retry"
)

// Sentinel errors for terminal fetch states
var (
	ErrPoolExhausted     = errors.New("proxy pool exhausted")
	ErrAttemptsExhausted = errors.New("fetch attempts exhausted")
	ErrCancelled         = errors.New("fetch cancelled")
)

// ErrorClass is the transport failure taxonomy used for logging and metrics
type ErrorClass string

const (
	ClassProxyConnect ErrorClass = "proxy_connect"
	ClassTLS          ErrorClass = "tls"
	ClassConnection   ErrorClass = "connection"
	ClassTransport    ErrorClass = "transport"
	ClassOther        ErrorClass = "other"
)

// FetchError wraps a failed attempt with its classification
type FetchError struct {
	Class      ErrorClass
	Endpoint   string // masked, safe to log
	Attempt    int
	Underlying error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: attempt %d via %s: %v", e.Class, e.Attempt, e.Endpoint, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Underlying
}

// Is matches another FetchError by class
func (e *FetchError) Is(target error) bool {
	if t, ok := target.(*FetchError); ok {
		return e.Class == t.Class
	}
	return false
}

// Classify maps a failed attempt onto the error taxonomy. Proxy failures take
// precedence, then TLS, then plain connection errors.
func Classify(err error) ErrorClass {
	if err == nil {
		return ""
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Op == "proxyconnect" || strings.HasPrefix(opErr.Op, "socks")) {
		return ClassProxyConnect
	}

	if isTLSError(err) {
		return ClassTLS
	}

	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET):
		return ClassConnection
	}

	var urlErr *url.Error
	var sc retry.StatusCoder
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &sc) || errors.As(err, &netErr) {
		return ClassTransport
	}

	return ClassOther
}

func isTLSError(err error) bool {
	var (
		recordErr    tls.RecordHeaderError
		verifyErr    *tls.CertificateVerificationError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	if errors.As(err, &recordErr) || errors.As(err, &verifyErr) || errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) || errors.As(err, &hostnameErr) || errors.As(err, &invalidErr) {
		return true
	}
	return strings.Contains(err.Error(), "tls: ")
}
