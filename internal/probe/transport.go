package probe

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/proxy"
)

// TLS fingerprints understood by NewExecutor.
const (
	FingerprintGo         = "go"
	FingerprintRandomized = "randomized"
)

// newTransport builds a single-use transport bound to one proxy.
func newTransport(proxyURL *url.URL, timeout time.Duration, fingerprint string) *http.Transport {
	dialer := &net.Dialer{Timeout: timeout}
	tr := &http.Transport{
		Proxy:               http.ProxyURL(proxyURL),
		DialContext:         dialer.DialContext,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
		TLSHandshakeTimeout: timeout,
		DisableKeepAlives:   true,
	}
	if fingerprint != FingerprintRandomized {
		return tr
	}

	t := &tunnel{proxy: proxyURL, dialer: dialer}
	// https requests skip the transport's own proxy handling so that
	// DialTLSContext sees them and can tunnel + handshake with uTLS.
	tr.Proxy = func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" {
			return nil, nil
		}
		return proxyURL, nil
	}
	tr.DialTLSContext = t.dialTLS
	return tr
}

// tunnel opens raw connections to a target through a proxy.
type tunnel struct {
	proxy  *url.URL
	dialer *net.Dialer
}

func (t *tunnel) dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := t.dial(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	uconn := utls.UClient(conn, &utls.Config{
		ServerName:         host,
		InsecureSkipVerify: true,
	}, utls.HelloRandomizedNoALPN)
	if err := uconn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake via proxy: %w", err)
	}
	return uconn, nil
}

func (t *tunnel) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	switch t.proxy.Scheme {
	case "socks5", "socks5h":
		d, err := proxy.FromURL(t.proxy, t.dialer)
		if err != nil {
			return nil, fmt.Errorf("socks dialer: %w", err)
		}
		if cd, ok := d.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		return d.Dial(network, addr)
	default:
		return t.connect(ctx, addr)
	}
}

// connect issues an HTTP CONNECT for addr and returns the tunnelled conn.
func (t *tunnel) connect(ctx context.Context, addr string) (net.Conn, error) {
	conn, err := t.dialer.DialContext(ctx, "tcp", t.proxy.Host)
	if err != nil {
		return nil, fmt.Errorf("proxyconnect: %w", err)
	}
	if dl, ok := ctx.Deadline(); ok {
		conn.SetDeadline(dl)
	}

	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	if u := t.proxy.User; u != nil {
		pass, _ := u.Password()
		cred := base64.StdEncoding.EncodeToString([]byte(u.Username() + ":" + pass))
		req.Header.Set("Proxy-Authorization", "Basic "+cred)
	}
	if err := req.Write(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("proxyconnect: %w", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("proxyconnect: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		conn.Close()
		return nil, fmt.Errorf("proxyconnect: %s", resp.Status)
	}

	conn.SetDeadline(time.Time{})
	return conn, nil
}
