package tcp

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/url"
)

var ErrScheme = errors.New("tcp: unsupported scheme")

// Dial - for RTMP(S|X), rtmpx is TLS without certificate check
func Dial(ctx context.Context, u *url.URL, port string) (net.Conn, error) {
	address, secure, err := resolve(u, port)
	if err != nil {
		return nil, err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}

	if secure == nil {
		return conn, nil
	}

	tlsConn := tls.Client(conn, secure)
	if err = tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return tlsConn, nil
}

func resolve(u *url.URL, port string) (address string, secure *tls.Config, err error) {
	hostname := u.Hostname()
	if p := u.Port(); p != "" {
		port = p
	}
	address = net.JoinHostPort(hostname, port)

	switch u.Scheme {
	case "rtmp":
	case "rtmps", "rtmpx":
		if u.Scheme == "rtmpx" || net.ParseIP(hostname) != nil {
			secure = &tls.Config{InsecureSkipVerify: true}
		} else {
			secure = &tls.Config{ServerName: hostname}
		}
	default:
		return "", nil, ErrScheme
	}

	return
}
