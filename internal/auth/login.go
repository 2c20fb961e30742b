// Package auth runs the browser login: it waits on a loopback port for the
// single redirect that carries the issued token.
package auth

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/olivier-w/jorik/internal/api"
	"github.com/olivier-w/jorik/internal/config"
	"github.com/pkg/browser"
	zlog "github.com/rs/zerolog/log"
)

var (
	ErrTimeout      = errors.New("login timed out")
	ErrMissingToken = errors.New("missing token in callback")
)

const (
	DefaultTimeout = 120 * time.Second
	callbackPath   = "/oauth-callback"
)

// Options configures one login attempt.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Save persists the credentials before the browser gets its reply.
	Save func(config.Credentials) error
	// OnURL receives the authorization URL once it is known.
	OnURL func(string)
	// Open launches the browser. It defaults to pkg/browser.
	Open func(string) error
	// SavedTo is shown on the confirmation page when set.
	SavedTo string
}

// Login binds an ephemeral loopback port, sends the user to the server's
// authorize page, and accepts one callback. It does not retry.
func Login(ctx context.Context, opts Options) (*config.Credentials, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Open == nil {
		opts.Open = browser.OpenURL
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(err, "failed to bind callback listener")
	}
	defer ln.Close()

	authURL, err := AuthorizeURL(opts.BaseURL, "http://"+ln.Addr().String()+callbackPath)
	if err != nil {
		return nil, err
	}
	if opts.OnURL != nil {
		opts.OnURL(authURL)
	}
	if err := opts.Open(authURL); err != nil {
		zlog.Warn().Err(err).Msg("could not open browser")
	}

	deadline := time.Now().Add(opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if tl, ok := ln.(*net.TCPListener); ok {
		tl.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	conn, err := ln.Accept()
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, ErrTimeout
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(err, "failed to accept callback")
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	return handle(conn, opts)
}

// AuthorizeURL builds <base>/authorize?callback=<callback>.
func AuthorizeURL(baseURL, callback string) (string, error) {
	u, err := url.Parse(api.BuildURL(baseURL, "/authorize"))
	if err != nil {
		return "", errors.Wrap(err, "invalid base URL")
	}
	q := u.Query()
	q.Set("callback", callback)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func handle(conn net.Conn, opts Options) (*config.Credentials, error) {
	req, err := http.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read callback")
	}
	q := req.URL.Query()
	token := strings.TrimSpace(q.Get("token"))
	if token == "" {
		respond(conn, http.StatusBadRequest, "text/plain; charset=utf-8", []byte("Missing token"))
		return nil, ErrMissingToken
	}

	creds := config.Credentials{
		Token:     token,
		AvatarURL: q.Get("avatar"),
		Username:  q.Get("username"),
	}
	if opts.Save != nil {
		if err := opts.Save(creds); err != nil {
			respond(conn, http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("Failed to save token"))
			return nil, errors.Wrap(err, "failed to save token")
		}
	}

	page, err := successPage(creds, opts.SavedTo)
	if err != nil {
		return nil, err
	}
	respond(conn, http.StatusOK, "text/html; charset=utf-8", page)
	return &creds, nil
}

func respond(conn net.Conn, status int, contentType string, body []byte) {
	fmt.Fprintf(conn, "HTTP/1.1 %d %s\r\nContent-Type: %s\r\nContent-Length: %d\r\nConnection: close\r\n\r\n",
		status, http.StatusText(status), contentType, len(body))
	conn.Write(body)
}

var successTemplate = template.Must(template.New("success").Parse(`<!doctype html>
<html><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>Authorization complete</title>
<style>
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,Arial,sans-serif;background:#2f3136;color:#dcddde;margin:0;display:flex;align-items:center;justify-content:center;height:100vh}
.container{max-width:560px;width:100%;padding:28px;background:#36393f;border-radius:12px;box-shadow:0 6px 20px rgba(0,0,0,.6)}
.header{display:flex;align-items:center;gap:16px;margin-bottom:18px}
.check{width:56px;height:56px;border-radius:50%;background:#43b581;color:#fff;display:flex;align-items:center;justify-content:center;font-weight:700}
.avatar{width:56px;height:56px;border-radius:50%;object-fit:cover}
.user{font-size:16px;font-weight:600;color:#fff}
.sp{color:#b9bbbe;font-size:13px;margin-top:4px}
code{background:#2f3136;padding:4px 6px;border-radius:6px}
</style></head>
<body><div class="container"><div class="header">
{{if .Avatar}}<img class="avatar" src="{{.Avatar}}" alt="avatar"/>{{else}}<div class="check">&#10003;</div>{{end}}
<div><div class="user">{{.User}}</div><div class="sp">Authorization complete</div>
{{if .SavedTo}}<p class="sp">Saved to <code>{{.SavedTo}}</code></p>{{end}}</div>
</div><p class="sp">Token saved to your config. You may close this window.</p></div></body></html>
`))

func successPage(c config.Credentials, savedTo string) ([]byte, error) {
	user := c.Username
	if user == "" {
		user = "User"
	}
	var buf bytes.Buffer
	err := successTemplate.Execute(&buf, struct {
		User, Avatar, SavedTo string
	}{User: user, Avatar: c.AvatarURL, SavedTo: savedTo})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render confirmation page")
	}
	return buf.Bytes(), nil
}
