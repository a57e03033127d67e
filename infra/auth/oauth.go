package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/CrestNiraj12/tumblrpost/domain"
)

// Endpoint is Tumblr's OAuth 1.0a endpoint set.
var Endpoint = oauth1.Endpoint{
	RequestTokenURL: "https://www.tumblr.com/oauth/request_token",
	AuthorizeURL:    "https://www.tumblr.com/oauth/authorize",
	AccessTokenURL:  "https://www.tumblr.com/oauth/access_token",
}

const loginTimeout = 2 * time.Minute

// Credentials are the consumer and access token pairs used to sign requests.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// Validate reports which part of the credentials is missing.
func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ConsumerKey) == "" {
		missing = append(missing, "consumer key")
	}
	if strings.TrimSpace(c.ConsumerSecret) == "" {
		missing = append(missing, "consumer secret")
	}
	if strings.TrimSpace(c.Token) == "" {
		missing = append(missing, "oauth token")
	}
	if strings.TrimSpace(c.TokenSecret) == "" {
		missing = append(missing, "oauth token secret")
	}
	if len(missing) > 0 {
		return &domain.AuthError{Msg: "missing " + strings.Join(missing, ", ")}
	}
	return nil
}

// NewHTTPClient returns an http.Client that signs every request with creds.
func NewHTTPClient(ctx context.Context, creds Credentials) (*http.Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	return cfg.Client(ctx, oauth1.NewToken(creds.Token, creds.TokenSecret)), nil
}

var openBrowser = func(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// Login runs the three-legged OAuth 1.0a flow in the browser and returns
// the full credentials. Progress messages go to out.
func Login(ctx context.Context, consumerKey, consumerSecret string, callbackPort int, out io.Writer) (Credentials, error) {
	return login(ctx, Endpoint, consumerKey, consumerSecret, callbackPort, out)
}

func login(ctx context.Context, endpoint oauth1.Endpoint, consumerKey, consumerSecret string, callbackPort int, out io.Writer) (Credentials, error) {
	if strings.TrimSpace(consumerKey) == "" || strings.TrimSpace(consumerSecret) == "" {
		return Credentials{}, &domain.AuthError{Msg: "consumer key and secret are required to log in"}
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", callbackPort))
	if err != nil {
		return Credentials{}, fmt.Errorf("oauth callback server: %w", err)
	}
	cfg := &oauth1.Config{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		CallbackURL:    fmt.Sprintf("http://%s/callback", ln.Addr().String()),
		Endpoint:       endpoint,
	}

	requestToken, requestSecret, err := cfg.RequestToken()
	if err != nil {
		_ = ln.Close()
		return Credentials{}, fmt.Errorf("obtaining request token: %w", err)
	}
	authURL, err := cfg.AuthorizationURL(requestToken)
	if err != nil {
		_ = ln.Close()
		return Credentials{}, fmt.Errorf("building authorization url: %w", err)
	}

	verifierCh := make(chan string, 1)
	errCh := make(chan error, 1)
	srv := &http.Server{Handler: callbackHandler(requestToken, verifierCh, errCh)}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- fmt.Errorf("oauth callback server: %w", err):
			default:
			}
		}
	}()
	defer func() { _ = srv.Shutdown(context.Background()) }()

	fmt.Fprintf(out, "Opening browser for OAuth login...\nIf it does not open, visit:\n%s\n\n", authURL.String())
	_ = openBrowser(authURL.String())

	timeout := time.NewTimer(loginTimeout)
	defer timeout.Stop()

	var verifier string
	select {
	case <-ctx.Done():
		return Credentials{}, ctx.Err()
	case err := <-errCh:
		return Credentials{}, err
	case verifier = <-verifierCh:
	case <-timeout.C:
		return Credentials{}, errors.New("oauth login timed out")
	}

	token, secret, err := cfg.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return Credentials{}, fmt.Errorf("exchanging oauth verifier: %w", err)
	}
	return Credentials{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		Token:          token,
		TokenSecret:    secret,
	}, nil
}

func callbackHandler(requestToken string, verifierCh chan<- string, errCh chan<- error) http.Handler {
	fail := func(w http.ResponseWriter, msg string, err error) {
		http.Error(w, msg, http.StatusBadRequest)
		select {
		case errCh <- err:
		default:
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}
		token, verifier, err := oauth1.ParseAuthorizationCallback(r)
		if err != nil {
			fail(w, "authorization denied", fmt.Errorf("oauth callback: %w", err))
			return
		}
		if token != requestToken {
			fail(w, "invalid oauth token", errors.New("oauth request token mismatch"))
			return
		}
		_, _ = io.WriteString(w, domain.AppTitle+" login complete. You can return to the terminal.")
		select {
		case verifierCh <- verifier:
		default:
		}
	})
}
