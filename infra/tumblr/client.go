package tumblr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/CrestNiraj12/tumblrpost/domain/response"
)

// DefaultBaseURL is the public Tumblr API host.
const DefaultBaseURL = "https://api.tumblr.com"

// Client is a thin HTTP wrapper for the Tumblr v2 API.
// Request signing is left to the supplied http.Client (see infra/auth).
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Tumblr API client. An empty baseURL selects the
// public API host.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Get performs a GET request with the given query.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (response.Value, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return response.Value{}, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

// PostForm performs a url-encoded POST request.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (response.Value, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return response.Value{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// PostMultipart performs a multipart POST request. files maps form field
// names to local file paths.
func (c *Client) PostMultipart(ctx context.Context, path string, fields url.Values, files map[string]string) (response.Value, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				return response.Value{}, fmt.Errorf("writing field %s: %w", key, err)
			}
		}
	}
	for field, file := range files {
		if err := writeFilePart(w, field, file); err != nil {
			return response.Value{}, err
		}
	}
	if err := w.Close(); err != nil {
		return response.Value{}, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return response.Value{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func writeFilePart(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening media: %w", err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading media %s: %w", path, err)
	}
	return nil
}

// do sends req and unwraps the envelope: a 2xx status yields the
// "response" member, anything else the whole body with its "meta" block.
func (c *Client) do(req *http.Request) (response.Value, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return response.Value{}, fmt.Errorf("request to %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response.Value{}, fmt.Errorf("reading response: %w", err)
	}

	body, err := response.Parse(data)
	if err != nil {
		return response.Value{}, fmt.Errorf("API %s %s returned %d: %s", req.Method, req.URL.Path, resp.StatusCode, snippet(data))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if !body.Has("meta") {
			// Keep rejected requests distinguishable from payloads.
			return response.FromAny(map[string]any{
				"meta":     map[string]any{"status": resp.StatusCode, "msg": http.StatusText(resp.StatusCode)},
				"response": body,
			}), nil
		}
		return body, nil
	}
	if payload, ok := body.Field("response"); ok {
		return payload, nil
	}
	return response.FromAny(map[string]any{}), nil
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
