package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/tumblrpost/domain/response"
)

func js(s string) response.Value {
	v, err := response.Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

const notFoundEnvelope = `{"meta":{"status":404,"msg":"Not Found"},"response":{"errors":["post not found"]}}`

type editCall struct {
	ID     string
	Fields map[string]string
}

// fakeAPI scripts BlogAPI responses and records every call.
type fakeAPI struct {
	info response.Value

	postsQueue   []response.Value
	postsDefault *response.Value
	postsCalls   []PostsQuery

	createResp   response.Value
	created      []CreateParams
	createdKinds []string

	editResp response.Value
	edits    []editCall

	deleteResp response.Value
	deletes    []string

	transportErr error
}

func (f *fakeAPI) Info(context.Context) (response.Value, error) {
	if f.transportErr != nil {
		return response.Value{}, f.transportErr
	}
	return f.info, nil
}

func (f *fakeAPI) Posts(_ context.Context, _ string, q PostsQuery) (response.Value, error) {
	f.postsCalls = append(f.postsCalls, q)
	if f.transportErr != nil {
		return response.Value{}, f.transportErr
	}
	if len(f.postsQueue) > 0 {
		next := f.postsQueue[0]
		f.postsQueue = f.postsQueue[1:]
		return next, nil
	}
	if f.postsDefault != nil {
		return *f.postsDefault, nil
	}
	return response.Value{}, errors.New("unexpected posts call")
}

func (f *fakeAPI) CreatePhoto(_ context.Context, _ string, p CreateParams) (response.Value, error) {
	f.created = append(f.created, p)
	f.createdKinds = append(f.createdKinds, "photo")
	return f.createResp, f.transportErr
}

func (f *fakeAPI) CreateVideo(_ context.Context, _ string, p CreateParams) (response.Value, error) {
	f.created = append(f.created, p)
	f.createdKinds = append(f.createdKinds, "video")
	return f.createResp, f.transportErr
}

func (f *fakeAPI) EditPost(_ context.Context, _ string, id string, fields map[string]string) (response.Value, error) {
	f.edits = append(f.edits, editCall{ID: id, Fields: fields})
	return f.editResp, f.transportErr
}

func (f *fakeAPI) DeletePost(_ context.Context, _ string, id string) (response.Value, error) {
	f.deletes = append(f.deletes, id)
	return f.deleteResp, f.transportErr
}

func testClient(api BlogAPI, opts Options) *BlogClient {
	return NewBlogClient(api, "example", opts, zerolog.Nop())
}

// testUploader never really sleeps and reports a fixed clock.
func testUploader(c *BlogClient, now time.Time) (*Uploader, *int) {
	sleeps := 0
	u := NewUploader(c, zerolog.Nop())
	u.sleep = func(ctx context.Context, _ time.Duration) error {
		sleeps++
		return ctx.Err()
	}
	u.now = func() time.Time { return now }
	return u, &sleeps
}

func mediaFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("media"), 0o600); err != nil {
		t.Fatalf("write media failed: %v", err)
	}
	return path
}
