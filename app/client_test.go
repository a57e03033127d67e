package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/CrestNiraj12/tumblrpost/domain"
	"github.com/CrestNiraj12/tumblrpost/domain/response"
)

func TestResponseIsOK_MetaDecides(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{name: "payload without meta", body: `{"user":{"blogs":[]}}`, ok: true},
		{name: "empty object", body: `{}`, ok: true},
		{name: "meta only", body: `{"meta":{"status":200,"msg":"OK"}}`, ok: false},
		{name: "meta with payload", body: `{"meta":{"status":200},"posts":[{"id":1}]}`, ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{info: js(tc.body)}
			c := testClient(api, DefaultOptions())
			ok, err := c.Authenticate(context.Background())
			if err != nil {
				t.Fatalf("unexpected transport error: %v", err)
			}
			if ok != tc.ok || c.ResponseIsOK() != tc.ok {
				t.Fatalf("ok=%v ResponseIsOK=%v want %v", ok, c.ResponseIsOK(), tc.ok)
			}
		})
	}
}

func TestLastError_Rendering(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "ok response has no error",
			body: `{"posts":[]}`,
			want: "",
		},
		{
			name: "structured errors",
			body: `{"meta":{"status":401,"msg":"Unauthorized"},"errors":[{"title":"Unauthorized","code":1016,"detail":"Unable to authorize"}]}`,
			want: "ERROR: Unauthorized - 1016 - Unable to authorize",
		},
		{
			name: "freeform errors",
			body: `{"meta":{"status":400,"msg":"Bad Request"},"response":{"errors":["Nice image, but we don't support that format.","second"]}}`,
			want: "ERROR: Nice image, but we don't support that format.; second",
		},
		{
			name: "meta only",
			body: `{"meta":{"status":500,"msg":"Server Error"}}`,
			want: unknownErrorMsg + " (500 Server Error)",
		},
		{
			name: "empty meta",
			body: `{"meta":{}}`,
			want: unknownErrorMsg,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := testClient(&fakeAPI{info: js(tc.body)}, DefaultOptions())
			if _, err := c.Authenticate(context.Background()); err != nil {
				t.Fatalf("unexpected transport error: %v", err)
			}
			if got := c.LastError(); got != tc.want {
				t.Fatalf("LastError() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBlogClient_CountsRequestsAndKeepsLastResponse(t *testing.T) {
	api := &fakeAPI{
		info:       js(`{"user":{"blogs":[{"name":"example"}],"default_post_format":"html"}}`),
		postsQueue: []response.Value{js(`{"posts":[{"id":1},{"id":2}]}`), js(`{"posts":[{"id":3}]}`)},
	}
	c := testClient(api, DefaultOptions())
	ctx := context.Background()

	if ok, err := c.Authenticate(ctx); !ok || err != nil {
		t.Fatalf("authenticate failed: ok=%v err=%v", ok, err)
	}
	if got := c.Blogs(); len(got) != 1 || got[0] != "example" {
		t.Fatalf("unexpected blogs: %v", got)
	}
	if c.DefaultPostFormat() != "html" {
		t.Fatalf("unexpected format: %q", c.DefaultPostFormat())
	}

	if ok, _ := c.ListAllPosts(ctx); !ok {
		t.Fatalf("list failed")
	}
	ids, err := c.PostIDs()
	if err != nil || strings.Join(ids, ",") != "1,2" {
		t.Fatalf("unexpected ids: %v err=%v", ids, err)
	}

	if ok, _ := c.FindByTag(ctx, "holiday"); !ok {
		t.Fatalf("find by tag failed")
	}
	if c.Requests() != 3 {
		t.Fatalf("expected 3 requests, got %d", c.Requests())
	}
	if api.postsCalls[1].Tag != "holiday" {
		t.Fatalf("tag not forwarded: %#v", api.postsCalls)
	}
}

func TestFindByTag_SentinelsListEverything(t *testing.T) {
	for _, tag := range []string{"", "*", "all", "ALL", "-"} {
		def := js(`{"posts":[]}`)
		api := &fakeAPI{postsDefault: &def}
		c := testClient(api, DefaultOptions())
		if _, err := c.FindByTag(context.Background(), tag); err != nil {
			t.Fatalf("find %q failed: %v", tag, err)
		}
		if got := api.postsCalls[0]; got != (PostsQuery{}) {
			t.Fatalf("sentinel %q must list all posts, got query %#v", tag, got)
		}
	}
}

func TestDeletePost_RejectsSentinel(t *testing.T) {
	api := &fakeAPI{deleteResp: js(`{}`)}
	c := testClient(api, DefaultOptions())
	if _, err := c.DeletePost(context.Background(), "all"); err == nil {
		t.Fatalf("expected error for sentinel id")
	}
	if c.Requests() != 0 || len(api.deletes) != 0 {
		t.Fatalf("sentinel delete must not reach the API")
	}
	if ok, err := c.DeletePost(context.Background(), "42"); !ok || err != nil {
		t.Fatalf("delete failed: ok=%v err=%v", ok, err)
	}
}

func TestBlogClient_TransportFailure(t *testing.T) {
	boom := errors.New("connection reset")
	c := testClient(&fakeAPI{transportErr: boom}, DefaultOptions())
	ok, err := c.FindByID(context.Background(), "1")
	if ok || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got ok=%v err=%v", ok, err)
	}
	if c.ResponseIsOK() {
		t.Fatalf("a failed exchange must not report ok")
	}
	if got := c.LastError(); !strings.Contains(got, "connection reset") {
		t.Fatalf("last error must carry the transport failure, got %q", got)
	}
	checked := c.Check("find post", ok, err)
	var re *domain.RequestError
	if !errors.As(checked, &re) || !errors.Is(checked, boom) {
		t.Fatalf("expected RequestError wrapping transport failure: %v", checked)
	}
}

func TestEditTags_SendsFullList(t *testing.T) {
	api := &fakeAPI{editResp: js(`{"id":5}`)}
	c := testClient(api, DefaultOptions())
	if ok, err := c.EditTags(context.Background(), "5", []string{"a", "b"}); !ok || err != nil {
		t.Fatalf("edit failed: ok=%v err=%v", ok, err)
	}
	if got := api.edits[0].Fields["tags"]; got != "a,b" {
		t.Fatalf("unexpected tags field: %q", got)
	}
}
