package tumblr

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/CrestNiraj12/tumblrpost/app"
	"github.com/CrestNiraj12/tumblrpost/domain/response"
)

var _ app.BlogAPI = (*API)(nil)

// API implements app.BlogAPI on top of the v2 REST endpoints.
type API struct {
	client *Client
}

// NewAPI creates a BlogAPI backed by Tumblr.
func NewAPI(client *Client) *API {
	return &API{client: client}
}

// BlogHost turns a short blog name into its hostname.
func BlogHost(blog string) string {
	blog = strings.TrimSpace(blog)
	if blog != "" && !strings.Contains(blog, ".") {
		blog += ".tumblr.com"
	}
	return blog
}

func blogPath(blog, suffix string) string {
	return "/v2/blog/" + url.PathEscape(BlogHost(blog)) + suffix
}

func (a *API) Info(ctx context.Context) (response.Value, error) {
	v, err := a.client.Get(ctx, "/v2/user/info", nil)
	if err != nil {
		return response.Value{}, fmt.Errorf("fetching user info: %w", err)
	}
	return v, nil
}

func (a *API) Posts(ctx context.Context, blog string, q app.PostsQuery) (response.Value, error) {
	query := url.Values{}
	if q.ID != "" {
		query.Set("id", q.ID)
	}
	if q.Tag != "" {
		query.Set("tag", q.Tag)
	}
	v, err := a.client.Get(ctx, blogPath(blog, "/posts"), query)
	if err != nil {
		return response.Value{}, fmt.Errorf("fetching posts: %w", err)
	}
	return v, nil
}

func (a *API) CreatePhoto(ctx context.Context, blog string, p app.CreateParams) (response.Value, error) {
	return a.create(ctx, blog, "photo", p)
}

func (a *API) CreateVideo(ctx context.Context, blog string, p app.CreateParams) (response.Value, error) {
	return a.create(ctx, blog, "video", p)
}

func (a *API) create(ctx context.Context, blog, kind string, p app.CreateParams) (response.Value, error) {
	fields := url.Values{}
	for k, v := range p.Extra {
		fields.Set(k, v)
	}
	fields.Set("type", kind)
	setIf(fields, "state", p.State)
	setIf(fields, "format", p.Format)
	setIf(fields, "caption", p.Caption)
	setIf(fields, "date", p.Date)
	if len(p.Tags) > 0 {
		fields.Set("tags", strings.Join(p.Tags, ","))
	}

	v, err := a.client.PostMultipart(ctx, blogPath(blog, "/post"), fields, map[string]string{"data[0]": p.Data})
	if err != nil {
		return response.Value{}, fmt.Errorf("creating %s post: %w", kind, err)
	}
	return v, nil
}

func (a *API) EditPost(ctx context.Context, blog, id string, fields map[string]string) (response.Value, error) {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	form.Set("id", id)
	v, err := a.client.PostForm(ctx, blogPath(blog, "/post/edit"), form)
	if err != nil {
		return response.Value{}, fmt.Errorf("editing post %s: %w", id, err)
	}
	return v, nil
}

func (a *API) DeletePost(ctx context.Context, blog, id string) (response.Value, error) {
	v, err := a.client.PostForm(ctx, blogPath(blog, "/post/delete"), url.Values{"id": {id}})
	if err != nil {
		return response.Value{}, fmt.Errorf("deleting post %s: %w", id, err)
	}
	return v, nil
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
