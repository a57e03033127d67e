package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/tumblrpost/domain"
	"github.com/CrestNiraj12/tumblrpost/domain/response"
)

const unknownErrorMsg = "unknown error ?! check json response"

// IsAllSentinel reports whether s stands for "every post" on the command line.
func IsAllSentinel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "*", "all", "-":
		return true
	}
	return false
}

// BlogClient performs single request/response exchanges against one blog
// and keeps the last envelope around for inspection.
// Not safe for concurrent use.
type BlogClient struct {
	api  BlogAPI
	blog string
	opts Options
	log  zerolog.Logger

	last     response.Value
	lastErr  error
	requests int
}

// NewBlogClient creates a client bound to blog.
func NewBlogClient(api BlogAPI, blog string, opts Options, logger zerolog.Logger) *BlogClient {
	return &BlogClient{
		api:  api,
		blog: blog,
		opts: opts.withDefaults(),
		log:  logger.With().Str("blog", blog).Logger(),
	}
}

// Blog returns the blog identifier this client is bound to.
func (c *BlogClient) Blog() string { return c.blog }

// Options returns the effective options.
func (c *BlogClient) Options() Options { return c.opts }

// Requests returns the number of API calls issued so far.
func (c *BlogClient) Requests() int { return c.requests }

// LastResponse returns the envelope of the most recent call.
func (c *BlogClient) LastResponse() response.Value { return c.last }

// do runs one API call. ok reports whether the envelope is free of errors;
// err is only set when the exchange itself failed.
func (c *BlogClient) do(ctx context.Context, op string, call func(context.Context) (response.Value, error)) (bool, error) {
	c.requests++
	resp, err := call(ctx)
	if err != nil {
		c.last = response.Value{}
		c.lastErr = err
		c.log.Debug().Err(err).Int("request", c.requests).Str("op", op).Msg("api request failed")
		return false, fmt.Errorf("%s: %w", op, err)
	}
	c.last = resp
	c.lastErr = nil
	if e := c.log.Debug(); e.Enabled() {
		raw, _ := json.Marshal(resp)
		e.Int("request", c.requests).Str("op", op).RawJSON("response", raw).Msg("api response")
	}
	return c.ResponseIsOK(), nil
}

// ResponseIsOK reports whether the last exchange completed and its envelope
// has no top-level meta block.
func (c *BlogClient) ResponseIsOK() bool {
	return c.lastErr == nil && !c.last.Has("meta")
}

// LastError renders the failure carried by the last envelope, or "" if it
// was ok.
func (c *BlogClient) LastError() string {
	if c.ResponseIsOK() {
		return ""
	}
	if c.lastErr != nil {
		return "ERROR: " + c.lastErr.Error()
	}
	if errs, ok := c.last.Field("errors"); ok && errs.Len() > 0 {
		first, _ := errs.Index(0)
		if first.Kind() == response.Object {
			title, _ := first.Field("title")
			code, _ := first.Field("code")
			detail, _ := first.Field("detail")
			return fmt.Sprintf("ERROR: %s - %s - %s", title.Text(), code.Text(), detail.Text())
		}
		if first.Text() != "" {
			return "ERROR: " + first.Text()
		}
	}
	if msgs := response.Strings(c.last, "response/errors"); len(msgs) > 0 {
		return "ERROR: " + strings.Join(msgs, "; ")
	}
	if status, err := response.Text(c.last, "meta/status"); err == nil && status != "" {
		msg, _ := response.Text(c.last, "meta/msg")
		return fmt.Sprintf("%s (%s %s)", unknownErrorMsg, status, msg)
	}
	return unknownErrorMsg
}

// Check folds the result of an operation into the error taxonomy.
func (c *BlogClient) Check(op string, ok bool, err error) error {
	if err != nil {
		return &domain.RequestError{Op: op, Err: err}
	}
	if !ok {
		return &domain.RequestError{Op: op, Msg: c.LastError()}
	}
	return nil
}

// Authenticate fetches the account info. Callers must not issue other
// requests when it fails.
func (c *BlogClient) Authenticate(ctx context.Context) (bool, error) {
	return c.do(ctx, "info", c.api.Info)
}

// ListAllPosts lists every post the API returns in one page.
func (c *BlogClient) ListAllPosts(ctx context.Context) (bool, error) {
	return c.do(ctx, "posts", func(ctx context.Context) (response.Value, error) {
		return c.api.Posts(ctx, c.blog, PostsQuery{})
	})
}

// FindByID looks up a single post.
func (c *BlogClient) FindByID(ctx context.Context, id string) (bool, error) {
	return c.do(ctx, "posts by id", func(ctx context.Context) (response.Value, error) {
		return c.api.Posts(ctx, c.blog, PostsQuery{ID: id})
	})
}

// FindByTag lists posts carrying tag; an empty tag or an "all" sentinel
// lists every post.
func (c *BlogClient) FindByTag(ctx context.Context, tag string) (bool, error) {
	if tag == "" || IsAllSentinel(tag) {
		return c.ListAllPosts(ctx)
	}
	return c.do(ctx, "posts by tag", func(ctx context.Context) (response.Value, error) {
		return c.api.Posts(ctx, c.blog, PostsQuery{Tag: tag})
	})
}

// DeletePost deletes a single post. An "all" sentinel is rejected; callers
// expand it into single deletes.
func (c *BlogClient) DeletePost(ctx context.Context, id string) (bool, error) {
	if IsAllSentinel(id) || strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("delete post %q: %w", id, errors.New("a single post id is required"))
	}
	return c.do(ctx, "delete", func(ctx context.Context) (response.Value, error) {
		return c.api.DeletePost(ctx, c.blog, id)
	})
}

// EditTags replaces the full tag set of a post.
func (c *BlogClient) EditTags(ctx context.Context, id string, tags []string) (bool, error) {
	fields := map[string]string{"tags": strings.Join(tags, domain.DefaultTagSeparator)}
	return c.do(ctx, "edit", func(ctx context.Context) (response.Value, error) {
		return c.api.EditPost(ctx, c.blog, id, fields)
	})
}

// MediaUpload is a photo or video ready to be submitted.
type MediaUpload struct {
	Path    string
	Caption string
	Tags    *domain.TagSet
	Date    string
}

func (c *BlogClient) createParams(m MediaUpload) CreateParams {
	var tags []string
	if m.Tags != nil {
		tags = m.Tags.List()
	}
	return CreateParams{
		State:   "published",
		Format:  c.opts.Format,
		Tags:    tags,
		Data:    m.Path,
		Caption: m.Caption,
		Date:    m.Date,
		Extra:   c.opts.Extra,
	}
}

// UploadPhoto submits a photo post.
func (c *BlogClient) UploadPhoto(ctx context.Context, m MediaUpload) (bool, error) {
	p := c.createParams(m)
	return c.do(ctx, "create photo", func(ctx context.Context) (response.Value, error) {
		return c.api.CreatePhoto(ctx, c.blog, p)
	})
}

// UploadVideo submits a video post.
func (c *BlogClient) UploadVideo(ctx context.Context, m MediaUpload) (bool, error) {
	p := c.createParams(m)
	return c.do(ctx, "create video", func(ctx context.Context) (response.Value, error) {
		return c.api.CreateVideo(ctx, c.blog, p)
	})
}

// PostIDs returns the post ids of the last post-list response.
func (c *BlogClient) PostIDs() ([]string, error) { return response.PostIDs(c.last) }

// TagsByID maps post ids of the last post-list response to their tags.
func (c *BlogClient) TagsByID() (map[string][]string, error) { return response.TagsByID(c.last) }

// Posts returns the posts of the last post-list response.
func (c *BlogClient) Posts() ([]domain.Post, error) { return response.Posts(c.last) }

// ResponseID returns the id of the last upload response.
func (c *BlogClient) ResponseID() (string, error) { return response.ID(c.last) }

// Blogs returns the blog names of the last info response.
func (c *BlogClient) Blogs() []string { return response.Blogs(c.last) }

// DefaultPostFormat returns the default post format of the last info response.
func (c *BlogClient) DefaultPostFormat() string { return response.DefaultPostFormat(c.last) }

// Extract reads path from the last response as text.
func (c *BlogClient) Extract(path string) (string, error) { return response.Text(c.last, path) }
