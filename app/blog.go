package app

import (
	"context"

	"github.com/CrestNiraj12/tumblrpost/domain/response"
)

// PostsQuery narrows a posts lookup. Empty fields are not sent.
type PostsQuery struct {
	ID  string
	Tag string
}

// CreateParams describes a new media post.
type CreateParams struct {
	State   string
	Format  string
	Tags    []string
	Data    string // Path of the media file to upload.
	Caption string
	Date    string
	Extra   map[string]string
}

// BlogAPI is the blogging platform's REST surface.
// Implemented by infrastructure (e.g. infra/tumblr).
//
// Every method returns the decoded envelope. A rejected request is not an
// error: it comes back as an envelope carrying a top-level "meta" block.
// The error return is reserved for transport failures.
type BlogAPI interface {
	// Info returns the authenticated user's account info.
	Info(ctx context.Context) (response.Value, error)

	// Posts lists posts of a blog, optionally filtered by id or tag.
	Posts(ctx context.Context, blog string, q PostsQuery) (response.Value, error)

	// CreatePhoto uploads a photo post.
	CreatePhoto(ctx context.Context, blog string, p CreateParams) (response.Value, error)

	// CreateVideo uploads a video post.
	CreateVideo(ctx context.Context, blog string, p CreateParams) (response.Value, error)

	// EditPost replaces the given fields of an existing post.
	EditPost(ctx context.Context, blog, id string, fields map[string]string) (response.Value, error)

	// DeletePost removes a post.
	DeletePost(ctx context.Context, blog, id string) (response.Value, error)
}
