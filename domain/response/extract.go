package response

import (
	"github.com/CrestNiraj12/tumblrpost/domain"
)

// PostIDs returns the id of every post in a post-list response.
func PostIDs(v Value) ([]string, error) {
	posts, err := Get(v, "posts")
	if err != nil {
		return nil, err
	}
	if posts.Kind() != Array {
		return nil, &domain.TypeMismatchError{Path: "posts", Step: "posts", Got: posts.Kind().String()}
	}
	ids := make([]string, 0, posts.Len())
	for _, p := range posts.Items() {
		id, _ := p.Field("id")
		ids = append(ids, id.Text())
	}
	return ids, nil
}

// TagsByID maps every post id in a post-list response to its tags.
func TagsByID(v Value) (map[string][]string, error) {
	posts, err := Posts(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(posts))
	for _, p := range posts {
		out[p.ID] = p.Tags
	}
	return out, nil
}

// Posts maps a post-list response onto domain posts.
func Posts(v Value) ([]domain.Post, error) {
	posts, err := Get(v, "posts")
	if err != nil {
		return nil, err
	}
	if posts.Kind() != Array {
		return nil, &domain.TypeMismatchError{Path: "posts", Step: "posts", Got: posts.Kind().String()}
	}
	out := make([]domain.Post, 0, posts.Len())
	for _, p := range posts.Items() {
		id, _ := p.Field("id")
		state, _ := p.Field("state")
		typ, _ := p.Field("type")
		out = append(out, domain.Post{
			ID:    id.Text(),
			Tags:  Strings(p, "tags"),
			State: state.Text(),
			Type:  typ.Text(),
		})
	}
	return out, nil
}

// Strings returns the scalar elements of the array at path, or nil.
func Strings(v Value, path string) []string {
	arr, err := Get(v, path)
	if err != nil || arr.Kind() != Array {
		return nil
	}
	out := make([]string, 0, arr.Len())
	for _, item := range arr.Items() {
		out = append(out, item.Text())
	}
	return out
}

// ID returns the id field of an upload response.
func ID(v Value) (string, error) {
	return Text(v, "id")
}

// Blogs lists the blog names found in an info response.
func Blogs(v Value) []string {
	blogs, err := Get(v, "user/blogs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, blogs.Len())
	for _, b := range blogs.Items() {
		if name, ok := b.Field("name"); ok {
			names = append(names, name.Text())
			continue
		}
		names = append(names, b.Text())
	}
	return names
}

// DefaultPostFormat returns the account's default post format, "?" if unknown.
func DefaultPostFormat(v Value) string {
	format, err := Text(v, "user/default_post_format")
	if err != nil || format == "" {
		return "?"
	}
	return format
}
