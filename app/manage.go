package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/tumblrpost/domain"
	"github.com/CrestNiraj12/tumblrpost/domain/response"
)

// Manager edits and deletes existing posts. The API has no incremental
// tag primitive, so every tag change is a read followed by a full replace.
type Manager struct {
	client *BlogClient
	log    zerolog.Logger
}

// NewManager creates a Manager driving client.
func NewManager(client *BlogClient, logger zerolog.Logger) *Manager {
	return &Manager{client: client, log: logger}
}

// Tags returns the current tags of post id.
func (m *Manager) Tags(ctx context.Context, id string) (*domain.TagSet, error) {
	ok, err := m.client.FindByID(ctx, id)
	if err := m.client.Check("find post", ok, err); err != nil {
		return nil, err
	}
	post, err := response.Get(m.client.LastResponse(), "posts[0]")
	if err != nil {
		return nil, &domain.RequestError{Op: "find post", Err: err}
	}
	tags, _ := post.Field("tags")
	ts, err := domain.TagSetFrom(tags.Interface(), domain.DefaultTagSeparator)
	if err != nil {
		return nil, &domain.RequestError{Op: "find post", Err: err}
	}
	return ts, nil
}

// AllTags maps every listed post id to its tags, in listing order.
func (m *Manager) AllTags(ctx context.Context) ([]domain.Post, error) {
	ok, err := m.client.ListAllPosts(ctx)
	if err := m.client.Check("list posts", ok, err); err != nil {
		return nil, err
	}
	posts, err := m.client.Posts()
	if err != nil {
		return nil, &domain.RequestError{Op: "list posts", Err: err}
	}
	return posts, nil
}

// AddTags adds tags to post id and returns the resulting tag list.
func (m *Manager) AddTags(ctx context.Context, id string, tags *domain.TagSet) ([]string, error) {
	return m.editTags(ctx, id, func(ts *domain.TagSet) { ts.Add(tags.List()...) })
}

// RemoveTags removes tags from post id and returns the resulting tag list.
func (m *Manager) RemoveTags(ctx context.Context, id string, tags *domain.TagSet) ([]string, error) {
	return m.editTags(ctx, id, func(ts *domain.TagSet) { ts.Remove(tags.List()...) })
}

func (m *Manager) editTags(ctx context.Context, id string, mutate func(*domain.TagSet)) ([]string, error) {
	ts, err := m.Tags(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(ts)
	ok, err := m.client.EditTags(ctx, id, ts.List())
	if err := m.client.Check("edit tags", ok, err); err != nil {
		return nil, err
	}
	m.log.Info().Str("id", id).Strs("tags", ts.List()).Msg("tags replaced")
	return ts.List(), nil
}

// Delete removes post id, or every listed post when id is an "all"
// sentinel. It returns the ids deleted before any failure.
func (m *Manager) Delete(ctx context.Context, id string) ([]string, error) {
	if !IsAllSentinel(id) {
		return m.deleteIDs(ctx, []string{id})
	}
	ok, err := m.client.ListAllPosts(ctx)
	if err := m.client.Check("list posts", ok, err); err != nil {
		return nil, err
	}
	return m.deleteListed(ctx)
}

// DeleteTagged removes every post carrying tag. An empty tag or an "all"
// sentinel is rejected; use Delete to remove every post.
func (m *Manager) DeleteTagged(ctx context.Context, tag string) ([]string, error) {
	if strings.TrimSpace(tag) == "" || IsAllSentinel(tag) {
		return nil, &domain.RequestError{Op: "delete tagged posts", Msg: fmt.Sprintf("%q is not a tag", tag)}
	}
	ok, err := m.client.FindByTag(ctx, tag)
	if err := m.client.Check("find posts by tag", ok, err); err != nil {
		return nil, err
	}
	return m.deleteListed(ctx)
}

func (m *Manager) deleteListed(ctx context.Context) ([]string, error) {
	ids, err := m.client.PostIDs()
	if err != nil {
		return nil, &domain.RequestError{Op: "list posts", Err: err}
	}
	return m.deleteIDs(ctx, ids)
}

func (m *Manager) deleteIDs(ctx context.Context, ids []string) ([]string, error) {
	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		ok, err := m.client.DeletePost(ctx, id)
		if err := m.client.Check("delete "+id, ok, err); err != nil {
			return deleted, err
		}
		m.log.Info().Str("id", id).Msg("post deleted")
		deleted = append(deleted, id)
	}
	return deleted, nil
}
