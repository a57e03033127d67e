package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/tumblrpost/domain"
	"github.com/CrestNiraj12/tumblrpost/domain/response"
)

// Uploader publishes media and waits until the platform has finished
// processing it. Uploads return an ephemeral id right away; the durable post
// only becomes visible later.
type Uploader struct {
	client   *BlogClient
	opts     Options
	log      zerolog.Logger
	observer Observer

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewUploader creates an Uploader driving client.
func NewUploader(client *BlogClient, logger zerolog.Logger) *Uploader {
	return &Uploader{
		client:   client,
		opts:     client.Options(),
		log:      logger,
		observer: LogObserver(logger),
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// WithObserver replaces the progress observer.
func (u *Uploader) WithObserver(o Observer) *Uploader {
	if o != nil {
		u.observer = o
	}
	return u
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (u *Uploader) emit(e Event) {
	u.observer.Observe(e)
}

func (u *Uploader) fail(op, id string, err error) (domain.UploadResult, error) {
	u.emit(Event{Op: op, Stage: StageFailed, PostID: id, Err: err})
	return domain.UploadResult{}, err
}

// buildTags applies the auto-tag policy: file name first, media timestamp
// right after it, then the length filter and the count cap.
func (u *Uploader) buildTags(path string, tags *domain.TagSet, maxCount int) (*domain.TagSet, string, error) {
	ts := domain.NewTagSet("")
	if tags != nil {
		ts = tags.Clone()
	}
	stamp, err := DeriveMediaTimestamp(path)
	if err != nil {
		return nil, "", err
	}
	pos := 0
	if u.opts.AutoTagFilename {
		ts.AddAt(pos, filepath.Base(path))
		pos++
	}
	if u.opts.AutoTagTimestamp {
		ts.AddAt(pos, stamp)
	}
	ts.LimitByMinLength(u.opts.TagMinLength).LimitByMaxCount(maxCount)
	return ts, stamp, nil
}

// PublishPhoto uploads a photo and polls its id until the post resolves.
func (u *Uploader) PublishPhoto(ctx context.Context, path, caption string, tags *domain.TagSet) (domain.UploadResult, error) {
	const op = "photo"
	u.emit(Event{Op: op, Stage: StageUploading})

	ts, stamp, err := u.buildTags(path, tags, u.opts.TagMaxCount)
	if err != nil {
		return u.fail(op, "", err)
	}
	ok, err := u.client.UploadPhoto(ctx, MediaUpload{Path: path, Caption: caption, Tags: ts, Date: PublishDate(stamp)})
	if err := u.client.Check("upload photo", ok, err); err != nil {
		return u.fail(op, "", err)
	}
	id, err := u.client.ResponseID()
	if err != nil || id == "" {
		return u.fail(op, "", &domain.RequestError{Op: "upload photo", Msg: "response carries no post id", Err: err})
	}
	u.log.Info().Str("id", id).Strs("tags", ts.List()).Msg("photo submitted")

	limit := u.opts.LoopWait
	for attempt := 1; attempt <= limit; attempt++ {
		u.emit(Event{Op: op, Stage: StageConfirming, Attempt: attempt, MaxAttempts: limit, PostID: id})
		if err := u.sleep(ctx, u.opts.PhotoWait); err != nil {
			return u.fail(op, id, err)
		}
		ok, err := u.client.FindByID(ctx, id)
		if err != nil {
			return u.fail(op, id, &domain.RequestError{Op: "confirm photo", Err: err})
		}
		if !ok {
			continue
		}
		url, err := u.client.Extract(u.opts.PhotoURLPath)
		if err != nil {
			return u.fail(op, id, &domain.RequestError{Op: "photo url", Err: err})
		}
		u.emit(Event{Op: op, Stage: StageDone, PostID: id})
		return domain.UploadResult{ID: id, URL: url}, nil
	}
	return u.fail(op, id, &domain.TimeoutError{Op: "confirm photo", PostID: id, Attempts: limit})
}

// PublishVideo uploads a video tagged with a throwaway correlation tag,
// waits for the temporary id to disappear, finds the durable post through
// the tag and then removes the tag again.
//
// The correlation tag is the upload's Unix second, so two uploads to the
// same blog within one second can be confused.
func (u *Uploader) PublishVideo(ctx context.Context, path, caption string, tags *domain.TagSet) (domain.UploadResult, error) {
	const op = "video"
	u.emit(Event{Op: op, Stage: StageUploading})

	uid := strconv.FormatInt(u.now().Unix(), 10)
	ts, stamp, err := u.buildTags(path, tags, u.opts.TagMaxCount-1)
	if err != nil {
		return u.fail(op, "", err)
	}
	ts.AddAt(0, uid)

	ok, err := u.client.UploadVideo(ctx, MediaUpload{Path: path, Caption: caption, Tags: ts, Date: PublishDate(stamp)})
	if err := u.client.Check("upload video", ok, err); err != nil {
		return u.fail(op, "", err)
	}
	tid, err := u.client.ResponseID()
	if err != nil || tid == "" {
		return u.fail(op, "", &domain.RequestError{Op: "upload video", Msg: "response carries no post id", Err: err})
	}
	u.log.Info().Str("temporary_id", tid).Str("correlation_tag", uid).Msg("video submitted")

	limit := u.opts.LoopWait
	gone := false
	for attempt := 1; attempt <= limit && !gone; attempt++ {
		u.emit(Event{Op: op, Stage: StageAwaitingProcessing, Attempt: attempt, MaxAttempts: limit, PostID: tid})
		if err := u.sleep(ctx, u.opts.VideoWait); err != nil {
			return u.fail(op, tid, err)
		}
		ok, err := u.client.FindByID(ctx, tid)
		if err != nil {
			return u.fail(op, tid, &domain.RequestError{Op: "await video processing", Err: err})
		}
		gone = !ok
	}
	if !gone {
		return u.fail(op, tid, &domain.TimeoutError{Op: "await video processing", PostID: tid, Attempts: limit})
	}

	u.emit(Event{Op: op, Stage: StageRelocating})
	ok, err = u.client.FindByTag(ctx, uid)
	if err := u.client.Check("find video by tag", ok, err); err != nil {
		return u.fail(op, tid, err)
	}
	ids, err := u.client.PostIDs()
	if err != nil {
		return u.fail(op, tid, &domain.RequestError{Op: "find video by tag", Err: err})
	}
	if len(ids) == 0 || ids[0] == "" {
		return u.fail(op, tid, &domain.RequestError{Op: "find video by tag", Msg: fmt.Sprintf("no post tagged %s", uid)})
	}
	id := ids[0]
	url, err := u.client.Extract(u.opts.VideoURLPath)
	if err != nil {
		return u.fail(op, id, &domain.RequestError{Op: "video url", Err: err})
	}
	result := domain.UploadResult{ID: id, URL: url}

	u.emit(Event{Op: op, Stage: StageTidying, PostID: id})
	if err := u.removeTag(ctx, id, uid); err != nil {
		u.log.Warn().Err(err).Str("id", id).Str("tag", uid).Msg("correlation tag left on post")
		result.Warnings = append(result.Warnings, fmt.Sprintf("tag %s could not be removed from post %s: %v", uid, id, err))
	}

	u.emit(Event{Op: op, Stage: StageDone, PostID: id})
	return result, nil
}

// removeTag drops tag from post id using the tags of the last lookup.
// The edit replaces the whole list, so it is skipped when the current tags
// cannot be read.
func (u *Uploader) removeTag(ctx context.Context, id, tag string) error {
	current, err := response.Get(u.client.LastResponse(), "posts[0]/tags")
	if err != nil {
		return &domain.RequestError{Op: "read post tags", Err: err}
	}
	if current.Kind() != response.Array {
		return &domain.RequestError{Op: "read post tags", Err: &domain.TypeMismatchError{Path: "posts[0]/tags", Step: "tags", Got: current.Kind().String()}}
	}
	tags, err := domain.TagSetFrom(current.Interface(), domain.DefaultTagSeparator)
	if err != nil {
		return &domain.RequestError{Op: "read post tags", Err: err}
	}
	ok, err := u.client.EditTags(ctx, id, tags.Remove(tag).List())
	return u.client.Check("remove correlation tag", ok, err)
}
