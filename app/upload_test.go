package app

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/CrestNiraj12/tumblrpost/domain"
	"github.com/CrestNiraj12/tumblrpost/domain/response"
)

func TestPublishPhoto_PollsUntilPostResolves(t *testing.T) {
	notFound := js(notFoundEnvelope)
	api := &fakeAPI{
		createResp: js(`{"id": "123"}`),
		postsQueue: []response.Value{
			notFound,
			notFound,
			js(`{"posts":[{"id":"123","photos":[{"original_size":{"url":"https://media/123.jpg"}}]}]}`),
		},
	}
	opts := DefaultOptions()
	opts.AutoTagFilename = true
	opts.AutoTagTimestamp = true
	c := testClient(api, opts)
	u, sleeps := testUploader(c, time.Unix(1500000000, 0))

	var stages []Stage
	u.WithObserver(ObserverFunc(func(e Event) { stages = append(stages, e.Stage) }))

	path := mediaFile(t, "FUJI20170721T134312.JPG")
	got, err := u.PublishPhoto(context.Background(), path, "a caption", domain.ParseTags("summer, sea, holidays", ","))
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if got.ID != "123" || got.URL != "https://media/123.jpg" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if len(api.postsCalls) != 3 || *sleeps != 3 {
		t.Fatalf("expected 3 lookups and 3 sleeps, got %d lookups %d sleeps", len(api.postsCalls), *sleeps)
	}
	for _, q := range api.postsCalls {
		if q.ID != "123" {
			t.Fatalf("lookup must use the ephemeral id: %#v", q)
		}
	}

	p := api.created[0]
	wantTags := []string{"fuji20170721t134312.jpg", "2017-07-21t13:43:12", "summer", "holidays"}
	if !reflect.DeepEqual(p.Tags, wantTags) {
		t.Fatalf("unexpected tags: got %v want %v", p.Tags, wantTags)
	}
	if p.Date != "2017-07-21 13:43:12 GMT" || p.State != "published" || p.Format != DefaultFormat || p.Caption != "a caption" {
		t.Fatalf("unexpected create params: %#v", p)
	}
	if api.createdKinds[0] != "photo" {
		t.Fatalf("expected photo upload, got %s", api.createdKinds[0])
	}
	wantStages := []Stage{StageUploading, StageConfirming, StageConfirming, StageConfirming, StageDone}
	if !reflect.DeepEqual(stages, wantStages) {
		t.Fatalf("unexpected stages: %v", stages)
	}
}

func TestPublishPhoto_TimesOut(t *testing.T) {
	notFound := js(notFoundEnvelope)
	api := &fakeAPI{createResp: js(`{"id": 123}`), postsDefault: &notFound}
	c := testClient(api, DefaultOptions())
	u, _ := testUploader(c, time.Now())

	got, err := u.PublishPhoto(context.Background(), mediaFile(t, "random.jpg"), "", nil)
	var te *domain.TimeoutError
	if !errors.As(err, &te) || !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if te.PostID != "123" || te.Attempts != DefaultLoopWait {
		t.Fatalf("unexpected timeout detail: %#v", te)
	}
	if got.ID != "" || got.URL != "" {
		t.Fatalf("timeout must not return a result: %#v", got)
	}
	if len(api.postsCalls) != DefaultLoopWait {
		t.Fatalf("expected %d lookups, got %d", DefaultLoopWait, len(api.postsCalls))
	}
}

func TestPublishPhoto_RejectedUpload(t *testing.T) {
	api := &fakeAPI{createResp: js(`{"meta":{"status":401,"msg":"Unauthorized"},"errors":[{"title":"Unauthorized","code":1016,"detail":"Unable to authorize"}]}`)}
	c := testClient(api, DefaultOptions())
	u, _ := testUploader(c, time.Now())

	_, err := u.PublishPhoto(context.Background(), mediaFile(t, "random.jpg"), "", nil)
	var re *domain.RequestError
	if !errors.As(err, &re) || re.Msg != "ERROR: Unauthorized - 1016 - Unable to authorize" {
		t.Fatalf("expected request error with rendered message, got %v", err)
	}
	if len(api.postsCalls) != 0 {
		t.Fatalf("no polling expected after a rejected upload")
	}
}

func TestPublishPhoto_MissingFileFailsBeforeUpload(t *testing.T) {
	api := &fakeAPI{}
	u, _ := testUploader(testClient(api, DefaultOptions()), time.Now())
	if _, err := u.PublishPhoto(context.Background(), "/does/not/exist.jpg", "", nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if len(api.created) != 0 {
		t.Fatalf("upload must not be attempted")
	}
}

func TestPublishPhoto_CancelledContext(t *testing.T) {
	notFound := js(notFoundEnvelope)
	api := &fakeAPI{createResp: js(`{"id": "1"}`), postsDefault: &notFound}
	u, _ := testUploader(testClient(api, DefaultOptions()), time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := u.PublishPhoto(ctx, mediaFile(t, "random.jpg"), "", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestPublishVideo_RelocatesByCorrelationTag(t *testing.T) {
	found := js(`{"posts":[{"id":"555"}]}`)
	api := &fakeAPI{
		createResp: js(`{"id": "555"}`),
		postsQueue: []response.Value{
			found,
			found,
			js(notFoundEnvelope),
			js(`{"posts":[{"id":"999","tags":["1500000000","holidays"],"video_url":"https://media/999.mp4"}]}`),
		},
		editResp: js(`{"id":"999"}`),
	}
	opts := DefaultOptions()
	opts.AutoTagFilename = true
	opts.AutoTagTimestamp = true
	c := testClient(api, opts)
	u, sleeps := testUploader(c, time.Unix(1500000000, 0))

	path := mediaFile(t, "FUJI20170721T134312.MP4")
	got, err := u.PublishVideo(context.Background(), path, "clip", domain.ParseTags("holidays, hi", ","))
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if got.ID != "999" || got.URL != "https://media/999.mp4" || len(got.Warnings) != 0 {
		t.Fatalf("unexpected result: %#v", got)
	}
	if *sleeps != 3 {
		t.Fatalf("expected 3 sleeps, got %d", *sleeps)
	}

	wantTags := []string{"1500000000", "fuji20170721t134312.mp4", "2017-07-21t13:43:12", "holidays"}
	if !reflect.DeepEqual(api.created[0].Tags, wantTags) {
		t.Fatalf("unexpected upload tags: got %v want %v", api.created[0].Tags, wantTags)
	}
	if api.createdKinds[0] != "video" {
		t.Fatalf("expected video upload")
	}

	if len(api.postsCalls) != 4 || api.postsCalls[3].Tag != "1500000000" {
		t.Fatalf("expected 3 id lookups then a tag search: %#v", api.postsCalls)
	}
	if len(api.edits) != 1 {
		t.Fatalf("expected exactly one cleanup edit, got %d", len(api.edits))
	}
	if e := api.edits[0]; e.ID != "999" || e.Fields["tags"] != "holidays" {
		t.Fatalf("unexpected cleanup edit: %#v", e)
	}
}

func TestPublishVideo_CleanupFailureIsAWarning(t *testing.T) {
	api := &fakeAPI{
		createResp: js(`{"id": "555"}`),
		postsQueue: []response.Value{
			js(notFoundEnvelope),
			js(`{"posts":[{"id":"999","tags":["1500000000"],"video_url":"https://media/999.mp4"}]}`),
		},
		editResp: js(`{"meta":{"status":400,"msg":"Bad Request"},"response":{"errors":["nope"]}}`),
	}
	u, _ := testUploader(testClient(api, DefaultOptions()), time.Unix(1500000000, 0))

	got, err := u.PublishVideo(context.Background(), mediaFile(t, "clip.mp4"), "", nil)
	if err != nil {
		t.Fatalf("cleanup failure must not fail the upload: %v", err)
	}
	if got.ID != "999" || len(got.Warnings) != 1 {
		t.Fatalf("expected result with one warning: %#v", got)
	}
}

func TestPublishVideo_UnreadableTagsSkipCleanup(t *testing.T) {
	tests := []struct {
		name  string
		found string
	}{
		{name: "tags missing", found: `{"posts":[{"id":"999","video_url":"https://media/999.mp4"}]}`},
		{name: "tags not a list", found: `{"posts":[{"id":"999","tags":"1500000000","video_url":"https://media/999.mp4"}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{
				createResp: js(`{"id": "555"}`),
				postsQueue: []response.Value{js(notFoundEnvelope), js(tc.found)},
				editResp:   js(`{"id":"999"}`),
			}
			u, _ := testUploader(testClient(api, DefaultOptions()), time.Unix(1500000000, 0))

			got, err := u.PublishVideo(context.Background(), mediaFile(t, "clip.mp4"), "", nil)
			if err != nil {
				t.Fatalf("unreadable tags must not fail the upload: %v", err)
			}
			if len(api.edits) != 0 {
				t.Fatalf("no tag replace expected when tags cannot be read: %#v", api.edits)
			}
			if got.ID != "999" || len(got.Warnings) != 1 {
				t.Fatalf("expected result with one warning: %#v", got)
			}
		})
	}
}

func TestPublishVideo_TimesOutWhileTemporaryIDResolves(t *testing.T) {
	found := js(`{"posts":[{"id":"555"}]}`)
	api := &fakeAPI{createResp: js(`{"id": "555"}`), postsDefault: &found}
	opts := DefaultOptions()
	opts.LoopWait = 3
	u, _ := testUploader(testClient(api, opts), time.Unix(1500000000, 0))

	_, err := u.PublishVideo(context.Background(), mediaFile(t, "clip.mp4"), "", nil)
	var te *domain.TimeoutError
	if !errors.As(err, &te) || te.Attempts != 3 {
		t.Fatalf("expected timeout after 3 attempts, got %v", err)
	}
	if len(api.postsCalls) != 3 || len(api.edits) != 0 {
		t.Fatalf("unexpected calls: lookups=%d edits=%d", len(api.postsCalls), len(api.edits))
	}
}

func TestPublishVideo_DurablePostNotFound(t *testing.T) {
	api := &fakeAPI{
		createResp: js(`{"id": "555"}`),
		postsQueue: []response.Value{js(notFoundEnvelope), js(`{"posts":[]}`)},
	}
	u, _ := testUploader(testClient(api, DefaultOptions()), time.Unix(1500000000, 0))

	_, err := u.PublishVideo(context.Background(), mediaFile(t, "clip.mp4"), "", nil)
	var re *domain.RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected request error, got %v", err)
	}
}

func TestBuildTags_CapsKeepLongestAndFilterShort(t *testing.T) {
	opts := DefaultOptions()
	opts.TagMaxCount = 2
	u, _ := testUploader(testClient(&fakeAPI{}, opts), time.Now())

	ts, _, err := u.buildTags(mediaFile(t, "random.jpg"), domain.ParseTags("tiny, mediumtag, a-very-long-tag, longertag, x", ","), opts.TagMaxCount)
	if err != nil {
		t.Fatalf("build tags failed: %v", err)
	}
	want := []string{"a-very-long-tag", "longertag"}
	if got := ts.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
