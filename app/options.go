package app

import "time"

const (
	DefaultPhotoWait    = 5 * time.Second
	DefaultVideoWait    = 10 * time.Second
	DefaultLoopWait     = 100
	DefaultTagMinLength = 5
	DefaultTagMaxCount  = 20
	DefaultFormat       = "markdown"
	DefaultPhotoURLPath = "posts[0]/photos[0]/original_size/url"
	DefaultVideoURLPath = "posts[0]/video_url"
)

// Options tunes tagging and the publish polling loops.
type Options struct {
	AutoTagFilename  bool
	AutoTagTimestamp bool

	PhotoWait time.Duration // Sleep between photo confirmation lookups.
	VideoWait time.Duration // Sleep between video processing lookups.
	LoopWait  int           // Max lookups before giving up.

	PhotoURLPath string
	VideoURLPath string

	TagMinLength int
	TagMaxCount  int

	Format string
	Extra  map[string]string
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		PhotoWait:    DefaultPhotoWait,
		VideoWait:    DefaultVideoWait,
		LoopWait:     DefaultLoopWait,
		PhotoURLPath: DefaultPhotoURLPath,
		VideoURLPath: DefaultVideoURLPath,
		TagMinLength: DefaultTagMinLength,
		TagMaxCount:  DefaultTagMaxCount,
		Format:       DefaultFormat,
	}
}

// withDefaults fills unset fields. Wait durations of zero are kept.
func (o Options) withDefaults() Options {
	if o.LoopWait <= 0 {
		o.LoopWait = DefaultLoopWait
	}
	if o.PhotoURLPath == "" {
		o.PhotoURLPath = DefaultPhotoURLPath
	}
	if o.VideoURLPath == "" {
		o.VideoURLPath = DefaultVideoURLPath
	}
	if o.TagMaxCount <= 0 {
		o.TagMaxCount = DefaultTagMaxCount
	}
	if o.TagMinLength < 0 {
		o.TagMinLength = 0
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	return o
}
