package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/CrestNiraj12/tumblrpost/app"
	"github.com/CrestNiraj12/tumblrpost/domain"
)

const (
	envPrefix           = "TUMBLRPOST"
	DefaultAPIURL       = "https://api.tumblr.com"
	DefaultCallbackPort = 45145
)

// Config holds application-level configuration.
type Config struct {
	Path string // File the config was read from.

	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string

	BlogName     string
	APIURL       string // e.g. "https://api.tumblr.com"
	CallbackPort int    // Local port for the OAuth login redirect.
	Verbosity    int

	Options app.Options
}

// ResolvePath picks the config file: the explicit flag, then
// TUMBLRPOST_CONFIG, then "<program>.json" in the working directory, then
// ~/.config/tumblrpost/config.json.
func ResolvePath(flagPath string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return resolvePath(flagPath, os.Getenv(envPrefix+"_CONFIG"), filepath.Base(os.Args[0]), home)
}

func resolvePath(flagPath, envPath, program, home string) (string, error) {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(envPath); p != "" {
		return p, nil
	}
	local := strings.TrimSuffix(program, filepath.Ext(program)) + ".json"
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	if home == "" {
		return "", &domain.MalformedConfigError{Path: local, Err: errors.New("cannot determine home directory")}
	}
	return filepath.Join(home, ".config", "tumblrpost", "config.json"), nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	return v
}

// Load reads the JSON config at path and applies TUMBLRPOST_* environment
// overrides, e.g. TUMBLRPOST_BLOG_NAME or TUMBLRPOST_OPTIONS_LOOP_WAIT.
// The OAuth token may be absent; see RequireToken.
func Load(path string) (Config, error) {
	v := newViper(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := app.DefaultOptions()
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("oauth.callback_port", DefaultCallbackPort)
	v.SetDefault("options.auto_tag_filename", false)
	v.SetDefault("options.auto_tag_timestamp", false)
	v.SetDefault("options.photo_wait", d.PhotoWait.Seconds())
	v.SetDefault("options.video_wait", d.VideoWait.Seconds())
	v.SetDefault("options.loop_wait", d.LoopWait)
	v.SetDefault("options.photo_url", d.PhotoURLPath)
	v.SetDefault("options.video_url", d.VideoURLPath)
	v.SetDefault("options.tag_min_length", d.TagMinLength)
	v.SetDefault("options.tag_max_count", d.TagMaxCount)
	v.SetDefault("options.format", d.Format)
	v.SetDefault("options.verbosity", 0)

	malformed := func(err error) (Config, error) {
		return Config{}, &domain.MalformedConfigError{Path: path, Err: err}
	}
	if err := v.ReadInConfig(); err != nil {
		return malformed(err)
	}

	cfg := Config{
		Path:           path,
		ConsumerKey:    strings.TrimSpace(v.GetString("consumer.key")),
		ConsumerSecret: strings.TrimSpace(v.GetString("consumer.secret")),
		Token:          strings.TrimSpace(v.GetString("oauth.token")),
		TokenSecret:    strings.TrimSpace(v.GetString("oauth.token_secret")),
		BlogName:       strings.TrimSpace(v.GetString("blog_name")),
		CallbackPort:   v.GetInt("oauth.callback_port"),
		Verbosity:      v.GetInt("options.verbosity"),
	}

	apiURL, err := normalizeAPIURL(v.GetString("api_url"))
	if err != nil {
		return malformed(err)
	}
	cfg.APIURL = apiURL

	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return malformed(errors.New("consumer key and secret are required"))
	}
	if cfg.BlogName == "" {
		return malformed(errors.New("blog_name is required"))
	}

	photoWait, videoWait := v.GetFloat64("options.photo_wait"), v.GetFloat64("options.video_wait")
	if photoWait < 0 || videoWait < 0 {
		return malformed(errors.New("wait times must not be negative"))
	}
	loopWait := v.GetInt("options.loop_wait")
	if loopWait <= 0 {
		return malformed(fmt.Errorf("options.loop_wait must be positive, got %d", loopWait))
	}

	cfg.Options = app.Options{
		AutoTagFilename:  v.GetBool("options.auto_tag_filename"),
		AutoTagTimestamp: v.GetBool("options.auto_tag_timestamp"),
		PhotoWait:        seconds(photoWait),
		VideoWait:        seconds(videoWait),
		LoopWait:         loopWait,
		PhotoURLPath:     v.GetString("options.photo_url"),
		VideoURLPath:     v.GetString("options.video_url"),
		TagMinLength:     v.GetInt("options.tag_min_length"),
		TagMaxCount:      v.GetInt("options.tag_max_count"),
		Format:           v.GetString("options.format"),
	}
	if extra := v.GetStringMapString("options.extra"); len(extra) > 0 {
		cfg.Options.Extra = extra
	}
	return cfg, nil
}

// RequireToken fails unless the OAuth access token is configured.
func (c Config) RequireToken() error {
	if c.Token == "" || c.TokenSecret == "" {
		return &domain.MalformedConfigError{Path: c.Path, Err: errors.New("oauth token missing, run login first")}
	}
	return nil
}

func normalizeAPIURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("invalid api_url: must be an absolute URL")
	}
	local := parsed.Hostname() == "localhost" || parsed.Hostname() == "127.0.0.1"
	if parsed.Scheme != "https" && !(parsed.Scheme == "http" && local) {
		return "", errors.New("invalid api_url: only https is allowed")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SaveOAuthToken stores an access token pair in the config file at path,
// creating the file if needed. Other keys in the file are kept.
func SaveOAuthToken(path, token, secret string) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.MalformedConfigError{Path: path, Err: err}
	}
	v.Set("oauth.token", token)
	v.Set("oauth.token_secret", secret)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return os.Chmod(path, 0o600)
}
