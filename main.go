package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/CrestNiraj12/tumblrpost/app"
	"github.com/CrestNiraj12/tumblrpost/domain"
	"github.com/CrestNiraj12/tumblrpost/infra/auth"
	"github.com/CrestNiraj12/tumblrpost/infra/config"
	"github.com/CrestNiraj12/tumblrpost/infra/logging"
	"github.com/CrestNiraj12/tumblrpost/infra/tumblr"
	"github.com/CrestNiraj12/tumblrpost/tui/common"
	"github.com/CrestNiraj12/tumblrpost/tui/progress"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliInvalid
)

type action int

const (
	actNone action = iota
	actListPosts
	actListTag
	actDeleteID
	actDeleteTagged
	actFindTag
	actFindID
	actAddTag
	actDelTag
	actPhoto
	actVideo
	actInfo
	actLogin
)

var actionNames = map[string]action{
	"list-posts":    actListPosts,
	"list-tag":      actListTag,
	"delete-id":     actDeleteID,
	"del":           actDeleteID,
	"delete":        actDeleteID,
	"rm":            actDeleteID,
	"remove":        actDeleteID,
	"delete-tagged": actDeleteTagged,
	"find-tag":      actFindTag,
	"find":          actFindTag,
	"tag":           actFindTag,
	"find-id":       actFindID,
	"id":            actFindID,
	"add-tag":       actAddTag,
	"del-tag":       actDelTag,
	"photo":         actPhoto,
	"image":         actPhoto,
	"picture":       actPhoto,
	"video":         actVideo,
	"vid":           actVideo,
	"avi":           actVideo,
	"mp4":           actVideo,
	"info":          actInfo,
	"login":         actLogin,
}

var actionArgs = map[action]int{
	actListPosts:    0,
	actListTag:      1,
	actDeleteID:     1,
	actDeleteTagged: 1,
	actFindTag:      1,
	actFindID:       1,
	actAddTag:       2,
	actDelTag:       2,
	actPhoto:        3,
	actVideo:        3,
	actInfo:         0,
	actLogin:        0,
}

type cliArgs struct {
	mode       cliMode
	msg        string
	action     action
	name       string
	params     []string
	configPath string
	verbosity  int
	noProgress bool
}

func parseCLIArgs(args []string) cliArgs {
	var cli cliArgs
	invalid := func(format string, a ...any) cliArgs {
		return cliArgs{mode: cliInvalid, msg: fmt.Sprintf(format, a...)}
	}

	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--version" || arg == "-version":
			return cliArgs{mode: cliVersion}
		case arg == "--help" || arg == "-h" || (arg == "help" && len(positional) == 0):
			return cliArgs{mode: cliHelp}
		case arg == "--config":
			if i+1 >= len(args) {
				return invalid("--config requires a path")
			}
			i++
			cli.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			cli.configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "-v" || arg == "--verbose":
			cli.verbosity++
		case arg == "-vv":
			cli.verbosity += 2
		case arg == "--no-progress":
			cli.noProgress = true
		case len(positional) == 0 && strings.HasPrefix(arg, "-") && arg != "-":
			return invalid("unexpected argument: %s", strings.Join(args[i:], " "))
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return invalid("missing action")
	}
	cli.name = strings.ToLower(positional[0])
	act, ok := actionNames[cli.name]
	if !ok {
		return invalid("unknown action: %s", positional[0])
	}
	cli.action = act
	cli.params = positional[1:]
	if want := actionArgs[act]; len(cli.params) != want {
		return invalid("%s expects %d argument(s), got %d", cli.name, want, len(cli.params))
	}
	cli.mode = cliRun
	return cli
}

func usage() string {
	return `Usage: tumblrpost [--config path] [-v|-vv] [--no-progress] <action> [args]

Actions:
  info                       show blogs and default post format
  login                      authorize with Tumblr and store the OAuth token
  list-posts                 list all post ids with their tags
  list-tag <id|all>          list tags of a post (or of all posts)
  find-tag <tag|all>         print ids of posts carrying tag     (find, tag)
  find-id <id|all>           print the full post json            (id)
  add-tag <tags> <id>        add comma separated tags to a post
  del-tag <tags> <id>        remove comma separated tags from a post
  delete-id <id|all>         delete a post (or all posts)        (del, delete, rm, remove)
  delete-tagged <tag>        delete all posts carrying tag
  photo <file> <caption> <tags>  upload a photo                  (image, picture)
  video <file> <caption> <tags>  upload a video                  (vid, avi, mp4)

Flags:
  --config <path>   config file (default: $TUMBLRPOST_CONFIG, ./tumblrpost.json, ~/.config/tumblrpost/config.json)
  -v, -vv           more logging on stderr
  --no-progress     do not draw the upload spinner
  --version, --help`
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func main() {
	cli := parseCLIArgs(os.Args[1:])
	switch cli.mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("%s %s\ncommit: %s\nbuilt: %s\n", domain.AppTitle, v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", cli.msg, usage())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cli, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one action and returns the process exit code.
func run(ctx context.Context, cli cliArgs, stdout, stderr io.Writer) int {
	out := common.NewOutput(stdout, stderr)
	fail := func(err error) int {
		out.Error(err)
		return 1
	}

	path, err := config.ResolvePath(cli.configPath)
	if err != nil {
		return fail(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fail(err)
	}
	logger := logging.New(stderr, max(cli.verbosity, cfg.Verbosity), isTerminal(stderr))
	logger.Debug().Str("config", path).Str("action", cli.name).Msg("starting")

	if cli.action == actLogin {
		return runLogin(ctx, cfg, stderr, out)
	}

	if err := cfg.RequireToken(); err != nil {
		return fail(err)
	}
	httpClient, err := auth.NewHTTPClient(ctx, auth.Credentials{
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		Token:          cfg.Token,
		TokenSecret:    cfg.TokenSecret,
	})
	if err != nil {
		return fail(err)
	}
	api := tumblr.NewAPI(tumblr.NewClient(cfg.APIURL, httpClient))
	client := app.NewBlogClient(api, cfg.BlogName, cfg.Options, logger)

	// Nothing else is sent until the credentials are confirmed.
	ok, err := client.Authenticate(ctx)
	if err != nil {
		return fail(client.Check("authenticate", ok, err))
	}
	if !ok {
		return fail(&domain.AuthError{Msg: client.LastError()})
	}

	d := dispatcher{
		client:  client,
		manager: app.NewManager(client, logger),
		log:     logger,
		out:     out,
		stderr:  stderr,
		noSpin:  cli.noProgress,
	}
	if err := d.run(ctx, cli.action, cli.params); err != nil {
		return fail(err)
	}
	logger.Info().Int("requests", client.Requests()).Msg("finished")
	return 0
}

func runLogin(ctx context.Context, cfg config.Config, stderr io.Writer, out *common.Output) int {
	creds, err := auth.Login(ctx, cfg.ConsumerKey, cfg.ConsumerSecret, cfg.CallbackPort, stderr)
	if err != nil {
		out.Error(err)
		return 1
	}
	if err := config.SaveOAuthToken(cfg.Path, creds.Token, creds.TokenSecret); err != nil {
		out.Error(err)
		return 1
	}
	out.Field("CONFIG", cfg.Path)
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

type dispatcher struct {
	client  *app.BlogClient
	manager *app.Manager
	log     zerolog.Logger
	out     *common.Output
	stderr  io.Writer
	noSpin  bool
}

func (d dispatcher) run(ctx context.Context, act action, params []string) error {
	switch act {
	case actInfo:
		d.out.Field("BLOGS", d.client.Blogs()...)
		d.out.Field("FORMAT", d.client.DefaultPostFormat())
		return nil

	case actListPosts:
		return d.listAll(ctx)

	case actListTag:
		if app.IsAllSentinel(params[0]) {
			return d.listAll(ctx)
		}
		ts, err := d.manager.Tags(ctx, params[0])
		if err != nil {
			return err
		}
		d.out.Tags(params[0], ts.List())
		return nil

	case actFindTag:
		ok, err := d.client.FindByTag(ctx, params[0])
		if err := d.client.Check("find posts by tag", ok, err); err != nil {
			return err
		}
		ids, err := d.client.PostIDs()
		if err != nil {
			return &domain.RequestError{Op: "find posts by tag", Err: err}
		}
		d.out.Field("ID", ids...)
		return nil

	case actFindID:
		var ok bool
		var err error
		if app.IsAllSentinel(params[0]) {
			ok, err = d.client.ListAllPosts(ctx)
		} else {
			ok, err = d.client.FindByID(ctx, params[0])
		}
		if err := d.client.Check("find post", ok, err); err != nil {
			return err
		}
		d.out.Raw(d.client.LastResponse().Pretty())
		return nil

	case actAddTag, actDelTag:
		tags := domain.ParseTags(params[0], domain.DefaultTagSeparator)
		id := params[1]
		var result []string
		var err error
		if act == actAddTag {
			result, err = d.manager.AddTags(ctx, id, tags)
		} else {
			result, err = d.manager.RemoveTags(ctx, id, tags)
		}
		if err != nil {
			return err
		}
		d.out.Tags(id, result)
		return nil

	case actDeleteID, actDeleteTagged:
		var deleted []string
		var err error
		if act == actDeleteID {
			deleted, err = d.manager.Delete(ctx, params[0])
		} else {
			deleted, err = d.manager.DeleteTagged(ctx, params[0])
		}
		if len(deleted) > 0 {
			d.out.Field("ID", deleted...)
		}
		return err

	case actPhoto, actVideo:
		return d.publish(ctx, act, params[0], params[1], params[2])
	}
	return fmt.Errorf("unsupported action %d", act)
}

func (d dispatcher) listAll(ctx context.Context) error {
	posts, err := d.manager.AllTags(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		d.out.Tags(p.ID, p.Tags)
	}
	return nil
}

func (d dispatcher) publish(ctx context.Context, act action, file, caption, tags string) error {
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("media file: %w", err)
	}
	up := app.NewUploader(d.client, d.log)

	stopProgress := func() {}
	f, isFile := d.stderr.(*os.File)
	if isFile && progress.Enabled(f, d.noSpin) {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		pr := progress.Start(ctx, d.stderr, cancel)
		stopProgress = pr.Stop
		up.WithObserver(pr)
	}

	ts := domain.ParseTags(tags, domain.DefaultTagSeparator)
	var res domain.UploadResult
	var err error
	if act == actPhoto {
		res, err = up.PublishPhoto(ctx, file, caption, ts)
	} else {
		res, err = up.PublishVideo(ctx, file, caption, ts)
	}
	stopProgress()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("upload cancelled: %w", err)
		}
		return err
	}
	d.out.Success("ID", res.ID)
	d.out.Link("URL", res.URL)
	for _, w := range res.Warnings {
		d.out.Warning(w)
	}
	return nil
}
