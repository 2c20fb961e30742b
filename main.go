package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/olivier-w/jorik/internal/api"
	"github.com/olivier-w/jorik/internal/auth"
	"github.com/olivier-w/jorik/internal/config"
	"github.com/olivier-w/jorik/internal/dispatch"
	"github.com/olivier-w/jorik/internal/logger"
	"github.com/olivier-w/jorik/internal/session"
	"github.com/olivier-w/jorik/internal/stream"
	"github.com/olivier-w/jorik/internal/ui"
	"github.com/olivier-w/jorik/internal/visualizer"
)

const logFile = "jorik.log"

var (
	app      = kingpin.New("jorik", "Terminal client for the jorik Discord music bot")
	baseURL  = app.Flag("base-url", "Base URL of the webhook server").Envar("JORIK_BASE_URL").String()
	token    = app.Flag("token", "Bearer token (overrides the saved login)").Envar("JORIK_TOKEN").String()
	guildID  = app.Flag("guild-id", "Guild ID (optional if the server can infer it)").String()
	userID   = app.Flag("user-id", "User ID for context/authorization").String()
	logLevel = app.Flag("log-level", "Log level").Default("info").Enum("debug", "info", "warn", "error")

	tuiCmd = app.Command("tui", "Run the interactive client (default)").Default()

	healthCmd = app.Command("health", "Check server health")

	playCmd         = app.Command("play", "Enqueue audio to play")
	playQuery       = playCmd.Arg("query", "Query or URL to play").Required().String()
	playChannelID   = playCmd.Flag("channel-id", "Voice channel ID").String()
	playRequestedBy = playCmd.Flag("requested-by", "Override display name").String()
	playAvatarURL   = playCmd.Flag("avatar-url", "Avatar URL to show in Discord").String()

	skipCmd  = app.Command("skip", "Skip the current track")
	stopCmd  = app.Command("stop", "Stop playback and clear the queue")
	loginCmd = app.Command("login", "Obtain and store a bearer token via browser auth")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	if err := run(command); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}

	logCfg := logger.Config{Level: *logLevel}
	if command == tuiCmd.FullCommand() {
		// The terminal belongs to the renderer.
		logCfg.File = filepath.Join(dir, logFile)
	}
	closer, err := logger.Init(logCfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	settings, err := config.LoadSettings(config.SettingsPath(dir))
	if err != nil {
		zlog.Warn().Err(err).Msg("using default settings")
		settings = config.DefaultSettings()
	}
	settings = withOverrides(settings)

	creds, err := config.LoadCredentials(config.AuthPath(dir))
	if err != nil {
		zlog.Warn().Err(err).Msg("ignoring saved credentials")
		creds = nil
	}
	if *token != "" {
		creds = &config.Credentials{Token: strings.TrimSpace(*token)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(api.DefaultTimeout)
	switch command {
	case healthCmd.FullCommand():
		return runHealth(ctx, client, settings.BaseURL)
	case playCmd.FullCommand():
		req := api.Play(*playQuery)
		req.ChannelID = *playChannelID
		req.RequestedBy = *playRequestedBy
		req.AvatarURL = *playAvatarURL
		return runAudio(ctx, client, settings.BaseURL, creds, req)
	case skipCmd.FullCommand():
		return runAudio(ctx, client, settings.BaseURL, creds, api.Simple(api.ActionSkip))
	case stopCmd.FullCommand():
		return runAudio(ctx, client, settings.BaseURL, creds, api.Simple(api.ActionStop))
	case loginCmd.FullCommand():
		return runLogin(ctx, settings.BaseURL, dir)
	}
	return runTUI(ctx, client, settings, creds, dir)
}

// withOverrides applies the session-only CLI overrides to settings.
func withOverrides(s config.Settings) config.Settings {
	if *baseURL != "" {
		s.BaseURL = strings.TrimRight(*baseURL, "/")
	}
	return s
}

func runHealth(ctx context.Context, client *api.Client, base string) error {
	resp, err := client.Health(ctx, base)
	if err != nil {
		return err
	}
	printResponse(os.Stdout, resp)
	return nil
}

func runAudio(ctx context.Context, client *api.Client, base string, creds *config.Credentials, req api.Request) error {
	var tok string
	if creds != nil {
		tok = creds.Token
	}
	resp, err := client.Post(ctx, base, tok, req.For(*guildID, *userID))
	if err != nil {
		return err
	}
	printResponse(os.Stdout, resp)
	return nil
}

func runLogin(ctx context.Context, base, dir string) error {
	path := config.AuthPath(dir)
	creds, err := auth.Login(ctx, auth.Options{
		BaseURL: base,
		Save:    func(c config.Credentials) error { return config.SaveCredentials(path, c) },
		SavedTo: path,
		OnURL: func(u string) {
			fmt.Printf("Opening browser for authorization: %s\n", u)
		},
	})
	if err != nil {
		return errors.Wrap(err, "login failed")
	}
	name := creds.Username
	if name == "" {
		name = "unknown user"
	}
	fmt.Printf("Logged in as %s. Token saved to %s\n", name, path)
	return nil
}

func runTUI(ctx context.Context, client *api.Client, settings config.Settings, creds *config.Credentials, dir string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := session.NewDefaultStore()
	store.Update(func(st *session.State) {
		st.BaseURL = settings.BaseURL
		st.GuildID = *guildID
		st.UserID = *userID
		st.VisualizerOffset = settings.VisualizerOffset()
		if creds != nil {
			st.Token = creds.Token
			st.Username = creds.Username
		}
	})

	d := dispatch.New(store, client)
	sc := stream.New(store, stream.WebSocketDialer{}, func() { d.RefreshAsync(ctx) })
	go sc.Run(ctx)
	go d.Poll(ctx, dispatch.DefaultPollPeriod)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		zlog.Warn().Err(err).Msg("settings hot reload disabled")
	} else if w, err := config.NewWatcher(config.SettingsPath(dir)); err != nil {
		zlog.Warn().Err(err).Msg("settings hot reload disabled")
	} else {
		go w.Run(ctx, func(s config.Settings) {
			ui.ApplySettings(store, withOverrides(s))
		})
	}

	model := ui.New(ui.Deps{
		Ctx:        ctx,
		Store:      store,
		Dispatcher: d,
		Smoother:   visualizer.NewSmoother(visualizer.DefaultConfig()),
		Stream:     sc,
		ConfigDir:  dir,
	})

	var initial func() error
	if creds != nil && creds.Token != "" {
		initial = func() error { return d.Refresh(ctx) }
	}

	zlog.Info().Str("base_url", settings.BaseURL).Msg("starting tui")
	p := tea.NewProgram(newStartupModel(model, settings.BaseURL, initial), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
