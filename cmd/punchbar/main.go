package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"fyne.io/systray"
	"github.com/kardianos/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/punchbar/punchbar/internal/adapter/chrome"
	"github.com/punchbar/punchbar/internal/adapter/jsonfile"
	"github.com/punchbar/punchbar/internal/adapter/macos"
	"github.com/punchbar/punchbar/internal/adapter/menubar"
	"github.com/punchbar/punchbar/internal/config"
	"github.com/punchbar/punchbar/internal/domain"
	"github.com/punchbar/punchbar/internal/usecase/agent"
)

func init() {
	// systray needs the main OS thread on darwin.
	runtime.LockOSThread()
}

func main() {
	// HOME is unset when launched via launchctl.
	if os.Getenv("HOME") == "" {
		if u, err := user.Current(); err == nil {
			os.Setenv("HOME", u.HomeDir)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve home directory")
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "install":
			manageService("install")
			return
		case "uninstall":
			manageService("uninstall")
			return
		}
	}

	cfg, err := config.Load(filepath.Join(home, ".punchbar.yaml"))
	setupLogging(filepath.Join(home, ".punchbar.log"), cfg.LogLevel)
	if err != nil {
		log.Warn().Err(err).Msg("tunables file malformed, using defaults")
	}

	profileDir := cfg.ProfileDir
	if profileDir == "" {
		profileDir = filepath.Join(home, ".punchbar_chrome_profile")
	}

	var ctrl *menubar.Controller
	a := agent.New(
		agent.Config{DetectRetries: cfg.DetectRetries},
		agent.Deps{
			Factory:  chrome.NewFactory(profileDir, cfg.Headless),
			Config:   jsonfile.NewConfigStore(filepath.Join(home, ".punchbar_config.json")),
			Timer:    jsonfile.NewTimerStore(filepath.Join(home, ".punchbar_timer.json")),
			Prompter: macos.NewPrompter("Punchbar"),
		},
		agent.WithStatusListener(func(s domain.PunchStatus) { ctrl.Refresh(s) }),
	)
	a.LoadState()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl = menubar.New(ctx, a, macos.NewNotifier("Punchbar"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutting down")
		cancel()
		systray.Quit()
	}()

	go startup(ctx, a)

	log.Info().Msg("punchbar starting")
	systray.Run(ctrl.OnReady, ctrl.OnExit)
}

// startup runs the first session attempt off the main thread so the menu
// appears immediately.
func startup(ctx context.Context, a *agent.Agent) {
	if !a.IsConfigured() {
		if err := a.Setup(ctx); err != nil {
			log.Err(err).Msg("initial setup")
		}
		return
	}
	if err := a.EnsureSession(ctx); err != nil {
		log.Err(err).Msg("initial session")
	}
}

func setupLogging(logPath, level string) {
	writers := []io.Writer{os.Stderr}
	if logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
		writers = append(writers, logFile)
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(level); err == nil && level != "" {
		zerolog.SetGlobalLevel(lvl)
	}
}

type noopProgram struct{}

func (noopProgram) Start(service.Service) error { return nil }
func (noopProgram) Stop(service.Service) error  { return nil }

// manageService registers or removes the launchd user agent. The agent runs
// the binary with no arguments at login.
func manageService(verb string) {
	svc, err := service.New(noopProgram{}, &service.Config{
		Name:        "com.punchbar.agent",
		DisplayName: "Punchbar",
		Description: "Gusto clock in/out from the menu bar",
		Option: service.KeyValue{
			"UserService": true,
			"RunAtLoad":   true,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("service setup")
	}

	switch verb {
	case "install":
		if err := svc.Install(); err != nil {
			log.Fatal().Err(err).Msg("install service")
		}
		log.Info().Msg("launch agent installed, will start at next login")
	case "uninstall":
		if err := svc.Uninstall(); err != nil {
			log.Fatal().Err(err).Msg("uninstall service")
		}
		log.Info().Msg("launch agent removed")
	}
}
