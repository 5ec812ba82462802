package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/userboard/internal/config"
	"github.com/idilsaglam/userboard/internal/gateway"
	"github.com/idilsaglam/userboard/internal/ui"
	"github.com/idilsaglam/userboard/internal/users"
)

const logFileName = "userboard.log"

// session is what one command invocation shares: settings, logger, gateway
// and the user cache.
type session struct {
	cfg   config.Config
	log   *logrus.Logger
	gw    *gateway.Client
	users *users.Store

	logFile *os.File
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, WrapExitError(ExitUsage, "config", err)
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}
	if err := cfg.Validate(); err != nil {
		return cfg, WrapExitError(ExitUsage, "config", err)
	}
	return cfg, nil
}

// openSession builds a session. While a TUI owns the terminal, logs go to
// a file in the config directory instead of stderr.
func openSession(opts *RootOptions, cmd *cobra.Command, tui bool) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	ui.SetTheme(cfg.Theme)

	s := &session{cfg: cfg, log: logrus.New()}
	s.log.SetOutput(cmd.ErrOrStderr())
	s.log.SetLevel(logrus.WarnLevel)
	if tui {
		f, err := openLogFile()
		if err != nil {
			return nil, WrapExitError(ExitFailure, "log file", err)
		}
		s.logFile = f
		s.log.SetOutput(f)
		s.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
		s.log.SetLevel(logrus.InfoLevel)
	}
	if opts.Verbose || cfg.Debug {
		s.log.SetLevel(logrus.DebugLevel)
	}

	s.gw = gateway.New(gateway.Options{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
		Logger:  s.log,
	})
	s.users = users.NewStore(s.gw, s.log)
	s.log.WithFields(logrus.Fields{
		"base_url":     cfg.BaseURL,
		"token_source": cfg.TokenSource,
		"command":      cmd.Name(),
	}).Debug("session opened")
	return s, nil
}

func openLogFile() (*os.File, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

func (s *session) Close() error {
	if s.logFile == nil {
		return nil
	}
	s.log.SetOutput(io.Discard)
	return s.logFile.Close()
}
