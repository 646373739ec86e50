package addon

import (
	"fmt"
	"os"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Environment variable names the launcher exports for the server process
const (
	EnvMusicDirectory = "MUSIC_DIRECTORY"
	EnvServerPort     = "SERVER_PORT"
	EnvAppTitle       = "APP_TITLE"
)

// ExecFunc replaces the current process image. It matches syscall.Exec and
// only ever returns on failure.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// Launcher performs the add-on startup sequence: log the resolved options,
// export them as environment variables, and exec the server.
type Launcher struct {
	logger *logrus.Logger
	execFn ExecFunc
}

// NewLauncher creates a launcher. A nil execFn uses syscall.Exec.
func NewLauncher(logger *logrus.Logger, execFn ExecFunc) *Launcher {
	if execFn == nil {
		execFn = syscall.Exec
	}
	return &Launcher{
		logger: logger,
		execFn: execFn,
	}
}

// Environ returns the current process environment extended with the three
// exported option values.
func Environ(opts *Options) []string {
	return append(os.Environ(),
		fmt.Sprintf("%s=%s", EnvMusicDirectory, opts.MusicDirectory),
		fmt.Sprintf("%s=%s", EnvServerPort, opts.Port.String()),
		fmt.Sprintf("%s=%s", EnvAppTitle, opts.Title),
	)
}

// Run logs the resolved options, exports them, and replaces this process
// with the server at serverPath. Option values are passed through exactly as
// resolved, empty strings included; the exec is always attempted. On success
// Run never returns.
func (l *Launcher) Run(serverPath string, opts *Options) error {
	l.logger.Info("Starting music server add-on")
	l.logger.Infof("Music directory: %s", opts.MusicDirectory)
	l.logger.Infof("Server port: %s", opts.Port.String())
	l.logger.Infof("Title: %s", opts.Title)

	env := Environ(opts)

	l.logger.Infof("Launching %s", serverPath)
	if err := l.execFn(serverPath, []string{serverPath}, env); err != nil {
		return fmt.Errorf("failed to launch server: %w", err)
	}
	return nil
}
