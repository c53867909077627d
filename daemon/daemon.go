package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sevlyar/go-daemon"
	"golang.org/x/sys/unix"
)

// DaemonEnvVar is the environment variable that marks a daemon child process
const DaemonEnvVar = "INERTPAD_DAEMON_CHILD"

// ErrNotRunning is returned by Stop when no daemon owns the pid file
var ErrNotRunning = errors.New("daemon is not running")

// Options locate the files of a background instance
type Options struct {
	PidFile string
	LogFile string
}

// DefaultPidFile returns $XDG_RUNTIME_DIR/inertpad.pid, or a path under the
// temp dir when no runtime dir is set
func DefaultPidFile() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "inertpad.pid")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("inertpad-%d.pid", os.Getuid()))
}

func newContext(opts Options) *daemon.Context {
	return &daemon.Context{
		PidFileName: opts.PidFile,
		PidFilePerm: 0o644,
		LogFileName: opts.LogFile,
		LogFilePerm: 0o640,
		WorkDir:     "/",
		Umask:       0o27,
		Args:        os.Args,
		Env:         append(os.Environ(), fmt.Sprintf("%s=1", DaemonEnvVar)),
	}
}

// Daemonize detaches the process and returns the child process handle.
// It must only be called from the parent; the child calls Attach.
func Daemonize(opts Options) (*os.Process, error) {
	child, err := newContext(opts).Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to daemonize: %w", err)
	}
	return child, nil
}

// Attach completes the detach inside the child: it writes and locks the pid
// file and redirects output to the log file. The returned func removes the
// pid file.
func Attach(opts Options) (func(), error) {
	ctx := newContext(opts)
	if _, err := ctx.Reborn(); err != nil {
		return nil, fmt.Errorf("failed to attach daemon: %w", err)
	}
	return func() { _ = ctx.Release() }, nil
}

// IsChild returns true if this is the daemon child process
func IsChild() bool {
	return os.Getenv(DaemonEnvVar) == "1"
}

// Stop sends SIGTERM to the daemon recorded in pidFile
func Stop(pidFile string) (int, error) {
	pid, err := daemon.ReadPidFile(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNotRunning
		}
		return 0, fmt.Errorf("failed to read pid file %s: %w", pidFile, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid pid %d in %s", pid, pidFile)
	}

	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return pid, ErrNotRunning
		}
		return pid, fmt.Errorf("failed to signal process %d: %w", pid, err)
	}

	return pid, nil
}
