package utils

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogEnvVar selects the log level when no flag does
const LogEnvVar = "INERTPAD_LOG"

var log = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	return l
}

// SetOutput redirects log output, e.g. to the daemon log file
func SetOutput(out io.Writer) {
	log.SetOutput(out)
}

// SetVerbose switches between debug and info level
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

func IsVerbose() bool {
	return log.IsLevelEnabled(logrus.DebugLevel)
}

// SetLevel parses a level name such as "trace" or "warn"
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}

// Configure sets the level from the verbose switch, then from level, or from
// $INERTPAD_LOG when level is empty
func Configure(verbose bool, level string) error {
	SetVerbose(verbose)
	if level == "" {
		level = os.Getenv(LogEnvVar)
	}
	if level == "" {
		return nil
	}
	return SetLevel(level)
}

// Level returns the current level name
func Level() string {
	return log.GetLevel().String()
}

func Verbose(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func Trace(format string, args ...interface{}) {
	log.Tracef(format, args...)
}

func Debug(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	log.Errorf(format, args...)
}
