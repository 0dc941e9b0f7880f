package routecore

import (
	glog "github.com/labstack/gommon/log"
)

// Logger is the routing core's logging contract, satisfied by
// *github.com/labstack/gommon/log.Logger. Grounded on the teacher's own
// log.Logger interface (echo/log/log.go), narrowed to the handful of
// methods the routing core and its adapters actually call.
type Logger interface {
	Debug(i ...interface{})
	Debugf(format string, args ...interface{})
	Info(i ...interface{})
	Infof(format string, args ...interface{})
	Warn(i ...interface{})
	Warnf(format string, args ...interface{})
	Error(i ...interface{})
	Errorf(format string, args ...interface{})
	Printf(format string, args ...interface{})
	SetLevel(glog.Lvl)
}

type gommonLogger struct {
	*glog.Logger
}

func (l gommonLogger) Printf(format string, args ...interface{}) { l.Logger.Infof(format, args...) }

// NewLogger builds a Logger backed by gommon/log, colorized via the
// teacher's own mattn/go-colorable + mattn/go-isatty stack (gommon/log
// detects isatty internally and enables color automatically on a terminal).
func NewLogger(prefix string) Logger {
	return gommonLogger{glog.New(prefix)}
}
