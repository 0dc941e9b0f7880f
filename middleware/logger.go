package middleware

import (
	"bytes"
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/color"
	"github.com/valyala/fasttemplate"

	"github.com/trafficstars/routecore"
)

// LoggerConfig defines the config for the request Logger middleware. Format
// uses "${tag}" placeholders rendered via fasttemplate, matching the
// teacher's own middleware/logger.go template-tag design.
//
// Available tags: time_unix, time_unix_milli, time_unix_nano, time_rfc3339,
// time_rfc3339_nano, time_custom, remote_ip, host, uri, method, path,
// status, latency, latency_human, bytes_in, bytes_out, error, and the
// dynamic header:<NAME> / query:<NAME> tags.
type LoggerConfig struct {
	Skipper          Skipper
	Format           string
	CustomTimeFormat string
	Output           io.Writer

	template *fasttemplate.Template
	colorer  *color.Color
	pool     *sync.Pool
	timeNow  func() time.Time
}

// DefaultLoggerConfig is the default Logger middleware config.
var DefaultLoggerConfig = LoggerConfig{
	Skipper: DefaultSkipper,
	Format: `{"time":"${time_rfc3339_nano}","remote_ip":"${remote_ip}",` +
		`"host":"${host}","method":"${method}","uri":"${uri}",` +
		`"status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}"` +
		`,"bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	CustomTimeFormat: "2006-01-02 15:04:05.00000",
	colorer:          color.New(),
	timeNow:          time.Now,
}

// Logger returns a Middleware that logs every request using the default
// JSON format.
func Logger() routecore.Middleware {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig returns a Logger Middleware built from config.
func LoggerWithConfig(config LoggerConfig) routecore.Middleware {
	if config.Skipper == nil {
		config.Skipper = DefaultLoggerConfig.Skipper
	}
	if config.Format == "" {
		config.Format = DefaultLoggerConfig.Format
	}
	writeString := func(buf *bytes.Buffer, in string) (int, error) { return buf.WriteString(in) }
	if config.Format[0] == '{' {
		writeString = writeJSONSafeString
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	timeNow := DefaultLoggerConfig.timeNow
	if config.timeNow != nil {
		timeNow = config.timeNow
	}

	config.template = fasttemplate.New(config.Format, "${", "}")
	config.colorer = color.New()
	config.colorer.SetOutput(config.Output)
	config.pool = &sync.Pool{
		New: func() interface{} { return bytes.NewBuffer(make([]byte, 256)) },
	}

	return func(next routecore.Handler) routecore.Handler {
		return func(ctx context.Context, req *routecore.Request) (routecore.Result, error) {
			if config.Skipper(req) {
				return next(ctx, req)
			}

			start := timeNow()
			result, herr := next(ctx, req)
			stop := timeNow()

			status := 0
			var bytesOut int64
			if herr == nil && result.Kind == routecore.ResultResponse && result.Response != nil {
				status = result.Response.Status()
				if cl, ok := result.Response.Body().ContentLength(); ok {
					bytesOut = cl
				}
			} else if herr != nil {
				status = routecore.ResolveStatus(herr)
			}

			buf := config.pool.Get().(*bytes.Buffer)
			buf.Reset()
			defer config.pool.Put(buf)

			config.template.ExecuteFunc(buf, func(w io.Writer, tag string) (int, error) {
				switch tag {
				case "time_unix":
					return buf.WriteString(strconv.FormatInt(timeNow().Unix(), 10))
				case "time_unix_milli":
					return buf.WriteString(strconv.FormatInt(timeNow().UnixMilli(), 10))
				case "time_unix_nano":
					return buf.WriteString(strconv.FormatInt(timeNow().UnixNano(), 10))
				case "time_rfc3339":
					return buf.WriteString(timeNow().Format(time.RFC3339))
				case "time_rfc3339_nano":
					return buf.WriteString(timeNow().Format(time.RFC3339Nano))
				case "time_custom":
					return buf.WriteString(timeNow().Format(config.CustomTimeFormat))
				case "remote_ip":
					return writeString(buf, req.Header().Get("X-Forwarded-For"))
				case "host":
					return writeString(buf, req.URL().Host)
				case "uri":
					return writeString(buf, req.URL().RequestURI())
				case "method":
					return writeString(buf, string(req.Method()))
				case "path":
					p := req.Path()
					if p == "" {
						p = "/"
					}
					return writeString(buf, p)
				case "protocol":
					return writeString(buf, req.Protocol())
				case "status":
					s := config.colorer.Green(status)
					switch {
					case status >= 500:
						s = config.colorer.Red(status)
					case status >= 400:
						s = config.colorer.Yellow(status)
					case status >= 300:
						s = config.colorer.Cyan(status)
					}
					return buf.WriteString(s)
				case "error":
					if herr != nil {
						return writeJSONSafeString(buf, herr.Error())
					}
				case "latency":
					return buf.WriteString(strconv.FormatInt(int64(stop.Sub(start)), 10))
				case "latency_human":
					return buf.WriteString(stop.Sub(start).String())
				case "bytes_in":
					cl, ok := req.Body().ContentLength()
					if !ok {
						cl = 0
					}
					return buf.WriteString(strconv.FormatInt(cl, 10))
				case "bytes_out":
					return buf.WriteString(strconv.FormatInt(bytesOut, 10))
				default:
					switch {
					case strings.HasPrefix(tag, "header:"):
						return writeString(buf, req.Header().Get(tag[len("header:"):]))
					case strings.HasPrefix(tag, "query:"):
						return writeString(buf, req.URL().Query().Get(tag[len("query:"):]))
					}
				}
				return 0, nil
			})

			if config.Output != nil {
				config.Output.Write(buf.Bytes())
			}
			return result, herr
		}
	}
}
