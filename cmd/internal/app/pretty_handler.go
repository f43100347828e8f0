package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset   = "\x1b[0m"
	ansiBright  = "\x1b[1m"
	ansiDim     = "\x1b[2m"
	ansiRed     = "\x1b[31m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiBlue    = "\x1b[34m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRe.ReplaceAllString(s, "") }

// prettyHandler renders records as one key=value line for local runs:
//
//	ts=12:00:00.000 lvl=[INFO] msg=http.request method=POST route=/auth/login status=200 ...
type prettyHandler struct {
	w      io.Writer
	level  slog.Leveler
	source bool
	color  bool

	prefix string // group path, "a.b."
	pre    string // rendered WithAttrs output
	mu     *sync.Mutex
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, color bool) slog.Handler {
	h := &prettyHandler{w: w, level: slog.LevelInfo, color: color, mu: &sync.Mutex{}}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.source = opts.AddSource
	}
	return h
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ts=%s lvl=%s msg=%s",
		h.paint(ts.Format("15:04:05.000"), ansiDim),
		h.levelTag(r.Level),
		h.paint(r.Message, ansiBright),
	)
	if h.source && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			b.WriteString(" src=" + h.paint(filepath.Base(frame.File)+":"+strconv.Itoa(frame.Line), ansiDim))
		}
	}
	b.WriteString(h.pre)
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	for _, a := range attrs {
		h.writeAttr(&b, h.prefix, a)
	}
	cp := *h
	cp.pre = h.pre + b.String()
	return &cp
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	name = strings.TrimSpace(name)
	if name == "" {
		return h
	}
	cp := *h
	cp.prefix = h.prefix + name + "."
	return &cp
}

func (h *prettyHandler) writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	key := strings.TrimSpace(a.Key)
	if a.Equal(slog.Attr{}) || key == "" {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(b, prefix+key+".", ga)
		}
		return
	}

	style, styled := prettyKeys[key]
	if styled && style.alias != "" {
		key = style.alias
	}
	b.WriteString(" " + prefix + key + "=")
	if styled {
		if s, ok := style.render(h, a.Value); ok {
			b.WriteString(s)
			return
		}
	}
	b.WriteString(quoteIfNeeded(valueToString(a.Value)))
}

// keyStyle renders the well-known request-log keys. render reports false to fall back to plain output.
type keyStyle struct {
	alias  string
	render func(h *prettyHandler, v slog.Value) (string, bool)
}

var prettyKeys = map[string]keyStyle{
	"method": {render: func(h *prettyHandler, v slog.Value) (string, bool) {
		m := strings.ToUpper(strings.TrimSpace(v.String()))
		return h.paint(m, methodColor(m)), true
	}},
	"path":  {render: routeStyle},
	"route": {render: routeStyle},
	"status": {render: func(h *prettyHandler, v slog.Value) (string, bool) {
		n, ok := valueToInt64(v)
		if !ok {
			return "", false
		}
		return h.paint(strconv.FormatInt(n, 10), classColor(statusClass(int(n)))), true
	}},
	"status_class": {alias: "class", render: func(h *prettyHandler, v slog.Value) (string, bool) {
		c := strings.TrimSpace(v.String())
		return h.paint(c, classColor(c)), true
	}},
	"duration_ms": {alias: "duration", render: func(h *prettyHandler, v slog.Value) (string, bool) {
		ms, ok := valueToInt64(v)
		if !ok {
			return "", false
		}
		code := ansiDim
		switch {
		case ms >= 1000:
			code = ansiRed
		case ms >= 250:
			code = ansiYellow
		}
		return h.paint(strconv.FormatInt(ms, 10)+"ms", code), true
	}},
	"result": {render: func(h *prettyHandler, v slog.Value) (string, bool) {
		res := strings.ToLower(strings.TrimSpace(v.String()))
		code, ok := resultColors[res]
		if !ok {
			return "", false
		}
		return h.paint(res, code), true
	}},
}

func routeStyle(h *prettyHandler, v slog.Value) (string, bool) {
	return h.paint(strings.TrimSpace(v.String()), ansiCyan), true
}

var resultColors = map[string]string{
	"success":      ansiGreen,
	"redirect":     ansiCyan,
	"client_error": ansiYellow,
	"server_error": ansiRed,
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return ansiBlue
	case http.MethodPost:
		return ansiGreen
	case http.MethodPut, http.MethodPatch:
		return ansiYellow
	case http.MethodDelete:
		return ansiRed
	default:
		return ansiMagenta
	}
}

func classColor(class string) string {
	switch class {
	case "2xx":
		return ansiGreen
	case "3xx":
		return ansiCyan
	case "4xx":
		return ansiYellow
	case "5xx":
		return ansiRed
	default:
		return ""
	}
}

var levelTags = []struct {
	min  slog.Level
	tag  string
	code string
}{
	{slog.LevelError, "[ERROR]", ansiRed},
	{slog.LevelWarn, "[WARN]", ansiYellow},
	{slog.LevelInfo, "[INFO]", ansiBlue},
}

func (h *prettyHandler) levelTag(level slog.Level) string {
	for _, lt := range levelTags {
		if level >= lt.min {
			return h.paint(lt.tag, lt.code)
		}
	}
	return h.paint("[DEBUG]", ansiMagenta)
}

func (h *prettyHandler) paint(s, code string) string {
	if !h.color || code == "" {
		return s
	}
	return code + s + ansiReset
}

func valueToString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return v.String()
	}
}

func valueToInt64(v slog.Value) (int64, bool) {
	switch v.Kind() {
	case slog.KindInt64:
		return v.Int64(), true
	case slog.KindUint64:
		return int64(v.Uint64()), true
	case slog.KindFloat64:
		return int64(v.Float64()), true
	case slog.KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
