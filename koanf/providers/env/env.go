// Package env is a koanf provider that turns prefixed environment variables
// into a JSON document keyed by option name.
package env

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-args/logger"
	"github.com/tidwall/sjson"
)

// Env implements an environment variables provider.
type Env struct {
	prefix string
	key    func(name string) string
	logger logger.Logger
}

// Provider captures the variables whose name starts with prefix
// (case-sensitive). By default the prefix is removed, the rest lower-cased,
// delim marks a list index or nesting level and single underscores become
// hyphens:
//
//	APP_MAX_JOBS=4          {"max-jobs":"4"}
//	APP_INCLUDE__0=/usr     {"include":["/usr"]}
//	APP_INCLUDE__1=/opt     {"include":["/usr","/opt"]}
//
// key replaces that mapping and must return a dot separated path. A blank
// path drops the variable.
func Provider(prefix, delim string, key func(name string) string) *Env {
	if key == nil {
		key = OptionKey(prefix, delim)
	}
	return &Env{
		prefix: prefix,
		key:    key,
		logger: logger.NopLogger{},
	}
}

// OptionKey is the default variable name mapping used by Provider.
func OptionKey(prefix, delim string) func(name string) string {
	return func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, prefix))
		if delim != "" {
			name = strings.ReplaceAll(name, strings.ToLower(delim), ".")
		}
		return strings.ReplaceAll(name, "_", "-")
	}
}

func (e *Env) SetLogger(l logger.Logger) {
	if l != nil {
		e.logger = l
	}
}

// ReadBytes returns the captured variables as JSON. Variables are applied
// in name order so list indexes land in a stable order.
func (e *Env) ReadBytes() ([]byte, error) {
	vars := map[string]string{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, e.prefix) {
			continue
		}
		vars[name] = value
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	out := []byte("{}")
	for _, name := range names {
		path := e.key(name)
		if path == "" {
			continue
		}
		e.logger.Debug("env %s -> %s", name, path)

		var err error
		out, err = sjson.SetBytes(out, path, vars[name])
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Read is not supported by the env provider.
func (e *Env) Read() (map[string]any, error) {
	return nil, errors.New("env provider does not support this method")
}
