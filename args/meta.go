package args

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// About is program level metadata used by the help renderer.
type About struct {
	Name  string
	Desc  string
	Usage string
}

// FieldMeta overrides the short alias and help text of one field.
type FieldMeta struct {
	Short rune
	Help  string
}

// Meta is keyed by Go field name.
type Meta map[string]FieldMeta

// AboutProvider is implemented by option structs that describe the program.
type AboutProvider interface {
	About() About
}

// MetaProvider is implemented by option structs that prefer a metadata
// table over struct tags. Entries win over `short` and `help` tags.
//
// Both methods are called on a zero value of the struct.
type MetaProvider interface {
	Meta() Meta
}

// Enum is the constraint for string types with a closed set of tags.
//
//	type Command string
//
//	func (Command) Tags() []string { return []string{"build", "test", "run"} }
type Enum interface {
	~string
	Tags() []string
}

type enumer interface {
	Tags() []string
}

var (
	aboutProviderType = reflect.TypeOf((*AboutProvider)(nil)).Elem()
	metaProviderType  = reflect.TypeOf((*MetaProvider)(nil)).Elem()
	enumerType        = reflect.TypeOf((*enumer)(nil)).Elem()
)

func aboutOf(typ reflect.Type) About {
	if provider, ok := reflect.New(typ).Interface().(AboutProvider); ok {
		return provider.About()
	}
	return About{}
}

func metaOf(typ reflect.Type) Meta {
	if provider, ok := reflect.New(typ).Interface().(MetaProvider); ok {
		return provider.Meta()
	}
	return nil
}

// longName turns a Go field name into its option form: MaxJobs becomes
// max-jobs, Dry_Run becomes dry-run. Runs of capitals stay together, so
// HTTPPort becomes http-port.
func longName(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteRune('-')
			}
			continue
		case unicode.IsUpper(r):
			if i > 0 && b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteRune('-')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// shortTag reads a single-character alias. Anything longer is rejected by
// the caller.
func shortTag(tag string) (rune, bool) {
	if tag == "" {
		return 0, true
	}
	r, size := utf8.DecodeRuneInString(tag)
	if size != len(tag) || r == '-' || r == utf8.RuneError {
		return 0, false
	}
	return r, true
}
