package args

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
)

// PrintUsage writes the help text of T to w. defaults supplies the values
// shown as defaults; nil shows the zero values.
func PrintUsage[T any](w io.Writer, defaults *T) error {
	table, err := TableFor[T]()
	if err != nil {
		return err
	}
	about := table.About
	name := programName(about)

	var b strings.Builder
	writeTitle(&b, name, about.Desc)

	usage := about.Usage
	if usage == "" {
		usage = name + " [options] [args...]"
	}
	fmt.Fprintf(&b, "Usage:\n  %s\n\n", usage)

	fs := usageFlags(name, table, sourceOf(table, defaults), true)
	fmt.Fprintf(&b, "Options:\n%s", fs.FlagUsagesWrapped(0))

	_, err = io.WriteString(w, b.String())
	return err
}

// PrintMergedUsage writes the help text of subcommand command, listing the
// subcommand's options before the global ones. The program name comes from
// G's About record, the description and usage override from S's.
func PrintMergedUsage[G, S any](w io.Writer, command string, global *G, sub *S) error {
	if err := CheckMerged[G, S](); err != nil {
		return err
	}
	globalTable, _ := TableFor[G]()
	subTable, _ := TableFor[S]()

	name := programName(globalTable.About)
	title := strings.TrimSpace(name + " " + command)

	var b strings.Builder
	writeTitle(&b, title, subTable.About.Desc)

	usage := subTable.About.Usage
	if usage == "" {
		usage = name + " [global options] " + command + " [options] [args...]"
	}
	fmt.Fprintf(&b, "Usage:\n  %s\n\n", usage)

	if len(subTable.Fields) > 0 {
		fs := usageFlags(command, subTable, sourceOf(subTable, sub), false)
		fmt.Fprintf(&b, "Options:\n%s\n", fs.FlagUsagesWrapped(0))
	}
	fs := usageFlags(name, globalTable, sourceOf(globalTable, global), true)
	fmt.Fprintf(&b, "Global Options:\n%s", fs.FlagUsagesWrapped(0))

	_, err := io.WriteString(w, b.String())
	return err
}

func programName(about About) string {
	if about.Name != "" {
		return about.Name
	}
	return "command"
}

func writeTitle(b *strings.Builder, name, desc string) {
	if desc == "" {
		fmt.Fprintf(b, "%s\n\n", name)
		return
	}
	fmt.Fprintf(b, "%s - %s\n\n", name, desc)
}

func sourceOf[T any](table *Table, v *T) reflect.Value {
	if v == nil {
		return reflect.New(table.Type).Elem()
	}
	return reflect.ValueOf(v).Elem()
}

// usageValue is a display only pflag.Value: pflag formats the options
// column, the values themselves are never parsed by it.
type usageValue struct {
	text string
	kind string
}

func (v *usageValue) String() string     { return v.text }
func (v *usageValue) Set(s string) error { v.text = s; return nil }
func (v *usageValue) Type() string       { return v.kind }

func usageFlags(name string, table *Table, src reflect.Value, withHelp bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	for _, f := range table.Fields {
		value := &usageValue{
			text: defaultText(f, src.FieldByIndex(f.index)),
			kind: typeLabel(f),
		}
		short := ""
		if f.Short != 0 && f.Short < utf8.RuneSelf {
			short = string(f.Short)
		}
		flag := fs.VarPF(value, f.Name, short, usageText(f))
		if f.IsFlag() {
			flag.NoOptDefVal = "true"
		}
	}
	if withHelp {
		fs.BoolP(helpLong, string(helpShort), false, "Show this help")
	}
	return fs
}

func defaultText(f *Field, fv reflect.Value) string {
	v, ok := f.export(fv)
	if !ok {
		return ""
	}
	if list, isList := v.([]any); isList {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

func typeLabel(f *Field) string {
	switch f.Kind {
	case KindEnum:
		return strings.Join(f.Tags, "|")
	case KindText:
		return "value"
	default:
		return f.Kind.String()
	}
}

func usageText(f *Field) string {
	help := f.Help
	if f.Multi {
		help = strings.TrimSpace(fmt.Sprintf("%s (repeatable, at most %d)", help, f.Capacity))
	}
	return help
}
