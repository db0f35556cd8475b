package args

import (
	"reflect"
	"strings"
	"unicode/utf8"
)

type tokenClass int

const (
	tokenPositional tokenClass = iota
	tokenSeparator
	tokenHelp
	tokenLong
	tokenShort
)

// token is one classified command line argument.
type token struct {
	class tokenClass
	// name is the long name or the short alias as a string.
	name string
	// value is the inline value, valid when inline is set.
	value  string
	inline bool
}

// option renders the token's option part as typed, e.g. "--port" or "-p".
func (t token) option() string {
	if t.class == tokenShort {
		return "-" + t.name
	}
	return "--" + t.name
}

// classify decides what a single argument is. Long forms are only tried for
// "--" prefixed tokens and short forms only for single dash tokens. A lone
// "-" is positional, conventionally meaning stdin. The reserved help names
// request help whatever is attached to them, so --help=x and -hx do too.
func classify(arg string) token {
	switch {
	case arg == "--":
		return token{class: tokenSeparator}
	case arg == "--"+helpLong || strings.HasPrefix(arg, "--"+helpLong+"="):
		return token{class: tokenHelp}
	case strings.HasPrefix(arg, "-"+string(helpShort)):
		return token{class: tokenHelp}
	case strings.HasPrefix(arg, "--"):
		name, value, inline := strings.Cut(arg[2:], "=")
		return token{class: tokenLong, name: name, value: value, inline: inline}
	case len(arg) > 1 && arg[0] == '-':
		_, size := utf8.DecodeRuneInString(arg[1:])
		rest := arg[1+size:]
		return token{class: tokenShort, name: arg[1 : 1+size], value: rest, inline: rest != ""}
	default:
		return token{class: tokenPositional}
	}
}

// binding ties a field to the struct value it writes into.
type binding struct {
	field *Field
	dst   reflect.Value
}

// namespace is the set of options visible to one parse.
type namespace struct {
	long  map[string]binding
	short map[rune]binding
	// tables lists every registered table with its destination.
	tables []boundTable
}

type boundTable struct {
	table *Table
	dst   reflect.Value
}

func newNamespace() *namespace {
	return &namespace{
		long:  make(map[string]binding),
		short: make(map[rune]binding),
	}
}

// add registers every field of table, failing on names already present.
func (ns *namespace) add(table *Table, dst reflect.Value) error {
	for _, f := range table.Fields {
		if other, ok := ns.long[f.Name]; ok {
			return collisionError(table.Type, &CollisionError{Name: "--" + f.Name, FieldA: other.field.GoName, FieldB: f.GoName})
		}
		if f.Short != 0 {
			if other, ok := ns.short[f.Short]; ok {
				return collisionError(table.Type, &CollisionError{Name: "-" + string(f.Short), FieldA: other.field.GoName, FieldB: f.GoName})
			}
		}
	}
	ns.tables = append(ns.tables, boundTable{table: table, dst: dst})
	for _, f := range table.Fields {
		b := binding{field: f, dst: dst}
		ns.long[f.Name] = b
		if f.Short != 0 {
			ns.short[f.Short] = b
		}
	}
	return nil
}

// checkCapacity verifies every Multi field of the registered tables.
func (ns *namespace) checkCapacity() error {
	for _, bt := range ns.tables {
		if err := checkCapacity(bt.table, bt.dst); err != nil {
			return err
		}
	}
	return nil
}

// match resolves an option token to its binding.
func (ns *namespace) match(tok token) (binding, bool) {
	if tok.class == tokenShort {
		r, _ := utf8.DecodeRuneInString(tok.name)
		b, ok := ns.short[r]
		return b, ok
	}
	b, ok := ns.long[tok.name]
	return b, ok
}
