package args

import (
	"reflect"

	"github.com/goliatone/go-errors"
)

// Parse matches args against the options of T, writing recognized values into
// dst and returning the remaining positional arguments in input order. args
// must not include the program name.
//
// Fields keep whatever dst held before the call unless an option sets them,
// so defaults are established by initializing dst. On failure the fields
// written before the failing token keep their new values.
//
// Parse returns ErrHelp when -h or --help is seen before any failure.
func Parse[T any](dst *T, args []string) ([]string, error) {
	table, err := TableFor[T]()
	if err != nil {
		return nil, err
	}
	if dst == nil {
		return nil, nilDestination(table.Type)
	}
	ns := newNamespace()
	if err := ns.add(table, reflect.ValueOf(dst).Elem()); err != nil {
		return nil, err
	}
	d := &driver{ns: ns}
	return d.run(args)
}

// driver is the state of one left to right pass over the arguments.
type driver struct {
	ns *namespace
	// skipFirst drops the first positional, the subcommand name of a merged
	// parse.
	skipFirst bool
	// seen tracks Multi fields already written in this pass.
	seen map[*Field]bool
}

func (d *driver) run(args []string) ([]string, error) {
	positionals := []string{}
	d.seen = make(map[*Field]bool)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		tok := classify(arg)

		switch tok.class {
		case tokenSeparator:
			if err := d.ns.checkCapacity(); err != nil {
				return nil, err
			}
			return append(positionals, args[i+1:]...), nil
		case tokenHelp:
			return nil, ErrHelp
		case tokenPositional:
			if d.skipFirst {
				d.skipFirst = false
				continue
			}
			positionals = append(positionals, arg)
			continue
		}

		b, ok := d.ns.match(tok)
		if !ok {
			return nil, &UnknownOptionError{Token: tok.option()}
		}

		value := tok.value
		switch {
		case tok.inline:
		case b.field.IsFlag():
			value = "true"
		case i+1 < len(args):
			i++
			value = args[i]
		default:
			return nil, &MissingValueError{Field: b.field.Name, Option: tok.option()}
		}

		fresh := !d.seen[b.field]
		d.seen[b.field] = true
		if err := b.field.assign(b.dst, value, fresh); err != nil {
			return nil, err
		}
	}
	// defaults of a Multi that never appeared must fit its tag too
	if err := d.ns.checkCapacity(); err != nil {
		return nil, err
	}
	return positionals, nil
}

func nilDestination(typ reflect.Type) error {
	return errors.New("destination cannot be nil", errors.CategoryBadInput).
		WithTextCode("NIL_DESTINATION").
		WithMetadata(map[string]any{
			"type": typeName(typ),
		})
}
