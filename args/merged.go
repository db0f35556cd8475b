package args

import (
	"reflect"
)

// ParseMerged parses a git style command line against two option sets: the
// program's global options G and the selected subcommand's options S. Both
// are matched in one namespace, before and after the subcommand name, and
// each value is written to whichever struct declares it.
//
// The first positional argument is the subcommand name. It is skipped, so
// callers resolve it beforehand, typically with FindSubcmd. A name declared
// by both G and S is reported as a collision before any argument is read.
func ParseMerged[G, S any](global *G, sub *S, args []string) ([]string, error) {
	ns, err := mergedNamespace(global, sub)
	if err != nil {
		return nil, err
	}
	d := &driver{ns: ns, skipFirst: true}
	return d.run(args)
}

// CheckMerged reports whether G and S can be parsed together. It is meant
// for tests and init time checks.
func CheckMerged[G, S any]() error {
	_, err := mergedNamespace(new(G), new(S))
	return err
}

func mergedNamespace[G, S any](global *G, sub *S) (*namespace, error) {
	globalTable, err := TableFor[G]()
	if err != nil {
		return nil, err
	}
	subTable, err := TableFor[S]()
	if err != nil {
		return nil, err
	}
	if global == nil {
		return nil, nilDestination(globalTable.Type)
	}
	if sub == nil {
		return nil, nilDestination(subTable.Type)
	}
	ns := newNamespace()
	if err := ns.add(globalTable, reflect.ValueOf(global).Elem()); err != nil {
		return nil, err
	}
	if err := ns.add(subTable, reflect.ValueOf(sub).Elem()); err != nil {
		return nil, err
	}
	return ns, nil
}
