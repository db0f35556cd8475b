package args

import (
	"encoding"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

// Kind is the leaf value category of an option.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindUint
	KindBool
	KindFloat
	KindDuration
	KindEnum
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindDuration:
		return "duration"
	case KindEnum:
		return "enum"
	case KindText:
		return "text"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Field describes one option derived from a struct field.
type Field struct {
	// Name is the long option name, without the leading dashes.
	Name string
	// GoName is the struct field name.
	GoName string
	// Short is the single character alias, zero when absent.
	Short rune
	Help  string
	Kind  Kind
	// Optional is set for pointer and Optional[T] fields.
	Optional bool
	// Multi is set for Multi[T] fields, bounded by Capacity.
	Multi    bool
	Capacity int
	// Tags lists the valid values of an enum field.
	Tags []string

	index []int
	leaf  reflect.Type
}

// IsFlag reports whether the option is complete without a value.
func (f *Field) IsFlag() bool {
	return f.Kind == KindBool
}

// Table is the immutable descriptor list of one option struct type.
type Table struct {
	Type   reflect.Type
	Fields []*Field
	About  About

	long  map[string]*Field
	short map[rune]*Field
}

// Lookup returns the field with the given long name.
func (t *Table) Lookup(name string) (*Field, bool) {
	f, ok := t.long[name]
	return f, ok
}

// LookupShort returns the field with the given short alias.
func (t *Table) LookupShort(r rune) (*Field, bool) {
	f, ok := t.short[r]
	return f, ok
}

const (
	helpLong  = "help"
	helpShort = 'h'
)

var tables sync.Map // reflect.Type -> tableEntry

type tableEntry struct {
	table *Table
	err   error
}

// TableFor returns the descriptor table of T, deriving it on first use.
func TableFor[T any]() (*Table, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, invalidOptionsType(typ)
	}
	return TableOf(typ)
}

// TableOf returns the descriptor table of typ, which must be a struct type
// or a pointer to one. Results, including failures, are cached per type.
func TableOf(typ reflect.Type) (*Table, error) {
	if typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, invalidOptionsType(typ)
	}
	if cached, ok := tables.Load(typ); ok {
		entry := cached.(tableEntry)
		return entry.table, entry.err
	}
	table, err := deriveTable(typ)
	entry, _ := tables.LoadOrStore(typ, tableEntry{table: table, err: err})
	return entry.(tableEntry).table, entry.(tableEntry).err
}

func invalidOptionsType(typ reflect.Type) error {
	return errors.New("options must be a struct", errors.CategoryBadInput).
		WithTextCode("INVALID_OPTIONS_TYPE").
		WithMetadata(map[string]any{
			"type": typeName(typ),
		})
}

func typeName(typ reflect.Type) string {
	if typ == nil {
		return "<nil>"
	}
	return typ.String()
}

func deriveTable(typ reflect.Type) (*Table, error) {
	t := &Table{
		Type:  typ,
		About: aboutOf(typ),
		long:  make(map[string]*Field),
		short: make(map[rune]*Field),
	}
	if err := collectFields(t, typ, nil); err != nil {
		return nil, err
	}
	if err := applyMeta(t, metaOf(typ)); err != nil {
		return nil, err
	}
	for _, f := range t.Fields {
		if err := t.register(f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func collectFields(t *Table, typ reflect.Type, parent []int) error {
	for i := range typ.NumField() {
		sf := typ.Field(i)
		index := append(append([]int{}, parent...), i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !isWrapper(sf.Type) {
			if err := collectFields(t, sf.Type, index); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get("name")
		if name == "-" {
			continue
		}
		if name == "" {
			name = longName(sf.Name)
		}

		f, err := describeField(typ, sf, name)
		if err != nil {
			return err
		}
		f.index = index
		t.Fields = append(t.Fields, f)
	}
	return nil
}

func isWrapper(typ reflect.Type) bool {
	ptr := reflect.PointerTo(typ)
	return ptr.Implements(accumulatorType) || ptr.Implements(optionalType)
}

func describeField(owner reflect.Type, sf reflect.StructField, name string) (*Field, error) {
	f := &Field{
		Name:   name,
		GoName: sf.Name,
		Help:   sf.Tag.Get("help"),
	}

	short, ok := shortTag(sf.Tag.Get("short"))
	if !ok {
		return nil, fieldError("short alias must be a single character", "INVALID_SHORT_ALIAS", owner, sf, map[string]any{
			"short": sf.Tag.Get("short"),
		})
	}
	f.Short = short

	leaf := sf.Type
	ptr := reflect.PointerTo(sf.Type)
	switch {
	case ptr.Implements(accumulatorType):
		f.Multi = true
		leaf = reflect.New(sf.Type).Interface().(accumulator).elemType()
		capacity, err := strconv.Atoi(sf.Tag.Get("cap"))
		if err != nil || capacity < 1 {
			return nil, fieldError("multi option needs a positive cap tag", "INVALID_CAPACITY", owner, sf, map[string]any{
				"cap": sf.Tag.Get("cap"),
			})
		}
		f.Capacity = capacity
	case ptr.Implements(optionalType):
		f.Optional = true
		leaf = reflect.New(sf.Type).Interface().(optionalValue).elemType()
	case sf.Type.Kind() == reflect.Ptr:
		f.Optional = true
		leaf = sf.Type.Elem()
	}

	kind, ok := leafKind(leaf)
	if !ok {
		return nil, fieldError("unsupported option field type", "UNSUPPORTED_FIELD_TYPE", owner, sf, map[string]any{
			"field_type": sf.Type.String(),
		})
	}
	f.Kind = kind
	f.leaf = leaf
	if kind == KindEnum {
		f.Tags = append([]string{}, reflect.Zero(leaf).Interface().(enumer).Tags()...)
	}
	return f, nil
}

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func leafKind(typ reflect.Type) (Kind, bool) {
	switch {
	case typ.Kind() == reflect.String && typ.Implements(enumerType):
		return KindEnum, true
	case typ == durationType:
		return KindDuration, true
	case reflect.PointerTo(typ).Implements(textUnmarshalerType):
		return KindText, true
	}
	switch typ.Kind() {
	case reflect.String:
		return KindString, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, true
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	}
	return 0, false
}

func fieldError(msg, code string, owner reflect.Type, sf reflect.StructField, meta map[string]any) error {
	meta["type"] = owner.String()
	meta["field"] = sf.Name
	return errors.New(msg, errors.CategoryBadInput).
		WithTextCode(code).
		WithMetadata(meta)
}

func applyMeta(t *Table, meta Meta) error {
	for goName, entry := range meta {
		var target *Field
		for _, f := range t.Fields {
			if f.GoName == goName {
				target = f
				break
			}
		}
		if target == nil {
			return errors.New("meta entry names no field", errors.CategoryBadInput).
				WithTextCode("UNKNOWN_META_FIELD").
				WithMetadata(map[string]any{
					"type":  t.Type.String(),
					"field": goName,
				})
		}
		if entry.Short != 0 {
			target.Short = entry.Short
		}
		if entry.Help != "" {
			target.Help = entry.Help
		}
	}
	return nil
}

func (t *Table) register(f *Field) error {
	if f.Name == helpLong {
		return collisionError(t.Type, &CollisionError{Name: "--" + helpLong, FieldA: "built-in help", FieldB: f.GoName})
	}
	if other, ok := t.long[f.Name]; ok {
		return collisionError(t.Type, &CollisionError{Name: "--" + f.Name, FieldA: other.GoName, FieldB: f.GoName})
	}
	t.long[f.Name] = f

	if f.Short == 0 {
		return nil
	}
	if f.Short == helpShort {
		return collisionError(t.Type, &CollisionError{Name: "-h", FieldA: "built-in help", FieldB: f.GoName})
	}
	if other, ok := t.short[f.Short]; ok {
		return collisionError(t.Type, &CollisionError{Name: "-" + string(f.Short), FieldA: other.GoName, FieldB: f.GoName})
	}
	t.short[f.Short] = f
	return nil
}

func collisionError(typ reflect.Type, collision *CollisionError) error {
	return errors.Wrap(collision, errors.CategoryValidation, "option name collision").
		WithTextCode("NAME_COLLISION").
		WithMetadata(map[string]any{
			"type":    typeName(typ),
			"name":    collision.Name,
			"field_a": collision.FieldA,
			"field_b": collision.FieldB,
		})
}
