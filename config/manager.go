package config

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-args/args"
	"github.com/goliatone/go-args/logger"
	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/v2"
	"github.com/tidwall/sjson"
)

var (
	DefaultDelimiter   = "."
	DefaultLoadTimeout = 30 * time.Second
)

// Validable options are checked once every source has been applied.
type Validable interface {
	Validate() error
}

// Container fills an options struct from layered sources before the command
// line is parsed. From lowest to highest precedence: the struct's own field
// values, DefaultValuesProvider, StructProvider, FileProvider, EnvProvider
// and finally the command line given to Parse.
type Container[T any] struct {
	K            *koanf.Koanf
	base         *T
	defaults     T
	table        *args.Table
	err          error
	providers    []Provider
	loaders      []ProviderBuilder[T]
	transformers []StringTransformer
	strictKeys   bool
	validate     bool
	loadTimeout  time.Duration
	logger       logger.Logger
}

// New binds a container to dst. The values in dst when New is called are
// the defaults every Load starts from.
func New[T any](dst *T, opts ...Option[T]) *Container[T] {
	c := &Container[T]{
		base:         dst,
		validate:     true,
		loadTimeout:  DefaultLoadTimeout,
		transformers: []StringTransformer{TrimSpace},
		logger:       logger.NewDefaultLogger("config"),
	}

	if dst == nil {
		c.err = errors.New("destination cannot be nil", errors.CategoryBadInput).
			WithTextCode("NIL_DESTINATION")
	} else {
		c.defaults = *dst
		c.table, c.err = args.TableFor[T]()
	}

	for _, opt := range opts {
		opt(c)
	}

	c.newConfig()

	return c
}

func (c *Container[T]) WithLogger(l logger.Logger) *Container[T] {
	if l != nil {
		c.logger = l
	}
	return c
}

func (c *Container[T]) WithTimeout(timeout time.Duration) *Container[T] {
	c.loadTimeout = timeout
	return c
}

// WithStrictKeys makes keys that name no option an error instead of being
// skipped.
func (c *Container[T]) WithStrictKeys(enabled bool) *Container[T] {
	c.strictKeys = enabled
	return c
}

// WithValidation toggles the Validate call on options implementing
// Validable. It is on by default.
func (c *Container[T]) WithValidation(enabled bool) *Container[T] {
	c.validate = enabled
	return c
}

// WithTransformers replaces the transformers applied to provider values.
// TrimSpace is installed by default.
func (c *Container[T]) WithTransformers(transformers ...StringTransformer) *Container[T] {
	c.transformers = append([]StringTransformer{}, transformers...)
	return c
}

func (c *Container[T]) WithProvider(factories ...ProviderBuilder[T]) *Container[T] {
	for _, factory := range factories {
		if factory != nil {
			c.loaders = append(c.loaders, factory)
		}
	}
	return c
}

func (c *Container[T]) newConfig() {
	c.K = koanf.NewWithConf(koanf.Conf{
		Delim: DefaultDelimiter,
	})
}

// Options returns the destination.
func (c *Container[T]) Options() *T {
	return c.base
}

// Table returns the option table of T, nil when T is not a valid options
// struct.
func (c *Container[T]) Table() *args.Table {
	return c.table
}

func (c *Container[T]) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
}

// Load resets the destination to its defaults and applies every provider.
func (c *Container[T]) Load(ctx context.Context) error {
	if err := c.load(ctx); err != nil {
		return err
	}
	return c.check()
}

// Parse loads the providers, then parses argv on top of them. The returned
// slice holds the positional arguments. ErrHelp from the command line is
// returned as is.
func (c *Container[T]) Parse(ctx context.Context, argv []string) ([]string, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}

	rest, err := args.Parse(c.base, argv)
	if err != nil {
		return rest, err
	}

	return rest, c.check()
}

func (c *Container[T]) load(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}

	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	// reset config state so removed keys are gone
	c.newConfig()

	c.providers = nil
	for i, factory := range c.loaders {
		provider, err := factory(c)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create provider").
				WithTextCode("PROVIDER_CREATION_FAILED").
				WithMetadata(map[string]any{
					"factory_index":   i,
					"total_factories": len(c.loaders),
				})
		}
		c.providers = append(c.providers, provider)
	}

	for i, src := range c.providers {
		if err := src.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "invalid provider source type").
				WithTextCode("INVALID_PROVIDER_TYPE").
				WithMetadata(map[string]any{
					"source_type":    string(src.Type()),
					"provider_index": i,
				})
		}
	}

	sort.SliceStable(c.providers, func(i, j int) bool {
		return c.providers[i].Priority() < c.providers[j].Priority()
	})

	for i, source := range c.providers {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "configuration load interrupted").
				WithTextCode("CONFIG_LOAD_INTERRUPTED").
				WithMetadata(map[string]any{
					"source_index": i,
				})
		}

		c.logger.Debug("loading %s source", source.Type())
		if err := source.Load(ctx, c.K); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from source").
				WithTextCode("CONFIG_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_type":   string(source.Type()),
					"source_index":  i,
					"total_sources": len(c.providers),
				})
		}
	}

	values, err := c.collect()
	if err != nil {
		return err
	}

	*c.base = c.defaults
	if err := args.Assign(c.base, values); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid configuration value").
			WithTextCode("CONFIG_VALUE_INVALID")
	}

	return nil
}

// collect reads the merged sources as option texts keyed by long name.
func (c *Container[T]) collect() (map[string][]string, error) {
	raw := c.K.Raw()
	values := make(map[string][]string, len(raw))

	for key, v := range raw {
		if _, ok := c.table.Lookup(key); !ok {
			if c.strictKeys {
				return nil, errors.New("unknown configuration key", errors.CategoryValidation).
					WithTextCode("UNKNOWN_CONFIG_KEY").
					WithMetadata(map[string]any{
						"key":  key,
						"type": c.table.Type.String(),
					})
			}
			c.logger.Debug("ignoring unknown configuration key %q", key)
			continue
		}

		list, err := texts(v)
		if err == nil {
			list, err = transform(list, c.transformers)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "invalid configuration value").
				WithTextCode("CONFIG_VALUE_INVALID").
				WithMetadata(map[string]any{
					"key": key,
				})
		}

		if len(list) > 0 {
			values[key] = list
		}
	}

	return values, nil
}

func (c *Container[T]) check() error {
	if !c.validate {
		return nil
	}
	v, ok := any(c.base).(Validable)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "configuration validation failed").
			WithTextCode("CONFIG_VALIDATION_FAILED")
	}
	return nil
}

// Dump encodes the current options as a JSON object keyed by long name,
// in a form FileProvider reads back.
func (c *Container[T]) Dump() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return Dump(c.base)
}

// Dump encodes the options held by src, a pointer to an options struct.
// Unset optional options are left out.
func Dump(src any) ([]byte, error) {
	values, err := args.Values(src)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := []byte("{}")
	for _, name := range names {
		out, err = sjson.SetBytes(out, pathEscaper.Replace(name), values[name])
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to encode option").
				WithTextCode("DUMP_FAILED").
				WithMetadata(map[string]any{
					"option": name,
				})
		}
	}
	return out, nil
}

var pathEscaper = strings.NewReplacer(
	`\`, `\\`, `.`, `\.`, `*`, `\*`, `?`, `\?`, `|`, `\|`, `#`, `\#`, `@`, `\@`,
)
