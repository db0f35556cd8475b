package config

import (
	"context"
	goerrors "errors"
	"os"
	"reflect"
	"syscall"

	"github.com/goliatone/go-args/args"
	"github.com/goliatone/go-args/koanf/providers/env"
	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/copystructure"
)

// ProviderBuilder creates a Provider when the container loads.
type ProviderBuilder[T any] func(*Container[T]) (Provider, error)

type ProviderType string

type Provider interface {
	Type() ProviderType
	Priority() int
	Validate() error
	Load(context.Context, *koanf.Koanf) error
}

type Loader struct {
	order        int
	providerType ProviderType
	load         func(context.Context, *koanf.Koanf) error
}

func (l *Loader) Priority() int {
	return l.order
}

func (l *Loader) Type() ProviderType {
	return l.providerType
}

func (l *Loader) Load(ctx context.Context, k *koanf.Koanf) error {
	return l.load(ctx, k)
}

func (l *Loader) Validate() error {
	return l.providerType.validate()
}

const (
	ProviderTypeDefault   ProviderType = "default"
	ProviderTypeLocalFile ProviderType = "file"
	ProviderTypeEnv       ProviderType = "env"
	ProviderTypeStruct    ProviderType = "struct"
)

type Priority int

// container.WithProvider(FileProvider[Options]("base.toml", PriorityConfig.WithOffset(-1)))
func (p Priority) WithOffset(offset int) int {
	return int(p) + offset
}

// Command line arguments are applied after every provider, so they need no
// priority.
var (
	PriorityDefaults Priority = 0
	PriorityStruct   Priority = 10
	PriorityConfig   Priority = 20
	PriorityEnv      Priority = 30
)

var (
	DefaultEnvPrefix    = "APP_"
	DefaultEnvDelimiter = "__" // single underscores map to hyphens
)

func (p ProviderType) String() string {
	return string(p)
}

func (p ProviderType) validate() error {
	switch p {
	case ProviderTypeDefault, ProviderTypeLocalFile, ProviderTypeEnv, ProviderTypeStruct:
		return nil
	default:
		return errors.New("invalid loader type", errors.CategoryValidation).
			WithTextCode("INVALID_LOADER_TYPE").
			WithMetadata(map[string]any{
				"loader_type": string(p),
				"valid_types": []string{
					string(ProviderTypeDefault),
					string(ProviderTypeLocalFile),
					string(ProviderTypeEnv),
					string(ProviderTypeStruct),
				},
			})
	}
}

var merger = koanf.WithMergeFunc(MergeSkippingEmpty)

// DefaultValuesProvider supplies option values keyed by long name. The map
// is copied when the builder is created.
func DefaultValuesProvider[T any](values map[string]any, order ...int) ProviderBuilder[T] {
	snapshot, err := copystructure.Copy(values)

	return func(c *Container[T]) (Provider, error) {
		if err != nil {
			return &Loader{}, errors.Wrap(err, errors.CategoryOperation, "failed to copy default values").
				WithTextCode("DEFAULT_VALUES_COPY_FAILED")
		}

		data, _ := snapshot.(map[string]any)
		kprovider := confmap.Provider(data, "")

		return &Loader{
			providerType: ProviderTypeDefault,
			order:        getOrder(PriorityDefaults, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("default values provider: %d values", len(data))
				if err := k.Load(kprovider, nil, merger); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load default values").
						WithTextCode("DEFAULT_VALUES_LOAD_FAILED").
						WithMetadata(map[string]any{
							"values_count": len(data),
						})
				}
				return nil
			},
		}, nil
	}
}

// StructProvider supplies the options set on preset, a pointer to an
// options struct. Fields left at their zero value are not taken.
func StructProvider[T any](preset any, order ...int) ProviderBuilder[T] {
	return func(c *Container[T]) (Provider, error) {
		if preset == nil {
			return &Loader{}, errors.New("struct cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_STRUCT")
		}

		values, err := presetValues(preset)
		if err != nil {
			return &Loader{}, errors.Wrap(err, errors.CategoryBadInput, "invalid struct preset").
				WithTextCode("INVALID_STRUCT").
				WithMetadata(map[string]any{
					"type": reflect.TypeOf(preset).String(),
				})
		}
		kprovider := confmap.Provider(values, "")

		return &Loader{
			providerType: ProviderTypeStruct,
			order:        getOrder(PriorityStruct, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("struct provider: %d values", len(values))
				if err := k.Load(kprovider, nil, merger); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from struct").
						WithTextCode("STRUCT_LOAD_FAILED")
				}
				return nil
			},
		}, nil
	}
}

func presetValues(preset any) (map[string]any, error) {
	values, err := args.Values(preset)
	if err != nil {
		return nil, err
	}

	zero, err := args.Values(reflect.New(reflect.TypeOf(preset).Elem()).Interface())
	if err != nil {
		return nil, err
	}

	for name, v := range values {
		if z, ok := zero[name]; ok && reflect.DeepEqual(z, v) {
			delete(values, name)
		}
	}
	return values, nil
}

// FileProvider reads a JSON, YAML or TOML file chosen by its extension.
func FileProvider[T any](filepath string, order ...int) ProviderBuilder[T] {
	filetype := FileTypeOf(filepath)

	return func(c *Container[T]) (Provider, error) {
		parser, err := filetype.Parser()
		if err != nil {
			return &Loader{}, err
		}
		kprovider := file.Provider(filepath)

		return &Loader{
			providerType: ProviderTypeLocalFile,
			order:        getOrder(PriorityConfig, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				c.logger.Debug("file provider: %s", filepath)
				if err := k.Load(kprovider, parser, merger); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from file").
						WithTextCode("FILE_LOAD_FAILED").
						WithMetadata(map[string]any{
							"filepath":  filepath,
							"file_type": string(filetype),
						})
				}
				return nil
			},
		}, nil
	}
}

// EnvProvider reads variables starting with prefix, for instance
// APP_MAX_JOBS for --max-jobs and APP_INCLUDE__0 for the first --include.
func EnvProvider[T any](prefix, delim string, order ...int) ProviderBuilder[T] {
	return func(c *Container[T]) (Provider, error) {
		return &Loader{
			providerType: ProviderTypeEnv,
			order:        getOrder(PriorityEnv, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				kprov := env.Provider(prefix, delim, nil)
				kprov.SetLogger(c.logger)

				c.logger.Debug("env provider: %s", prefix)
				if err := k.Load(kprov, json.Parser(), merger); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
						WithTextCode("ENV_LOAD_FAILED").
						WithMetadata(map[string]any{
							"prefix":    prefix,
							"delimiter": delim,
						})
				}
				return nil
			},
		}, nil
	}
}

type ErrorFilter func(err error) bool

func DefaultErrorFilter(allowedErrors ...error) ErrorFilter {
	return func(err error) bool {
		if err == nil {
			return false
		}

		if len(allowedErrors) == 0 {
			// absent files are fine, parse failures are not
			return os.IsNotExist(err) || goerrors.Is(err, syscall.ENOENT) || goerrors.Is(err, os.ErrNotExist)
		}

		for _, allowed := range allowedErrors {
			if goerrors.Is(err, allowed) {
				return true
			}
		}

		return false
	}
}

// OptionalProvider wraps a provider so that the errors accepted by
// errIgnore are dropped.
func OptionalProvider[T any](f ProviderBuilder[T], errIgnoreFuncs ...ErrorFilter) ProviderBuilder[T] {
	errIgnore := DefaultErrorFilter()
	if len(errIgnoreFuncs) > 0 {
		errIgnore = errIgnoreFuncs[0]
	}

	return func(c *Container[T]) (Provider, error) {
		baseProvider, err := f(c)
		if err != nil {
			return &Loader{}, err
		}

		return &Loader{
			providerType: baseProvider.Type(),
			order:        baseProvider.Priority(),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				if err := baseProvider.Load(ctx, k); err != nil {
					if errIgnore(err) {
						c.logger.Debug("skipping optional %s provider: %v", baseProvider.Type(), err)
						return nil
					}
					return err
				}
				return nil
			},
		}, nil
	}
}

func getOrder(defaultOrder Priority, orders ...int) int {
	if len(orders) > 0 {
		return orders[0]
	}
	return int(defaultOrder)
}
