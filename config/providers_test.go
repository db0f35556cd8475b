package config

import (
	"context"
	"errors"
	"io/fs"
	"syscall"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultErrorFilter_IgnoresNotExistByDefault(t *testing.T) {
	filter := DefaultErrorFilter()

	if !filter(fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist to be ignored by default")
	}

	pathErr := &fs.PathError{Err: syscall.ENOENT}
	if !filter(pathErr) {
		t.Fatalf("expected PathError wrapping ENOENT to be ignored")
	}

	if filter(nil) {
		t.Fatalf("nil is not an ignorable error")
	}
}

func TestDefaultErrorFilter_DoesNotIgnoreOtherErrorsByDefault(t *testing.T) {
	filter := DefaultErrorFilter()

	if filter(errors.New("boom")) {
		t.Fatalf("expected arbitrary errors to propagate when no allowlist provided")
	}
}

func TestDefaultErrorFilter_AllowsCustomErrors(t *testing.T) {
	customErr := errors.New("custom")
	filter := DefaultErrorFilter(customErr)

	if !filter(customErr) {
		t.Fatalf("expected custom error to be allowed when provided")
	}

	if filter(errors.New("other")) {
		t.Fatalf("expected unmatched errors to propagate even with custom allowlist")
	}
}

func TestProviderDefaults(t *testing.T) {
	var opts serveOptions
	c := New(&opts, quiet[serveOptions])

	tests := []struct {
		name     string
		builder  ProviderBuilder[serveOptions]
		typ      ProviderType
		priority int
	}{
		{"defaults", DefaultValuesProvider[serveOptions](nil), ProviderTypeDefault, int(PriorityDefaults)},
		{"struct", StructProvider[serveOptions](&serveOptions{}), ProviderTypeStruct, int(PriorityStruct)},
		{"file", FileProvider[serveOptions]("app.yml"), ProviderTypeLocalFile, int(PriorityConfig)},
		{"env", EnvProvider[serveOptions]("APP_", "__"), ProviderTypeEnv, int(PriorityEnv)},
		{"explicit order", EnvProvider[serveOptions]("APP_", "__", 5), ProviderTypeEnv, 5},
		{"optional keeps order", OptionalProvider(FileProvider[serveOptions]("app.json", 25)), ProviderTypeLocalFile, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.builder(c)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, p.Type())
			assert.Equal(t, tt.priority, p.Priority())
			assert.NoError(t, p.Validate())
		})
	}
}

func TestProviderType_Validate(t *testing.T) {
	l := &Loader{providerType: "pflag"}
	err := l.Validate()
	require.Error(t, err)
	assert.Equal(t, "INVALID_LOADER_TYPE", textCode(t, err))
}

func TestContainer_RejectsInvalidProviderType(t *testing.T) {
	opts := defaultServe()
	c := New(&opts, quiet[serveOptions]).
		WithProvider(func(*Container[serveOptions]) (Provider, error) {
			return &Loader{
				providerType: "remote",
				load:         func(context.Context, *koanf.Koanf) error { return nil },
			}, nil
		})

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "INVALID_PROVIDER_TYPE", textCode(t, err))
}

func TestStructProvider_SkipsZeroFields(t *testing.T) {
	values, err := presetValues(&serveOptions{Name: "preset", MaxJobs: 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "preset", "max-jobs": int64(2)}, values)

	_, err = presetValues(serveOptions{})
	assert.Error(t, err)
}

func TestStructProvider_InvalidPreset(t *testing.T) {
	var opts serveOptions
	c := New(&opts, quiet[serveOptions])

	_, err := StructProvider[serveOptions](&struct{ C chan int }{})(c)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STRUCT", textCode(t, err))
}

func TestOptionalProvider_CustomFilter(t *testing.T) {
	sentinel := errors.New("offline")
	failing := func(*Container[serveOptions]) (Provider, error) {
		return &Loader{
			providerType: ProviderTypeEnv,
			load:         func(context.Context, *koanf.Koanf) error { return sentinel },
		}, nil
	}

	opts := defaultServe()
	c := New(&opts, quiet[serveOptions]).
		WithProvider(OptionalProvider(failing, DefaultErrorFilter(sentinel)))
	assert.NoError(t, c.Load(context.Background()))

	c = New(&opts, quiet[serveOptions]).
		WithProvider(OptionalProvider(failing))
	assert.Error(t, c.Load(context.Background()))
}
