package args

import (
	"encoding/json"
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type multiOptions struct {
	X     Multi[string] `short:"x" cap:"2"`
	Ports Multi[int]    `short:"p" cap:"4"`
	Flags Multi[bool]   `short:"f" cap:"2"`
}

func TestMulti_Append(t *testing.T) {
	m := NewMulti[int](2)
	require.NoError(t, m.Append(1))
	require.NoError(t, m.Append(2))

	err := m.Append(3)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, []int{1, 2}, m.Values())
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, m.Cap())
	assert.Equal(t, 2, m.At(1))
}

func TestMulti_ZeroValueHasNoRoom(t *testing.T) {
	var m Multi[int]
	err := m.Append(1)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Cap())
}

func TestNewMulti_InitialMustFit(t *testing.T) {
	assert.Panics(t, func() { NewMulti(2, "a", "b", "c") })
	assert.Panics(t, func() { NewMulti[int](-1) })
	assert.NotPanics(t, func() { NewMulti(2, "a", "b") })
}

func TestMulti_ValuesIsACopy(t *testing.T) {
	m := NewMulti(3, "a", "b")
	values := m.Values()
	values[0] = "changed"
	assert.Equal(t, "a", m.At(0))
}

func TestMulti_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewMulti(3, "a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	data, err = json.Marshal(Multi[int]{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestParse_MultiCapacity(t *testing.T) {
	t.Run("within capacity", func(t *testing.T) {
		var opts multiOptions
		_, err := Parse(&opts, []string{"-x", "a", "-x", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, opts.X.Values())
		assert.Equal(t, 2, opts.X.Cap())
	})

	t.Run("over capacity", func(t *testing.T) {
		var opts multiOptions
		_, err := Parse(&opts, []string{"-x", "a", "-x", "b", "-x", "c"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCapacity)
		assert.NotErrorIs(t, err, ErrCoercion)

		var capacity *CapacityError
		require.True(t, goerrors.As(err, &capacity))
		assert.Equal(t, "x", capacity.Field)
		assert.Equal(t, 2, capacity.Capacity)
		assert.Equal(t, []string{"a", "b"}, opts.X.Values())
	})

	t.Run("typed elements", func(t *testing.T) {
		var opts multiOptions
		_, err := Parse(&opts, []string{"-p", "80", "--ports=443", "-p8080", "-f", "--flags=false"})
		require.NoError(t, err)
		assert.Equal(t, []int{80, 443, 8080}, opts.Ports.Values())
		assert.Equal(t, []bool{true, false}, opts.Flags.Values())
	})

	t.Run("element coercion failure", func(t *testing.T) {
		var opts multiOptions
		_, err := Parse(&opts, []string{"-p", "eighty"})
		assert.ErrorIs(t, err, ErrCoercion)
	})

	t.Run("defaults replaced by first occurrence", func(t *testing.T) {
		opts := multiOptions{X: NewMulti(2, "default")}
		_, err := Parse(&opts, []string{"-x", "a", "-x", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, opts.X.Values())
	})

	t.Run("defaults kept when absent", func(t *testing.T) {
		opts := multiOptions{X: NewMulti(2, "default")}
		_, err := Parse(&opts, []string{"positional"})
		require.NoError(t, err)
		assert.Equal(t, []string{"default"}, opts.X.Values())
	})

	t.Run("oversized defaults are rejected", func(t *testing.T) {
		opts := multiOptions{X: NewMulti(3, "a", "b", "c")}
		_, err := Parse(&opts, []string{"positional"})
		assert.ErrorIs(t, err, ErrCapacity)

		var capacity *CapacityError
		require.True(t, goerrors.As(err, &capacity))
		assert.Equal(t, "x", capacity.Field)
		assert.Equal(t, 2, capacity.Capacity)

		_, err = Parse(&opts, []string{"--", "-x"})
		assert.ErrorIs(t, err, ErrCapacity)
	})

	t.Run("oversized defaults replaced by the command line", func(t *testing.T) {
		opts := multiOptions{X: NewMulti(3, "a", "b", "c")}
		_, err := Parse(&opts, []string{"-x", "d"})
		require.NoError(t, err)
		assert.Equal(t, []string{"d"}, opts.X.Values())
	})

	t.Run("each parse starts fresh", func(t *testing.T) {
		var opts multiOptions
		_, err := Parse(&opts, []string{"-x", "a", "-x", "b"})
		require.NoError(t, err)
		_, err = Parse(&opts, []string{"-x", "c"})
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, opts.X.Values())
	})
}
