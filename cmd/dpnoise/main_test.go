package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugorji/go/codec"

	"github.com/Pro7ech/dpnoise/backend"
	"github.com/Pro7ech/dpnoise/utils/checks"
)

func newTestBackend(t *testing.T) *backend.Backend {
	b, err := backend.NewBackend(backend.Literal{Workers: 2, Seed: &[32]byte{9}})
	require.NoError(t, err)
	return b
}

func TestRun(t *testing.T) {

	for _, format := range []string{"json", "cbor"} {

		h, err := newHandle(format)
		require.NoError(t, err)

		t.Run(format+"/FixedPointLaplace", func(t *testing.T) {
			var out bytes.Buffer
			opts := options{Op: "fixed_point_laplace", Count: 5, Scale: 1, Precision: 10}
			require.NoError(t, run(newTestBackend(t), opts, h, nil, &out))

			var got []int64
			require.NoError(t, codec.NewDecoder(&out, h).Decode(&got))
			require.Len(t, got, 5)
		})

		t.Run(format+"/AllAboveThreshold", func(t *testing.T) {
			var in, out bytes.Buffer
			require.NoError(t, codec.NewEncoder(&in, h).Encode([]float64{3, 2, 1, 0}))

			opts := options{Op: "all_above_threshold", Scale: 1e-9, Threshold: 1.5}
			require.NoError(t, run(newTestBackend(t), opts, h, &in, &out))

			var got []int
			require.NoError(t, codec.NewDecoder(&out, h).Decode(&got))
			require.Equal(t, []int{0, 1}, got)
		})

		t.Run(format+"/GeometricMechanism", func(t *testing.T) {
			var in, out bytes.Buffer
			require.NoError(t, codec.NewEncoder(&in, h).Encode([]int64{7, -7}))

			opts := options{Op: "geometric_mechanism", Scale: 1e-3}
			require.NoError(t, run(newTestBackend(t), opts, h, &in, &out))

			var got []int64
			require.NoError(t, codec.NewDecoder(&out, h).Decode(&got))
			require.Len(t, got, 2)
		})
	}

	h, err := newHandle("json")
	require.NoError(t, err)

	t.Run("Selection", func(t *testing.T) {
		for _, opts := range []options{
			{Op: "exponential_mechanism", Scale: 1e-3, Method: "gumbel_trick"},
			{Op: "exponential_mechanism", Scale: 1e-3, Method: "sample_and_flip"},
			{Op: "permute_and_flip", Scale: 1e-3},
		} {
			var out bytes.Buffer
			require.NoError(t, run(newTestBackend(t), opts, h, strings.NewReader("[0, 10, 3]"), &out))
			var got int
			require.NoError(t, codec.NewDecoder(&out, h).Decode(&got))
			require.Equal(t, 1, got)
		}

		opts := options{Op: "exponential_mechanism", Scale: 1, Method: "inverse_cdf"}
		err := run(newTestBackend(t), opts, h, strings.NewReader("[0, 1]"), &bytes.Buffer{})
		require.ErrorIs(t, err, checks.ErrInvalidArgument)
	})

	t.Run("LnRN", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(newTestBackend(t), options{Op: "ln_rn", X: 1}, h, nil, &out))
		var got float64
		require.NoError(t, codec.NewDecoder(&out, h).Decode(&got))
		require.Equal(t, 0.0, got)
	})

	t.Run("Errors", func(t *testing.T) {
		b := newTestBackend(t)
		var out bytes.Buffer

		require.Error(t, run(b, options{Op: "gaussian"}, h, nil, &out))

		err := run(b, options{Op: "laplace", Scale: -1, Count: 1}, h, nil, &out)
		require.ErrorIs(t, err, checks.ErrInvalidArgument)

		err = run(b, options{Op: "snapping", Bound: 1, Lambda: 1, Quanta: 1}, h, strings.NewReader(`{"a": 1}`), &out)
		require.Error(t, err)

		require.Zero(t, out.Len())
	})

	t.Run("Format", func(t *testing.T) {
		_, err := newHandle("xml")
		require.Error(t, err)
	})

	t.Run("Seed", func(t *testing.T) {
		seed, err := parseSeed("")
		require.NoError(t, err)
		require.Nil(t, seed)

		seed, err = parseSeed(strings.Repeat("ab", 32))
		require.NoError(t, err)
		require.Equal(t, byte(0xab), seed[31])

		_, err = parseSeed("abcd")
		require.Error(t, err)

		_, err = parseSeed("zz")
		require.Error(t, err)
	})
}
