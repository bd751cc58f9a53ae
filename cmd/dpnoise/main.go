// This binary draws noise samples and runs differentially private mechanisms.
//
// Samplers write an array of count samples to stdout. Mechanisms read their data
// array, or the utilities of the candidates of a selection mechanism, from stdin.
// Arrays are encoded in JSON or CBOR, following -format.
//
//	dpnoise -op=fixed_point_laplace -scale=1 -precision=10 -count=5
//	echo '[3, 2, 1]' | dpnoise -op=all_above_threshold -scale=0.5 -threshold=1.5
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/golang/glog"
	"github.com/ugorji/go/codec"

	"github.com/Pro7ech/dpnoise/backend"
	"github.com/Pro7ech/dpnoise/mechanisms"
)

var (
	op        = flag.String("op", "", "Operation to run: uniform, exponential, laplace, geometric, two_sided_geometric, double_uniform, fixed_point_laplace, all_above_threshold, sparse_indicator, snapping, laplace_mechanism, geometric_mechanism, report_noisy_max, exponential_mechanism, permute_and_flip, ln_rn.")
	format    = flag.String("format", "json", "Encoding of the input and output arrays: json or cbor.")
	seedHex   = flag.String("seed", "", "Hex encoded 32-byte seed. A random seed is used if empty.")
	workers   = flag.Int("workers", 0, "Maximum number of concurrent workers. Defaults to GOMAXPROCS.")
	chunkSize = flag.Int("chunk_size", 0, "Number of samples filled by a single worker task.")

	count     = flag.Int("count", 1, "Number of samples.")
	scale     = flag.Float64("scale", 1, "Scale of the noise, or success probability (geometric) or ratio (two_sided_geometric).")
	precision = flag.Int("precision", 0, "Fixed-point precision: samples live on the grid 2^-precision * Z.")
	threshold = flag.Float64("threshold", 0, "Threshold of the threshold mechanisms.")
	cutoff    = flag.Int("cutoff", 1, "Maximum number of hits of sparse_indicator.")
	bound     = flag.Float64("bound", 1, "Clamping bound of snapping.")
	lambda    = flag.Float64("lambda", 1, "Noise scale of snapping.")
	quanta    = flag.Float64("quanta", 1, "Rounding quanta of snapping.")
	x         = flag.Float64("x", 1, "Argument of ln_rn.")
	method    = flag.String("method", "weighted_index", "Sampling method of exponential_mechanism: weighted_index, gumbel_trick or sample_and_flip.")
)

// options are the parameters of a single operation.
type options struct {
	Op        string
	Count     int
	Scale     float64
	Precision int
	Threshold float64
	Cutoff    int
	Bound     float64
	Lambda    float64
	Quanta    float64
	X         float64
	Method    string
}

func newHandle(format string) (codec.Handle, error) {
	switch format {
	case "json":
		return &codec.JsonHandle{}, nil
	case "cbor":
		return &codec.CborHandle{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func parseSeed(s string) (*[32]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("invalid seed: want 32 bytes, got %d", len(b))
	}
	seed := new([32]byte)
	copy(seed[:], b)
	return seed, nil
}

// readFloat64s decodes a data array from r.
func readFloat64s(r io.Reader, h codec.Handle) (data []float64, err error) {
	if err = codec.NewDecoder(r, h).Decode(&data); err != nil {
		return nil, fmt.Errorf("cannot decode input array: %w", err)
	}
	return
}

func readInt64s(r io.Reader, h codec.Handle) (data []int64, err error) {
	if err = codec.NewDecoder(r, h).Decode(&data); err != nil {
		return nil, fmt.Errorf("cannot decode input array: %w", err)
	}
	return
}

// run evaluates opts.Op on b, reading mechanism inputs from in, and writes the
// encoded result to out.
func run(b *backend.Backend, opts options, h codec.Handle, in io.Reader, out io.Writer) (err error) {

	var result interface{}

	switch opts.Op {
	case "uniform":
		result, err = b.Uniform(opts.Count)
	case "exponential":
		result, err = b.Exponential(opts.Scale, opts.Count)
	case "laplace":
		result, err = b.Laplace(opts.Scale, opts.Count)
	case "geometric":
		result, err = b.Geometric(opts.Scale, opts.Count)
	case "two_sided_geometric":
		result, err = b.TwoSidedGeometric(opts.Scale, opts.Count)
	case "double_uniform":
		result, err = b.DoubleUniform(opts.Count)
	case "fixed_point_laplace":
		result, err = b.FixedPointLaplace(opts.Scale, opts.Count, opts.Precision)
	case "ln_rn":
		result = b.LnRN(opts.X)
	case "all_above_threshold", "sparse_indicator", "snapping", "laplace_mechanism", "report_noisy_max",
		"exponential_mechanism", "permute_and_flip":
		var data []float64
		if data, err = readFloat64s(in, h); err != nil {
			return
		}
		switch opts.Op {
		case "all_above_threshold":
			result, err = b.AllAboveThreshold(data, opts.Scale, opts.Threshold)
		case "sparse_indicator":
			result, err = b.SparseIndicator(data, opts.Scale, opts.Threshold, opts.Cutoff)
		case "snapping":
			result, err = b.Snapping(data, opts.Bound, opts.Lambda, opts.Quanta)
		case "laplace_mechanism":
			result, err = b.LaplaceMechanism(data, opts.Scale, opts.Precision)
		case "report_noisy_max":
			result, err = b.ReportNoisyMax(data, opts.Scale, opts.Precision)
		case "exponential_mechanism":
			var m mechanisms.ExponentialMethod
			if m, err = mechanisms.ParseExponentialMethod(opts.Method); err == nil {
				result, err = b.ExponentialMechanism(data, opts.Scale, m)
			}
		case "permute_and_flip":
			result, err = b.PermuteAndFlip(data, opts.Scale)
		}
	case "geometric_mechanism":
		var data []int64
		if data, err = readInt64s(in, h); err != nil {
			return
		}
		result, err = b.GeometricMechanism(data, opts.Scale)
	default:
		return fmt.Errorf("unknown operation %q", opts.Op)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", opts.Op, err)
	}

	return codec.NewEncoder(out, h).Encode(result)
}

func main() {
	flag.Parse()

	h, err := newHandle(*format)
	if err != nil {
		log.Exit(err)
	}

	seed, err := parseSeed(*seedHex)
	if err != nil {
		log.Exit(err)
	}

	b, err := backend.NewBackend(backend.Literal{Workers: *workers, ChunkSize: *chunkSize, Seed: seed})
	if err != nil {
		log.Exit(err)
	}

	if seed == nil {
		log.V(1).Infof("seed: %x", *b.Literal().Seed)
	}

	opts := options{
		Op:        *op,
		Count:     *count,
		Scale:     *scale,
		Precision: *precision,
		Threshold: *threshold,
		Cutoff:    *cutoff,
		Bound:     *bound,
		Lambda:    *lambda,
		Quanta:    *quanta,
		X:         *x,
		Method:    *method,
	}

	log.Infof("running %s", opts.Op)

	if err := run(b, opts, h, os.Stdin, os.Stdout); err != nil {
		log.Exit(err)
	}
}
