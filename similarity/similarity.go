package similarity

import (
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/record"
)

// ErrOracleFailure marks a failed or out-of-range similarity/distance computation.
// A protocol run aborts on it without committing partial results.
var ErrOracleFailure = errors.New("similarity oracle failure")

// ErrLengthMismatch is returned when an encoding does not have the expected length.
type ErrLengthMismatch struct {
	Expected uint
	Actual   uint
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("encoding length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Oracle computes the similarity in [0,1] between a cluster and a record.
type Oracle interface {
	Similarity(c *cluster.Cluster, r *record.Record) (float64, error)
}

// Metric computes a non-negative, symmetric distance between clusters.
type Metric interface {
	Distance(x, y *cluster.Cluster) (float64, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(c *cluster.Cluster, r *record.Record) (float64, error)

// Similarity implements Oracle.
func (f OracleFunc) Similarity(c *cluster.Cluster, r *record.Record) (float64, error) {
	return f(c, r)
}

// MetricFunc adapts a function to Metric.
type MetricFunc func(x, y *cluster.Cluster) (float64, error)

// Distance implements Metric.
func (f MetricFunc) Distance(x, y *cluster.Cluster) (float64, error) {
	return f(x, y)
}

// Plain is the average Dice coefficient between r and each member of c.
type Plain struct{}

// Similarity implements Oracle.
func (Plain) Similarity(c *cluster.Cluster, r *record.Record) (float64, error) {
	members := c.Members()
	if len(members) == 0 {
		return 0, fmt.Errorf("cluster %d has no members", c.ID())
	}
	var sum float64
	for _, m := range members {
		sum += Dice(m.Encoding(), r.Encoding())
	}
	return sum / float64(len(members)), nil
}

// Secure is the average Dice coefficient between r and each member of c over
// re-encoded filters. A bit permutation keeps set-bit overlap, so the values
// are on the same scale as Plain. All encodings must have EncodingLength bits.
type Secure struct {
	EncodingLength uint
}

// Similarity implements Oracle.
func (s Secure) Similarity(c *cluster.Cluster, r *record.Record) (float64, error) {
	if s.EncodingLength == 0 {
		return 0, record.ErrInvalidLength
	}
	if r.Length() != s.EncodingLength {
		return 0, &ErrLengthMismatch{Expected: s.EncodingLength, Actual: r.Length()}
	}
	members := c.Members()
	if len(members) == 0 {
		return 0, fmt.Errorf("cluster %d has no members", c.ID())
	}
	var sum float64
	for _, m := range members {
		if m.Length() != s.EncodingLength {
			return 0, &ErrLengthMismatch{Expected: s.EncodingLength, Actual: m.Length()}
		}
		sum += Dice(m.Encoding(), r.Encoding())
	}
	return sum / float64(len(members)), nil
}

// AverageHamming is the mean pairwise Hamming distance between the members
// of two clusters.
type AverageHamming struct{}

// Distance implements Metric.
func (AverageHamming) Distance(x, y *cluster.Cluster) (float64, error) {
	xm, ym := x.Members(), y.Members()
	if len(xm) == 0 || len(ym) == 0 {
		return 0, fmt.Errorf("distance between clusters %d and %d: empty cluster", x.ID(), y.ID())
	}
	var sum float64
	for _, a := range xm {
		for _, b := range ym {
			sum += float64(Hamming(a.Encoding(), b.Encoding()))
		}
	}
	return sum / float64(len(xm)*len(ym)), nil
}

// Dice returns 2|A∩B| / (|A|+|B|); two empty encodings are identical.
func Dice(x, y *bitset.BitSet) float64 {
	total := x.Count() + y.Count()
	if total == 0 {
		return 1
	}
	return 2 * float64(x.IntersectionCardinality(y)) / float64(total)
}

// Jaccard returns |A∩B| / |A∪B|; two empty encodings are identical.
func Jaccard(x, y *bitset.BitSet) float64 {
	union := x.UnionCardinality(y)
	if union == 0 {
		return 1
	}
	return float64(x.IntersectionCardinality(y)) / float64(union)
}

// Hamming returns |A△B|.
func Hamming(x, y *bitset.BitSet) uint {
	return x.SymmetricDifferenceCardinality(y)
}

// QueryRadius converts a similarity threshold into a Hamming radius around r:
// any encoding with Jaccard similarity ≥ threshold to r lies within it.
func QueryRadius(r *record.Record, threshold float64) float64 {
	return float64(r.Cardinality()) * (1 - threshold) / threshold
}

// CheckSimilarity validates an oracle result, wrapping ErrOracleFailure.
func CheckSimilarity(v float64, err error) (float64, error) {
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrOracleFailure, err)
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, fmt.Errorf("%w: similarity %v outside [0,1]", ErrOracleFailure, v)
	}
	return v, nil
}

// CheckDistance validates a metric result, wrapping ErrOracleFailure.
func CheckDistance(v float64, err error) (float64, error) {
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrOracleFailure, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: distance %v is not a non-negative finite value", ErrOracleFailure, v)
	}
	return v, nil
}
