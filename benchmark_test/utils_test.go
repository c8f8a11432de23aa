package benchmark_test

import (
	"fmt"
	"testing"

	"github.com/hupe1980/pprl/record"
	"github.com/hupe1980/pprl/testutil"
)

const (
	benchLength = 1024
	benchBits   = 120
	benchFlips  = 4
)

type workload struct {
	parties  int
	entities int
	blocks   int
}

func (w workload) String() string {
	return fmt.Sprintf("P%d_E%d_B%d", w.parties, w.entities, w.blocks)
}

// makeParties builds w.parties noisy copies of the same entities.
func makeParties(tb testing.TB, w workload) []record.Party {
	tb.Helper()

	rng := testutil.NewRNG(1)
	truth := rng.Entities(w.entities, benchLength, benchBits)

	block := testutil.SingleBlock
	if w.blocks > 1 {
		block = testutil.ModBlocks(w.blocks)
	}

	parties := make([]record.Party, 0, w.parties)
	for i := 0; i < w.parties; i++ {
		p, err := rng.Party(fmt.Sprintf("P%d", i), truth, benchLength, benchFlips, block)
		if err != nil {
			tb.Fatal(err)
		}
		parties = append(parties, p)
	}
	return parties
}
