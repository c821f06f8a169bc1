package cart_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shopfront/internal/cart"
)

func TestAddAccumulates(t *testing.T) {
	e := cart.NewEngine()
	e.Add("p1", 1)
	e.Add("p1", 2)
	e.Add("p2", 0) // non-positive counts as one

	lines := e.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, cart.Line{ProductID: "p1", Qty: 3}, lines[0])
	require.Equal(t, cart.Line{ProductID: "p2", Qty: 1}, lines[1])
}

func TestRemoveMissingIsNoop(t *testing.T) {
	e := cart.NewEngine()
	e.Add("p1", 1)
	e.Remove("ghost")
	require.Equal(t, 1, e.Len())

	e.Remove("p1")
	require.True(t, e.IsEmpty())
}

func TestRemovePreservesOrder(t *testing.T) {
	e := cart.NewEngine()
	e.Add("a", 1)
	e.Add("b", 1)
	e.Add("c", 1)
	e.Remove("b")

	lines := e.Lines()
	require.Equal(t, "a", lines[0].ProductID)
	require.Equal(t, "c", lines[1].ProductID)

	// index stays consistent after compaction
	e.Add("c", 2)
	require.Equal(t, 3, e.Lines()[1].Qty)
}

func TestSetQtyFloorsAtMin(t *testing.T) {
	e := cart.NewEngine()
	e.Add("p1", 5)
	e.SetQty("p1", 0)
	require.Equal(t, cart.MinQty, e.Lines()[0].Qty)

	e.SetQty("absent", 3)
	require.Equal(t, 1, e.Len())
}

func TestClear(t *testing.T) {
	e := cart.NewEngine()
	e.Add("p1", 1)
	e.Add("p2", 1)
	e.Clear()
	require.True(t, e.IsEmpty())
}

// Random add/remove sequences never produce duplicate lines or qty below one.
func TestInvariantsUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d", "e"}
	e := cart.NewEngine()
	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(3) {
		case 0:
			e.Add(id, rng.Intn(4))
		case 1:
			e.Remove(id)
		case 2:
			e.SetQty(id, rng.Intn(5)-1)
		}

		seen := map[string]bool{}
		for _, line := range e.Lines() {
			require.False(t, seen[line.ProductID], "duplicate line for %s", line.ProductID)
			seen[line.ProductID] = true
			require.GreaterOrEqual(t, line.Qty, 1)
		}
	}
}

func TestReplaceNormalises(t *testing.T) {
	e := cart.NewEngine()
	e.Replace([]cart.Line{
		{ProductID: "p1", Qty: 2},
		{ProductID: "", Qty: 9},
		{ProductID: "p1", Qty: 1},
		{ProductID: "p2", Qty: 0},
	})
	lines := e.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, 3, lines[0].Qty)
	require.Equal(t, 1, lines[1].Qty)
}

func TestClampQty(t *testing.T) {
	require.Equal(t, 1, cart.ClampQty(0, 1, 99, 10))
	require.Equal(t, 99, cart.ClampQty(500, 1, 99, 0))
	require.Equal(t, 10, cart.ClampQty(50, 1, 99, 10))
	require.Equal(t, 5, cart.ClampQty(5, 1, 99, 10))
	// degenerate bounds
	require.Equal(t, 1, cart.ClampQty(3, 0, 0, 0))
}
