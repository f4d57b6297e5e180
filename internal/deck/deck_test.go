package deck

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ito/internal/randutil"
)

func TestNewDeckHoldsEveryValueOnce(t *testing.T) {
	d := NewDeck(randutil.New(1))
	cards := d.Cards()
	require.Len(t, cards, MaxValue-MinValue+1)

	sorted := slices.Clone(cards)
	slices.Sort(sorted)
	for i, v := range sorted {
		assert.Equal(t, MinValue+i, v)
	}
	assert.NotEqual(t, sorted, cards, "deck should be shuffled")
}

func TestDealIsDeterministicForSeed(t *testing.T) {
	agents := []string{"alice", "bob", "carol"}
	h1, rest1, err := Deal(randutil.New(42), agents)
	require.NoError(t, err)
	h2, rest2, err := Deal(randutil.New(42), agents)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, rest1, rest2)
}

func TestDealAccountsForEveryCard(t *testing.T) {
	agents := []string{"a", "b", "c", "d"}
	hands, rest, err := Deal(randutil.New(7), agents)
	require.NoError(t, err)
	require.Len(t, hands, len(agents))
	assert.Len(t, rest, MaxValue-MinValue+1-len(agents))

	for _, v := range hands {
		assert.NotContains(t, rest, v, "dealt card %d left in deck", v)
	}
	seen := map[int]bool{}
	for _, v := range hands {
		assert.False(t, seen[v], "card %d dealt twice", v)
		seen[v] = true
	}
}

func TestDealInsufficientDeck(t *testing.T) {
	d := FromCards([]int{5, 9})
	_, err := d.Deal([]string{"a", "b", "c"})

	var insufficient *InsufficientDeckError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 3, insufficient.Needed)
	assert.Equal(t, 2, d.CardsRemaining(), "failed deal must not draw")
}

func TestNewDeckWithout(t *testing.T) {
	d := NewDeckWithout(randutil.New(3), []int{3, 7})
	assert.Equal(t, 98, d.CardsRemaining())
	assert.NotContains(t, d.Cards(), 3)
	assert.NotContains(t, d.Cards(), 7)
}

func TestMinOutstanding(t *testing.T) {
	_, ok := MinOutstanding(nil)
	assert.False(t, ok)

	v, ok := MinOutstanding(map[string]int{"a": 40, "b": 12, "c": 77})
	assert.True(t, ok)
	assert.Equal(t, 12, v)
}

func TestHolder(t *testing.T) {
	hands := map[string]int{"a": 40, "b": 12}
	id, ok := Holder(hands, 12)
	assert.True(t, ok)
	assert.Equal(t, "b", id)

	_, ok = Holder(hands, 99)
	assert.False(t, ok)
}
