// Package deck owns the pool of numbered cards, deals one secret card per
// agent and answers questions about the cards still held.
package deck

import (
	"fmt"
	rand "math/rand/v2"
	"slices"
)

// Card values run from MinValue to MaxValue inclusive, one card per value.
const (
	MinValue = 1
	MaxValue = 100
)

// InsufficientDeckError is returned when the pool has fewer cards than there
// are agents to deal to.
type InsufficientDeckError struct {
	Available int
	Needed    int
}

func (e *InsufficientDeckError) Error() string {
	return fmt.Sprintf("deck has %d cards, need %d", e.Available, e.Needed)
}

// Deck is an ordered pool of unassigned card values
type Deck struct {
	cards []int
	rng   *rand.Rand
}

// NewDeck creates a shuffled deck holding every value from MinValue to MaxValue
func NewDeck(rng *rand.Rand) *Deck {
	return NewDeckWithout(rng, nil)
}

// NewDeckWithout creates a shuffled deck holding every value except the ones
// in held. Used when hands are supplied up front.
func NewDeckWithout(rng *rand.Rand, held []int) *Deck {
	d := &Deck{
		cards: make([]int, 0, MaxValue-MinValue+1),
		rng:   rng,
	}
	for v := MinValue; v <= MaxValue; v++ {
		if slices.Contains(held, v) {
			continue
		}
		d.cards = append(d.cards, v)
	}
	d.Shuffle()
	return d
}

// FromCards wraps an explicit card order without shuffling.
func FromCards(cards []int) *Deck {
	return &Deck{cards: slices.Clone(cards)}
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (int, bool) {
	if len(d.cards) == 0 {
		return 0, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in draw order
func (d *Deck) Cards() []int {
	return slices.Clone(d.cards)
}

// Deal draws one card per agent, without replacement, in agent order. The
// deck is left holding the undealt remainder. Nothing is drawn when the deck
// is too small.
func (d *Deck) Deal(agentIDs []string) (map[string]int, error) {
	if len(d.cards) < len(agentIDs) {
		return nil, &InsufficientDeckError{Available: len(d.cards), Needed: len(agentIDs)}
	}
	hands := make(map[string]int, len(agentIDs))
	for _, id := range agentIDs {
		card, _ := d.Draw()
		hands[id] = card
	}
	return hands, nil
}

// Deal shuffles a full pool with rng and deals one card to each agent,
// returning the hands and the remaining deck in draw order.
func Deal(rng *rand.Rand, agentIDs []string) (map[string]int, []int, error) {
	d := NewDeck(rng)
	hands, err := d.Deal(agentIDs)
	if err != nil {
		return nil, nil, err
	}
	return hands, d.Cards(), nil
}

// MinOutstanding returns the smallest value still held. ok is false when
// hands is empty and the value must not be used.
func MinOutstanding(hands map[string]int) (value int, ok bool) {
	for _, v := range hands {
		if !ok || v < value {
			value, ok = v, true
		}
	}
	return value, ok
}

// Holder returns the agent holding the given value, if any.
func Holder(hands map[string]int, value int) (string, bool) {
	for id, v := range hands {
		if v == value {
			return id, true
		}
	}
	return "", false
}
