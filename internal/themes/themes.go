// Package themes lists the topics a game can be played on. Each theme names
// a scale: a hint near 1 describes the weak/small end, near 100 the strong/large end.
package themes

import (
	rand "math/rand/v2"
	"slices"
)

var all = []string{
	"Size of animals",
	"Strength of creatures",
	"Spiciness of foods",
	"Speed of vehicles",
	"Popularity of sports",
	"Usefulness of tools",
	"Crowdedness of places",
	"Scariness of things",
	"Price of everyday items",
	"Power of fictional characters",
	"Warmth of clothing",
	"Loudness of sounds",
	"Happiness of life events",
	"Height of landmarks",
	"Difficulty of school subjects",
	"Tastiness of desserts",
}

// All returns every built-in theme.
func All() []string {
	return slices.Clone(all)
}

// Pick chooses a theme at random.
func Pick(rng *rand.Rand) string {
	return all[rng.IntN(len(all))]
}
