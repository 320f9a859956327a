// Package words holds the drawing word bank and the no-repeat selection
// logic used when offering word choices to a drawer.
package words

import (
	"math/rand"
	"strings"
)

const MixCategory = "Mix"

type Bank struct {
	categories map[string][]string
	order      []string
}

// DefaultBank - the built-in categorized word bank plus a Mix category
// spanning everything.
func DefaultBank() *Bank {
	bank := &Bank{categories: make(map[string][]string)}

	bank.add("Animals", animals)
	bank.add("Food", food)
	bank.add("Objects", objects)
	bank.add("Actions", actions)
	bank.add("Nature", nature)

	var mix []string
	for _, name := range bank.order {
		mix = append(mix, bank.categories[name]...)
	}
	bank.add(MixCategory, mix)

	return bank
}

func (that *Bank) add(name string, items []string) {
	that.categories[name] = items
	that.order = append(that.order, name)
}

func (that *Bank) Categories() []string {
	return append([]string(nil), that.order...)
}

// Category - case-insensitive lookup, falling back to Mix for unknown names.
func (that *Bank) Category(name string) []string {
	for key, items := range that.categories {
		if strings.EqualFold(key, name) {
			return items
		}
	}

	return that.categories[MixCategory]
}

// RandomWords - draws count distinct words from the category, skipping
// words in used. If the filtered pool underflows the requested count the
// used-word history is ignored for this draw only, so the game never
// stalls on an exhausted pool.
func (that *Bank) RandomWords(category string, count int, used map[string]struct{}) []string {
	pool := that.Category(category)

	if len(used) > 0 {
		filtered := make([]string, 0, len(pool))
		for _, word := range pool {
			if _, ok := used[word]; !ok {
				filtered = append(filtered, word)
			}
		}
		pool = filtered
	}

	// pool exhausted: reset history for this draw to guarantee forward progress
	if len(pool) < count {
		pool = that.Category(category)
	}

	if count > len(pool) {
		count = len(pool)
	}

	selected := make([]string, 0, count)
	for _, i := range rand.Perm(len(pool))[:count] { //nolint: gosec // it's ok
		selected = append(selected, pool[i])
	}

	return selected
}
