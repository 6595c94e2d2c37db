package domain

import "strings"

// ParseDeck parses a UTF-8 line-delimited deck. Lines are trimmed; empty
// lines are skipped; duplicate lines keep only their first occurrence.
func ParseDeck(raw string) []string {
	seen := make(map[string]bool)
	var cards []string
	for _, line := range strings.Split(raw, "\n") {
		card := strings.TrimSpace(line)
		if card == "" || seen[card] {
			continue
		}
		seen[card] = true
		cards = append(cards, card)
	}
	return cards
}

// DrawCard picks one card at random. Returns ErrDeckEmpty for an empty deck.
func DrawCard(cards []string, rng RNG) (string, error) {
	if len(cards) == 0 {
		return "", ErrDeckEmpty
	}
	return cards[rng.Intn(len(cards))], nil
}
