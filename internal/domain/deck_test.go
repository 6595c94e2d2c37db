package domain_test

import (
	"errors"
	"testing"

	"github.com/randomtoy/oracle-go/internal/domain"
)

func TestParseDeck_DedupAndTrim(t *testing.T) {
	raw := "first card\n\n  second card  \nfirst card\nthird card\n\n"
	cards := domain.ParseDeck(raw)

	want := []string{"first card", "second card", "third card"}
	if len(cards) != len(want) {
		t.Fatalf("expected %d cards, got %d: %v", len(want), len(cards), cards)
	}
	for i, c := range cards {
		if c != want[i] {
			t.Errorf("card %d: got %q, want %q", i, c, want[i])
		}
	}
}

func TestParseDeck_Empty(t *testing.T) {
	if cards := domain.ParseDeck(""); len(cards) != 0 {
		t.Errorf("expected no cards, got %v", cards)
	}
	if cards := domain.ParseDeck("\n\n  \n"); len(cards) != 0 {
		t.Errorf("expected no cards from blank input, got %v", cards)
	}
}

func TestDrawCard_EmptyDeck(t *testing.T) {
	rng := &deterministicRNG{ints: []int{0}}
	_, err := domain.DrawCard(nil, rng)
	if !errors.Is(err, domain.ErrDeckEmpty) {
		t.Fatalf("expected ErrDeckEmpty, got %v", err)
	}
}

func TestDrawCard_PicksByIndex(t *testing.T) {
	rng := &deterministicRNG{ints: []int{2}}
	card, err := domain.DrawCard([]string{"a", "b", "c", "d"}, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card != "c" {
		t.Errorf("expected %q, got %q", "c", card)
	}
}
