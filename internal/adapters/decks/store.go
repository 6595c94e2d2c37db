package decks

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/randomtoy/oracle-go/internal/domain"
)

//go:embed data/default_deck.txt
var deckFS embed.FS

const defaultDeckFile = "data/default_deck.txt"

// FileStore loads a line-delimited deck from disk, falling back to the
// embedded default deck when no path is configured. A configured path
// that does not exist yields an empty deck rather than an error, so the
// empty-deck notice guides the operator instead of crashing the process.
type FileStore struct {
	path  string
	once  sync.Once
	cards []string
	err   error
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) init() {
	var raw []byte
	var err error
	if s.path == "" {
		raw, err = deckFS.ReadFile(defaultDeckFile)
		if err != nil {
			s.err = fmt.Errorf("read embedded deck: %w", err)
			return
		}
	} else {
		raw, err = os.ReadFile(s.path)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			s.err = fmt.Errorf("read deck %s: %w", s.path, err)
			return
		}
	}
	s.cards = domain.ParseDeck(string(raw))
}

// Cards returns the deduplicated deck. The file is read once and cached
// for the process lifetime.
func (s *FileStore) Cards(_ context.Context) ([]string, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return nil, s.err
	}
	return s.cards, nil
}
