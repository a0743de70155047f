package memory

import (
	"context"
	"sync"

	"debate-dueler/internal/app"
	"debate-dueler/internal/domain"
)

// DeckRepository is an in-memory implementation of app.DeckRepository,
// materializing decks from a loader on first access.
type DeckRepository struct {
	loader app.DeckLoader
	theme  string

	mu    sync.RWMutex
	decks map[string]domain.Deck
}

func NewDeckRepository(loader app.DeckLoader, theme string) *DeckRepository {
	return &DeckRepository{
		loader: loader,
		theme:  theme,
		decks:  make(map[string]domain.Deck),
	}
}

func (r *DeckRepository) Get(_ context.Context, instanceID string) (domain.Deck, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	deck, ok := r.decks[instanceID]
	return deck, ok, nil
}

func (r *DeckRepository) GetOrCreate(ctx context.Context, instanceID string) (domain.Deck, error) {
	r.mu.RLock()
	deck, ok := r.decks[instanceID]
	r.mu.RUnlock()
	if ok {
		return deck, nil
	}

	loaded, err := r.loader.LoadDeck(ctx, r.theme)
	if err != nil {
		return domain.Deck{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if deck, ok := r.decks[instanceID]; ok {
		return deck, nil
	}
	r.decks[instanceID] = loaded
	return loaded, nil
}

func (r *DeckRepository) Save(_ context.Context, instanceID string, deck domain.Deck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decks[instanceID] = deck
	return nil
}

// StaticDeckLoader serves decks from a fixed theme map (built-in decks,
// tests).
type StaticDeckLoader struct {
	decks map[string]domain.Deck
}

func NewStaticDeckLoader(decks map[string]domain.Deck) *StaticDeckLoader {
	return &StaticDeckLoader{decks: decks}
}

func (l *StaticDeckLoader) LoadDeck(_ context.Context, theme string) (domain.Deck, error) {
	if deck, ok := l.decks[theme]; ok {
		return deck, nil
	}
	return domain.Deck{}, domain.ErrDeckNotFound
}
