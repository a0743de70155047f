package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"debate-dueler/internal/app"
	"debate-dueler/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DeckRepository stores each instance's deck as a JSON blob under
// deck:{instanceID}, materializing it from a loader on first access.
type DeckRepository struct {
	client *redis.Client
	loader app.DeckLoader
	theme  string
	sf     singleflight.Group
}

func NewDeckRepository(client *redis.Client, loader app.DeckLoader, theme string) *DeckRepository {
	return &DeckRepository{client: client, loader: loader, theme: theme}
}

func (r *DeckRepository) Get(ctx context.Context, instanceID string) (domain.Deck, bool, error) {
	raw, err := r.client.Get(ctx, deckKey(instanceID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Deck{}, false, nil
	}
	if err != nil {
		return domain.Deck{}, false, fmt.Errorf("get deck: %w", err)
	}
	var deck domain.Deck
	if err := json.Unmarshal([]byte(raw), &deck); err != nil {
		return domain.Deck{}, false, fmt.Errorf("unmarshal deck: %w", err)
	}
	return deck, true, nil
}

// GetOrCreate is singleflight-guarded so that concurrent first requests for a
// new instance materialize the default deck only once per process.
func (r *DeckRepository) GetOrCreate(ctx context.Context, instanceID string) (domain.Deck, error) {
	deck, ok, err := r.Get(ctx, instanceID)
	if err != nil {
		return domain.Deck{}, err
	}
	if ok {
		return deck, nil
	}

	result, err, _ := r.sf.Do(instanceID, func() (interface{}, error) {
		// Re-check in case another goroutine persisted it.
		deck, ok, err := r.Get(ctx, instanceID)
		if err != nil {
			return domain.Deck{}, err
		}
		if ok {
			return deck, nil
		}

		loaded, err := r.loader.LoadDeck(ctx, r.theme)
		if err != nil {
			return domain.Deck{}, err
		}
		if err := r.Save(ctx, instanceID, loaded); err != nil {
			return domain.Deck{}, err
		}
		return loaded, nil
	})
	if err != nil {
		return domain.Deck{}, err
	}
	return result.(domain.Deck), nil
}

func (r *DeckRepository) Save(ctx context.Context, instanceID string, deck domain.Deck) error {
	raw, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}
	if err := r.client.Set(ctx, deckKey(instanceID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save deck: %w", err)
	}
	return nil
}
