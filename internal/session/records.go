package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ashureev/profnet/internal/domain"
	"github.com/ashureev/profnet/internal/store"
)

// loadActive returns the durable active identity, or nil when absent.
func loadActive(ctx context.Context, kv store.KV) (*domain.Identity, error) {
	raw, err := kv.Get(ctx, KeyActiveIdentity)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read active identity: %w", err)
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("decode active identity: %w", err)
	}
	return &id, nil
}

func saveActive(ctx context.Context, kv store.KV, id domain.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode active identity: %w", err)
	}
	if err := kv.Set(ctx, KeyActiveIdentity, string(raw)); err != nil {
		return fmt.Errorf("write active identity: %w", err)
	}
	return nil
}

// loadDirectory returns the user directory; an absent record is empty.
func loadDirectory(ctx context.Context, kv store.KV) ([]domain.Identity, error) {
	raw, err := kv.Get(ctx, KeyUserDirectory)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user directory: %w", err)
	}

	var users []domain.Identity
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decode user directory: %w", err)
	}
	return users, nil
}

func saveDirectory(ctx context.Context, kv store.KV, users []domain.Identity) error {
	if users == nil {
		users = []domain.Identity{}
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode user directory: %w", err)
	}
	if err := kv.Set(ctx, KeyUserDirectory, string(raw)); err != nil {
		return fmt.Errorf("write user directory: %w", err)
	}
	return nil
}

func findByEmail(users []domain.Identity, email string) (domain.Identity, bool) {
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.Identity{}, false
}
