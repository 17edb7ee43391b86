package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := NewRedisStorage("redis://"+mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis storage: %v", err)
	}

	return store, mr
}

func TestRedisStorage_SaveLoadRoundTrip(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close storage: %v", err)
		}
	}()

	ctx := context.Background()
	slot := uuid.New()

	snapshot := map[string]string{
		"chapter":  "3",
		"has_key":  "1",
		"npc_name": "Gibbs",
	}

	if err := store.SaveVars(ctx, slot, snapshot); err != nil {
		t.Fatalf("Failed to save vars: %v", err)
	}

	loaded, err := store.LoadVars(ctx, slot)
	if err != nil {
		t.Fatalf("Failed to load vars: %v", err)
	}

	if len(loaded) != len(snapshot) {
		t.Errorf("Expected %d vars, got %d", len(snapshot), len(loaded))
	}
	for k, v := range snapshot {
		if loaded[k] != v {
			t.Errorf("Expected %s=%q, got %q", k, v, loaded[k])
		}
	}
}

func TestRedisStorage_LoadMissingSlot(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close() //nolint:errcheck

	_, err := store.LoadVars(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRedisStorage_DeleteVars(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close() //nolint:errcheck

	ctx := context.Background()
	slot := uuid.New()

	if err := store.SaveVars(ctx, slot, map[string]string{"x": "1"}); err != nil {
		t.Fatalf("Failed to save vars: %v", err)
	}
	if err := store.DeleteVars(ctx, slot); err != nil {
		t.Fatalf("Failed to delete vars: %v", err)
	}
	if _, err := store.LoadVars(ctx, slot); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := store.DeleteVars(ctx, slot); err != nil {
		t.Errorf("Expected nil deleting missing slot, got %v", err)
	}
}

// The runner blocks on WaitForConnection at startup; against a live
// server it must return promptly on the first ping.
func TestRedisStorage_WaitForConnection(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.WaitForConnection(ctx); err != nil {
		t.Errorf("Expected WaitForConnection to succeed against a running server: %v", err)
	}
}

func TestMemoryStorage_RoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()
	slot := uuid.New()

	if err := store.SaveVars(ctx, slot, map[string]string{"gold": "250"}); err != nil {
		t.Fatalf("Failed to save vars: %v", err)
	}

	loaded, err := store.LoadVars(ctx, slot)
	if err != nil {
		t.Fatalf("Failed to load vars: %v", err)
	}
	if loaded["gold"] != "250" {
		t.Errorf("Expected gold=250, got %q", loaded["gold"])
	}

	// The loaded map is a copy; mutating it must not affect the slot.
	loaded["gold"] = "0"
	again, _ := store.LoadVars(ctx, slot)
	if again["gold"] != "250" {
		t.Errorf("Stored snapshot was mutated through a loaded copy")
	}
}
