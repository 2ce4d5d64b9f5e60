package cacheinfra

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// runBackendContract exercises the behaviour every Backend must share.
// advance moves the backend's notion of time forward.
func runBackendContract(t *testing.T, newBackend func(t *testing.T) (Backend, func(time.Duration))) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		b, _ := newBackend(t)
		if _, err := b.Get(ctx, "menus:all"); !errors.Is(err, ErrMiss) {
			t.Fatalf("expected ErrMiss, got %v", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		b, _ := newBackend(t)
		if err := b.Set(ctx, "menu:1", []byte(`{"id":"1"}`), 0); err != nil {
			t.Fatalf("set: %v", err)
		}
		got, err := b.Get(ctx, "menu:1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !bytes.Equal(got, []byte(`{"id":"1"}`)) {
			t.Errorf("unexpected value %q", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		b, _ := newBackend(t)
		_ = b.Set(ctx, "menu:1", []byte("a"), time.Minute)
		_ = b.Set(ctx, "menu:1", []byte("b"), 0)
		got, err := b.Get(ctx, "menu:1")
		if err != nil || string(got) != "b" {
			t.Fatalf("expected b, got %q (%v)", got, err)
		}
	})

	t.Run("ttl expiry", func(t *testing.T) {
		b, advance := newBackend(t)
		_ = b.Set(ctx, "d1_discount", []byte("20"), 15*time.Second)
		_ = b.Set(ctx, "menu:1", []byte("m"), 0)

		advance(10 * time.Second)
		if _, err := b.Get(ctx, "d1_discount"); err != nil {
			t.Fatalf("expected discount to be alive after 10s, got %v", err)
		}

		advance(6 * time.Second)
		if _, err := b.Get(ctx, "d1_discount"); !errors.Is(err, ErrMiss) {
			t.Fatalf("expected discount to expire, got %v", err)
		}
		if _, err := b.Get(ctx, "menu:1"); err != nil {
			t.Fatalf("expected entry without ttl to survive, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		b, _ := newBackend(t)
		_ = b.Set(ctx, "a", []byte("1"), 0)
		_ = b.Set(ctx, "b", []byte("2"), 0)
		if err := b.Delete(ctx, "a", "b", "missing"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := b.Delete(ctx); err != nil {
			t.Fatalf("delete with no keys: %v", err)
		}
		for _, k := range []string{"a", "b"} {
			if _, err := b.Get(ctx, k); !errors.Is(err, ErrMiss) {
				t.Errorf("expected %s to be deleted", k)
			}
		}
	})

	t.Run("delete matching", func(t *testing.T) {
		b, _ := newBackend(t)
		keys := []string{
			"menus:all",
			"menu:m1",
			"menu:m1/submenus:all",
			"menu:m1/submenu:s1",
			"menu:m1/submenu:s1/dishes:all",
			"menu:m1/submenu:s1/dish:d1",
			"menu:m2",
			"menu:m2/submenus:all",
			"d1_discount",
		}
		for _, k := range keys {
			_ = b.Set(ctx, k, []byte("x"), 0)
		}

		if err := b.DeleteMatching(ctx, "menu:m1*"); err != nil {
			t.Fatalf("delete matching: %v", err)
		}

		var alive []string
		for _, k := range keys {
			if _, err := b.Get(ctx, k); err == nil {
				alive = append(alive, k)
			}
		}
		sort.Strings(alive)
		want := []string{"d1_discount", "menu:m2", "menu:m2/submenus:all", "menus:all"}
		if !equalStrings(alive, want) {
			t.Errorf("alive keys = %v, want %v", alive, want)
		}
	})

	t.Run("delete matching spans several batches", func(t *testing.T) {
		b, _ := newBackend(t)
		for i := 0; i < 3*scanBatch+7; i++ {
			_ = b.Set(ctx, "menu:big/submenu:"+itoa(i), []byte("x"), 0)
		}
		_ = b.Set(ctx, "menu:other", []byte("x"), 0)

		if err := b.DeleteMatching(ctx, "menu:big*"); err != nil {
			t.Fatalf("delete matching: %v", err)
		}
		for i := 0; i < 3*scanBatch+7; i++ {
			if _, err := b.Get(ctx, "menu:big/submenu:"+itoa(i)); !errors.Is(err, ErrMiss) {
				t.Fatalf("key %d survived", i)
			}
		}
		if _, err := b.Get(ctx, "menu:other"); err != nil {
			t.Errorf("unrelated key was deleted")
		}
	})

	t.Run("flush all", func(t *testing.T) {
		b, _ := newBackend(t)
		_ = b.Set(ctx, "menus:all", []byte("x"), 0)
		_ = b.Set(ctx, "d1_discount", []byte("5"), 15*time.Second)
		if err := b.FlushAll(ctx); err != nil {
			t.Fatalf("flush: %v", err)
		}
		for _, k := range []string{"menus:all", "d1_discount"} {
			if _, err := b.Get(ctx, k); !errors.Is(err, ErrMiss) {
				t.Errorf("expected %s to be flushed", k)
			}
		}
	})
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf []byte
	for i > 0 {
		buf = append([]byte{byte('0' + i%10)}, buf...)
		i /= 10
	}
	return string(buf)
}
