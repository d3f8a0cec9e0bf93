package cache

import (
	"context"
	"strconv"
	"testing"
	"time"
)

func TestMemoryRoundTripAndExpiry(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }

	ctx := context.Background()
	key := Key("month", "abc:3", 2024, 1)
	if key != "booking:month:abc:3:2024:1" {
		t.Fatalf("unexpected key %s", key)
	}

	if err := c.Set(ctx, key, map[int]int{15: 2}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got map[int]int
	hit, err := c.Get(ctx, key, &got)
	if err != nil || !hit || got[15] != 2 {
		t.Fatalf("expected hit with 15→2, got hit=%v %v err=%v", hit, got, err)
	}

	now = now.Add(time.Minute)
	hit, err = c.Get(ctx, key, &got)
	if err != nil || hit {
		t.Fatalf("expected expired entry, got hit=%v err=%v", hit, err)
	}
}

func TestMemoryEvictsStaleKeys(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	// One occupancy key per snapshot version, as after many commits.
	for v := 0; v < 1000; v++ {
		if err := c.Set(ctx, Key("occupancy", "abc:"+strconv.Itoa(v), 2024, 1), v, 10*time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	now = now.Add(24 * time.Hour)
	if err := c.Set(ctx, Key("occupancy", "abc:1000", 2024, 1), 1000, 10*time.Minute); err != nil {
		t.Fatal(err)
	}

	if n := len(c.entries); n != 1 {
		t.Fatalf("expected only the fresh key to remain, got %d entries", n)
	}
}

func TestMemoryCapsEntries(t *testing.T) {
	c := NewMemory()
	c.max = 3
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := c.Set(ctx, "k"+strconv.Itoa(i), i, 0); err != nil {
			t.Fatal(err)
		}
		if len(c.entries) > 3 {
			t.Fatalf("cache grew to %d entries", len(c.entries))
		}
	}

	var v int
	if hit, _ := c.Get(ctx, "k9", &v); !hit || v != 9 {
		t.Fatalf("latest key missing: hit=%v v=%d", hit, v)
	}
}

func TestNopNeverHits(t *testing.T) {
	var c Cache = Nop{}
	_ = c.Set(context.Background(), "k", 1, 0)
	var v int
	if hit, _ := c.Get(context.Background(), "k", &v); hit {
		t.Fatal("nop cache hit")
	}
}
