package gosyncpack

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestNoopCache(t *testing.T) {
	var c NoopCache
	ctx := context.Background()
	if err := c.Put(ctx, "react", []byte("{}")); err != nil {
		t.Errorf("Put() error = %v", err)
	}
	if _, ok, err := c.Get(ctx, "react"); ok || err != nil {
		t.Errorf("Get() = _, %v, %v; want miss", ok, err)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	data := []byte(`{"name":"react"}`)
	if err := c.Put(ctx, "react", data); err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'

	got, ok, err := c.Get(ctx, "react")
	if err != nil || !ok {
		t.Fatalf("Get() = _, %v, %v; want hit", ok, err)
	}
	if string(got) != `{"name":"react"}` {
		t.Errorf("Get() = %q, want stored copy", got)
	}
	got[0] = 'Y'
	if again, _, _ := c.Get(ctx, "react"); again[0] != '{' {
		t.Error("Get() result aliases cache storage")
	}

	if _, ok, _ := c.Get(ctx, "vue"); ok {
		t.Error("Get(vue) hit, want miss")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestMemoryCacheConcurrent(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			name := fmt.Sprintf("pkg-%d", i%10)
			_ = c.Put(ctx, name, []byte(name))
			_, _, _ = c.Get(ctx, name)
		})
	}
	wg.Wait()
	if c.Len() != 10 {
		t.Errorf("Len() = %d, want 10", c.Len())
	}
}

// brokenCache fails every operation.
type brokenCache struct{ err error }

func (c brokenCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, c.err }
func (c brokenCache) Put(context.Context, string, []byte) error { return c.err }
