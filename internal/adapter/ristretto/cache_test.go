package ristretto_test

import (
	"context"
	"testing"
	"time"

	"github.com/croftlabs/verdant/internal/adapter/ristretto"
)

func newCache(t *testing.T) *ristretto.Cache {
	t.Helper()
	c, err := ristretto.New(1)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestSetGetDelete(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k1", []byte("v1"), time.Minute); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	val, found, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatal(err)
	}
	if !found || string(val) != "v1" {
		t.Fatalf("got %q found=%v, want v1", val, found)
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	if _, found, _ := c.Get(ctx, "k1"); found {
		t.Fatal("expected miss after delete")
	}
}

func TestGetMiss(t *testing.T) {
	c := newCache(t)

	_, found, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected miss for absent key")
	}
}

func TestOverwrite(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("old"), time.Minute)
	c.Wait()
	_ = c.Set(ctx, "k", []byte("new"), time.Minute)
	c.Wait()

	val, found, _ := c.Get(ctx, "k")
	if !found || string(val) != "new" {
		t.Fatalf("got %q found=%v, want new", val, found)
	}
}
