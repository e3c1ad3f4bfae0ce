package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunBoundsConcurrency(t *testing.T) {
	p := New(2)
	var inflight, maxInflight int32
	items := make([]int, 10)
	err := Run(context.Background(), p, items, func(ctx context.Context, item int) error {
		cur := atomic.AddInt32(&inflight, 1)
		defer atomic.AddInt32(&inflight, -1)
		for {
			max := atomic.LoadInt32(&maxInflight)
			if cur <= max || atomic.CompareAndSwapInt32(&maxInflight, max, cur) {
				break
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if maxInflight > 2 {
		t.Fatalf("observed %d concurrent workers, want <= 2", maxInflight)
	}
}

func TestRunPropagatesFirstError(t *testing.T) {
	p := New(4)
	want := errors.New("boom")
	err := Run(context.Background(), p, []int{1, 2, 3}, func(ctx context.Context, item int) error {
		if item == 2 {
			return want
		}
		return nil
	})
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestMapPreservesOrder(t *testing.T) {
	p := New(0)
	items := []int{1, 2, 3, 4, 5}
	out, err := Map(context.Background(), p, items, func(ctx context.Context, item int) (int, error) {
		return item * item, nil
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	want := []int{1, 4, 9, 16, 25}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestMapShortCircuitsOnError(t *testing.T) {
	p := New(2)
	want := errors.New("bad item")
	_, err := Map(context.Background(), p, []int{1, 2, 3}, func(ctx context.Context, item int) (int, error) {
		if item == 3 {
			return 0, want
		}
		return item, nil
	})
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
