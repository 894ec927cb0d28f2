package tts

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRegistry_SelectsFirstReady(t *testing.T) {
	first := newFakeBackend("first", 100)
	first.ready = false
	second := newFakeBackend("second", 200)
	third := newFakeBackend("third", 300)

	r := NewRegistry([]Backend{first, second, third}, WithRegistryLogger(quietLogger()))
	b, err := r.Select(context.Background())
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if b.Name() != "second" {
		t.Errorf("selected %q, want second", b.Name())
	}
	if third.inits.Load() != 0 {
		t.Error("lower priority backend was initialized after a success")
	}
}

func TestRegistry_SelectIsIdempotent(t *testing.T) {
	b := newFakeBackend("only", 100)
	r := NewRegistry([]Backend{b}, WithRegistryLogger(quietLogger()))

	for range 5 {
		got, err := r.Active(context.Background())
		if err != nil {
			t.Fatalf("Active() error = %v", err)
		}
		if got != b {
			t.Fatal("Active() returned a different backend")
		}
	}
	if n := b.inits.Load(); n != 1 {
		t.Errorf("Initialize called %d times, want 1", n)
	}
}

func TestRegistry_ConcurrentSelectInitializesOnce(t *testing.T) {
	b := newFakeBackend("only", 100)
	r := NewRegistry([]Backend{b}, WithRegistryLogger(quietLogger()))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Select(context.Background()); err != nil {
				t.Errorf("Select() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if n := b.inits.Load(); n != 1 {
		t.Errorf("Initialize called %d times, want 1", n)
	}
}

func TestRegistry_AllFail(t *testing.T) {
	a := newFakeBackend("a", 100)
	a.ready = false
	b := newFakeBackend("b", 100)
	b.prereq = errors.New("binary missing")

	r := NewRegistry([]Backend{a, b}, WithRegistryLogger(quietLogger()))
	_, err := r.Select(context.Background())

	var ue *EngineUnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected EngineUnavailableError, got %v", err)
	}
	if !reflect.DeepEqual(ue.Tried, []string{"a", "b"}) {
		t.Errorf("Tried = %v", ue.Tried)
	}
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Error("error does not match ErrEngineUnavailable")
	}
	if s := r.Status(); s.Backend != "" || s.Ready {
		t.Errorf("Status() = %+v after failed selection", s)
	}

	// Nothing is memoized on failure.
	a.ready = true
	got, err := r.Select(context.Background())
	if err != nil || got.Name() != "a" {
		t.Fatalf("retry Select() = %v, %v", got, err)
	}
}

func TestRegistry_NoBackends(t *testing.T) {
	r := NewRegistry(nil, WithRegistryLogger(quietLogger()))
	if _, err := r.Select(context.Background()); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestRegistry_StatusAndDescriptors(t *testing.T) {
	a := newFakeBackend("a", 100)
	a.prereq = errors.New("not installed")
	b := newFakeBackend("b", 100)

	r := NewRegistry([]Backend{a, b}, WithRegistryLogger(quietLogger()))
	if s := r.Status(); s.Ready {
		t.Errorf("Status() = %+v before selection", s)
	}
	if _, err := r.Select(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s := r.Status(); s.Backend != "b" || !s.Ready {
		t.Errorf("Status() = %+v", s)
	}

	ds := r.Descriptors()
	if len(ds) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(ds))
	}
	if ds[0].Available || ds[0].Reason != "not installed" || ds[0].Active {
		t.Errorf("descriptor a = %+v", ds[0])
	}
	if !ds[1].Available || !ds[1].Initialized || !ds[1].Active || ds[1].Priority != 1 {
		t.Errorf("descriptor b = %+v", ds[1])
	}
}

func TestRegistry_Plausible(t *testing.T) {
	a := newFakeBackend("a", 100)
	b := newFakeBackend("b", 100)
	b.prereq = errors.New("missing")
	c := newFakeBackend("c", 100)

	r := NewRegistry([]Backend{a, b, c}, WithRegistryLogger(quietLogger()))
	if got := r.Plausible(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Plausible() = %v", got)
	}
	if a.inits.Load() != 0 || c.inits.Load() != 0 {
		t.Error("Plausible() must not initialize backends")
	}
}

func TestRegistry_Reselect(t *testing.T) {
	a := newFakeBackend("a", 100)
	b := newFakeBackend("b", 100)
	r := NewRegistry([]Backend{a, b}, WithRegistryLogger(quietLogger()))

	if got, _ := r.Select(context.Background()); got.Name() != "a" {
		t.Fatalf("selected %q", got.Name())
	}
	a.ready = false
	got, err := r.Reselect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Name() != "b" {
		t.Errorf("Reselect() chose %q, want b", got.Name())
	}
}

func TestRegistry_CanceledContext(t *testing.T) {
	a := newFakeBackend("a", 100)
	r := NewRegistry([]Backend{a}, WithRegistryLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Select(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if a.inits.Load() != 0 {
		t.Error("backend initialized after cancel")
	}
}
