package plugin

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry[int]("style")

	if err := r.Register("ADSArxiv", 1); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	r.MustRegister("unsrt", 2)

	got, err := r.Lookup("adsarxiv")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got != 1 {
		t.Errorf("Lookup(adsarxiv) = %d, want 1", got)
	}

	if got, _ := r.Lookup("  UNSRT "); got != 2 {
		t.Errorf("Lookup(UNSRT) = %d, want 2", got)
	}

	if want := []string{"adsarxiv", "unsrt"}; !reflect.DeepEqual(r.Names(), want) {
		t.Errorf("Names() = %v, want %v", r.Names(), want)
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	r := NewRegistry[string]("backend")
	r.MustRegister("text", "a")

	err := r.Register("Text", "b")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Register() duplicate error = %v, want ErrDuplicate", err)
	}

	// The first registration wins.
	if got, _ := r.Lookup("text"); got != "a" {
		t.Errorf("Lookup(text) = %q, want a", got)
	}
}

func TestRegistry_EmptyName(t *testing.T) {
	r := NewRegistry[string]("style")
	if err := r.Register("  ", "x"); err == nil {
		t.Error("Register() with empty name should fail")
	}
}

func TestRegistry_NotFound(t *testing.T) {
	r := NewRegistry[string]("style")
	r.MustRegister("unsrt", "x")

	_, err := r.Lookup("alpha")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Lookup() error = %v, want ErrNotFound", err)
	}
	want := `plugin not found: style "alpha" (available: unsrt)`
	if err.Error() != want {
		t.Errorf("Lookup() error = %q, want %q", err.Error(), want)
	}
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := NewRegistry[int]("style")
	r.MustRegister("a", 1)

	defer func() {
		if recover() == nil {
			t.Error("MustRegister() duplicate should panic")
		}
	}()
	r.MustRegister("a", 2)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry[int]("style")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("style%d", i)
			if err := r.Register(name, i); err != nil {
				t.Errorf("Register(%s) error = %v", name, err)
			}
			if _, err := r.Lookup(name); err != nil {
				t.Errorf("Lookup(%s) error = %v", name, err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(r.Names()); got != 20 {
		t.Errorf("len(Names()) = %d, want 20", got)
	}
}
