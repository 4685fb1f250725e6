package factory

import (
	"errors"
	"testing"
	"time"
)

type sample struct{ Path string }

type sampleConf struct {
	Path    string `json:"path"`
	Workers int    `json:"workers"`
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("csv", func(conf map[string]any) (*sample, error) {
		var c sampleConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sample{Path: c.Path}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "csv", Conf: map[string]any{"path": "exams.csv"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Path != "exams.csv" {
		t.Fatalf("expected exams.csv got %s", inst.Path)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(" X ", func(map[string]any) (int, error) { return 2, nil }); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := reg.Register("", func(map[string]any) (int, error) { return 3, nil }); err == nil {
		t.Fatal("expected empty name error")
	}
	if err := reg.Register("y", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	boom := errors.New("boom")
	_ = reg.Register("bad", func(map[string]any) (int, error) { return 0, boom })
	if _, err := reg.Create(ModuleConfig{Type: "bad"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped factory error, got %v", err)
	}
	if got := reg.Types(); len(got) != 2 || got[0] != "bad" || got[1] != "x" {
		t.Fatalf("unexpected types %v", got)
	}
}

func TestDecode_WeakTypes(t *testing.T) {
	var c sampleConf
	if err := Decode(map[string]any{"path": "a", "workers": "4"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", c.Workers)
	}
}

func TestRegistry_DefaultAndCase(t *testing.T) {
	reg := NewRegistry[string]()
	reg.MustRegister("Memory", func(map[string]any) (string, error) { return "memory", nil })
	reg.MustRegister("sqlite", func(map[string]any) (string, error) { return "sqlite", nil })

	if _, err := reg.Create(ModuleConfig{}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("empty type without default must fail, got %v", err)
	}
	reg.SetDefault("MEMORY")
	if got, err := reg.Create(ModuleConfig{}); err != nil || got != "memory" {
		t.Fatalf("default: got %q, %v", got, err)
	}
	if got, err := reg.Create(ModuleConfig{Type: "SQLite"}); err != nil || got != "sqlite" {
		t.Fatalf("case-insensitive: got %q, %v", got, err)
	}
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	reg := NewRegistry[int]()
	reg.MustRegister("a", func(map[string]any) (int, error) { return 1, nil })
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate")
		}
	}()
	reg.MustRegister("a", func(map[string]any) (int, error) { return 1, nil })
}

func TestDecode_DurationsAndLists(t *testing.T) {
	var c struct {
		Timeout time.Duration `json:"timeout"`
		Sheets  []string      `json:"sheets"`
	}
	if err := Decode(map[string]any{"timeout": "90s", "sheets": "Aug,Sep"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Timeout != 90*time.Second {
		t.Fatalf("expected 90s, got %v", c.Timeout)
	}
	if len(c.Sheets) != 2 || c.Sheets[0] != "Aug" || c.Sheets[1] != "Sep" {
		t.Fatalf("unexpected sheets %v", c.Sheets)
	}
}
