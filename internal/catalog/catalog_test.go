package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromItems(t *testing.T) {
	cat, err := FromItems([]Item{
		{ID: 1, Name: "Lepka", Price: 25000},
		{ID: 2, Name: "Lavash", Price: 28000},
	})
	if err != nil {
		t.Fatalf("FromItems: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cat.Len())
	}
	it, ok := cat.Lookup(1)
	if !ok || it.Name != "Lepka" || it.Price != 25000 {
		t.Fatalf("Lookup(1) = %+v, %v", it, ok)
	}
	if _, ok := cat.Lookup(999); ok {
		t.Fatal("Lookup(999) found a phantom item")
	}
}

func TestFromItemsRejectsBadData(t *testing.T) {
	if _, err := FromItems(nil); err == nil {
		t.Fatal("empty catalog accepted")
	}
	if _, err := FromItems([]Item{{ID: 1, Name: "", Price: 100}}); err == nil {
		t.Fatal("unnamed item accepted")
	}
	if _, err := FromItems([]Item{{ID: 1, Name: "A", Price: 0}}); err == nil {
		t.Fatal("zero price accepted")
	}
	if _, err := FromItems([]Item{
		{ID: 1, Name: "A", Price: 100},
		{ID: 1, Name: "B", Price: 200},
	}); err == nil {
		t.Fatal("duplicate id accepted")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := "items:\n  - id: 1\n    name: Lepka\n    price: 25000\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("Len = %d, want 1", cat.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}
