package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("DOTENV_A=from-file\nDOTENV_B=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTENV_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("DOTENV_A") })

	loaded, err := LoadDotenv(filepath.Join(dir, "missing.env"), path)
	if err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != path {
		t.Fatalf("loaded = %v", loaded)
	}
	c := New().Prefix("DOTENV_")
	if c.MayString("A", "") != "from-file" {
		t.Fatalf("A = %q", c.MayString("A", ""))
	}
	if c.MayString("B", "") != "from-env" {
		t.Fatalf("existing variable overwritten: %q", c.MayString("B", ""))
	}
}
