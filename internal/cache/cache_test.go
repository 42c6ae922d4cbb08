package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fusesource/fabric-gitstore/internal/mapper"
)

func TestRefreshAndList(t *testing.T) {
	root := t.TempDir()
	m := mapper.New(true)

	mustMkdirAll(t, filepath.Join(root, "default.profile"))
	mustWriteFile(t, filepath.Join(root, "default.profile", mapper.AgentMetadataFile), "#Profile:default\n")
	mustWriteFile(t, filepath.Join(root, "default.profile", "io.fabric8.agent.properties"), "x=1\n")

	idx, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	if err := idx.RefreshVersion(ctx, m, "1.0", root); err != nil {
		t.Fatalf("RefreshVersion() failed: %v", err)
	}

	profiles, known, err := idx.ListProfiles(ctx, "1.0")
	if err != nil {
		t.Fatalf("ListProfiles() failed: %v", err)
	}
	if !known {
		t.Fatal("ListProfiles() known = false after RefreshVersion")
	}
	if len(profiles) != 1 || profiles[0] != "default" {
		t.Fatalf("ListProfiles() = %v, want [default]", profiles)
	}

	files, known, err := idx.ListFiles(ctx, "1.0", "default")
	if err != nil {
		t.Fatalf("ListFiles() failed: %v", err)
	}
	if !known {
		t.Fatal("ListFiles() known = false after RefreshVersion")
	}
	want := []string{"io.fabric8.agent.properties", mapper.AgentMetadataFile}
	if len(files) != len(want) {
		t.Fatalf("ListFiles() = %v, want %v", files, want)
	}
}

func TestListProfiles_UnknownVersion(t *testing.T) {
	idx, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer idx.Close()

	_, known, err := idx.ListProfiles(context.Background(), "nope")
	if err != nil {
		t.Fatalf("ListProfiles() failed: %v", err)
	}
	if known {
		t.Error("ListProfiles() known = true for a version never refreshed")
	}
}

func TestInvalidate(t *testing.T) {
	root := t.TempDir()
	m := mapper.New(true)
	mustMkdirAll(t, filepath.Join(root, "default.profile"))
	mustWriteFile(t, filepath.Join(root, "default.profile", mapper.AgentMetadataFile), "#Profile:default\n")

	idx, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	if err := idx.RefreshVersion(ctx, m, "1.0", root); err != nil {
		t.Fatalf("RefreshVersion() failed: %v", err)
	}
	if err := idx.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate() failed: %v", err)
	}

	_, known, err := idx.ListProfiles(ctx, "1.0")
	if err != nil {
		t.Fatalf("ListProfiles() failed: %v", err)
	}
	if known {
		t.Error("ListProfiles() known = true after Invalidate")
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll(%s): %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}
