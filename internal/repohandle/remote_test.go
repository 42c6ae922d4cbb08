package repohandle

import (
	"context"
	"path/filepath"
	"testing"
)

func initBareRemote(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "remote.git")
	if _, err := execSimple(t.TempDir(), "git", "init", "--bare", dir); err != nil {
		t.Fatalf("git init --bare: %v", err)
	}
	return dir
}

func TestRemoteConfig(t *testing.T) {
	g := initRepo(t)

	if g.HasRemote() {
		t.Fatal("freshly initialized repository should have no remote")
	}

	remoteDir := initBareRemote(t)
	if err := g.SetRemoteURL("origin", remoteDir); err != nil {
		t.Fatalf("SetRemoteURL() failed: %v", err)
	}
	if !g.HasRemote() {
		t.Error("HasRemote() = false after SetRemoteURL")
	}

	url, err := g.GetRemoteURL("origin")
	if err != nil {
		t.Fatalf("GetRemoteURL() failed: %v", err)
	}
	if url != remoteDir {
		t.Errorf("GetRemoteURL() = %q, want %q", url, remoteDir)
	}

	if err := g.SetRemoteURL("origin", remoteDir+"-renamed"); err != nil {
		t.Fatalf("SetRemoteURL() update failed: %v", err)
	}
	url, err = g.GetRemoteURL("origin")
	if err != nil {
		t.Fatalf("GetRemoteURL() after update failed: %v", err)
	}
	if url != remoteDir+"-renamed" {
		t.Errorf("GetRemoteURL() after update = %q, want %q", url, remoteDir+"-renamed")
	}
}

func TestFetchPush(t *testing.T) {
	remoteDir := initBareRemote(t)

	g := initRepo(t)
	writeFile(t, g.RepoRoot(), "a.txt", "hello\n")
	if _, err := g.Commit(context.Background(), CommitOptions{Message: "initial", Paths: []string{"a.txt"}}); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if err := g.SetRemoteURL("origin", remoteDir); err != nil {
		t.Fatalf("SetRemoteURL() failed: %v", err)
	}

	if err := g.Push(context.Background(), PushOptions{SetUpstream: true}); err != nil {
		t.Fatalf("Push() failed: %v", err)
	}

	if err := g.Fetch(context.Background(), ""); err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	refs, err := g.BranchList()
	if err != nil {
		t.Fatalf("BranchList() failed: %v", err)
	}

	var found bool
	for _, ref := range refs {
		if ref.IsRemote && ref.Remote == "origin" && ref.Name == "master" {
			found = true
		}
	}
	if !found {
		t.Errorf("BranchList() = %+v, want an origin/master remote-tracking ref", refs)
	}
}

func TestFetchPush_NoRemote(t *testing.T) {
	g := initRepo(t)

	if err := g.Fetch(context.Background(), ""); err != nil {
		t.Errorf("Fetch() with no remote should be a quiet no-op, got %v", err)
	}
	if err := g.Push(context.Background(), PushOptions{}); err != nil {
		t.Errorf("Push() with no remote should be a quiet no-op, got %v", err)
	}
}
