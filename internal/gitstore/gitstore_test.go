package gitstore

import (
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/fusesource/fabric-gitstore/internal/creds"
	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v in %s failed: %v\n%s", args, dir, err, out)
	}
	return string(out)
}

func initClient(t *testing.T, remote string) *repohandle.Git {
	t.Helper()
	dir := t.TempDir()
	g, err := repohandle.Init(context.Background(), dir)
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	run(t, dir, "config", "user.name", "tester")
	run(t, dir, "config", "user.email", "tester@example.com")

	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("seed\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	run(t, dir, "add", "README")
	run(t, dir, "commit", "-m", "seed")

	if remote != "" {
		if err := g.SetRemoteURL("origin", remote); err != nil {
			t.Fatalf("SetRemoteURL() failed: %v", err)
		}
		run(t, dir, "push", "-u", "origin", "master")
	}
	return g
}

func initBareRemote(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "remote.git")
	if err := exec.Command("git", "init", "--bare", dir).Run(); err != nil {
		t.Fatalf("git init --bare: %v", err)
	}
	return dir
}

func newTestStore(t *testing.T, handle repohandle.Handle) *Store {
	t.Helper()
	return New(Config{
		Handle:      handle,
		Credentials: creds.None{},
		Logger:      log.New(os.Stderr, "[test] ", 0),
	})
}

func TestWriteOp_CommitWithoutRemoteIsQuiet(t *testing.T) {
	g := initClient(t, "")
	s := newTestStore(t, g)

	before, err := g.HeadCommit()
	if err != nil {
		t.Fatalf("HeadCommit() failed: %v", err)
	}

	_, err = s.WriteOp(context.Background(), Identity{}, func(h repohandle.Handle, gctx *GitContext) (any, error) {
		if err := os.WriteFile(filepath.Join(h.RepoRoot(), "a.txt"), []byte("x=1\n"), 0o644); err != nil {
			return nil, err
		}
		gctx.RequireCommit = true
		gctx.CommitMessage = "add a.txt"
		return nil, nil
	}, false, &GitContext{})
	if err != nil {
		t.Fatalf("WriteOp() failed: %v", err)
	}

	after, err := g.HeadCommit()
	if err != nil {
		t.Fatalf("HeadCommit() failed: %v", err)
	}
	if after == before {
		t.Error("HeadCommit() unchanged after a committing WriteOp")
	}

	branch, err := g.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch() failed: %v", err)
	}
	if branch != "master" {
		t.Errorf("CurrentBranch() = %q, want %q", branch, "master")
	}
}

func TestWriteOp_PushesToRemote(t *testing.T) {
	remote := initBareRemote(t)
	client := initClient(t, remote)
	s := newTestStore(t, client)

	_, err := s.WriteOp(context.Background(), Identity{Name: "tester", Email: "tester@example.com"},
		func(h repohandle.Handle, gctx *GitContext) (any, error) {
			if err := os.WriteFile(filepath.Join(h.RepoRoot(), "b.txt"), []byte("y=2\n"), 0o644); err != nil {
				return nil, err
			}
			gctx.RequireCommit = true
			gctx.CommitMessage = "add b.txt"
			return nil, nil
		}, false, &GitContext{})
	if err != nil {
		t.Fatalf("WriteOp() failed: %v", err)
	}

	verify := t.TempDir()
	run(t, verify, "clone", remote, ".")
	if _, err := os.Stat(filepath.Join(verify, "b.txt")); err != nil {
		t.Errorf("b.txt not present in remote after push: %v", err)
	}
}

func TestReconcile_PicksUpNewRemoteBranch(t *testing.T) {
	remote := initBareRemote(t)
	client := initClient(t, remote)

	// A second clone pushes a new branch directly to the shared remote,
	// simulating a peer advancing the fleet independently of client.
	peer := t.TempDir()
	run(t, peer, "clone", remote, ".")
	run(t, peer, "checkout", "-b", "1.0")
	if err := os.WriteFile(filepath.Join(peer, "version.txt"), []byte("1.0\n"), 0o644); err != nil {
		t.Fatalf("write version.txt: %v", err)
	}
	run(t, peer, "add", "version.txt")
	run(t, peer, "commit", "-m", "version 1.0")
	run(t, peer, "push", "-u", "origin", "1.0")

	s := newTestStore(t, client)

	var fired bool
	s.Publisher().Subscribe(func() { fired = true })

	_, err := s.WriteOp(context.Background(), Identity{}, func(h repohandle.Handle, gctx *GitContext) (any, error) {
		return nil, nil
	}, true, &GitContext{})
	if err != nil {
		t.Fatalf("WriteOp() failed: %v", err)
	}

	if !client.BranchExists("1.0") {
		t.Error("reconciliation did not create the locally-missing branch 1.0")
	}
	if !fired {
		t.Error("reconciliation with a branch change should fire notifications")
	}

	branch, err := client.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch() failed: %v", err)
	}
	if branch != "master" {
		t.Errorf("CurrentBranch() after reconciliation = %q, want %q (original branch restored)", branch, "master")
	}
}

func TestReconcile_RemoteWinsOnDivergence(t *testing.T) {
	remote := initBareRemote(t)
	client := initClient(t, remote)

	peer := t.TempDir()
	run(t, peer, "clone", remote, ".")
	if err := os.WriteFile(filepath.Join(peer, "README"), []byte("from peer\n"), 0o644); err != nil {
		t.Fatalf("write README: %v", err)
	}
	run(t, peer, "add", "README")
	run(t, peer, "commit", "-m", "peer change")
	run(t, peer, "push", "origin", "master")

	// Client has a divergent local commit on master that was never pushed.
	if err := os.WriteFile(filepath.Join(client.RepoRoot(), "README"), []byte("from client\n"), 0o644); err != nil {
		t.Fatalf("write README: %v", err)
	}
	run(t, client.RepoRoot(), "add", "README")
	run(t, client.RepoRoot(), "commit", "-m", "client change")

	s := newTestStore(t, client)

	_, err := s.WriteOp(context.Background(), Identity{}, func(h repohandle.Handle, gctx *GitContext) (any, error) {
		return nil, nil
	}, true, &GitContext{})
	if err != nil {
		t.Fatalf("WriteOp() failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(client.RepoRoot(), "README"))
	if err != nil {
		t.Fatalf("read README: %v", err)
	}
	if string(content) != "from peer\n" {
		t.Errorf("README after reconciliation = %q, want %q (remote wins)", content, "from peer\n")
	}
}

func TestReconcile_NeverDeletesMaster(t *testing.T) {
	remote := initBareRemote(t)
	client := initClient(t, remote)
	s := newTestStore(t, client)

	_, err := s.WriteOp(context.Background(), Identity{}, func(h repohandle.Handle, gctx *GitContext) (any, error) {
		return nil, nil
	}, true, &GitContext{})
	if err != nil {
		t.Fatalf("WriteOp() failed: %v", err)
	}

	if !client.BranchExists("master") {
		t.Error("reconciliation must never delete master")
	}
}
