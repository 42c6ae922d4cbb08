package fabricgitstore_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	fabricgitstore "github.com/fusesource/fabric-gitstore"
	"github.com/fusesource/fabric-gitstore/internal/config"
)

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v in %s failed: %v\n%s", args, dir, err, out)
	}
}

func activate(t *testing.T) *fabricgitstore.DataStore {
	t.Helper()
	dir := t.TempDir()
	run(t, dir, "init", "-q")
	run(t, dir, "config", "user.name", "tester")
	run(t, dir, "config", "user.email", "tester@example.com")
	run(t, dir, "commit", "-q", "--allow-empty", "-m", "seed")

	settings := (&config.Settings{
		DataStoreType: "git",
		Hierarchical:  true,
		GitPullPeriod: time.Hour,
	}).Override(config.Settings{WorkDir: dir})

	ds, err := fabricgitstore.Activate(settings, nil, nil)
	if err != nil {
		t.Fatalf("Activate() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := ds.Deactivate(); err != nil {
			t.Errorf("Deactivate() failed: %v", err)
		}
	})
	return ds
}

func TestCreateVersion_ThenHasVersion(t *testing.T) {
	ds := activate(t)
	ctx := context.Background()

	if err := ds.CreateVersion(ctx, "1.1"); err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}

	has, err := ds.HasVersion(ctx, "1.1")
	if err != nil {
		t.Fatalf("HasVersion() failed: %v", err)
	}
	if !has {
		t.Error("HasVersion(1.1) = false after CreateVersion(1.1)")
	}

	versions, err := ds.ListVersions(ctx)
	if err != nil {
		t.Fatalf("ListVersions() failed: %v", err)
	}
	found := false
	for _, v := range versions {
		if v == "1.1" {
			found = true
		}
	}
	if !found {
		t.Errorf("ListVersions() = %v, want it to contain 1.1", versions)
	}
}

func TestDeleteVersion_Unsupported(t *testing.T) {
	ds := activate(t)
	if err := ds.DeleteVersion(context.Background(), "1.1"); err == nil {
		t.Error("DeleteVersion() succeeded, want ErrUnsupported")
	}
}

func TestSetFileConfiguration_RoundTrip(t *testing.T) {
	ds := activate(t)
	ctx := context.Background()

	if err := ds.CreateVersion(ctx, "1.0"); err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}
	if err := ds.SetFileConfiguration(ctx, "1.0", "default", "log4j.properties", []byte("x=1")); err != nil {
		t.Fatalf("SetFileConfiguration() failed: %v", err)
	}

	got, err := ds.GetFileConfiguration(ctx, "1.0", "default", "log4j.properties")
	if err != nil {
		t.Fatalf("GetFileConfiguration() failed: %v", err)
	}
	if string(got) != "x=1" {
		t.Errorf("GetFileConfiguration() = %q, want %q", got, "x=1")
	}
}

func TestSetFileConfigurations_ReplacesFileSet(t *testing.T) {
	ds := activate(t)
	ctx := context.Background()

	if err := ds.CreateVersion(ctx, "1.0"); err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}

	err := ds.SetFileConfigurations(ctx, "1.0", "p", map[string][]byte{
		"a.properties": []byte("A"),
		"b.properties": []byte("B"),
	})
	if err != nil {
		t.Fatalf("SetFileConfigurations() failed: %v", err)
	}

	err = ds.SetFileConfigurations(ctx, "1.0", "p", map[string][]byte{
		"a.properties": []byte("A2"),
	})
	if err != nil {
		t.Fatalf("SetFileConfigurations() failed: %v", err)
	}

	files, err := ds.GetFileConfigurations(ctx, "1.0", "p")
	if err != nil {
		t.Fatalf("GetFileConfigurations() failed: %v", err)
	}
	if len(files) != 1 || string(files["a.properties"]) != "A2" {
		t.Errorf("GetFileConfigurations() = %v, want only a.properties=A2", files)
	}
}

func TestSetConfiguration_RoundTrip(t *testing.T) {
	ds := activate(t)
	ctx := context.Background()

	if err := ds.CreateVersion(ctx, "1.0"); err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}

	want := map[string]string{"key.one": "1", "key.two": "2"}
	if err := ds.SetConfiguration(ctx, "1.0", "default", "io.fabric8.test", want); err != nil {
		t.Fatalf("SetConfiguration() failed: %v", err)
	}

	got, err := ds.GetConfiguration(ctx, "1.0", "default", "io.fabric8.test")
	if err != nil {
		t.Fatalf("GetConfiguration() failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("GetConfiguration() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("GetConfiguration()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestSetConfiguration_EmptyMapDeletesFile(t *testing.T) {
	ds := activate(t)
	ctx := context.Background()

	if err := ds.CreateVersion(ctx, "1.0"); err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}
	if err := ds.SetConfiguration(ctx, "1.0", "default", "io.fabric8.test", map[string]string{"a": "1"}); err != nil {
		t.Fatalf("SetConfiguration() failed: %v", err)
	}
	if err := ds.SetConfiguration(ctx, "1.0", "default", "io.fabric8.test", nil); err != nil {
		t.Fatalf("SetConfiguration(nil) failed: %v", err)
	}

	got, err := ds.GetConfiguration(ctx, "1.0", "default", "io.fabric8.test")
	if err != nil {
		t.Fatalf("GetConfiguration() failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetConfiguration() after delete = %v, want nil", got)
	}
}

func TestCreateProfile_Hierarchical(t *testing.T) {
	ds := activate(t)
	ctx := context.Background()

	if err := ds.CreateVersion(ctx, "1.0"); err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}
	if err := ds.CreateProfile(ctx, "1.0", "foo-bar"); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}

	profiles, err := ds.ListProfiles(ctx, "1.0")
	if err != nil {
		t.Fatalf("ListProfiles() failed: %v", err)
	}
	found := false
	for _, p := range profiles {
		if p == "foo-bar" {
			found = true
		}
	}
	if !found {
		t.Errorf("ListProfiles() = %v, want it to contain foo-bar", profiles)
	}
}

func TestRevertTo(t *testing.T) {
	ds := activate(t)
	ctx := context.Background()

	if err := ds.CreateVersion(ctx, "1.0"); err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}
	if err := ds.SetFileConfiguration(ctx, "1.0", "default", "a.properties", []byte("v1")); err != nil {
		t.Fatalf("SetFileConfiguration(v1) failed: %v", err)
	}
	if err := ds.SetFileConfiguration(ctx, "1.0", "default", "a.properties", []byte("v2")); err != nil {
		t.Fatalf("SetFileConfiguration(v2) failed: %v", err)
	}

	if err := ds.RevertTo(ctx, "1.0", "default", "a.properties", "HEAD~1"); err != nil {
		t.Fatalf("RevertTo() failed: %v", err)
	}

	got, err := ds.GetFileConfiguration(ctx, "1.0", "default", "a.properties")
	if err != nil {
		t.Fatalf("GetFileConfiguration() failed: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("GetFileConfiguration() after RevertTo(HEAD~1) = %q, want %q", got, "v1")
	}
}

func TestGetFileHistory(t *testing.T) {
	ds := activate(t)
	ctx := context.Background()

	if err := ds.CreateVersion(ctx, "1.0"); err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}
	if err := ds.SetFileConfiguration(ctx, "1.0", "default", "a.properties", []byte("v1")); err != nil {
		t.Fatalf("SetFileConfiguration() failed: %v", err)
	}

	commits, err := ds.GetFileHistory(ctx, "1.0", "default", "a.properties", 0)
	if err != nil {
		t.Fatalf("GetFileHistory() failed: %v", err)
	}
	if len(commits) != 1 {
		t.Fatalf("GetFileHistory() = %d commits, want 1", len(commits))
	}
	if commits[0].Subject != "Updated a.properties for profile default" {
		t.Errorf("GetFileHistory()[0].Subject = %q", commits[0].Subject)
	}
}

func TestGetVersionAttributes_NoCollaborator(t *testing.T) {
	ds := activate(t)
	if _, err := ds.GetVersionAttributes(context.Background(), "1.0"); err == nil {
		t.Error("GetVersionAttributes() with no attribute store configured, want ErrCoordination")
	}
}

func TestRenameProfile(t *testing.T) {
	ds := activate(t)
	ctx := context.Background()

	if err := ds.CreateVersion(ctx, "1.0"); err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}
	if err := ds.CreateProfile(ctx, "1.0", "old"); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	if err := ds.RenameProfile(ctx, "1.0", "old", "new"); err != nil {
		t.Fatalf("RenameProfile() failed: %v", err)
	}

	profiles, err := ds.ListProfiles(ctx, "1.0")
	if err != nil {
		t.Fatalf("ListProfiles() failed: %v", err)
	}
	var hasOld, hasNew bool
	for _, p := range profiles {
		if p == "old" {
			hasOld = true
		}
		if p == "new" {
			hasNew = true
		}
	}
	if hasOld {
		t.Error("ListProfiles() still contains renamed-away id old")
	}
	if !hasNew {
		t.Error("ListProfiles() missing renamed-to id new")
	}
}
