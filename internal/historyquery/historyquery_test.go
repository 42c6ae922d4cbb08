package historyquery

import (
	"testing"
	"time"

	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

func TestResolveRef(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	log := []repohandle.CommitInfo{
		{Hash: "recent", Date: "2024-03-09T12:00:00Z", Subject: "recent"},
		{Hash: "older", Date: "2024-03-05T12:00:00Z", Subject: "older"},
		{Hash: "oldest", Date: "2024-02-01T12:00:00Z", Subject: "oldest"},
	}

	r := NewResolver()
	hash, err := r.ResolveRef("3 days ago", now, log)
	if err != nil {
		t.Fatalf("ResolveRef() failed: %v", err)
	}
	if hash != "older" {
		t.Errorf("ResolveRef(%q) = %q, want %q", "3 days ago", hash, "older")
	}
}

func TestResolveRef_Unrecognized(t *testing.T) {
	r := NewResolver()
	if _, err := r.ResolveRef("not a time expression at all", time.Now(), nil); err == nil {
		t.Error("ResolveRef() on an unrecognized expression should fail")
	}
}
