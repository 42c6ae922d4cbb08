// Package repohandle owns the on-disk working copy and its .git directory
// and exposes the atomic repository primitives the rest of the store is
// built on: checkout, add, commit, push, fetch, branch-list, branch-delete,
// branch-create, stash-create, clean, merge, status and rm.
//
// This package deliberately does not know about versions, profiles or
// configuration files — it is the external collaborator the core depends
// on (see Handle), not part of the consistency engine itself. Exactly one
// implementation is provided, backed by the git CLI, matching how a real
// deployment would use the system git binary rather than re-implement
// plumbing in Go.
//
// # Usage
//
//	h, err := repohandle.Open(workdir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := h.Checkout(ctx, "1.0", false); err != nil {
//	    log.Fatal(err)
//	}
package repohandle
