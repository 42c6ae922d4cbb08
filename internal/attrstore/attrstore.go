// Package attrstore is the Attribute Store collaborator: a hierarchical
// key-value coordination service used for a narrow class of globally
// visible metadata that must not require a git round-trip. It is accessed
// without the Operation Serializer's mutex and is treated by callers as
// eventually consistent.
package attrstore

import "context"

// Well-known paths consumed by the facade's attribute-store helpers.
const (
	// VersionAttributesPathFormat is "/fabric/configs/versions/<version_id>".
	VersionAttributesPathFormat = "/fabric/configs/versions/%s"

	// EnsemblesPath holds the active cluster id.
	EnsemblesPath = "/fabric/configs/ensembles"

	// EnsembleContainersPathFormat is "/fabric/configs/ensemble/<id>", a
	// comma-separated list of container names.
	EnsembleContainersPathFormat = "/fabric/configs/ensemble/%s"

	// RequirementsJSONPath holds the fabric-wide requirements JSON blob.
	RequirementsJSONPath = "/fabric/configs/requirements"

	// JVMOptionsPath holds the default JVM options string. May be absent
	// or empty; callers must tolerate a disconnected coordinator.
	JVMOptionsPath = "/fabric/configs/jvm-options"
)

// Store is the external coordination-service collaborator. Derivation of
// its connection and credentials is out of scope here; only the read/write
// surface the facade needs is declared.
type Store interface {
	Get(ctx context.Context, path string) (string, error)
	Set(ctx context.Context, path, value string) error
}
