package fabricgitstore

import (
	"context"
	"fmt"

	"github.com/fusesource/fabric-gitstore/internal/attrstore"
	"github.com/fusesource/fabric-gitstore/internal/gitstore"
)

// Attribute-store helpers. These bypass the Operation Serializer's mutex
// entirely: the attribute store is independently consistent and is
// treated by callers as eventually consistent. A failed call is wrapped
// in ErrCoordination and surfaced.

// GetVersionAttributes returns the version attribute map held at
// /fabric/configs/versions/<v>. The value is opaque to this store; the
// Attribute Store collaborator owns its shape.
func (ds *DataStore) GetVersionAttributes(ctx context.Context, v string) (string, error) {
	return ds.attrGet(ctx, fmt.Sprintf(attrstore.VersionAttributesPathFormat, v))
}

// SetVersionAttributes writes the version attribute map for v.
func (ds *DataStore) SetVersionAttributes(ctx context.Context, v, value string) error {
	return ds.attrSet(ctx, fmt.Sprintf(attrstore.VersionAttributesPathFormat, v), value)
}

// GetEnsembleContainers returns the comma-separated container names for
// the active ensemble.
func (ds *DataStore) GetEnsembleContainers(ctx context.Context) (string, error) {
	clusterID, err := ds.attrGet(ctx, attrstore.EnsemblesPath)
	if err != nil {
		return "", err
	}
	if clusterID == "" {
		return "", nil
	}
	return ds.attrGet(ctx, fmt.Sprintf(attrstore.EnsembleContainersPathFormat, clusterID))
}

// GetRequirements returns the fabric-wide requirements JSON blob.
func (ds *DataStore) GetRequirements(ctx context.Context) (string, error) {
	return ds.attrGet(ctx, attrstore.RequirementsJSONPath)
}

// SetRequirements writes the fabric-wide requirements JSON blob.
func (ds *DataStore) SetRequirements(ctx context.Context, json string) error {
	return ds.attrSet(ctx, attrstore.RequirementsJSONPath, json)
}

// GetDefaultJVMOptions returns the default JVM options string, which may
// be "". It is a plain attribute-store read: any failed Get, including one
// for a path never set upstream when the store reports that as an error,
// surfaces as ErrCoordination; no default value is substituted.
func (ds *DataStore) GetDefaultJVMOptions(ctx context.Context) (string, error) {
	return ds.attrGet(ctx, attrstore.JVMOptionsPath)
}

func (ds *DataStore) attrGet(ctx context.Context, path string) (string, error) {
	if ds.attrs == nil {
		return "", gitstore.ErrCoordination
	}
	v, err := ds.attrs.Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", gitstore.ErrCoordination, path, err)
	}
	return v, nil
}

func (ds *DataStore) attrSet(ctx context.Context, path, value string) error {
	if ds.attrs == nil {
		return gitstore.ErrCoordination
	}
	if err := ds.attrs.Set(ctx, path, value); err != nil {
		return fmt.Errorf("%w: set %s: %v", gitstore.ErrCoordination, path, err)
	}
	return nil
}
