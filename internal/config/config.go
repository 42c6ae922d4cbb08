// Package config loads the recognized datastore settings through a
// layered viper configuration: built-in defaults, an optional YAML config
// file, FABRIC_GITSTORE_-prefixed environment variables, then explicit
// overrides from the embedding process, in that order of increasing
// precedence. Unrecognized keys are dropped at this boundary: Settings only
// exposes the fields below, so anything else in a loaded file is silently
// ignored rather than rejected.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Settings holds the recognized configuration keys.
type Settings struct {
	// GitRemoteURL is the remote repository URL. Empty leaves the working
	// copy's existing remote configuration untouched; reconciliation and
	// push are skipped only when the working copy has no origin remote.
	GitRemoteURL string

	// GitRemoteUser and GitRemotePassword are static credentials. Their
	// joint presence selects "external" credential mode.
	GitRemoteUser     string
	GitRemotePassword string

	// GitPullPeriod is the sync loop's fixed delay.
	GitPullPeriod time.Duration

	// DataStoreType identifies the plugin; carried through for parity
	// with the external configuration surface, not interpreted here.
	DataStoreType string

	// Hierarchical enables "-"-to-"/" profile directory translation.
	Hierarchical bool

	// WorkDir is the on-disk working copy path.
	WorkDir string
}

const envPrefix = "FABRIC_GITSTORE"

func defaults() *viper.Viper {
	v := viper.New()
	v.SetDefault("gitPullPeriod", 1000*time.Millisecond)
	v.SetDefault("dataStoreType", "git")
	v.SetDefault("hierarchical", true)
	return v
}

// Load builds Settings from defaults, an optional config file at
// configPath (YAML; empty path skips this layer), and environment
// variables under the FABRIC_GITSTORE_ prefix (e.g.
// FABRIC_GITSTORE_GITREMOTEURL).
func Load(configPath string) (*Settings, error) {
	v := defaults()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return settingsFrom(v), nil
}

// Override returns a copy of s with non-zero fields from o applied on top,
// modeling the embedding process's explicit-override layer.
func (s *Settings) Override(o Settings) *Settings {
	out := *s
	if o.GitRemoteURL != "" {
		out.GitRemoteURL = o.GitRemoteURL
	}
	if o.GitRemoteUser != "" {
		out.GitRemoteUser = o.GitRemoteUser
	}
	if o.GitRemotePassword != "" {
		out.GitRemotePassword = o.GitRemotePassword
	}
	if o.GitPullPeriod != 0 {
		out.GitPullPeriod = o.GitPullPeriod
	}
	if o.DataStoreType != "" {
		out.DataStoreType = o.DataStoreType
	}
	if o.Hierarchical {
		out.Hierarchical = true
	}
	if o.WorkDir != "" {
		out.WorkDir = o.WorkDir
	}
	return &out
}

// HasExternalCredentials reports whether both static credential fields are
// set, selecting "external" credential mode over an anonymous one.
func (s *Settings) HasExternalCredentials() bool {
	return s.GitRemoteUser != "" && s.GitRemotePassword != ""
}

func settingsFrom(v *viper.Viper) *Settings {
	return &Settings{
		GitRemoteURL:      v.GetString("gitRemoteUrl"),
		GitRemoteUser:     v.GetString("gitRemoteUser"),
		GitRemotePassword: v.GetString("gitRemotePassword"),
		GitPullPeriod:     v.GetDuration("gitPullPeriod"),
		DataStoreType:     v.GetString("dataStoreType"),
		Hierarchical:      v.GetBool("hierarchical"),
		WorkDir:           v.GetString("workDir"),
	}
}
