package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultMSAClientID is the Microsoft Entra application id used when no
// embedder-supplied client id is configured. Kept from the teacher's own
// default registered application.
const DefaultMSAClientID = "c36a9fb6-4f2a-41ff-90bd-ae7cc92031eb"

// Preferences is the small persisted ambient configuration an embedder may
// want to override: default JVM arguments and the OAuth client id. It is
// not part of the spec's data model; it is the ambient config layer the
// teacher's own config.Config carried alongside its path-resolution duties.
type Preferences struct {
	JVMArgs     []string `json:"jvmArgs"`
	MSAClientID string   `json:"msaClientID"`
}

// DefaultPreferences mirrors the teacher's DefaultConfig JVM defaults.
func DefaultPreferences() *Preferences {
	return &Preferences{
		JVMArgs:     []string{"-Xmx2G", "-Xms512M"},
		MSAClientID: DefaultMSAClientID,
	}
}

func preferencesPath(c *Context) string {
	return filepath.Join(c.WorkDir, "preferences.json")
}

// LoadPreferences reads preferences.json under the context's work dir,
// falling back to defaults if absent.
func LoadPreferences(c *Context) (*Preferences, error) {
	p := DefaultPreferences()
	data, err := os.ReadFile(preferencesPath(c))
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if p.MSAClientID == "" {
		p.MSAClientID = DefaultMSAClientID
	}
	return p, nil
}

// Save writes preferences.json under the context's work dir.
func (p *Preferences) Save(c *Context) error {
	if err := os.MkdirAll(c.WorkDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(preferencesPath(c), data, 0o644)
}
