package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AuthDatabase is the persisted session store described in spec ยง4.6/ยง6:
// a stable client_id plus a map of account identifier to session, one map
// per variant. Grounded in original_source/portablemc.py's AuthDatabase
// class; the teacher carries no equivalent (its core.AccountManager is a
// flat single-variant list without the fix_data migration contract).
type AuthDatabase struct {
	path      string
	clientID  string
	yggdrasil map[string]*YggdrasilSession
	microsoft map[string]*MicrosoftSession
}

// LoadDatabase reads the database at path. A missing file is not an error:
// the legacy line-oriented file at legacyPath (if present) is imported and
// then deleted, and a fresh database is returned otherwise. A malformed
// file is treated as absent, matching the spec's "parse failure ⇒ treat as
// absent" rule for on-disk JSON.
func LoadDatabase(path, legacyPath string) (*AuthDatabase, error) {
	db := &AuthDatabase{
		path:      path,
		yggdrasil: make(map[string]*YggdrasilSession),
		microsoft: make(map[string]*MicrosoftSession),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if legacyPath != "" {
			if ierr := db.importLegacyFile(legacyPath); ierr != nil && !errors.Is(ierr, os.ErrNotExist) {
				return nil, ierr
			}
		}
		db.clientID = uuid.NewString()
		return db, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading auth database: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		db.clientID = uuid.NewString()
		return db, nil
	}

	if cid, ok := raw["client_id"].(string); ok {
		db.clientID = cid
	}
	if len(db.clientID) != 36 {
		db.clientID = uuid.NewString()
	}

	if sessions := rawSessions(raw, "yggdrasil"); sessions != nil {
		for account, v := range sessions {
			sm, ok := v.(map[string]any)
			if !ok {
				continue
			}
			fixYggdrasilSession(sm)
			var s YggdrasilSession
			if b, merr := json.Marshal(sm); merr == nil {
				_ = json.Unmarshal(b, &s)
			}
			db.yggdrasil[account] = &s
		}
	}

	if sessions := rawSessions(raw, "microsoft"); sessions != nil {
		for account, v := range sessions {
			sm, ok := v.(map[string]any)
			if !ok {
				continue
			}
			fixMicrosoftSession(sm)
			var s MicrosoftSession
			if b, merr := json.Marshal(sm); merr == nil {
				_ = json.Unmarshal(b, &s)
			}
			db.microsoft[account] = &s
		}
	}

	return db, nil
}

func rawSessions(raw map[string]any, kind string) map[string]any {
	kindDoc, ok := raw[kind].(map[string]any)
	if !ok {
		return nil
	}
	sessions, ok := kindDoc["sessions"].(map[string]any)
	if !ok {
		return nil
	}
	return sessions
}

// fixYggdrasilSession renames the legacy client_token key to client_id if
// client_id is not already present.
func fixYggdrasilSession(m map[string]any) {
	if v, ok := m["client_token"]; ok {
		if _, hasNew := m["client_id"]; !hasNew {
			m["client_id"] = v
		}
		delete(m, "client_token")
	}
}

// fixMicrosoftSession materializes app_id from a prior overloaded client_id
// field, mints a fresh client_id if missing or malformed, and backfills
// xuid from the access token's JWT payload if absent.
func fixMicrosoftSession(m map[string]any) {
	if v, ok := m["client_id"].(string); ok && v != "" {
		if _, hasAppID := m["app_id"]; !hasAppID {
			m["app_id"] = v
		}
	}
	if cid, ok := m["client_id"].(string); !ok || len(cid) != 36 {
		m["client_id"] = uuid.NewString()
	}
	if xuid, ok := m["xuid"].(string); !ok || xuid == "" {
		if at, ok := m["access_token"].(string); ok && at != "" {
			if x, err := extractXUID(at); err == nil {
				m["xuid"] = x
			}
		}
	}
}

// GetClientID returns the database's stable client_id, minting one if
// missing or malformed.
func (db *AuthDatabase) GetClientID() string {
	if len(db.clientID) != 36 {
		db.clientID = uuid.NewString()
	}
	return db.clientID
}

// GetYggdrasil returns the Yggdrasil session for account, if any.
func (db *AuthDatabase) GetYggdrasil(account string) (*YggdrasilSession, bool) {
	s, ok := db.yggdrasil[account]
	return s, ok
}

// GetMicrosoft returns the Microsoft session for account, if any.
func (db *AuthDatabase) GetMicrosoft(account string) (*MicrosoftSession, bool) {
	s, ok := db.microsoft[account]
	return s, ok
}

// Put stores or replaces a session for the given kind and account.
func (db *AuthDatabase) Put(kind Kind, account string, session Session) {
	switch kind {
	case KindYggdrasil:
		if s, ok := session.(*YggdrasilSession); ok {
			db.yggdrasil[account] = s
		}
	case KindMicrosoft:
		if s, ok := session.(*MicrosoftSession); ok {
			db.microsoft[account] = s
		}
	}
}

// Remove deletes a session for the given kind and account.
func (db *AuthDatabase) Remove(kind Kind, account string) {
	switch kind {
	case KindYggdrasil:
		delete(db.yggdrasil, account)
	case KindMicrosoft:
		delete(db.microsoft, account)
	}
}

// Save persists the database to its load path.
func (db *AuthDatabase) Save() error {
	yggSessions := make(map[string]*YggdrasilSession, len(db.yggdrasil))
	for k, v := range db.yggdrasil {
		yggSessions[k] = v
	}
	microSessions := make(map[string]*MicrosoftSession, len(db.microsoft))
	for k, v := range db.microsoft {
		microSessions[k] = v
	}

	doc := map[string]any{
		"client_id": db.GetClientID(),
		"yggdrasil": map[string]any{"sessions": yggSessions},
		"microsoft": map[string]any{"sessions": microSessions},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding auth database: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(db.path), 0o755); err != nil {
		return fmt.Errorf("creating auth database directory: %w", err)
	}
	return os.WriteFile(db.path, data, 0o600)
}
