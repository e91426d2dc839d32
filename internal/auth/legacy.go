package auth

import (
	"bufio"
	"os"
	"strings"
)

// importLegacyFile reads the legacy line-oriented session file — one
// session per line, five space-separated fields: email, client_token,
// username, uuid, access_token — imports each as a Yggdrasil session, and
// deletes the file. Grounded in spec ยง6's legacy auth file format and
// original_source/portablemc.py's one-shot import-then-delete behavior.
func (db *AuthDatabase) importLegacyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 5 {
			continue
		}
		email, clientToken, username, uuidHex, accessToken := fields[0], fields[1], fields[2], fields[3], fields[4]
		db.yggdrasil[email] = &YggdrasilSession{
			AccessTokenVal: accessToken,
			UsernameVal:    username,
			UUIDVal:        uuidHex,
			ClientIDVal:    clientToken,
		}
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return err
	}
	f.Close()

	return os.Remove(path)
}
