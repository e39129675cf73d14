package plan

import (
	"encoding/hex"

	json "github.com/goccy/go-json"
	"golang.org/x/crypto/blake2b"

	"github.com/kbukum/recq/errors"
)

// Fingerprint returns a stable digest of the plan's content. Plans that
// differ only in description hash alike.
func (p *Plan) Fingerprint() (string, error) {
	c := *p
	c.Description = ""
	b, err := json.Marshal(c)
	if err != nil {
		return "", errors.Internal(err)
	}
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:16]), nil
}
