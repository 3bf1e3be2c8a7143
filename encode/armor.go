package encode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// ErrNotArmored is returned when armor checking is on and the message is not
// an ASCII-armored OpenPGP message.
var ErrNotArmored = errors.New("message is not an armored PGP message")

// messageBlockType is the armor type of an OpenPGP message.
const messageBlockType = "PGP MESSAGE"

// checkArmor confirms that s is an armored PGP MESSAGE block.
func checkArmor(s string) error {
	block, err := armor.Decode(strings.NewReader(s))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotArmored, err)
	}

	if block.Type != messageBlockType {
		return fmt.Errorf("%w: found %q block", ErrNotArmored, block.Type)
	}

	return nil
}
