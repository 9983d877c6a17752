package token

import (
	"regexp"

	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/orm"
)

const (
	// InfoBucketName is where we store the token metadata.
	InfoBucketName = "tokeninfo"
	// AccountBucketName is where we store the balances.
	AccountBucketName = "acct"
)

// isTokenName matches display names the ledger accepts.
var isTokenName = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{1,32}$`).MatchString

// isTokenSymbol matches ticker symbols, 2 to 6 upper case letters.
var isTokenSymbol = regexp.MustCompile(`^[A-Z]{2,6}$`).MatchString

// validateNameSymbol checks the metadata format. It backs both the model
// validation and the upfront check exposed to the quorum engine.
func validateNameSymbol(name, symbol string) error {
	if !isTokenName(name) {
		return errors.Wrapf(errors.ErrInput, "invalid token name %q", name)
	}
	if !isTokenSymbol(symbol) {
		return errors.Wrapf(errors.ErrInput, "invalid token symbol %q", symbol)
	}
	return nil
}

var _ orm.Model = (*TokenInfo)(nil)

func (t *TokenInfo) Validate() error {
	if err := validateNameSymbol(t.Name, t.Symbol); err != nil {
		return err
	}
	if t.TotalSupply < 0 {
		return errors.Wrap(errors.ErrAmount, "negative total supply")
	}
	return nil
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	if a.Balance < 0 {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}
