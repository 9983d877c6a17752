package token

import (
	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/orm"
)

// Initializer fulfils the Initializer interface to load the token metadata
// and initial balances from the genesis file.
type Initializer struct{}

var _ wardroom.Initializer = (*Initializer)(nil)

// FromGenesis parses the token configuration from genesis and saves it in
// the database.
func (*Initializer) FromGenesis(opts wardroom.Options, kv wardroom.KVStore) error {
	var conf struct {
		Name     string `json:"name"`
		Symbol   string `json:"symbol"`
		Accounts []struct {
			Address wardroom.Address `json:"address"`
			Balance int64            `json:"balance"`
		} `json:"accounts"`
	}
	if err := opts.ReadOptions("token", &conf); err != nil {
		return err
	}
	info := TokenInfo{
		Name:             conf.Name,
		Symbol:           conf.Symbol,
		TransfersEnabled: true,
	}
	infoBucket := orm.NewBucket(InfoBucketName)
	accounts := orm.NewBucket(AccountBucketName)
	seen := make(map[string]struct{}, len(conf.Accounts))
	for i, a := range conf.Accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		if _, ok := seen[string(a.Address)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "account #%d: %s", i, a.Address)
		}
		seen[string(a.Address)] = struct{}{}
		if a.Balance < 0 {
			return errors.Wrapf(errors.ErrAmount, "account #%d", i)
		}
		if err := accounts.Save(kv, a.Address, &Account{Balance: a.Balance}); err != nil {
			return errors.Wrapf(err, "cannot save account #%d", i)
		}
		info.TotalSupply += a.Balance
	}
	if err := infoBucket.Save(kv, infoKey, &info); err != nil {
		return errors.Wrap(err, "cannot save token info")
	}
	return nil
}
