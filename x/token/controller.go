package token

import (
	"math"

	"go.uber.org/zap"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/orm"
)

// infoKey is the storage key of the singleton metadata record.
var infoKey = []byte("current")

// Controller implements the fungible token ledger. All amounts are int64
// base units, every arithmetic step is overflow checked.
type Controller struct {
	info     orm.Bucket
	accounts orm.Bucket
	log      *zap.Logger
}

// NewController returns a ledger controller. A nil logger discards the log
// lines.
func NewController(log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		info:     orm.NewBucket(InfoBucketName),
		accounts: orm.NewBucket(AccountBucketName),
		log:      log,
	}
}

// Info returns the current token metadata.
func (c *Controller) Info(db wardroom.ReadOnlyKVStore) (*TokenInfo, error) {
	var info TokenInfo
	if err := c.info.One(db, infoKey, &info); err != nil {
		return nil, errors.Wrap(err, "token info")
	}
	return &info, nil
}

// BalanceOf returns the balance of the account. An account that never
// received tokens has a zero balance.
func (c *Controller) BalanceOf(db wardroom.ReadOnlyKVStore, account wardroom.Address) (int64, error) {
	if err := account.Validate(); err != nil {
		return 0, errors.Wrap(err, "account")
	}
	var acct Account
	switch err := c.accounts.One(db, account, &acct); {
	case err == nil:
		return acct.Balance, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// TotalSupply returns the sum of all balances.
func (c *Controller) TotalSupply(db wardroom.ReadOnlyKVStore) (int64, error) {
	info, err := c.Info(db)
	if err != nil {
		return 0, err
	}
	return info.TotalSupply, nil
}

// Mint creates new tokens on the recipient account.
func (c *Controller) Mint(db wardroom.KVStore, recipient wardroom.Address, amount int64) error {
	if err := recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	info, err := c.Info(db)
	if err != nil {
		return err
	}
	if info.TotalSupply > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "total supply")
	}
	balance, err := c.BalanceOf(db, recipient)
	if err != nil {
		return err
	}
	if balance > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	if err := c.accounts.Save(db, recipient, &Account{Balance: balance + amount}); err != nil {
		return errors.Wrap(err, "save account")
	}
	info.TotalSupply += amount
	if err := c.info.Save(db, infoKey, info); err != nil {
		return errors.Wrap(err, "save info")
	}
	c.log.Info("minted",
		zap.Stringer("recipient", recipient),
		zap.Int64("amount", amount),
		zap.Int64("total_supply", info.TotalSupply))
	return nil
}

// Burn destroys tokens held by the account. It fails if the balance is
// lower than the amount.
func (c *Controller) Burn(db wardroom.KVStore, account wardroom.Address, amount int64) error {
	if err := account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	balance, err := c.BalanceOf(db, account)
	if err != nil {
		return err
	}
	if balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, burn %d", balance, amount)
	}
	if err := c.accounts.Save(db, account, &Account{Balance: balance - amount}); err != nil {
		return errors.Wrap(err, "save account")
	}
	info, err := c.Info(db)
	if err != nil {
		return err
	}
	info.TotalSupply -= amount
	if err := c.info.Save(db, infoKey, info); err != nil {
		return errors.Wrap(err, "save info")
	}
	c.log.Info("burned",
		zap.Stringer("account", account),
		zap.Int64("amount", amount),
		zap.Int64("total_supply", info.TotalSupply))
	return nil
}

// Move transfers tokens between accounts. Transfers must be enabled.
func (c *Controller) Move(db wardroom.KVStore, src, dest wardroom.Address, amount int64) error {
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	if amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "same account")
	}
	info, err := c.Info(db)
	if err != nil {
		return err
	}
	if !info.TransfersEnabled {
		return errors.Wrap(errors.ErrState, "transfers disabled")
	}
	srcBalance, err := c.BalanceOf(db, src)
	if err != nil {
		return err
	}
	if srcBalance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, move %d", srcBalance, amount)
	}
	destBalance, err := c.BalanceOf(db, dest)
	if err != nil {
		return err
	}
	if destBalance > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	if err := c.accounts.Save(db, src, &Account{Balance: srcBalance - amount}); err != nil {
		return errors.Wrap(err, "save src")
	}
	if err := c.accounts.Save(db, dest, &Account{Balance: destBalance + amount}); err != nil {
		return errors.Wrap(err, "save dest")
	}
	return nil
}

// SetTransfersEnabled pauses or unpauses token transfers. Minting and
// burning are not affected.
func (c *Controller) SetTransfersEnabled(db wardroom.KVStore, enabled bool) error {
	info, err := c.Info(db)
	if err != nil {
		return err
	}
	info.TransfersEnabled = enabled
	if err := c.info.Save(db, infoKey, info); err != nil {
		return errors.Wrap(err, "save info")
	}
	c.log.Info("transfers toggled", zap.Bool("enabled", enabled))
	return nil
}

// ValidateNameSymbol checks the metadata format without touching the store.
// Callers can refuse a rename upfront that SetNameSymbol would never accept.
func (c *Controller) ValidateNameSymbol(name, symbol string) error {
	return validateNameSymbol(name, symbol)
}

// SetNameSymbol changes the token display name and ticker symbol.
func (c *Controller) SetNameSymbol(db wardroom.KVStore, name, symbol string) error {
	info, err := c.Info(db)
	if err != nil {
		return err
	}
	info.Name = name
	info.Symbol = symbol
	if err := c.info.Save(db, infoKey, info); err != nil {
		return errors.Wrap(err, "save info")
	}
	c.log.Info("token renamed", zap.String("name", name), zap.String("symbol", symbol))
	return nil
}
