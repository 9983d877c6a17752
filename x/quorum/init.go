package quorum

import (
	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
)

// Initializer fulfils the Initializer interface to load the signer registry
// from the genesis file.
type Initializer struct{}

var _ wardroom.Initializer = (*Initializer)(nil)

// FromGenesis parses the initial signer registry from genesis and saves it
// in the database.
func (*Initializer) FromGenesis(opts wardroom.Options, kv wardroom.KVStore) error {
	var conf struct {
		Signers   []wardroom.Address `json:"signers"`
		Threshold uint32             `json:"threshold"`
	}
	if err := opts.ReadOptions("quorum", &conf); err != nil {
		return err
	}
	set := SignerSet{
		Signers:   conf.Signers,
		Threshold: conf.Threshold,
	}
	bucket := NewSignerBucket()
	if err := bucket.SaveSignerSet(kv, &set); err != nil {
		return errors.Wrap(err, "cannot save signer set")
	}
	return nil
}
