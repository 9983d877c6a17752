package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenInfoValidate(t *testing.T) {
	cases := map[string]struct {
		info    TokenInfo
		wantErr bool
	}{
		"valid": {
			info: TokenInfo{Name: "Wardroom", Symbol: "WAR"},
		},
		"empty name": {
			info:    TokenInfo{Symbol: "WAR"},
			wantErr: true,
		},
		"name too long": {
			info:    TokenInfo{Name: "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", Symbol: "WAR"},
			wantErr: true,
		},
		"symbol too short": {
			info:    TokenInfo{Name: "Wardroom", Symbol: "W"},
			wantErr: true,
		},
		"symbol lower case": {
			info:    TokenInfo{Name: "Wardroom", Symbol: "war"},
			wantErr: true,
		},
		"negative supply": {
			info:    TokenInfo{Name: "Wardroom", Symbol: "WAR", TotalSupply: -1},
			wantErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.info.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenInfoSerialization(t *testing.T) {
	info := TokenInfo{
		Name:             "Wardroom",
		Symbol:           "WAR",
		TransfersEnabled: true,
		TotalSupply:      123456,
	}
	raw, err := info.Marshal()
	require.NoError(t, err)

	var loaded TokenInfo
	require.NoError(t, loaded.Unmarshal(raw))
	assert.Equal(t, info, loaded)
}

func TestAccountValidate(t *testing.T) {
	assert.NoError(t, (&Account{Balance: 0}).Validate())
	assert.NoError(t, (&Account{Balance: 100}).Validate())
	assert.Error(t, (&Account{Balance: -1}).Validate())
}
