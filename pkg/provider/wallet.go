package provider

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/cosmos/go-bip39"
	hdwallet "github.com/ethereum-optimism/go-ethereum-hdwallet"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"

	"deploycfg/pkg/core"
)

// DerivationPath returns m/44'/60'/0'/0/index. Callers keep index at or
// below core.MaxAddressIndex, larger values land in the hardened range.
func DerivationPath(index uint32) accounts.DerivationPath {
	path := make(accounts.DerivationPath, len(accounts.DefaultBaseDerivationPath))
	copy(path, accounts.DefaultBaseDerivationPath)
	path[len(path)-1] = index
	return path
}

// DeriveKeys derives count consecutive keys starting at index from a BIP-39 mnemonic
func DeriveKeys(mnemonic string, index, count uint32) ([]*ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	if count == 0 {
		return nil, ErrNoAccounts
	}
	if err := (core.Wallet{AddressIndex: index, NumAddresses: count}).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccountRange, err)
	}

	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	keys := make([]*ecdsa.PrivateKey, 0, count)
	for i := index; i < index+count; i++ {
		path := DerivationPath(i)
		account, err := wallet.Derive(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s: %w", path, err)
		}
		key, err := wallet.PrivateKey(account)
		if err != nil {
			return nil, fmt.Errorf("failed to load key for %s: %w", path, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// DeriveAddresses is DeriveKeys without exposing the keys
func DeriveAddresses(mnemonic string, index, count uint32) ([]common.Address, error) {
	keys, err := DeriveKeys(mnemonic, index, count)
	if err != nil {
		return nil, err
	}
	addrs := make([]common.Address, len(keys))
	for i, key := range keys {
		addrs[i] = addressOf(key)
	}
	return addrs, nil
}
