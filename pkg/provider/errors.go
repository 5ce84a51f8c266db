package provider

import "errors"

var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	ErrNetworkMismatch = errors.New("network id mismatch")
	ErrTimeoutBlocks   = errors.New("transaction not mined within timeout blocks")
	ErrNoAccounts      = errors.New("no accounts available")
	ErrAccountRange    = errors.New("account range out of bounds")
	ErrUnknownAccount  = errors.New("account has no local key")
)
