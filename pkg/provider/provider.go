package provider

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog/log"

	"deploycfg/pkg/core"
	"deploycfg/pkg/util"
)

// DefaultNetworkCheckTimeout bounds CheckNetwork when the network sets no timeout
const DefaultNetworkCheckTimeout = 5 * time.Second

// Provider is a connected RPC client for one network together with the
// accounts it can send from
type Provider struct {
	network   core.Network
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	keys      map[common.Address]*ecdsa.PrivateKey
	accounts  []common.Address

	// PollInterval is how often WaitMined asks for a receipt
	PollInterval time.Duration
}

// Resolve connects to the network's endpoint. Remote networks read their
// mnemonic from env before anything is dialed.
func Resolve(ctx context.Context, network core.Network, env core.Env) (*Provider, error) {
	switch e := network.Endpoint.(type) {
	case core.LocalEndpoint:
		return resolveLocal(ctx, network, e)
	case core.RemoteEndpoint:
		return resolveRemote(ctx, network, e, env)
	default:
		return nil, fmt.Errorf("%w: network %q has no usable endpoint", core.ErrInvalidDescriptor, network.Name)
	}
}

func resolveLocal(ctx context.Context, network core.Network, e core.LocalEndpoint) (*Provider, error) {
	rpcClient, err := rpc.DialContext(ctx, e.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", e.Address(), err)
	}

	// Local nodes manage their own unlocked accounts
	var accs []common.Address
	if err := rpcClient.CallContext(ctx, &accs, "eth_accounts"); err != nil {
		rpcClient.Close()
		return nil, fmt.Errorf("failed to list accounts on %s: %w", e.Address(), err)
	}

	log.Info().Str("network", network.Name).Str("endpoint", e.Address()).Int("accounts", len(accs)).Msg("Connected to local node")
	return newProvider(network, rpcClient, nil, accs), nil
}

func resolveRemote(ctx context.Context, network core.Network, e core.RemoteEndpoint, env core.Env) (*Provider, error) {
	mnemonic, err := env.Secret(e.SecretRef)
	if err != nil {
		return nil, fmt.Errorf("network %q: %w", network.Name, err)
	}

	keys, err := DeriveKeys(mnemonic, network.Wallet.AddressIndex, network.Wallet.Accounts())
	if err != nil {
		return nil, fmt.Errorf("network %q: %w", network.Name, err)
	}

	rpcClient, err := rpc.DialContext(ctx, e.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", e.URL, err)
	}

	accs := make([]common.Address, len(keys))
	for i, key := range keys {
		accs[i] = addressOf(key)
	}

	log.Info().Str("network", network.Name).Str("endpoint", e.URL).Int("accounts", len(accs)).Msg("Connected to remote node")
	return newProvider(network, rpcClient, keys, accs), nil
}

func newProvider(network core.Network, rpcClient *rpc.Client, keys []*ecdsa.PrivateKey, accs []common.Address) *Provider {
	keyed := make(map[common.Address]*ecdsa.PrivateKey, len(keys))
	for _, key := range keys {
		keyed[addressOf(key)] = key
	}
	return &Provider{
		network:      network,
		rpcClient:    rpcClient,
		ethClient:    ethclient.NewClient(rpcClient),
		keys:         keyed,
		accounts:     accs,
		PollInterval: time.Second,
	}
}

func addressOf(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

// Network returns the profile the provider was resolved from
func (p *Provider) Network() core.Network {
	return p.network
}

// Client returns the underlying ethclient
func (p *Provider) Client() *ethclient.Client {
	return p.ethClient
}

// Accounts returns the addresses the provider can send from
func (p *Provider) Accounts() []common.Address {
	out := make([]common.Address, len(p.accounts))
	copy(out, p.accounts)
	return out
}

// CheckNetwork verifies that the node reports the configured network id
func (p *Provider) CheckNetwork(ctx context.Context) (*big.Int, error) {
	timeout := p.network.Tuning.NetworkCheckTimeout
	if timeout <= 0 {
		timeout = DefaultNetworkCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	id, err := p.ethClient.NetworkID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get network id: %w", err)
	}
	if !id.IsUint64() || id.Uint64() != p.network.NetworkID {
		return id, fmt.Errorf("%w: node reports %s, network %q expects %d", ErrNetworkMismatch, id, p.network.Name, p.network.NetworkID)
	}
	return id, nil
}

// TransactOpts creates transaction options for sending from one of the
// provider's derived accounts
func (p *Provider) TransactOpts(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	key, ok := p.keys[from]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, from.Hex())
	}

	chainID, err := p.ethClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	nonce, err := p.ethClient.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice := p.network.Tuning.GasPrice
	if gasPrice == nil {
		gasPrice, err = p.ethClient.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
	} else {
		gasPrice = new(big.Int).Set(gasPrice)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	auth.Nonce = new(big.Int).SetUint64(nonce)
	auth.Value = big.NewInt(0)
	auth.GasPrice = gasPrice
	auth.Context = ctx

	log.Debug().Str("from", from.Hex()).Uint64("nonce", nonce).Str("gas_price", util.FormatWei(gasPrice)).Msg("Prepared transaction options")
	return auth, nil
}

// WaitMined polls for the receipt of txHash and gives up once the chain has
// advanced TimeoutBlocks blocks past the point where waiting started
func (p *Provider) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	start, err := p.ethClient.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get block number: %w", err)
	}
	limit := p.network.Tuning.BlocksToWait()

	ticker := time.NewTicker(p.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := p.ethClient.TransactionReceipt(ctx, txHash)
		if err == nil {
			log.Debug().Str("tx_hash", txHash.Hex()).Str("block", receipt.BlockNumber.String()).Msg("Transaction mined")
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to get receipt: %w", err)
		}

		head, err := p.ethClient.BlockNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get block number: %w", err)
		}
		if head >= start && head-start >= limit {
			return nil, fmt.Errorf("%w: %s after %d blocks", ErrTimeoutBlocks, txHash.Hex(), head-start)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close releases the RPC connection
func (p *Provider) Close() {
	p.rpcClient.Close()
}
