package core

import (
	"fmt"
	"math/big"
	"net"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"deploycfg/pkg/compiler"
)

// Secret references read from the environment by remote networks
const (
	MnemonicEnv     = "MNEMONIC"
	MnemonicTestEnv = "MNEMONIC_TEST"
)

// BuildDirName is the artifact directory relative to the project root
const BuildDirName = "build"

// Endpoint is either a LocalEndpoint or a RemoteEndpoint.
type Endpoint interface {
	// Mode returns "local" or "remote"
	Mode() string
	// Address returns a printable endpoint
	Address() string

	endpoint()
}

// LocalEndpoint is a development node reachable over plain TCP, with unlocked accounts.
type LocalEndpoint struct {
	Host string
	Port int
}

func (LocalEndpoint) Mode() string { return "local" }

func (e LocalEndpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// URL returns the HTTP JSON-RPC URL of the node
func (e LocalEndpoint) URL() string {
	return "http://" + e.Address()
}

func (LocalEndpoint) endpoint() {}

// RemoteEndpoint is a hosted RPC endpoint signed for by an HD wallet whose
// mnemonic is read from the environment variable named by SecretRef.
type RemoteEndpoint struct {
	SecretRef string
	URL       string
}

func (RemoteEndpoint) Mode() string { return "remote" }

func (e RemoteEndpoint) Address() string { return e.URL }

func (RemoteEndpoint) endpoint() {}

// Tuning values are handed to the deployer as-is
type Tuning struct {
	GasPrice            *big.Int // wei, nil means ask the node
	TimeoutBlocks       uint64
	NetworkCheckTimeout time.Duration
	SkipDryRun          bool
}

// Limits on the HD account range. Indices above MaxAddressIndex would be
// hardened path components.
const (
	MaxAddressIndex = 1<<31 - 1
	MaxAddresses    = 1000
)

// Wallet selects which HD accounts a remote network derives
type Wallet struct {
	AddressIndex uint32
	NumAddresses uint32
}

// Network is a named deployment target
type Network struct {
	Name      string
	NetworkID uint64
	Endpoint  Endpoint
	Tuning    Tuning
	Wallet    Wallet
}

// Descriptor is the whole deployment configuration
type Descriptor struct {
	BuildDirectory string
	Networks       map[string]Network
	Compiler       compiler.Profile
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

// DefaultDescriptor returns the declared networks with artifacts under root/build
func DefaultDescriptor(root string) *Descriptor {
	return &Descriptor{
		BuildDirectory: filepath.Join(root, BuildDirName),
		Networks: map[string]Network{
			"develop": {
				Name:      "develop",
				NetworkID: 5777,
				Endpoint:  LocalEndpoint{Host: "127.0.0.1", Port: 7545},
			},
			"testnet": {
				Name:      "testnet",
				NetworkID: 3,
				Endpoint: RemoteEndpoint{
					SecretRef: MnemonicTestEnv,
					URL:       "https://ropsten.infura.io/v3/13114bd1767b441ab638877cafce0890",
				},
				Tuning: Tuning{
					NetworkCheckTimeout: 1000000000 * time.Millisecond,
					SkipDryRun:          true,
				},
			},
			"ftm_testnet": {
				Name:      "ftm_testnet",
				NetworkID: 4002,
				Endpoint: RemoteEndpoint{
					SecretRef: MnemonicTestEnv,
					URL:       "https://rpc.testnet.fantom.network",
				},
				Tuning: Tuning{
					GasPrice:      gwei(150),
					TimeoutBlocks: 200,
					SkipDryRun:    true,
				},
			},
			"ftm": {
				Name:      "ftm",
				NetworkID: 250,
				Endpoint: RemoteEndpoint{
					SecretRef: MnemonicEnv,
					URL:       "https://rpc.ftm.tools/",
				},
				Tuning: Tuning{
					GasPrice:      gwei(82),
					TimeoutBlocks: 200,
					SkipDryRun:    true,
				},
			},
		},
		Compiler: compiler.Default(),
	}
}

// Network returns the profile registered under name
func (d *Descriptor) Network(name string) (Network, error) {
	n, ok := d.Networks[name]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
	return n, nil
}

// Names returns the network names in sorted order
func (d *Descriptor) Names() []string {
	names := make([]string, 0, len(d.Networks))
	for name := range d.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArtifactPath returns where the compiled artifact of contract is written
func (d *Descriptor) ArtifactPath(contract string) string {
	return filepath.Join(d.BuildDirectory, contract+".json")
}

// Validate checks the descriptor for structural mistakes
func (d *Descriptor) Validate() error {
	if d.BuildDirectory == "" {
		return fmt.Errorf("%w: empty build directory", ErrInvalidDescriptor)
	}
	if len(d.Networks) == 0 {
		return fmt.Errorf("%w: no networks", ErrInvalidDescriptor)
	}
	for _, key := range d.Names() {
		n := d.Networks[key]
		if n.Name != key {
			return fmt.Errorf("%w: network %q registered under %q", ErrInvalidDescriptor, n.Name, key)
		}
		if err := n.Validate(); err != nil {
			return err
		}
	}
	if err := d.Compiler.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	return nil
}

// Validate checks a single network profile
func (n Network) Validate() error {
	if n.Name == "" {
		return fmt.Errorf("%w: network without a name", ErrInvalidDescriptor)
	}
	if n.NetworkID == 0 {
		return fmt.Errorf("%w: network %q has no network id", ErrInvalidDescriptor, n.Name)
	}
	if n.Tuning.GasPrice != nil && n.Tuning.GasPrice.Sign() <= 0 {
		return fmt.Errorf("%w: network %q has a non-positive gas price", ErrInvalidDescriptor, n.Name)
	}
	if err := n.Wallet.Validate(); err != nil {
		return fmt.Errorf("%w: network %q: %v", ErrInvalidDescriptor, n.Name, err)
	}

	switch e := n.Endpoint.(type) {
	case LocalEndpoint:
		if e.Host == "" {
			return fmt.Errorf("%w: network %q has no host", ErrInvalidDescriptor, n.Name)
		}
		if e.Port < 1 || e.Port > 65535 {
			return fmt.Errorf("%w: network %q has port %d out of range", ErrInvalidDescriptor, n.Name, e.Port)
		}
	case RemoteEndpoint:
		if e.SecretRef == "" {
			return fmt.Errorf("%w: network %q has no secret reference", ErrInvalidDescriptor, n.Name)
		}
		u, err := url.Parse(e.URL)
		if err != nil {
			return fmt.Errorf("%w: network %q: %v", ErrInvalidDescriptor, n.Name, err)
		}
		switch u.Scheme {
		case "http", "https", "ws", "wss":
		default:
			return fmt.Errorf("%w: network %q has unsupported url %q", ErrInvalidDescriptor, n.Name, e.URL)
		}
		if u.Host == "" {
			return fmt.Errorf("%w: network %q url has no host", ErrInvalidDescriptor, n.Name)
		}
	case nil:
		return fmt.Errorf("%w: network %q has no endpoint", ErrInvalidDescriptor, n.Name)
	default:
		return fmt.Errorf("%w: network %q has unknown endpoint %T", ErrInvalidDescriptor, n.Name, e)
	}
	return nil
}

// Accounts returns how many addresses to derive, at least one
func (w Wallet) Accounts() uint32 {
	if w.NumAddresses == 0 {
		return 1
	}
	return w.NumAddresses
}

// Validate checks that the derived range stays within non-hardened indices
func (w Wallet) Validate() error {
	count := w.Accounts()
	if count > MaxAddresses {
		return fmt.Errorf("%d addresses exceeds the limit of %d", count, MaxAddresses)
	}
	if uint64(w.AddressIndex)+uint64(count)-1 > MaxAddressIndex {
		return fmt.Errorf("address range %d+%d exceeds index %d", w.AddressIndex, count, MaxAddressIndex)
	}
	return nil
}

// DefaultTimeoutBlocks is used when a network leaves TimeoutBlocks unset
const DefaultTimeoutBlocks = 50

// BlocksToWait returns the configured timeout in blocks or the default
func (t Tuning) BlocksToWait() uint64 {
	if t.TimeoutBlocks == 0 {
		return DefaultTimeoutBlocks
	}
	return t.TimeoutBlocks
}
