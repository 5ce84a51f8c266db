package core

import (
	"gopkg.in/yaml.v3"

	"deploycfg/pkg/compiler"
	"deploycfg/pkg/util"
)

// networkView is the flattened form of a Network used for display. Remote
// networks show the name of their secret, not its value.
type networkView struct {
	Name                string `yaml:"name"`
	Mode                string `yaml:"mode"`
	NetworkID           uint64 `yaml:"network_id"`
	Host                string `yaml:"host,omitempty"`
	Port                int    `yaml:"port,omitempty"`
	URL                 string `yaml:"url,omitempty"`
	Secret              string `yaml:"secret,omitempty"`
	GasPrice            string `yaml:"gas_price,omitempty"`
	TimeoutBlocks       uint64 `yaml:"timeout_blocks,omitempty"`
	NetworkCheckTimeout string `yaml:"network_check_timeout,omitempty"`
	SkipDryRun          bool   `yaml:"skip_dry_run,omitempty"`
	AddressIndex        uint32 `yaml:"address_index,omitempty"`
	NumAddresses        uint32 `yaml:"num_addresses,omitempty"`
}

// MarshalYAML implements yaml.Marshaler
func (n Network) MarshalYAML() (interface{}, error) {
	v := networkView{
		Name:          n.Name,
		NetworkID:     n.NetworkID,
		TimeoutBlocks: n.Tuning.TimeoutBlocks,
		SkipDryRun:    n.Tuning.SkipDryRun,
		AddressIndex:  n.Wallet.AddressIndex,
		NumAddresses:  n.Wallet.NumAddresses,
	}
	if n.Tuning.GasPrice != nil {
		v.GasPrice = util.FormatGwei(n.Tuning.GasPrice)
	}
	if n.Tuning.NetworkCheckTimeout > 0 {
		v.NetworkCheckTimeout = n.Tuning.NetworkCheckTimeout.String()
	}

	switch e := n.Endpoint.(type) {
	case LocalEndpoint:
		v.Mode = e.Mode()
		v.Host = e.Host
		v.Port = e.Port
	case RemoteEndpoint:
		v.Mode = e.Mode()
		v.URL = e.URL
		v.Secret = "$" + e.SecretRef
	}
	return v, nil
}

// MarshalYAML implements yaml.Marshaler
func (d *Descriptor) MarshalYAML() (interface{}, error) {
	networks := make([]Network, 0, len(d.Networks))
	for _, name := range d.Names() {
		networks = append(networks, d.Networks[name])
	}
	return struct {
		BuildDirectory string           `yaml:"contracts_build_directory"`
		Networks       []Network        `yaml:"networks"`
		Compiler       compiler.Profile `yaml:"compiler"`
	}{
		BuildDirectory: d.BuildDirectory,
		Networks:       networks,
		Compiler:       d.Compiler,
	}, nil
}

// RenderYAML renders a value that implements yaml.Marshaler
func RenderYAML(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}
