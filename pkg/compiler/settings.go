package compiler

import "encoding/json"

// Settings is the "settings" object of a solc standard-JSON input
type Settings struct {
	Optimizer       Optimizer                      `json:"optimizer"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

// Settings renders the profile as solc standard-JSON settings
func (p Profile) Settings() Settings {
	return Settings{
		Optimizer: p.Optimizer,
		OutputSelection: map[string]map[string][]string{
			"*": {
				"*": {"abi", "evm.bytecode", "evm.deployedBytecode", "metadata"},
				"":  {"ast"},
			},
		},
	}
}

// SettingsJSON returns the indented JSON form of Settings
func (p Profile) SettingsJSON() ([]byte, error) {
	return json.MarshalIndent(p.Settings(), "", "  ")
}
