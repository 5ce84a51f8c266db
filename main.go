package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"deploycfg/pkg/core"
	"deploycfg/pkg/provider"
)

var errUnknownAction = errors.New("unknown action")

func main() {
	// Configure logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("deploycfg failed")
	}
}

// run executes one action. All cleanup happens before it returns so main can
// exit on the error.
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("deploycfg", flag.ContinueOnError)
	networkName := fs.String("network", "develop", "Network to use")
	envFile := fs.String("env", ".env", "Env file holding the mnemonics")
	root := fs.String("root", ".", "Project root, artifacts go to <root>/build")
	action := fs.String("action", "networks", "Action to perform: networks, show, compiler, accounts, check")
	timeout := fs.Duration("timeout", 2*time.Minute, "Timeout for network actions")
	verbose := fs.Bool("v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Secrets are loaded once here and handed down explicitly
	env, err := core.LoadEnv(*envFile)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	desc := core.DefaultDescriptor(*root)
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *action {
	case "networks":
		listNetworks(out, desc)
		return nil
	case "compiler":
		settings, err := desc.Compiler.SettingsJSON()
		if err != nil {
			return fmt.Errorf("failed to render compiler settings: %w", err)
		}
		fmt.Fprintf(out, "%s %s\n%s\n", desc.Compiler.Name, desc.Compiler.Version, settings)
		return nil
	case "show":
		network, err := selectNetwork(desc, *networkName)
		if err != nil {
			return err
		}
		rendered, err := core.RenderYAML(network)
		if err != nil {
			return fmt.Errorf("failed to render network: %w", err)
		}
		fmt.Fprint(out, string(rendered))
		return nil
	case "accounts", "check":
		network, err := selectNetwork(desc, *networkName)
		if err != nil {
			return err
		}
		p, err := provider.Resolve(ctx, network, env)
		if err != nil {
			return fmt.Errorf("failed to resolve provider: %w", err)
		}
		defer p.Close()

		if *action == "check" {
			return checkNetwork(ctx, p)
		}
		for i, addr := range p.Accounts() {
			fmt.Fprintf(out, "(%d) %s\n", i, addr.Hex())
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownAction, *action)
	}
}

func listNetworks(out io.Writer, desc *core.Descriptor) {
	for _, name := range desc.Names() {
		n := desc.Networks[name]
		fmt.Fprintf(out, "%-12s %-6s %-5d %s\n", n.Name, n.Endpoint.Mode(), n.NetworkID, n.Endpoint.Address())
	}
	fmt.Fprintf(out, "\nArtifacts: %s\n", desc.BuildDirectory)
}

func selectNetwork(desc *core.Descriptor, name string) (core.Network, error) {
	network, err := desc.Network(name)
	if err != nil {
		log.Error().Strs("available", desc.Names()).Msg("Failed to select network")
		return core.Network{}, err
	}
	return network, nil
}

func checkNetwork(ctx context.Context, p *provider.Provider) error {
	id, err := p.CheckNetwork(ctx)
	if err != nil {
		return fmt.Errorf("network check failed: %w", err)
	}

	chainID, err := p.Client().ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}

	head, err := p.Client().BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get block number: %w", err)
	}

	log.Info().
		Str("network", p.Network().Name).
		Str("network_id", id.String()).
		Str("chain_id", chainID.String()).
		Uint64("block", head).
		Msg("Network reachable")
	return nil
}
