package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cosmos/go-bip39"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"deploycfg/pkg/core"
	"deploycfg/pkg/provider"
)

func main() {
	// Configure logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	words := flag.Int("words", 12, "Mnemonic length, 12 or 24 words")
	ref := flag.String("ref", core.MnemonicTestEnv, "Env variable the mnemonic is meant for")
	flag.Parse()

	var bits int
	switch *words {
	case 12:
		bits = 128
	case 24:
		bits = 256
	default:
		log.Fatal().Int("words", *words).Msg("Unsupported mnemonic length")
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate entropy")
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate mnemonic")
	}

	addrs, err := provider.DeriveAddresses(mnemonic, 0, 1)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to derive address")
	}

	fmt.Println("Generated new mnemonic")
	fmt.Println("----------------------")
	fmt.Printf("Path:    %s\n", provider.DerivationPath(0))
	fmt.Printf("Address: %s\n", addrs[0].Hex())
	fmt.Println("\nAdd this line to your .env file:")
	fmt.Printf("%s=\"%s\"\n", *ref, mnemonic)
}
