// Package main is the entry point for rsa-cli. It generates textbook RSA key
// pairs and encrypts and decrypts messages with them.
package main

import (
	"fmt"
	"os"

	"github.com/mr-shifu/textbook-rsa/cmd/rsa-cli/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
