package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the rsa-cli command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rsa-cli",
		Short: "Textbook RSA key generation and encryption",
		Long: `rsa-cli generates textbook RSA key pairs and encrypts and decrypts
short messages with them. Messages are encrypted without padding and must be
smaller than the modulus; ciphertexts are printed as hexadecimal.

Settings are read from the YAML file given by --config and can be overridden
with RSA_* environment variables, e.g. RSA_KEY_BITS=512.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")

	InitRSACommands(rootCmd)
	return rootCmd
}
