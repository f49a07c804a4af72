package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mr-shifu/textbook-rsa/core/rsa"
	cs_rsa "github.com/mr-shifu/textbook-rsa/pkg/common/cryptosuite/rsa"
	"github.com/mr-shifu/textbook-rsa/pkg/config"
	sw_rsa "github.com/mr-shifu/textbook-rsa/pkg/cryptosuite/sw/rsa"
	"github.com/mr-shifu/textbook-rsa/pkg/keyfile"
	"github.com/mr-shifu/textbook-rsa/pkg/keyopts"
	"github.com/mr-shifu/textbook-rsa/pkg/keystore"
	"github.com/mr-shifu/textbook-rsa/pkg/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RSACommandHandler encapsulates logic for handling RSA operations via CLI.
type RSACommandHandler struct {
	settings *config.Settings
	logger   logger.Logger
}

// newRSACommandHandler loads the settings named by the --config flag and
// sets up logging.
func newRSACommandHandler(cmd *cobra.Command) (*RSACommandHandler, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	log, err := setupLogger(settings)
	if err != nil {
		return nil, err
	}
	return &RSACommandHandler{settings: settings, logger: log}, nil
}

// keyManager opens the configured key store and returns a key manager on top
// of it. The caller closes the store.
func (h *RSACommandHandler) keyManager(cfg *sw_rsa.Config) (*sw_rsa.RSAKeyManager, *keystore.Keystore, error) {
	ks, err := keystore.Open(&h.settings.Store)
	if err != nil {
		return nil, nil, err
	}
	return sw_rsa.NewRSAKeyManager(ks, cfg, h.logger), ks, nil
}

func keyIDOptions(id string) (keyopts.Options, error) {
	opts := keyopts.NewOptions()
	if _, err := opts.Set("id", id); err != nil {
		return nil, err
	}
	return opts, nil
}

// loadKey reads the key named either by the file flag or by --key-id, which
// looks the key up in the configured store. Exactly one must be set.
func (h *RSACommandHandler) loadKey(cmd *cobra.Command, fileFlag string) (cs_rsa.RSAKey, error) {
	path, err := cmd.Flags().GetString(fileFlag)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid %s flag", fileFlag)
	}
	id, err := cmd.Flags().GetString("key-id")
	if err != nil {
		return nil, errors.WithMessage(err, "invalid key-id flag")
	}

	switch {
	case path != "" && id != "":
		return nil, errors.Errorf("--%s and --key-id are mutually exclusive", fileFlag)
	case path != "":
		return keyfile.Read(path)
	case id != "":
		mgr, ks, err := h.keyManager(&sw_rsa.Config{})
		if err != nil {
			return nil, err
		}
		defer ks.Close()

		opts, err := keyIDOptions(id)
		if err != nil {
			return nil, err
		}
		key, err := mgr.GetKey(opts)
		return key, errors.WithMessagef(err, "key %s", id)
	default:
		return nil, errors.Errorf("either --%s or --key-id is required", fileFlag)
	}
}

// GenerateRSAKeysCmd generates an RSA key pair, stores it under a new key ID
// in the configured store and writes it to key files in the selected
// directory.
func (h *RSACommandHandler) GenerateRSAKeysCmd(cmd *cobra.Command, _ []string) error {
	bits := h.settings.Key.Bits
	if cmd.Flags().Changed("bits") {
		bits, _ = cmd.Flags().GetInt("bits")
	}
	rounds := h.settings.Key.Threshold
	if cmd.Flags().Changed("threshold") {
		rounds, _ = cmd.Flags().GetInt("threshold")
	}
	parallel := h.settings.Key.Parallel
	if cmd.Flags().Changed("parallel") {
		parallel, _ = cmd.Flags().GetBool("parallel")
	}
	keyDir, err := cmd.Flags().GetString("key-dir")
	if err != nil {
		return errors.WithMessage(err, "invalid key-dir flag")
	}

	threshold, err := rsa.NewThreshold(rounds)
	if err != nil {
		return err
	}

	mgr, ks, err := h.keyManager(&sw_rsa.Config{Bits: bits, Threshold: threshold, Parallel: parallel})
	if err != nil {
		return err
	}
	defer ks.Close()

	id := uuid.NewString()
	opts, err := keyIDOptions(id)
	if err != nil {
		return err
	}

	key, err := mgr.GenerateKey(opts)
	if err != nil {
		return err
	}

	pkPath, skPath, err := keyfile.Write(keyDir, id+"_", key.KeyPair())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "id: %s\n", id)
	fmt.Fprintf(out, "public key: %s\n", pkPath)
	fmt.Fprintf(out, "secret key: %s\n", skPath)
	return nil
}

// EncryptRSACmd encrypts a message and prints the hex ciphertext.
func (h *RSACommandHandler) EncryptRSACmd(cmd *cobra.Command, _ []string) error {
	message, err := readInput(cmd, "message")
	if err != nil {
		return err
	}
	key, err := h.loadKey(cmd, "public-key")
	if err != nil {
		return err
	}

	ct, err := key.Encrypt(message)
	if err != nil {
		return err
	}

	h.logger.Debug("encrypted message", "size", len(message), "modulus_bits", key.PublicKeyRaw().Size())
	fmt.Fprintln(cmd.OutOrStdout(), ct)
	return nil
}

// DecryptRSACmd decrypts a hex ciphertext and prints the message.
func (h *RSACommandHandler) DecryptRSACmd(cmd *cobra.Command, _ []string) error {
	ct, err := readInput(cmd, "ciphertext")
	if err != nil {
		return err
	}
	key, err := h.loadKey(cmd, "secret-key")
	if err != nil {
		return err
	}

	message, err := key.Decrypt(strings.TrimSpace(string(ct)))
	if err != nil {
		return err
	}

	h.logger.Debug("decrypted message", "size", len(message))
	_, err = cmd.OutOrStdout().Write(message)
	return err
}

// InspectRSAKeyCmd prints the public parameters of a key.
func (h *RSACommandHandler) InspectRSAKeyCmd(cmd *cobra.Command, _ []string) error {
	key, err := h.loadKey(cmd, "key")
	if err != nil {
		return err
	}

	pk := key.PublicKeyRaw()
	out := cmd.OutOrStdout()
	if key.Private() {
		fmt.Fprintln(out, "type: secret")
	} else {
		fmt.Fprintln(out, "type: public")
	}
	fmt.Fprintf(out, "modulus bits: %d\n", pk.Size())
	fmt.Fprintf(out, "n: %s\n", pk.N().Text(16))
	fmt.Fprintf(out, "e: %s\n", pk.E().Text(16))
	fmt.Fprintf(out, "ski: %s\n", hex.EncodeToString(key.SKI()))
	if pair := key.KeyPair(); pair != nil {
		fmt.Fprintf(out, "prime bits: %d\n", pair.BitSize())
		fmt.Fprintf(out, "threshold: %s\n", pair.Threshold())
	}
	return nil
}

// ListRSAKeysCmd prints the IDs and vault slots of the stored keys.
func (h *RSACommandHandler) ListRSAKeysCmd(cmd *cobra.Command, _ []string) error {
	mgr, ks, err := h.keyManager(&sw_rsa.Config{})
	if err != nil {
		return err
	}
	defer ks.Close()

	kds, err := mgr.ListKeys()
	if err != nil {
		return err
	}
	for _, kd := range kds {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", kd.ID, kd.SKI)
	}
	return nil
}

// DeleteRSAKeyCmd removes a key from the configured store.
func (h *RSACommandHandler) DeleteRSAKeyCmd(cmd *cobra.Command, _ []string) error {
	id, err := cmd.Flags().GetString("key-id")
	if err != nil {
		return errors.WithMessage(err, "invalid key-id flag")
	}

	mgr, ks, err := h.keyManager(&sw_rsa.Config{})
	if err != nil {
		return err
	}
	defer ks.Close()

	opts, err := keyIDOptions(id)
	if err != nil {
		return err
	}
	return errors.WithMessagef(mgr.DeleteKey(opts), "key %s", id)
}

// readInput returns the value of the named flag, or the content of the file
// given by --input-file. Exactly one of them must be set.
func readInput(cmd *cobra.Command, flag string) ([]byte, error) {
	value, err := cmd.Flags().GetString(flag)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid %s flag", flag)
	}
	inputFile, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return nil, errors.WithMessage(err, "invalid input-file flag")
	}

	switch {
	case cmd.Flags().Changed(flag) && inputFile != "":
		return nil, errors.Errorf("--%s and --input-file are mutually exclusive", flag)
	case inputFile != "":
		return os.ReadFile(filepath.Clean(inputFile))
	case cmd.Flags().Changed(flag):
		return []byte(value), nil
	default:
		return nil, errors.Errorf("either --%s or --input-file is required", flag)
	}
}

// withHandler adapts a handler method to cobra's RunE.
func withHandler(run func(*RSACommandHandler, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		h, err := newRSACommandHandler(cmd)
		if err != nil {
			return err
		}
		return run(h, cmd, args)
	}
}

// InitRSACommands registers RSA-related commands
func InitRSACommands(rootCmd *cobra.Command) {
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate an RSA key pair",
		Args:  cobra.NoArgs,
		RunE:  withHandler((*RSACommandHandler).GenerateRSAKeysCmd),
	}
	generateCmd.Flags().Int("bits", 0, "Bit length of each prime factor (default from config)")
	generateCmd.Flags().Int("threshold", 0, "Miller-Rabin rounds per prime candidate (default from config)")
	generateCmd.Flags().Bool("parallel", false, "Search both primes concurrently")
	generateCmd.Flags().String("key-dir", ".", "Directory to store the key files")
	rootCmd.AddCommand(generateCmd)

	var encryptCmd = &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a message with a public key",
		Args:  cobra.NoArgs,
		RunE:  withHandler((*RSACommandHandler).EncryptRSACmd),
	}
	encryptCmd.Flags().String("public-key", "", "Path to the public key file")
	encryptCmd.Flags().String("key-id", "", "ID of a key in the configured store")
	encryptCmd.Flags().String("message", "", "Message to encrypt")
	encryptCmd.Flags().String("input-file", "", "Path to a file holding the message")
	rootCmd.AddCommand(encryptCmd)

	var decryptCmd = &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a hex ciphertext with a secret key",
		Args:  cobra.NoArgs,
		RunE:  withHandler((*RSACommandHandler).DecryptRSACmd),
	}
	decryptCmd.Flags().String("secret-key", "", "Path to the secret key file")
	decryptCmd.Flags().String("key-id", "", "ID of a key in the configured store")
	decryptCmd.Flags().String("ciphertext", "", "Hex ciphertext to decrypt")
	decryptCmd.Flags().String("input-file", "", "Path to a file holding the ciphertext")
	rootCmd.AddCommand(decryptCmd)

	var inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Show the parameters of a key",
		Args:  cobra.NoArgs,
		RunE:  withHandler((*RSACommandHandler).InspectRSAKeyCmd),
	}
	inspectCmd.Flags().String("key", "", "Path to a public or secret key file")
	inspectCmd.Flags().String("key-id", "", "ID of a key in the configured store")
	rootCmd.AddCommand(inspectCmd)

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the keys in the configured store",
		Args:  cobra.NoArgs,
		RunE:  withHandler((*RSACommandHandler).ListRSAKeysCmd),
	}
	rootCmd.AddCommand(listCmd)

	var deleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "Delete a key from the configured store",
		Args:  cobra.NoArgs,
		RunE:  withHandler((*RSACommandHandler).DeleteRSAKeyCmd),
	}
	deleteCmd.Flags().String("key-id", "", "ID of the key to delete")
	_ = deleteCmd.MarkFlagRequired("key-id")
	rootCmd.AddCommand(deleteCmd)
}
