// Package keyfile stores RSA keys as delimited base64 text blocks.
package keyfile

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/mr-shifu/textbook-rsa/core/rsa"
	sw_rsa "github.com/mr-shifu/textbook-rsa/pkg/cryptosuite/sw/rsa"
	"github.com/pkg/errors"
)

const (
	PublicKeyType = "TEXTBOOK RSA PUBLIC KEY"
	SecretKeyType = "TEXTBOOK RSA SECRET KEY"

	PublicKeyFile = "rsa_pk.key"
	SecretKeyFile = "rsa_sk.key"

	lineWidth = 64
)

var ErrInvalidKeyFile = errors.New("keyfile: invalid key file")

func beginLine(kind string) string { return "-----BEGIN " + kind + "-----" }
func endLine(kind string) string   { return "-----END " + kind + "-----" }

// Encode wraps data in a block of the given kind.
func Encode(kind string, data []byte) []byte {
	body := base64.StdEncoding.EncodeToString(data)

	var buf bytes.Buffer
	buf.WriteString(beginLine(kind))
	buf.WriteByte('\n')
	for len(body) > lineWidth {
		buf.WriteString(body[:lineWidth])
		buf.WriteByte('\n')
		body = body[lineWidth:]
	}
	if len(body) > 0 {
		buf.WriteString(body)
		buf.WriteByte('\n')
	}
	buf.WriteString(endLine(kind))
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Decode returns the payload of the first block in text and its kind.
func Decode(text []byte) (string, []byte, error) {
	scanner := bufio.NewScanner(bytes.NewReader(text))

	kind := ""
	var body strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case kind == "" && line == "":
			continue
		case kind == "":
			if !strings.HasPrefix(line, "-----BEGIN ") || !strings.HasSuffix(line, "-----") {
				return "", nil, errors.WithMessage(ErrInvalidKeyFile, "missing BEGIN line")
			}
			kind = strings.TrimSuffix(strings.TrimPrefix(line, "-----BEGIN "), "-----")
			if kind != PublicKeyType && kind != SecretKeyType {
				return "", nil, errors.WithMessagef(ErrInvalidKeyFile, "unknown block type %q", kind)
			}
		case line == endLine(kind):
			data, err := base64.StdEncoding.DecodeString(body.String())
			if err != nil {
				return "", nil, errors.WithMessage(ErrInvalidKeyFile, err.Error())
			}
			return kind, data, nil
		default:
			body.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, errors.WithMessage(ErrInvalidKeyFile, err.Error())
	}
	return "", nil, errors.WithMessage(ErrInvalidKeyFile, "missing END line")
}

// Write stores pair as <prefix>rsa_pk.key and <prefix>rsa_sk.key in dir and
// returns both paths. The secret file is readable by the owner only.
func Write(dir, prefix string, pair *rsa.KeyPair) (string, string, error) {
	key := sw_rsa.NewRSAKey(pair)

	pkData, err := key.PublicKey().Bytes()
	if err != nil {
		return "", "", err
	}
	skData, err := key.Bytes()
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", "", errors.WithMessage(err, "keyfile: create key directory")
	}

	pkPath := filepath.Join(dir, prefix+PublicKeyFile)
	if err := os.WriteFile(pkPath, Encode(PublicKeyType, pkData), 0o644); err != nil {
		return "", "", errors.WithMessage(err, "keyfile: write public key")
	}
	skPath := filepath.Join(dir, prefix+SecretKeyFile)
	if err := os.WriteFile(skPath, Encode(SecretKeyType, skData), 0o600); err != nil {
		return "", "", errors.WithMessage(err, "keyfile: write secret key")
	}
	return pkPath, skPath, nil
}

// Read parses a public or secret key file.
func Read(path string) (sw_rsa.RSAKey, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return sw_rsa.RSAKey{}, errors.WithMessage(err, "keyfile: read")
	}
	return Parse(text)
}

// Parse decodes a key block. The key kind recorded in the block must match
// its payload.
func Parse(text []byte) (sw_rsa.RSAKey, error) {
	kind, data, err := Decode(text)
	if err != nil {
		return sw_rsa.RSAKey{}, err
	}
	key, err := sw_rsa.FromBytes(data)
	if err != nil {
		return sw_rsa.RSAKey{}, errors.WithMessage(ErrInvalidKeyFile, err.Error())
	}
	if key.Private() != (kind == SecretKeyType) {
		return sw_rsa.RSAKey{}, errors.WithMessagef(ErrInvalidKeyFile, "%s block holds the wrong key kind", kind)
	}
	return key, nil
}

// ReadPublicKey reads a public key file. A secret key file is accepted too and
// yields its public half.
func ReadPublicKey(path string) (*rsa.PublicKey, error) {
	key, err := Read(path)
	if err != nil {
		return nil, err
	}
	return key.PublicKeyRaw(), nil
}

// ReadKeyPair reads a secret key file.
func ReadKeyPair(path string) (*rsa.KeyPair, error) {
	key, err := Read(path)
	if err != nil {
		return nil, err
	}
	if !key.Private() {
		return nil, errors.WithMessage(ErrInvalidKeyFile, "not a secret key file")
	}
	return key.KeyPair(), nil
}
