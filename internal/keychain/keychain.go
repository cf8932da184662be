package keychain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "echofilterbot"

// ErrNotFound is returned when the account has no stored secret.
var ErrNotFound = errors.New("keychain: secret not found")

// Get retrieves the secret stored for account in the system keychain.
func Get(account string) (string, error) {
	secret, err := keyring.Get(serviceName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain get %s: %w", account, err)
	}
	return secret, nil
}

// Set stores a secret in the system keychain.
func Set(account, value string) error {
	if err := keyring.Set(serviceName, account, value); err != nil {
		return fmt.Errorf("keychain set %s: %w", account, err)
	}
	return nil
}

// StoreToken reads a token from the first line of r and stores it for account.
func StoreToken(r io.Reader, account string) error {
	if account == "" {
		return errors.New("keychain: account is empty")
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("keychain: read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return errors.New("keychain: token is empty")
	}
	return Set(account, token)
}
