package utils

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

// PasswordEnv supplies the backup password non-interactively.
const PasswordEnv = "KEYWARD_PASSWORD"

// ReadPassword returns $KEYWARD_PASSWORD when set, otherwise prompts on the
// terminal without echo. With confirm, the password is asked for twice and
// must match. The terminal is opened directly so stdin stays free for data.
func ReadPassword(prompt string, confirm bool) ([]byte, error) {
	if password, ok := os.LookupEnv(PasswordEnv); ok {
		if password == "" {
			return nil, fmt.Errorf("%s is set but empty", PasswordEnv)
		}
		return []byte(password), nil
	}

	password, err := ReadPassphraseFromTTY(prompt)
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("password must not be empty")
	}
	if !confirm {
		return password, nil
	}

	again, err := ReadPassphraseFromTTY("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(password, again) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// ReadPassphraseFromTTY prompts the user for a passphrase from /dev/tty (or CON on Windows).
// Returns an error if the terminal cannot be opened.
func ReadPassphraseFromTTY(prompt string) ([]byte, error) {
	ttyPath := "/dev/tty"
	if runtime.GOOS == "windows" {
		ttyPath = "CON"
	}

	tty, err := os.Open(ttyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for password input (hint: set %s): %w", ttyPath, PasswordEnv, err)
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", ttyPath)
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}
