// Command passwd prints a password hash suitable for the accounts table,
// for provisioning accounts without going through Register.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/rush/internal/cryptox"
	"github.com/dmitrijs2005/rush/internal/shared"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var (
	errEmptyPassword = errors.New("password must not be empty")
	errMismatch      = errors.New("passwords do not match")
)

func prompt(w io.Writer, label string) ([]byte, error) {
	if _, err := fmt.Fprint(w, label); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return pw, err
}

func run(prompts, out io.Writer) error {
	password, err := prompt(prompts, "Enter password: ")
	defer shared.WipeByteArray(password)
	if err != nil {
		return err
	}
	if len(password) == 0 {
		return errEmptyPassword
	}

	confirm, err := prompt(prompts, "Confirm password: ")
	defer shared.WipeByteArray(confirm)
	if err != nil {
		return err
	}
	if !bytes.Equal(password, confirm) {
		return errMismatch
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, hash)
	return err
}

func main() {
	if err := run(os.Stderr, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
