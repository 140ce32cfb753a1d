package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a password prompt is requested but stdin
// is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// PromptPassword asks for the database password on the terminal without
// echoing it and stores the answer in c.DB.Password.
func (c *Config) PromptPassword(prompt io.Writer) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	fmt.Fprintf(prompt, "Password for %s@%s: ", c.DB.User, c.DB.Host)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	c.DB.Password = strings.TrimRight(string(b), "\r\n")
	return nil
}
