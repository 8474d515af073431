package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/streamdesk/internal/common"
	"github.com/dmitrijs2005/streamdesk/internal/server/config"
	"github.com/dmitrijs2005/streamdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/streamdesk/internal/server/services"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errPasswordMismatch = errors.New("passwords do not match")

func run(ctx context.Context, cfg *config.Config, repos repomanager.RepositoryManager, email string, in *bufio.Reader, out io.Writer) error {
	if err := repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if email == "" {
		var err error
		if email, err = getSimpleText(in, "Email", out); err != nil {
			return err
		}
	}

	pw, err := getPassword(out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword(out, "Repeat password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	if !bytes.Equal(pw, confirm) {
		return errPasswordMismatch
	}

	creds, err := services.NewCredentialService(repos, cfg)
	if err != nil {
		return err
	}
	u, err := creds.Register(ctx, email, string(pw))
	if err != nil {
		return fmt.Errorf("register %s: %w", email, err)
	}

	fmt.Fprintf(out, "created user %s (%s)\n", u.Email, u.ID)
	return nil
}

// getSimpleText prints a prompt to w and reads one trimmed line.
func getSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// getPassword reads a password from the terminal without echo.
func getPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
