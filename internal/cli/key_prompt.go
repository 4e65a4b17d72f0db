package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func readSecretLine(reader io.Reader) (string, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a secret from the command input. Terminals get a prompt
// with echo disabled; pipes are read as a plain line.
func promptSecret(cmd *cobra.Command, label string) (string, error) {
	input := cmd.InOrStdin()
	if file, ok := input.(*os.File); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
		secret, err := readSecretNoEcho(file)
		if err == nil {
			fmt.Fprintln(cmd.ErrOrStderr())
			return secret, nil
		}
	}
	return readSecretLine(input)
}
