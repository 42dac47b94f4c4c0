package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// readLine returns the next trimmed line. A final line without a newline is
// returned as is; io.EOF is reported only once nothing is left to read.
func readLine(r *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	t, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || t == "") {
		return "", err
	}
	return strings.TrimSpace(t), nil
}

func readPassword(prompt string) string {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		die("failed to read private key: " + err.Error())
	}
	return strings.TrimSpace(string(b))
}

func must(err error, msg string) {
	if err != nil {
		die(msg + ": " + err.Error())
	}
}

// die prints an error and waits for Enter before exiting.
// This prevents instant console close on Windows double-click runs.
func die(message string) {
	fmt.Fprintln(os.Stderr, red("Error:"), message)
	fmt.Fprint(os.Stderr, "Press Enter to close...")
	_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')
	os.Exit(1)
}
