package app

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ResolveDirectory returns the processing root for a command.
// Precedence: positional argument, then the command's environment
// variable, then an interactive prompt when stdin is a terminal.
func ResolveDirectory(arg, envVar string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if dir := os.Getenv(envVar); dir != "" {
		return dir, nil
	}
	if !stdinIsTerminal() {
		return "", fmt.Errorf("no directory given: pass one as an argument or set %s", envVar)
	}
	dir, err := promptLine("Enter the directory path: ")
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", fmt.Errorf("no directory given")
	}
	return dir, nil
}

// ResolveChars returns the number of leading characters to trim.
// Precedence: --chars flag, then the config default, then an interactive
// prompt when stdin is a terminal.
func ResolveChars(flagValue, configDefault int) (int, error) {
	if flagValue > 0 {
		return flagValue, nil
	}
	if configDefault > 0 {
		return configDefault, nil
	}
	if !stdinIsTerminal() {
		return 0, fmt.Errorf("no character count given: pass --chars or set trim.chars in config")
	}
	for {
		line, err := promptLine("Enter the number of characters to remove from the beginning of each filename: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Println("Please enter a valid number.")
			continue
		}
		if n <= 0 {
			fmt.Println("Please enter a positive number.")
			continue
		}
		return n, nil
	}
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptLine prints msg and reads one trimmed line from stdin.
func promptLine(msg string) (string, error) {
	fmt.Print(msg)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
