// Command hash-generator prints password digests produced by the same
// credential store the server uses, e.g. for seeding accounts by hand.
//
// Usage:
//
//	hash-generator [-cost 12] secret...
//	printf 'secret\n' | hash-generator
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", config.DefaultBcryptCost, "bcrypt cost factor")
	flag.Parse()

	if err := run(*cost, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hash-generator:", err)
		os.Exit(1)
	}
}

// run hashes every secret in args, or every line of in when args is empty.
func run(cost int, args []string, in io.Reader, out io.Writer) error {
	hasher, err := auth.NewBcryptHasher(cost)
	if err != nil {
		return err
	}

	secrets := args
	if len(secrets) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			secrets = append(secrets, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read secrets: %w", err)
		}
	}

	for _, secret := range secrets {
		digest, err := hasher.Hash(secret)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, digest); err != nil {
			return err
		}
	}
	return nil
}
