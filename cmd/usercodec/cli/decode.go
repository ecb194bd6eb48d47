// Package cli implements the usercodec command-line subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"usercodec/internal/usecase/user"
)

// Decode runs "usercodec decode [-strict] [file ...]". Each input holds one
// wire object; "-" or no arguments read stdin. Successful records are
// written to stdout in normalized form, one per line. It returns the
// process exit code.
func Decode(ctx context.Context, uc user.Usecase, args []string, stdin io.Reader, stdout, stderr io.Writer, log *zap.Logger) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	strict := fs.Bool("strict", false, "reject fields outside createdAt, id, isAdmin, karma")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	failed := 0
	for _, name := range inputs {
		payload, err := readInput(name, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			failed++
			continue
		}

		decoded, err := uc.Decode(ctx, user.DecodeRequest{Payload: payload, Strict: *strict})
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			failed++
			continue
		}

		encoded, err := uc.Encode(ctx, user.EncodeRequest{User: decoded.User})
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "%s\n", encoded.Payload)
	}

	log.Debug("decode finished", zap.Int("inputs", len(inputs)), zap.Int("failed", failed))
	if failed > 0 {
		return 1
	}
	return 0
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}
