package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
	"github.com/zeusync/devkit/internal/core/token"
)

func newJWTCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Decode and verify JSON Web Tokens",
	}

	decodeCmd := &cobra.Command{
		Use:   "decode [token]",
		Short: "Print the header and claims of a token without verifying it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := tokenArg(cmd, args)
			if err != nil {
				return err
			}
			d, err := token.Decode(raw)
			if err != nil {
				return err
			}
			printDecoded(cmd.OutOrStdout(), d, a.cfg.IndentValue())
			return nil
		},
	}

	var (
		keyFile string
		secret  string
	)
	verifyCmd := &cobra.Command{
		Use:   "verify [token]",
		Short: "Verify a token's signature with an HMAC secret or a PEM public key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key []byte
			switch {
			case keyFile != "" && secret != "":
				return errors.New("--key and --secret are mutually exclusive")
			case keyFile != "":
				b, err := os.ReadFile(keyFile)
				if err != nil {
					return err
				}
				key = b
			case secret != "":
				key = []byte(secret)
			default:
				return errors.New("one of --key or --secret is required")
			}

			raw, err := tokenArg(cmd, args)
			if err != nil {
				return err
			}
			v, err := token.Verify(raw, key)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signature valid (%s, %s key)\n", v.Algorithm, v.KeyType)
			printDecoded(out, v.Decoded, a.cfg.IndentValue())
			return nil
		},
	}
	verifyCmd.Flags().StringVar(&keyFile, "key", "", "PEM public key or certificate file")
	verifyCmd.Flags().StringVar(&secret, "secret", "", "HMAC secret")

	cmd.AddCommand(decodeCmd, verifyCmd)
	return cmd
}

func tokenArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != stdinName {
		return args[0], nil
	}
	text, err := readInput(cmd, stdinName)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func printDecoded(out io.Writer, d *token.Decoded, indent jsonvalue.Indent) {
	fmt.Fprintf(out, "Header:\n%s\n", jsonvalue.Format(d.Header, indent))
	fmt.Fprintf(out, "Claims:\n%s\n", jsonvalue.Format(d.Claims, indent))
	if d.IssuedAt != nil {
		fmt.Fprintf(out, "Issued:  %s\n", d.IssuedAt.Format(time.RFC3339))
	}
	if d.NotBefore != nil {
		fmt.Fprintf(out, "Valid:   from %s\n", d.NotBefore.Format(time.RFC3339))
	}
	if d.ExpiresAt != nil {
		state := "valid"
		if d.Expired {
			state = "expired"
		}
		fmt.Fprintf(out, "Expires: %s (%s)\n", d.ExpiresAt.Format(time.RFC3339), state)
	}
}
