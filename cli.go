package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"toolstation/codec"
	"toolstation/convert"
	"toolstation/format"
	"toolstation/ledger"
	"toolstation/passgen"
	"toolstation/qrcode"
	"toolstation/store"
	"toolstation/textmetric"
)

// readInput returns the contents of the file named by args[0], or stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count [file]",
		Short: "Count characters, words and bytes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return printJSON(cmd, textmetric.Compute(s))
		},
	}
}

func newCaseCmd() *cobra.Command {
	names := make([]string, 0, len(convert.Kinds()))
	for _, k := range convert.Kinds() {
		names = append(names, k.String())
	}
	return &cobra.Command{
		Use:       "case <" + strings.Join(names, "|") + "> [file]",
		Short:     "Convert text case",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := convert.ParseKind(args[0])
			if err != nil {
				return err
			}
			s, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			out, err := convert.Convert(s, k)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newJSONCmd() *cobra.Command {
	var indent int
	cmd := &cobra.Command{
		Use:   "json [file]",
		Short: "Pretty-print JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out, err := format.JSON(s, indent)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&indent, "indent", "i", format.Indent2, "Indent width (2 or 4)")
	return cmd
}

func newSQLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sql [file]",
		Short: "Lay out a SQL statement one clause per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out, err := format.SQL(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newBase64Cmd() *cobra.Command {
	var decode bool
	cmd := &cobra.Command{
		Use:   "base64 [file]",
		Short: "Encode or decode Base64",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			mode := codec.ModeEncode
			if decode {
				mode = codec.ModeDecode
			}
			out, err := codec.Convert(s, mode)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&decode, "decode", "d", false, "Decode instead of encode")
	return cmd
}

func newPasswordCmd() *cobra.Command {
	opts := passgen.DefaultOptions()
	var noUpper, noLower, noNumbers, noSymbols bool
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Generate a random password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Uppercase = !noUpper
			opts.Lowercase = !noLower
			opts.Numbers = !noNumbers
			opts.Symbols = !noSymbols
			pw, err := passgen.Generate(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pw)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.Length, "length", "l", passgen.DefaultLength, "Password length")
	f.BoolVar(&noUpper, "no-upper", false, "Exclude uppercase letters")
	f.BoolVar(&noLower, "no-lower", false, "Exclude lowercase letters")
	f.BoolVar(&noNumbers, "no-numbers", false, "Exclude digits")
	f.BoolVar(&noSymbols, "no-symbols", false, "Exclude symbols")
	f.BoolVar(&opts.ExcludeSimilar, "exclude-similar", false, "Exclude look-alike characters (il1Lo0O)")
	return cmd
}

func newQRCmd() *cobra.Command {
	var (
		out    string
		opts   qrcode.Options
		margin int
	)
	cmd := &cobra.Command{
		Use:   "qr <content>",
		Short: "Write a QR code PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Margin = &margin
			data, err := qrcode.PNG(args[0], opts)
			if err != nil {
				return err
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0644)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "output", "o", "qr.png", `Output file ("-" for stdout)`)
	f.IntVar(&opts.Size, "size", qrcode.DefaultSize, "Image size in pixels")
	f.IntVar(&margin, "margin", qrcode.DefaultMargin, "Quiet zone in modules")
	f.StringVar(&opts.Foreground, "fg", "#000000", "Foreground color")
	f.StringVar(&opts.Background, "bg", "#ffffff", "Background color")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var client string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show recorded usage and recent tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(a.cfg.Storage.Backend, a.cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			l := ledger.New(st, a.logger)
			u, err := l.Usage(cmd.Context(), client)
			if err != nil {
				return err
			}
			recent, err := l.Recent(cmd.Context(), client)
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				ledger.Usage
				RecentTools []string `json:"recentTools"`
			}{u, recent})
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "Client id (empty for the unscoped ledger)")
	return cmd
}
