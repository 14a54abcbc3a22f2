package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/oleg578/swiftdsv"
	"github.com/oleg578/swiftdsv/internal/config"
	"github.com/oleg578/swiftdsv/internal/logging"
	"github.com/oleg578/swiftdsv/internal/render"
	"github.com/oleg578/swiftdsv/internal/source"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [flags] [file...]",
		Short: "Decode documents and print their tables",
		Long:  `Decode reads each file (or stdin when none is given or the name is "-") and prints the decoded table`,
		RunE:  runDecode,
	}

	cmd.Flags().String("text-character", "", `quote/escape character (default "\"")`)
	cmd.Flags().String("item-delimiter", "", `item separator, escapes \t \r \n allowed (default ",")`)
	cmd.Flags().String("line-delimiter", "", `line separator, escapes \t \r \n allowed (default "\r\n")`)
	cmd.Flags().String("format", "", "output format (pretty|json|msgpack)")
	cmd.Flags().String("encoding", "", "character set of the input (default utf-8)")
	cmd.Flags().Bool("header", false, "highlight the first row in pretty output")
	cmd.Flags().Int("jobs", 4, "number of files decoded in parallel")

	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	overrideString(flagString(cmd, "log-level"), &cfg.Log.Level)
	overrideString(flagString(cmd, "log-format"), &cfg.Log.Format)
	overrideString(flagString(cmd, "format"), &cfg.Output.Format)
	overrideString(flagString(cmd, "encoding"), &cfg.Output.Encoding)
	if cmd.Flags().Changed("header") {
		header, err := cmd.Flags().GetBool("header")
		if err != nil {
			return fmt.Errorf("failed to get header flag: %w", err)
		}
		cfg.Output.Header = header
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	for _, key := range cfg.Undecoded {
		logger.Debug("ignoring unknown config key", "key", key)
	}

	dec, err := newDecoder(cmd, cfg)
	if err != nil {
		return err
	}
	logger.Debug("decoder configured",
		"text_character", dec.TextCharacter(),
		"item_delimiter", dec.ItemDelimiter(),
		"line_delimiter", dec.LineDelimiter(),
	)

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 1 {
		return fmt.Errorf("--jobs must be positive, got %d", jobs)
	}

	if len(args) == 0 {
		args = []string{source.Stdin}
	}
	if countStdin(args) > 1 {
		return fmt.Errorf("standard input (%q) can only be read once", source.Stdin)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tables := make([][][]string, len(args))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			table, err := decodeFile(dec, path, cfg.Output.Encoding, cmd.InOrStdin(), logger)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := render.Options{
		Color:  colorEnabled(cmd, out),
		Header: cfg.Output.Header,
	}
	for i, table := range tables {
		if len(tables) > 1 && cfg.Output.Format == render.FormatPretty {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", args[i])
		}
		if err := render.Write(out, cfg.Output.Format, table, opts); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[i], err)
		}
	}
	return nil
}

// newDecoder layers the config file's [decoder] table under the command line flags.
func newDecoder(cmd *cobra.Command, cfg *config.File) (*swiftdsv.Decoder, error) {
	opts, err := swiftdsv.OptionsFromMap(cfg.Decoder)
	if err != nil {
		return nil, fmt.Errorf("config decoder: %w", err)
	}
	flagOptions := []struct {
		name string
		with func(string) swiftdsv.Option
	}{
		{"text-character", swiftdsv.WithTextCharacter},
		{"item-delimiter", swiftdsv.WithItemDelimiter},
		{"line-delimiter", swiftdsv.WithLineDelimiter},
	}
	for _, f := range flagOptions {
		if cmd.Flags().Changed(f.name) {
			opts = append(opts, f.with(unescapeFlag(flagString(cmd, f.name))))
		}
	}
	return swiftdsv.NewDecoder(opts...)
}

func decodeFile(dec *swiftdsv.Decoder, path, encoding string, stdin io.Reader, logger *slog.Logger) ([][]string, error) {
	log := logger.With("file", path)
	log.Info("decode started")

	rc, err := source.Open(path, stdin)
	if err != nil {
		log.Error("decode failed", "error", err)
		return nil, err
	}
	defer rc.Close()

	r, err := source.Decode(rc, encoding)
	if err != nil {
		log.Error("decode failed", "error", err)
		return nil, err
	}

	table, err := dec.DecodeReader(r)
	if err != nil {
		log.Error("decode failed", "error", err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("decode finished", "rows", len(table))
	return table, nil
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func overrideString(v string, dst *string) {
	if v != "" {
		*dst = v
	}
}

func countStdin(args []string) int {
	n := 0
	for _, arg := range args {
		if arg == source.Stdin {
			n++
		}
	}
	return n
}
