package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tordrt/optionpruner"
	"github.com/tordrt/optionpruner/internal/catalog"
	"github.com/tordrt/optionpruner/internal/config"
	"github.com/tordrt/optionpruner/internal/formatter"
	"github.com/tordrt/optionpruner/internal/prompt"
)

const (
	msgMissingAttributeCode = "Please specify attribute code in the command using --attributeCode argument."
	msgNothingDeleted       = "Nothing deleted."
	msgDeleting             = "Deleting Unused Attribute options."
	msgDeleted              = "Deleted unused attribute options."
)

// flagKeys maps flags onto configuration keys
var flagKeys = map[string]string{
	"db-url":       config.KeyDatabaseURL,
	"table-prefix": config.KeyTablePrefix,
	"entity-type":  config.KeyEntityType,
	"value-table":  config.KeyValueTable,
	"format":       config.KeyFormat,
	"output-dir":   config.KeyOutputDir,
	"log-level":    config.KeyLogLevel,
}

type runOptions struct {
	attributeCodes []string
	configFile     string
	dryRun         bool
	assumeYes      bool
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "optionpruner",
		Short: "Delete unused attribute options",
		Long: `optionpruner deletes the options of an EAV attribute that no product references.
Options still stored on at least one product are kept. The command asks twice before deleting anything.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.attributeCodes, "attribute-code", "a", nil, "Attribute code to prune (repeatable)")
	flags.String("db-url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	flags.String("table-prefix", "", "Prefix of the catalog tables")
	flags.String("entity-type", "", "Entity type the attribute belongs to (default: catalog_product)")
	flags.String("value-table", "", "Table storing option ids on products (default: catalog_product_entity_int)")
	flags.StringP("format", "f", "", "Report format: text, markdown or json (default: text)")
	flags.StringP("output-dir", "d", "", "Write one report file per attribute to this directory")
	flags.String("log-level", "", "Log level: debug, info, warn or error (default: info)")
	flags.StringVarP(&opts.configFile, "config", "c", "", "Config file (default: .optionpruner.env)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Report unused options without deleting them")
	flags.BoolVarP(&opts.assumeYes, "yes", "y", false, "Skip the confirmation questions")
	flags.SetNormalizeFunc(normalizeFlagName)

	return cmd
}

// normalizeFlagName accepts the camelCase spelling of --attribute-code
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "attributeCode" {
		name = "attribute-code"
	}
	return pflag.NormalizedName(name)
}

// bindFlags makes explicitly set flags take precedence over env and config file
func bindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func run(cmd *cobra.Command, opts *runOptions) error {
	out := cmd.OutOrStdout()

	codes := cleanCodes(opts.attributeCodes)
	if len(codes) == 0 {
		_, _ = fmt.Fprintln(out, msgMissingAttributeCode)
		return nil
	}

	if err := config.InitConfig(opts.configFile); err != nil {
		return err
	}
	if err := bindFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, err := formatter.New(cfg.Output.Format, io.Discard); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, err := catalog.EnterSecureArea(cmd.Context())
	if err != nil {
		logger.Debug("continuing outside the secure area", "error", err)
	}

	if !opts.dryRun && !opts.assumeYes {
		confirmed, err := prompt.ConfirmAll(prompt.NewTerminal(cmd.InOrStdin(), out), prompt.DeleteQuestion, prompt.FinalQuestion)
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(out, msgNothingDeleted)
			return nil
		}
	}

	session, err := optionpruner.Open(ctx, cfg.Database.URL, &optionpruner.Options{
		TablePrefix:    cfg.Catalog.TablePrefix,
		EntityTypeCode: cfg.Catalog.EntityTypeCode,
		ValueTable:     cfg.Catalog.ValueTable,
		DryRun:         opts.dryRun,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to close database connection", "error", err)
		}
	}()

	if !opts.dryRun {
		_, _ = fmt.Fprintln(out, msgDeleting)
	}

	reports, pruneErr := optionpruner.PruneAll(ctx, session, codes, out)
	if pruneErr == nil && !opts.dryRun {
		_, _ = fmt.Fprintln(out, msgDeleted)
	}

	if err := writeReports(out, reports, cfg); err != nil {
		return err
	}

	return pruneErr
}

func writeReports(out io.Writer, reports []catalog.Report, cfg *config.Config) error {
	if len(reports) == 0 {
		return nil
	}
	return optionpruner.FormatReports(reports, &optionpruner.OutputOptions{
		Writer:    out,
		OutputDir: cfg.Output.Dir,
		Format:    cfg.Output.Format,
	})
}

func cleanCodes(codes []string) []string {
	var out []string
	for _, code := range codes {
		for _, part := range strings.Split(code, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
