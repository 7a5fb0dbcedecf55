// cmd/actionbridge/commands.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"actionbridge/internal/common/config"
	"actionbridge/internal/common/logger"
	"actionbridge/internal/common/observability"
	"actionbridge/internal/common/transport"
	"actionbridge/internal/engine"
	"actionbridge/internal/formdata"
	"actionbridge/internal/models"
	"actionbridge/internal/mongo"
	"actionbridge/internal/sheets"
	"actionbridge/pkg/catalog"
)

type rootOptions struct {
	configPath string
	backend    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "actionbridge",
		Short:         "Translate builder form configurations into Google Sheets and MongoDB requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (default configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", sheets.BackendName, "backend to run against: sheets or mongo")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newExecuteCmd(opts))
	root.AddCommand(newLookupCmd(opts))
	root.AddCommand(newTemplatesCmd())
	root.AddCommand(newOperationsCmd())
	root.AddCommand(newServeCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version)
		},
	}
}

// newBackend builds the named backend. The returned func releases its connections.
func newBackend(ctx context.Context, name string, cfg *config.Config, log logger.Logger) (engine.Backend, func(), error) {
	switch name {
	case sheets.BackendName:
		client := transport.NewClient(
			config.GetDuration(cfg.Transport.Timeout),
			transport.WithMaxResponseBytes(cfg.Transport.MaxResponseBytes),
			transport.WithUserAgent(cfg.Transport.UserAgent),
		)
		tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Sheets.AccessToken})
		ep := sheets.Endpoints{SheetsBaseURL: cfg.Sheets.SheetsBaseURL, DriveBaseURL: cfg.Sheets.DriveBaseURL}
		return sheets.NewBackend(client, tokens, ep, log), func() {}, nil

	case mongo.BackendName:
		client, db, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(shutdownCtx); err != nil {
				log.Warn("mongo disconnect failed", map[string]interface{}{"error": err.Error()})
			}
		}
		return mongo.NewBackend(mongo.NewDatabaseRunner(db), log), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", name)
}

func readJSONFile(path string, out interface{}) error {
	if path == "" {
		return nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newExecuteCmd(opts *rootOptions) *cobra.Command {
	var formPath, paramsPath string
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Run one operation and print the result envelope",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zapLog, log, err := loadRuntime(opts.configPath)
			if err != nil {
				return err
			}
			defer zapLog.Sync()

			form := formdata.Map{}
			if err := readJSONFile(formPath, &form); err != nil {
				return fmt.Errorf("read form: %w", err)
			}
			var params []models.Param
			if err := readJSONFile(paramsPath, &params); err != nil {
				return fmt.Errorf("read params: %w", err)
			}

			backend, closeFn, err := newBackend(cmd.Context(), opts.backend, cfg, log)
			if err != nil {
				return err
			}
			defer closeFn()

			env, err := engine.New(backend, log, nil).Execute(cmd.Context(), form, params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), env)
		},
	}
	cmd.Flags().StringVar(&formPath, "form", "-", "form configuration JSON file, - for stdin")
	cmd.Flags().StringVar(&paramsPath, "params", "", "binding parameters JSON file")
	return cmd
}

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var formPath, trigger string
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Run a builder trigger and print its options",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zapLog, log, err := loadRuntime(opts.configPath)
			if err != nil {
				return err
			}
			defer zapLog.Sync()

			form := formdata.Map{}
			if err := readJSONFile(formPath, &form); err != nil {
				return fmt.Errorf("read form: %w", err)
			}

			backend, closeFn, err := newBackend(cmd.Context(), opts.backend, cfg, log)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := engine.New(backend, log, nil).Lookup(cmd.Context(), models.TriggerKind(trigger), form)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&trigger, "trigger", string(models.TriggerSpreadsheetSelector), "trigger kind")
	cmd.Flags().StringVar(&formPath, "form", "", "form configuration JSON file, - for stdin")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	var hints models.TemplateHints
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Print example mongo configurations for a collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), mongo.Templates(hints))
		},
	}
	cmd.Flags().StringVar(&hints.CollectionName, "collection", "", "collection name")
	cmd.Flags().StringVar(&hints.FilterFieldName, "filter-field", "", "field used in example filters")
	cmd.Flags().StringVar(&hints.FilterFieldValue, "filter-value", "", "value used in example filters")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

func newOperationsCmd() *cobra.Command {
	var backend, check string
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "Print the catalog of supported operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := catalog.New(version, sheets.Operations(), mongo.Operations())
			if check != "" {
				return checkCatalog(cmd.OutOrStdout(), c, check)
			}
			if backend != "" {
				c.Operations = c.ByBackend(backend)
			}
			return c.Write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&backend, "only", "", "limit output to one backend")
	cmd.Flags().StringVar(&check, "check", "", "compare a stored catalog file against the supported operations")
	return cmd
}

// checkCatalog reports drift between the stored catalog at path and current.
func checkCatalog(w io.Writer, current *catalog.Catalog, path string) error {
	stored, err := catalog.LoadCatalog(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog %s: %w", path, err)
	}

	added := current.Missing(stored)
	removed := stored.Missing(current)
	for _, op := range added {
		fmt.Fprintf(w, "+ %s %s\n", op.Backend, op.ID)
	}
	for _, op := range removed {
		fmt.Fprintf(w, "- %s %s\n", op.Backend, op.ID)
	}
	if len(added)+len(removed) > 0 {
		return fmt.Errorf("catalog %s is out of date: %d added, %d removed", path, len(added), len(removed))
	}
	fmt.Fprintf(w, "catalog %s is up to date\n", path)
	return nil
}

func newObservability(cfg *config.Config, log logger.Logger) *observability.Observability {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return observability.New(cfg.App.Name, prometheus.DefaultRegisterer, log)
}
