// Package main provides the empmanager binary: an interactive console over
// one in-process record store, plus a one-shot XLSX export.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/config"
	"github.com/example/empmanager/internal/logging"
)

const appName = "empmanager"

// Version is replaced at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Role-gated employee, department and attendance manager",
		Long: `empmanager keeps employees, departments and attendance in memory for the
lifetime of the process. Without a subcommand it starts the console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), opts, in, out, errOut)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "console",
			Short: "Start an interactive session",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConsole(cmd.Context(), opts, in, out, errOut)
			},
		},
		newExportCmd(opts, errOut),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func newExportCmd(opts *rootOptions, errOut io.Writer) *cobra.Command {
	var (
		outPath string
		role    string
	)

	cmd := &cobra.Command{
		Use:       "export <employees|attendance>",
		Short:     "Write the store contents as an XLSX workbook",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"employees", "attendance"},
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedRole, err := access.ParseRole(role)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, appOptions{logOutput: errOut})
			if err != nil {
				return err
			}
			defer a.Close()

			path := outPath
			if path == "" {
				path = args[0] + ".xlsx"
			}
			if err := a.exportFile(cmd.Context(), parsedRole, args[0], path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default <kind>.xlsx)")
	cmd.Flags().StringVar(&role, "role", string(access.RoleAdmin), "Role whose view is exported")
	return cmd
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		if _, err := logging.ParseLevel(level); err != nil {
			return config.Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func runConsole(ctx context.Context, opts *rootOptions, in io.Reader, out, errOut io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, appOptions{logOutput: errOut})
	if err != nil {
		return err
	}
	defer a.Close()

	return newConsole(a, out).Run(ctx, in)
}
