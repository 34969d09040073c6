// Command ims: консольный интерфейс к складу и заказам.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/ims/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newCLI(os.Stdin, os.Stdout, os.Stderr, os.LookupEnv)
	if err := newRootCmd(c).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// cli хранит глобальные флаги и открытую сессию консоли.
// Пока session не nil, команды работают с ней и не открывают хранилище заново.
type cli struct {
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	lookupEnv func(string) (string, bool)

	configPath string
	driver     string
	dsn        string
	logLevel   string

	session *app.App
}

func newCLI(in io.Reader, out, errOut io.Writer, lookupEnv func(string) (string, bool)) *cli {
	return &cli{in: in, out: out, errOut: errOut, lookupEnv: lookupEnv}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "ims",
		Short:         "Inventory and order management",
		Long:          "ims manages products, customers and orders backed by an embedded SQLite file, MySQL or PostgreSQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to YAML config file")
	flags.StringVar(&c.driver, "driver", "", "storage driver: sqlite|mysql|postgres|memory (overrides config and "+app.EnvStorageDriver+")")
	flags.StringVar(&c.dsn, "dsn", "", "storage DSN (overrides config and "+app.EnvStorageDSN+")")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (overrides config and "+app.EnvLogLevel+")")

	addDomainCommands(root, c)
	root.AddCommand(newMigrateCmd(c))
	root.AddCommand(newConsoleCmd(c))
	return root
}

// addDomainCommands регистрирует команды, доступные и из shell, и внутри консоли.
func addDomainCommands(root *cobra.Command, c *cli) {
	root.AddCommand(newProductCmd(c))
	root.AddCommand(newCustomerCmd(c))
	root.AddCommand(newOrderCmd(c))
	root.AddCommand(newDashboardCmd(c))
	root.AddCommand(newVersionCmd(c))
}

// loadConfig собирает конфигурацию: умолчания, файл, окружение, флаги.
func (c *cli) loadConfig() (app.Config, []string, error) {
	cfg, err := app.LoadConfig(c.configPath)
	if err != nil {
		return app.Config{}, nil, err
	}
	warnings := cfg.ApplyEnv(c.lookupEnv)

	if v := strings.TrimSpace(c.driver); v != "" {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(c.dsn); v != "" {
		cfg.Storage.DSN = v
	}
	if v := strings.TrimSpace(c.logLevel); v != "" {
		cfg.Log.Level = v
	}
	return cfg, warnings, nil
}

func (c *cli) bootstrap() (app.Config, *log.Logger, error) {
	cfg, warnings, err := c.loadConfig()
	if err != nil {
		return app.Config{}, nil, err
	}
	logger, err := app.NewLogger(cfg.Log, c.errOut)
	if err != nil {
		return app.Config{}, nil, fmt.Errorf("log.level: %w", err)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	return cfg, logger, nil
}

// withApp выполняет fn с открытым приложением. Вне консоли хранилище
// открывается на одну команду и закрывается после неё.
func (c *cli) withApp(ctx context.Context, fn func(a *app.App) error) error {
	if c.session != nil {
		return fn(c.session)
	}

	cfg, logger, err := c.bootstrap()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.WithError(cerr).Warn("close application")
		}
	}()
	return fn(a)
}
