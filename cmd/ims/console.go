package main

import (
	"bufio"
	"context"
	"fmt"

	"github.com/google/shlex"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/ims/internal/app"
)

const consolePrompt = "ims> "

func newConsoleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive session over one storage connection",
		Long: "console reads commands line by line, e.g. `order create --customer 1 --product 2 --quantity 3`.\n" +
			"Quotes group words: `product add --name \"Coffee Mug\" ...`. Type `exit` to leave.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runConsole(cmd.Context())
		},
	}
}

// sessionHook добавляет идентификатор сессии к каждой записи лога.
type sessionHook struct {
	id string
}

func (h sessionHook) Levels() []log.Level { return log.AllLevels }

func (h sessionHook) Fire(entry *log.Entry) error {
	entry.Data["session_id"] = h.id
	return nil
}

func (c *cli) runConsole(ctx context.Context) error {
	cfg, logger, err := c.bootstrap()
	if err != nil {
		return err
	}
	sessionID := uuid.NewString()
	logger.AddHook(sessionHook{id: sessionID})

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	c.session = a
	defer func() {
		c.session = nil
		if cerr := a.Close(); cerr != nil {
			logger.WithError(cerr).Warn("close application")
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ops, err := a.StartOpsServer(ctx)
	if err != nil {
		return err
	}
	defer ops.Shutdown()

	logger.WithField("driver", cfg.Storage.Driver).Info("console session started")

	scanner := bufio.NewScanner(c.in)
	for {
		_, _ = fmt.Fprint(c.out, consolePrompt)
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		args, err := splitArgs(scanner.Text())
		if err != nil {
			_, _ = fmt.Fprintf(c.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			break
		}

		if err := c.execSessionLine(ctx, args); err != nil {
			_, _ = fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	_, _ = fmt.Fprintln(c.out)

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read console input: %w", err)
	}
	logger.Info("console session finished")
	return nil
}

// execSessionLine выполняет одну строку на свежем дереве команд,
// чтобы значения флагов не переходили между строками.
func (c *cli) execSessionLine(ctx context.Context, args []string) error {
	root := &cobra.Command{
		Use:           "ims",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.SetErr(c.out)
	root.CompletionOptions.DisableDefaultCmd = true
	addDomainCommands(root, c)

	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// splitArgs делит строку на аргументы по правилам shell: кавычки группируют,
// обратный слеш экранирует.
func splitArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse command line: %w", err)
	}
	return args, nil
}
