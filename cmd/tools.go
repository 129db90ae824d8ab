package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/josephlewis42/unox/commands"
	"github.com/josephlewis42/unox/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// runTool runs a registered tool over the host filesystem with the
// command's standard streams.
func runTool(cmd *cobra.Command, name string, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	sharedOS := vos.NewSharedOS(ctx, afero.NewOsFs(), commands.BuiltinProcessResolver, appConfig, appLogger)
	stdio := vos.NewVIOAdapter(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	initProc := sharedOS.InitProc(wd, os.Environ(), stdio)

	proc, err := initProc.StartProcess(name, append([]string{name}, args...), &vos.ProcAttr{
		Files: stdio,
	})
	if err != nil {
		return err
	}

	if status := proc.Run(); status != 0 {
		return exitStatusError(status)
	}
	return nil
}

func newToolCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:                name + " [ARGS...]",
		Short:              "Run the " + name + " tool, see: unox " + name + " --help",
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, name, args)
		},
	}
}

func init() {
	for _, tool := range commands.ListBuiltinCommands() {
		rootCmd.AddCommand(newToolCmd(tool.Names[0]))
	}
}
