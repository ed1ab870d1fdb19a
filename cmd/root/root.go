package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operator-framework/bnb/cmd/examples"
	"github.com/operator-framework/bnb/cmd/solve"
)

func NewRootCmd() *cobra.Command {
	var debug bool
	rootCmd := &cobra.Command{
		Use:   "bnb",
		Short: "bnb solves integer linear programs by branch and bound",
		Long: `A branch and bound solver for integer linear programs written in Go.
Relaxations are solved with the simplex method.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every relaxation and search step")

	// add sub-commands
	rootCmd.AddCommand(solve.NewSolveCommand())
	rootCmd.AddCommand(examples.NewExamplesCommand())

	return rootCmd
}
