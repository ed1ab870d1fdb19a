package solve

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/operator-framework/bnb/pkg/model"
)

func NewSolveCommand() *cobra.Command {
	options := DefaultOptions()
	cmd := &cobra.Command{
		Use:   "solve <path>",
		Short: "Solves an integer linear program given in YAML",
		Long: `Solves an integer linear program given in YAML. For instance:
name: example
objective:
  sense: maximize
  coefficients: {x: 3, y: 2}
variables:
  - name: x
  - name: y
    upper: 3
    # type: continuous lifts integrality
constraints:
  - coefficients: {x: 1, y: 1}
    sense: "<="
    rhs: 5.5
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return options.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.Load(args[0])
			if err != nil {
				return err
			}
			return Run(cmd.Context(), cmd.OutOrStdout(), m, options)
		},
	}
	options.AddFlags(cmd.Flags())
	return cmd
}
