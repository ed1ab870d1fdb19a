package examples

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/operator-framework/bnb/cmd/solve"
	bundled "github.com/operator-framework/bnb/pkg/examples"
)

func NewExamplesCommand() *cobra.Command {
	options := solve.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "examples [number]",
		Short: "Solves one of the bundled example programs",
		Long: `Solves one of the bundled example programs. Without a number a menu
lists the examples and reads choices until q is entered.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return options.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := bundled.All()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return run(cmd, all, args[0], options)
			}
			return menu(cmd, all, options)
		},
	}
	options.AddFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, all []bundled.Example, choice string, options *solve.Options) error {
	number, err := strconv.Atoi(choice)
	if err != nil || number < 1 || number > len(all) {
		return fmt.Errorf("invalid example %q, pick a number from 1 to %d", choice, len(all))
	}
	return solve.Run(cmd.Context(), cmd.OutOrStdout(), all[number-1].Model, options)
}

func menu(cmd *cobra.Command, all []bundled.Example, options *solve.Options) error {
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		printMenu(out, all)
		if !in.Scan() {
			return in.Err()
		}
		choice := strings.TrimSpace(in.Text())
		switch choice {
		case "q", "Q":
			return nil
		case "":
			continue
		}
		if err := run(cmd, all, choice, options); err != nil {
			fmt.Fprintf(out, "%s\n", err)
		}
	}
}

func printMenu(out io.Writer, all []bundled.Example) {
	fmt.Fprintln(out, "Examples:")
	for _, e := range all {
		fmt.Fprintf(out, "  %d) %s\n", e.Number, e.Model.Name)
	}
	fmt.Fprint(out, "Choose an example (q to quit): ")
}
