package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkarczewski/bdl-client/pkg/bdl"
	"github.com/spf13/cobra"
)

var (
	flagUnitLevel int

	searchUnitsCmd = &cobra.Command{
		Use:   "search-units <name>",
		Short: "Search territorial units by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			units, err := client.SearchUnits(cmd.Context(), args[0], flagUnitLevel)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				fmt.Fprintln(os.Stderr, "no units found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLEVEL\tNAME")
			for _, u := range units {
				fmt.Fprintf(w, "%s\t%d\t%s\n", u.ID, u.Level, u.Name)
			}
			return w.Flush()
		},
	}

	flagVarSubject string
	flagVarLevel   int

	searchVariablesCmd = &cobra.Command{
		Use:   "search-variables <text>",
		Short: "Search statistical variables by text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			vars, err := client.SearchVariables(cmd.Context(), bdl.SearchVariablesOptions{
				Text:      args[0],
				SubjectID: flagVarSubject,
				Level:     flagVarLevel,
			})
			if err != nil {
				return err
			}
			if len(vars) == 0 {
				fmt.Fprintln(os.Stderr, "no variables found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMEASURE\tNAME")
			for _, v := range vars {
				fmt.Fprintf(w, "%d\t%s\t%s\n", v.ID, v.MeasureUnitName, v.FullName())
			}
			return w.Flush()
		},
	}

	subjectsCmd = &cobra.Command{
		Use:   "subjects [parent-id]",
		Short: "Browse the subject tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			parentID := ""
			if len(args) == 1 {
				parentID = args[0]
			}

			subjects, err := client.ListSubjects(cmd.Context(), parentID)
			if err != nil {
				return err
			}
			if len(subjects) == 0 {
				fmt.Fprintln(os.Stderr, "no subjects found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCHILDREN\tNAME")
			for _, s := range subjects {
				fmt.Fprintf(w, "%s\t%d\t%s\n", s.ID, len(s.Children), s.Name)
			}
			return w.Flush()
		},
	}
)

func init() {
	searchUnitsCmd.Flags().IntVar(&flagUnitLevel, "level", 0, "restrict to a hierarchy level (2, 5 or 6)")
	searchVariablesCmd.Flags().StringVar(&flagVarSubject, "subject", "", "restrict to a subject id")
	searchVariablesCmd.Flags().IntVar(&flagVarLevel, "level", 0, "restrict to variables available at a level")
}
