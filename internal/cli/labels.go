package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/triagemail/internal/app"
	"github.com/lu-zhengda/triagemail/internal/domain"
)

func newLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Edit the labels of an email",
	}
	cmd.AddCommand(newLabelEditCmd("add <email-id> <name>", "Add a user label", 2,
		func(s *session, args []string) (domain.Label, error) {
			return s.svc.AddLabel(args[0], args[1])
		}))
	cmd.AddCommand(newLabelEditCmd("rename <email-id> <label-id> <name>", "Rename a label, making it a user label", 3,
		func(s *session, args []string) (domain.Label, error) {
			return s.svc.UpdateLabel(args[0], args[1], args[2])
		}))
	cmd.AddCommand(newLabelEditCmd("confirm <email-id> <label-id>", "Confirm an AI suggested label", 2,
		func(s *session, args []string) (domain.Label, error) {
			return s.svc.ConfirmAILabel(args[0], args[1])
		}))
	cmd.AddCommand(newLabelEditCmd("reject <email-id> <label-id>", "Reject an AI suggested label", 2,
		func(s *session, args []string) (domain.Label, error) {
			e, ok := s.svc.Email(args[0])
			if !ok {
				return domain.Label{}, fmt.Errorf("email %s not found", args[0])
			}
			l, ok := e.LabelByID(args[1])
			if !ok {
				return domain.Label{}, fmt.Errorf("label %s on email %s: %w", args[1], args[0], app.ErrLabelNotFound)
			}
			return l, s.svc.RejectAILabel(args[0], l)
		}))
	cmd.AddCommand(newLabelEditCmd("remove <email-id> <label-id>", "Remove a label", 2,
		func(s *session, args []string) (domain.Label, error) {
			return s.svc.RemoveLabel(args[0], args[1])
		}))
	return cmd
}

func newLabelEditCmd(use, short string, nargs int, edit func(*session, []string) (domain.Label, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				l, err := edit(s, args)
				switch {
				case errors.Is(err, app.ErrInvalidLabel):
					return errors.New("label name must not be empty")
				case errors.Is(err, app.ErrDuplicateLabel):
					return fmt.Errorf("email %s already has a label named %q", args[0], args[len(args)-1])
				case err != nil:
					return err
				}

				if jsonFlag {
					out := newJSONAction("label_"+cmd.Name(), []string{args[0]}, s.svc.Selected())
					jl := toJSONLabel(l)
					out.Label = &jl
					return printJSON(out)
				}
				fmt.Printf("%s: %s (%s, %s)\n", cmd.Name(), l.Name, l.Source, l.ID)
				return nil
			})
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "analyze [email-id]",
		Short: "Request AI label suggestions for an email",
		Long:  "Request AI label suggestions for an email (the selected one by default). --force retries an email whose earlier analysis failed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// A failed attempt still changes state and must be saved.
			var analyzeErr error
			err := withSession(ctx, func(s *session) error {
				ids, err := s.targets(args)
				if err != nil {
					return err
				}
				added, err := s.svc.Analyze(ctx, ids[0], forceFlag)
				if err != nil {
					analyzeErr = err
					return nil
				}
				if jsonFlag {
					return printJSON(toJSONLabels(added))
				}
				if len(added) == 0 {
					fmt.Println("No new labels suggested.")
					return nil
				}
				for _, l := range added {
					fmt.Printf("%-20s %3.0f%%  %s\n", l.Name, l.Confidence*100, l.ID)
				}
				return nil
			})
			if err != nil {
				return err
			}
			return analyzeErr
		},
	}
	cmd.Flags().BoolVar(&forceFlag, "force", false, "analyze even if an earlier attempt failed")
	return cmd
}

func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List label names with email and unread counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.close()

			counts := toJSONLabelCounts(s.svc.Labels(), s.svc.UnreadCounts().Labels)
			if jsonFlag {
				return printJSON(counts)
			}
			if len(counts) == 0 {
				fmt.Println("No labels.")
				return nil
			}
			w := newTable()
			fmt.Fprintln(w, "NAME\tEMAILS\tUNREAD")
			for _, c := range counts {
				fmt.Fprintf(w, "%s\t%d\t%d\n", c.Name, c.Emails, c.Unread)
			}
			return w.Flush()
		},
	}
}

func newCountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show unread counts per folder and label",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.close()

			counts := toJSONCounts(s.svc.UnreadCounts())
			if jsonFlag {
				return printJSON(counts)
			}
			w := newTable()
			fmt.Fprintln(w, "FOLDER\tUNREAD")
			for _, f := range counts.Folders {
				fmt.Fprintf(w, "%s\t%d\n", f.Folder, f.Unread)
			}
			return w.Flush()
		},
	}
}

func newTrainingCmd() *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "training",
		Short: "Show the label feedback log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.close()

			entries := s.svc.Training()
			if limitFlag > 0 && len(entries) > limitFlag {
				entries = entries[len(entries)-limitFlag:]
			}
			if jsonFlag {
				return printJSON(toJSONTraining(entries))
			}
			if len(entries) == 0 {
				fmt.Println("No feedback recorded.")
				return nil
			}
			w := newTable()
			fmt.Fprintln(w, "TIME\tFEEDBACK\tLABEL\tEMAIL")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					e.Timestamp.Format("Jan 2 15:04"), e.Feedback, e.Label, truncate(e.EmailBody, 50))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "show only the most recent entries")
	return cmd
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the configured rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rules, err := cfg.DomainRules()
			if err != nil {
				return err
			}
			out := toJSONRules(rules)
			if jsonFlag {
				return printJSON(out)
			}
			w := newTable()
			fmt.Fprintln(w, "ID\tIF\tTHEN")
			for _, r := range out {
				fmt.Fprintf(w, "%s\t%s %s %q\t%s %s\n", r.ID, r.Field, r.Operator, r.Value, r.Action, r.Target)
			}
			return w.Flush()
		},
	}
}
