package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/triagemail/internal/app"
	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/filter"
	"github.com/lu-zhengda/triagemail/internal/reconcile"
)

func newInitCmd() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Load the initial mailbox and apply rules",
		Long:  "Fetch the initial mailbox, apply the configured rules and select the first Inbox email.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, true)
			if err != nil {
				return err
			}
			defer s.close()

			if len(s.svc.Emails()) > 0 && !forceFlag {
				return errors.New("mailbox already initialized; use --force to reload it")
			}
			if err := s.svc.Initialize(ctx); err != nil {
				return err
			}
			if len(s.contacts) == 0 {
				for _, c := range s.cfg.DomainContacts() {
					s.svc.AddContact(c)
				}
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(newJSONAction("init", nil, s.svc.Selected()))
			}
			fmt.Printf("Loaded %d emails.\n", len(s.svc.Emails()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&forceFlag, "force", false, "discard the current mailbox and reload")
	return cmd
}

func newListCmd() *cobra.Command {
	var folderFlag, labelFlag, sortFlag string
	var whereFlags []string
	var anyFlag, clearFlag, ascFlag, descFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List emails in the active folder or label",
		Long: "List emails in the active folder or label. --folder and --label switch\n" +
			"the active view. --where takes field:operator:value, for example\n" +
			"sender:contains:billing or labelConfidence:>:80. Conditions and sort\n" +
			"order are kept for later commands until replaced or --clear is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				switch {
				case folderFlag != "" && labelFlag != "":
					return errors.New("--folder and --label are mutually exclusive")
				case folderFlag != "":
					f, ok := domain.ParseFolder(folderFlag)
					if !ok {
						return fmt.Errorf("unknown folder %q", folderFlag)
					}
					s.svc.SetActive(domain.FolderFilter(f))
				case labelFlag != "":
					s.svc.SetActive(domain.LabelFilter(labelFlag))
				}

				if clearFlag || len(whereFlags) > 0 || cmd.Flags().Changed("any") {
					conds := s.svc.Query().Conditions
					if clearFlag || len(whereFlags) > 0 {
						conds = make([]domain.FilterCondition, 0, len(whereFlags))
					}
					for i, w := range whereFlags {
						c, err := parseCondition(fmt.Sprintf("cond-%d", i+1), w)
						if err != nil {
							return err
						}
						conds = append(conds, c)
					}
					logic := domain.LogicAnd
					if anyFlag {
						logic = domain.LogicOr
					}
					s.svc.SetConditions(conds, logic)
				}

				if sortFlag != "" || ascFlag || descFlag {
					cfg := s.svc.Query().Sort
					if sortFlag != "" {
						cfg.Key = domain.SortKey(sortFlag)
					}
					if ascFlag {
						cfg.Direction = domain.Asc
					}
					if descFlag {
						cfg.Direction = domain.Desc
					}
					s.svc.SetSort(cfg)
				}

				emails := s.svc.Displayed()
				if jsonFlag {
					return printJSON(toJSONEmails(emails, s.svc.Selected()))
				}
				fmt.Printf("%s (%d)\n", s.svc.Active(), len(emails))
				if len(emails) == 0 {
					fmt.Println("No messages found.")
					return nil
				}
				return printEmailTable(emails, s.svc.Selected())
			})
		},
	}
	cmd.Flags().StringVar(&folderFlag, "folder", "", "switch to a folder (Inbox, Sent, Spam, Archive, Trash)")
	cmd.Flags().StringVar(&labelFlag, "label", "", "switch to a label")
	cmd.Flags().StringArrayVar(&whereFlags, "where", nil, "filter condition field:operator:value (repeatable)")
	cmd.Flags().BoolVar(&anyFlag, "any", false, "match any condition instead of all")
	cmd.Flags().BoolVar(&clearFlag, "clear", false, "drop the saved filter conditions")
	cmd.Flags().StringVar(&sortFlag, "sort", "", "sort key (timestamp, read, sender)")
	cmd.Flags().BoolVar(&ascFlag, "asc", false, "sort ascending")
	cmd.Flags().BoolVar(&descFlag, "desc", false, "sort descending")
	cmd.MarkFlagsMutuallyExclusive("asc", "desc")
	return cmd
}

// parseCondition parses field:operator:value. The value may contain colons.
func parseCondition(id, s string) (domain.FilterCondition, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return domain.FilterCondition{}, fmt.Errorf("invalid condition %q: want field:operator:value", s)
	}
	c := domain.FilterCondition{
		ID:       id,
		Field:    domain.FilterField(parts[0]),
		Operator: domain.FilterOperator(parts[1]),
		Value:    parts[2],
	}
	if !filter.Valid(c) {
		return domain.FilterCondition{}, fmt.Errorf("invalid condition %q: unsupported field or operator", s)
	}
	return c, nil
}

func printEmailTable(emails []domain.Email, selected []string) error {
	sel := make(map[string]bool, len(selected))
	for _, id := range selected {
		sel[id] = true
	}

	w := newTable()
	fmt.Fprintln(w, "SEL\tUNREAD\tFROM\tSUBJECT\tDATE\tLABELS\tID")
	for _, e := range emails {
		mark := " "
		if sel[e.ID] {
			mark = ">"
		}
		unread := " "
		if !e.Read {
			unread = "*"
		}
		names := make([]string, 0, len(e.Labels))
		for _, l := range e.Labels {
			names = append(names, l.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, unread, truncate(e.Sender, 30), truncate(e.Subject, 50),
			e.Timestamp.Format("Jan 2, 2006"), strings.Join(names, ","), e.ID,
		)
	}
	return w.Flush()
}

func newShowCmd() *cobra.Command {
	var noAnalyzeFlag bool

	cmd := &cobra.Command{
		Use:   "show <email-id>",
		Short: "Select and display an email",
		Long:  "Select and display an email. The email is sent for AI label suggestions unless it was analyzed before.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withSession(ctx, func(s *session) error {
				id := args[0]
				if _, ok := s.svc.Email(id); !ok {
					return fmt.Errorf("email %s not found", id)
				}
				s.svc.Select(id)

				var added []domain.Label
				var aiErr error
				if !noAnalyzeFlag {
					added, aiErr = analyzeQuietly(ctx, s, id)
				}

				e, _ := s.svc.Email(id)
				from := s.svc.ResolveSender(e)
				if jsonFlag {
					d := jsonEmailDetail{
						jsonEmail: toJSONEmail(&e, true),
						From:      toJSONSender(from),
						AddedByAI: toJSONLabels(added),
					}
					if aiErr != nil {
						d.AIError = aiErr.Error()
					}
					return printJSON(d)
				}

				fmt.Printf("From:    %s <%s>", from.Name, from.Email)
				if from.IsContact {
					fmt.Print(" (contact)")
				}
				fmt.Println()
				fmt.Printf("To:      %s\n", e.Recipient)
				fmt.Printf("Date:    %s\n", e.Timestamp.Format("Mon, Jan 2, 2006 at 3:04 PM"))
				fmt.Printf("Subject: %s\n", e.Subject)
				fmt.Printf("Folder:  %s\n", e.Folder)
				if len(e.Labels) > 0 {
					fmt.Println("Labels:")
					for _, l := range e.Labels {
						fmt.Printf("  %-20s %-4s %3.0f%%  %s\n", l.Name, l.Source, l.Confidence*100, l.ID)
					}
				}
				if aiErr != nil {
					fmt.Fprintf(os.Stderr, "AI analysis failed: %v\n", aiErr)
				}
				fmt.Println()
				fmt.Println(e.Body)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noAnalyzeFlag, "no-analyze", false, "do not request AI label suggestions")
	return cmd
}

// analyzeQuietly runs analysis the way viewing an email does: an email that
// was already analyzed, or no configured service, is not an error.
func analyzeQuietly(ctx context.Context, s *session, id string) ([]domain.Label, error) {
	added, err := s.svc.Analyze(ctx, id, false)
	if errors.Is(err, reconcile.ErrSkipped) || errors.Is(err, reconcile.ErrDiscarded) || errors.Is(err, app.ErrNoSuggester) {
		return nil, nil
	}
	return added, err
}
