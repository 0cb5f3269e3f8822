package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage the address book",
	}
	cmd.AddCommand(newContactsListCmd())
	cmd.AddCommand(newContactsAddCmd())
	cmd.AddCommand(newContactsRemoveCmd())
	return cmd
}

func newContactsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.close()

			contacts := toJSONContacts(s.svc.Contacts())
			if jsonFlag {
				return printJSON(contacts)
			}
			if len(contacts) == 0 {
				fmt.Println("No contacts.")
				return nil
			}
			w := newTable()
			fmt.Fprintln(w, "NAME\tEMAILS\tID")
			for _, c := range contacts {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, strings.Join(c.Emails, ", "), c.ID)
			}
			return w.Flush()
		},
	}
}

func newContactsAddCmd() *cobra.Command {
	var nameFlag, fromFlag string
	var emailFlags []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Long:  "Add a contact by --name and --email, or from the sender of an email with --from-sender.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFlag == "" && (nameFlag == "" || len(emailFlags) == 0) {
				return errors.New("either --from-sender or both --name and --email are required")
			}
			return withSession(cmd.Context(), func(s *session) error {
				var c domain.Contact
				if fromFlag != "" {
					e, ok := s.svc.Email(fromFlag)
					if !ok {
						return fmt.Errorf("email %s not found", fromFlag)
					}
					var added bool
					c, added = s.svc.AddSenderToContacts(e)
					if !added {
						return fmt.Errorf("sender of %s is already a contact", fromFlag)
					}
				} else {
					c = s.svc.AddContact(domain.Contact{Name: nameFlag, Emails: emailFlags})
				}

				if jsonFlag {
					return printJSON(toJSONContacts([]domain.Contact{c})[0])
				}
				fmt.Printf("Added contact %s (%s).\n", c.Name, c.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&nameFlag, "name", "", "contact name")
	cmd.Flags().StringArrayVar(&emailFlags, "email", nil, "contact address (repeatable)")
	cmd.Flags().StringVar(&fromFlag, "from-sender", "", "create the contact from this email's sender")
	return cmd
}

func newContactsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <contact-id>",
		Short: "Remove a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				if !s.svc.RemoveContact(args[0]) {
					return fmt.Errorf("contact %s not found", args[0])
				}
				if jsonFlag {
					return printJSON(newJSONAction("contact_remove", args, s.svc.Selected()))
				}
				fmt.Printf("Removed contact %s.\n", args[0])
				return nil
			})
		},
	}
}
