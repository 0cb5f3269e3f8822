package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/triagemail/internal/app"
	"github.com/lu-zhengda/triagemail/internal/domain"
)

// reportAction prints the outcome of a bulk action.
func reportAction(s *session, action string, ids []string, msg string) error {
	if jsonFlag {
		return printJSON(newJSONAction(action, ids, s.svc.Selected()))
	}
	fmt.Println(msg)
	if sel := s.svc.Selected(); len(sel) > 0 {
		fmt.Printf("Selected: %s\n", strings.Join(sel, ", "))
	}
	return nil
}

func newReadCmd(read bool) *cobra.Command {
	use, short, action := "read", "Mark emails as read", "mark_read"
	if !read {
		use, short, action = "unread", "Mark emails as unread", "mark_unread"
	}

	return &cobra.Command{
		Use:   use + " [email-id...]",
		Short: short,
		Long:  short + ". Without ids the selected emails are used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				ids, err := s.targets(args)
				if err != nil {
					return err
				}
				s.svc.SetReadStatus(ids, read)
				return reportAction(s, action, ids, fmt.Sprintf("Marked %d email(s) as %s.", len(ids), use))
			})
		},
	}
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <folder> [email-id...]",
		Short: "Move emails to a folder",
		Long:  "Move emails to a folder. Without ids the selected emails are moved.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, ok := domain.ParseFolder(args[0])
			if !ok {
				return fmt.Errorf("unknown folder %q", args[0])
			}
			return withSession(cmd.Context(), func(s *session) error {
				ids, err := s.targets(args[1:])
				if err != nil {
					return err
				}
				if err := s.svc.MoveToFolder(ids, folder); err != nil {
					return err
				}
				return reportAction(s, "move", ids, fmt.Sprintf("Moved %d email(s) to %s.", len(ids), folder))
			})
		},
	}
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive [email-id...]",
		Short: "Mark emails read and move them to Archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				ids, err := s.targets(args)
				if err != nil {
					return err
				}
				s.svc.Archive(ids)
				return reportAction(s, "archive", ids, fmt.Sprintf("Archived %d email(s).", len(ids)))
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [email-id...]",
		Short: "Move emails to Trash",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				ids, err := s.targets(args)
				if err != nil {
					return err
				}
				if err := s.svc.Delete(ids); err != nil {
					return err
				}
				return reportAction(s, "delete", ids, fmt.Sprintf("Moved %d email(s) to Trash.", len(ids)))
			})
		},
	}
}

func newJunkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "junk [email-id...]",
		Short: "Label emails Junk and move them to Spam",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				ids, err := s.targets(args)
				if err != nil {
					return err
				}
				s.svc.Junk(ids)
				return reportAction(s, "junk", ids, fmt.Sprintf("Marked %d email(s) as junk.", len(ids)))
			})
		},
	}
}

func newEmptyTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "empty-trash",
		Short: "Permanently remove every email in Trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				before := len(s.svc.Emails())
				s.svc.EmptyTrash()
				removed := before - len(s.svc.Emails())
				return reportAction(s, "empty_trash", nil, fmt.Sprintf("Removed %d email(s) from Trash.", removed))
			})
		},
	}
}

func newSendCmd() *cobra.Command {
	var toFlag, subjectFlag, bodyFlag, replyFlag string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Compose an email into Sent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if toFlag == "" {
				return fmt.Errorf("--to is required")
			}

			body := bodyFlag
			if body == "-" {
				b, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read body from stdin: %w", err)
				}
				body = string(b)
			}

			return withSession(cmd.Context(), func(s *session) error {
				subject := subjectFlag
				if replyFlag != "" {
					original, ok := s.svc.Email(replyFlag)
					if !ok {
						return fmt.Errorf("email %s not found", replyFlag)
					}
					if subject == "" {
						subject = prefixSubject("Re: ", original.Subject)
					}
				}

				sent := s.svc.SendEmail(app.Draft{
					To:        toFlag,
					Subject:   subject,
					Body:      body,
					InReplyTo: replyFlag,
				})
				if jsonFlag {
					return printJSON(newJSONAction("send", []string{sent.ID}, s.svc.Selected()))
				}
				fmt.Printf("Email sent (%s).\n", sent.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&toFlag, "to", "", "recipient address")
	cmd.Flags().StringVar(&subjectFlag, "subject", "", "email subject (defaults to Re: <original> when replying)")
	cmd.Flags().StringVar(&bodyFlag, "body", "", "email body (use '-' to read from stdin)")
	cmd.Flags().StringVar(&replyFlag, "reply-to", "", "id of the email being answered")
	return cmd
}

// prefixSubject adds prefix to subject if not already present.
func prefixSubject(prefix, subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), strings.ToLower(prefix)) {
		return subject
	}
	return prefix + subject
}
