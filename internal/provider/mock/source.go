// Package mock provides an offline email source and label suggester.
package mock

import (
	"context"
	"log"
	"time"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// Source serves a fixed sample mailbox after a simulated network delay.
type Source struct {
	Latency time.Duration
}

// NewSource returns a Source with a half-second delay.
func NewSource() *Source {
	return &Source{Latency: 500 * time.Millisecond}
}

func (s *Source) FetchInitialEmails(ctx context.Context) ([]domain.Email, error) {
	log.Printf("[mock] fetching sample mailbox")
	select {
	case <-time.After(s.Latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return SampleEmails(), nil
}

// SampleEmails returns a fresh copy of the sample mailbox.
func SampleEmails() []domain.Email {
	ts := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []domain.Email{
		{
			ID:        "1",
			Sender:    "newsletter@techweekly.com",
			Recipient: "user@example.com",
			Subject:   "Your Weekly Tech Roundup!",
			Body:      "This week in tech: AI breakthroughs, the future of quantum computing, and a deep dive into the latest frameworks. Plus, an exclusive interview with a leading innovator. Don't miss out!",
			Timestamp: ts("2024-07-29T10:00:00Z"),
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "2",
			Sender:    "billing@cloudservice.com",
			Recipient: "user@example.com",
			Subject:   "Your Invoice #CS12345 is due",
			Body:      "Dear Valued Customer, this is a reminder that your invoice for Cloud Service Pro Plan is due on August 15, 2024. The total amount is $49.99. Please log in to your account to make a payment. Thank you for your business.",
			Timestamp: ts("2024-07-29T09:30:00Z"),
			Read:      true,
			Folder:    domain.FolderInbox,
			Labels:    []domain.Label{{ID: "l-finance-ai", Name: "Finance", Confidence: 0.98, Source: domain.SourceAI}},
		},
		{
			ID:        "3",
			Sender:    "support@projectmanager.app",
			Recipient: "user@example.com",
			Subject:   "Re: Question about task dependencies",
			Body:      "Hi there, thanks for reaching out. To create a task dependency, simply drag the handle from one task to another on the timeline view. Let us know if you have any other questions! Best, The Support Team.",
			Timestamp: ts("2024-07-28T15:12:00Z"),
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "4",
			Sender:    "marketing@e-commercestore.com",
			Recipient: "user@example.com",
			Subject:   "48-Hour Flash Sale! Up to 50% Off!",
			Body:      "Don't miss out on our biggest sale of the season! For the next 48 hours, get up to 50% off on all items site-wide. Click here to shop now and save big. Your next great find is just a click away. Happy shopping!",
			Timestamp: ts("2024-07-28T11:00:00Z"),
			Folder:    domain.FolderInbox,
		},
		{
			ID:        "5",
			Sender:    "Jane Doe",
			Recipient: "user@example.com",
			Subject:   "Project Alpha Update & Next Steps",
			Body:      "Hi team, great work on the Q3 projections. I've attached the final report. Let's schedule a meeting for early next week to discuss our strategy for Q4. Please send me your availability. Thanks, Jane.",
			Timestamp: ts("2024-07-27T18:45:00Z"),
			Read:      true,
			Folder:    domain.FolderInbox,
			Labels:    []domain.Label{{ID: "l-important-user", Name: "Important", Confidence: 1.0, Source: domain.SourceUser}},
		},
		{
			ID:        "6",
			Sender:    "user@example.com",
			Recipient: "john.smith@work.com",
			Subject:   "Sending over the assets",
			Body:      "Hi John, as discussed, here are the design assets for the new landing page. Let me know if you need anything else from my end.",
			Timestamp: ts("2024-07-26T14:20:00Z"),
			Read:      true,
			Folder:    domain.FolderSent,
		},
	}
}
