package domain

type Account struct {
	ID           string
	Name         string
	EmailAddress string
}

type Contact struct {
	ID     string
	Name   string
	Emails []string
}

// DefaultSender is used for outgoing mail when no account is configured.
const DefaultSender = "user@example.com"
