package sqlite

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{version: 1, sql: schemaV1},
	{version: 2, sql: schemaV2},
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS emails (
    id               TEXT PRIMARY KEY,
    position         INTEGER NOT NULL,
    sender           TEXT NOT NULL,
    recipient        TEXT NOT NULL,
    subject          TEXT NOT NULL,
    body             TEXT NOT NULL,
    timestamp        TEXT NOT NULL,
    is_read          BOOLEAN NOT NULL DEFAULT FALSE,
    folder           TEXT NOT NULL,
    analysis_skipped BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS email_labels (
    email_id    TEXT NOT NULL REFERENCES emails(id) ON DELETE CASCADE,
    id          TEXT NOT NULL,
    position    INTEGER NOT NULL,
    name        TEXT NOT NULL,
    confidence  REAL NOT NULL DEFAULT 0,
    source      TEXT NOT NULL,
    PRIMARY KEY (email_id, id)
);

CREATE TABLE IF NOT EXISTS training (
    seq         INTEGER PRIMARY KEY AUTOINCREMENT,
    id          TEXT NOT NULL UNIQUE,
    email_body  TEXT NOT NULL,
    label       TEXT NOT NULL,
    feedback    TEXT NOT NULL,
    timestamp   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    emails      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session (
    id           INTEGER PRIMARY KEY CHECK (id = 1),
    folder       TEXT NOT NULL DEFAULT '',
    label        TEXT NOT NULL DEFAULT '',
    selected     TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_emails_position ON emails(position);
CREATE INDEX IF NOT EXISTS idx_email_labels_name ON email_labels(name);
`

// schemaV2 stores the view query alongside the selection.
const schemaV2 = `
ALTER TABLE session ADD COLUMN sort_key TEXT NOT NULL DEFAULT '';
ALTER TABLE session ADD COLUMN sort_direction TEXT NOT NULL DEFAULT '';
ALTER TABLE session ADD COLUMN conditions TEXT NOT NULL DEFAULT '[]';
ALTER TABLE session ADD COLUMN logic TEXT NOT NULL DEFAULT '';
`
