package journal

// Schema creates the replies table. Timestamps are RFC 3339 text in UTC.
const Schema = `
CREATE TABLE IF NOT EXISTS replies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    message_id TEXT NOT NULL,
    thread_id TEXT,
    sender TEXT,
    subject TEXT,
    sentiment TEXT,
    disposition TEXT NOT NULL,
    draft TEXT,
    error TEXT,
    recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_replies_message_id ON replies(message_id);
CREATE INDEX IF NOT EXISTS idx_replies_run_id ON replies(run_id);
`
