package store

// Timestamps are stored as Unix milliseconds. Secondary indexes back the
// needs-review lookup and the most-recent-N scans so neither needs a full
// table scan.
const schema = `
CREATE TABLE IF NOT EXISTS question_stats (
    question_id        TEXT PRIMARY KEY,
    total_attempts     INTEGER NOT NULL,
    correct_attempts   INTEGER NOT NULL,
    incorrect_attempts INTEGER NOT NULL,
    success_rate       REAL    NOT NULL,
    first_attempt_at   INTEGER NOT NULL,
    last_attempt_at    INTEGER NOT NULL,
    average_time_ms    INTEGER NOT NULL DEFAULT 0,
    needs_review       INTEGER NOT NULL DEFAULT 0,
    category           TEXT
);
CREATE INDEX IF NOT EXISTS idx_question_stats_needs_review ON question_stats(needs_review);
CREATE INDEX IF NOT EXISTS idx_question_stats_success_rate ON question_stats(success_rate);
CREATE INDEX IF NOT EXISTS idx_question_stats_last_attempt ON question_stats(last_attempt_at);

CREATE TABLE IF NOT EXISTS answer_history (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id    TEXT    NOT NULL,
    session_id     TEXT    NOT NULL,
    answered_at    INTEGER NOT NULL,
    selected_index INTEGER NOT NULL,
    correct_index  INTEGER NOT NULL,
    is_correct     INTEGER NOT NULL,
    time_spent_ms  INTEGER NOT NULL DEFAULT 0,
    category       TEXT
);
CREATE INDEX IF NOT EXISTS idx_answer_history_question ON answer_history(question_id);
CREATE INDEX IF NOT EXISTS idx_answer_history_session  ON answer_history(session_id);
CREATE INDEX IF NOT EXISTS idx_answer_history_answered ON answer_history(answered_at);
CREATE INDEX IF NOT EXISTS idx_answer_history_category ON answer_history(category);

CREATE TABLE IF NOT EXISTS sessions (
    session_id        TEXT PRIMARY KEY,
    started_at        INTEGER NOT NULL,
    ended_at          INTEGER,
    total_questions   INTEGER NOT NULL,
    correct_answers   INTEGER NOT NULL,
    incorrect_answers INTEGER NOT NULL,
    score_percentage  REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
`
