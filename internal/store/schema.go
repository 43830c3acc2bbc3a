package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS datasets (
    source_path          TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    columns_json         TEXT NOT NULL,
    numeric_json         TEXT NOT NULL,
    missing_json         TEXT NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
    source_path          TEXT NOT NULL REFERENCES datasets(source_path) ON DELETE CASCADE,
    row_idx              INTEGER NOT NULL,
    ministry             TEXT NOT NULL,
    demand               TEXT NOT NULL,
    total                TEXT NOT NULL,
    revenue              TEXT NOT NULL,
    capital              TEXT NOT NULL,
    category             TEXT NOT NULL,
    extra_numeric_json   TEXT,
    extra_text_json      TEXT,
    PRIMARY KEY (source_path, row_idx)
);

CREATE TABLE IF NOT EXISTS issues (
    source_path          TEXT NOT NULL REFERENCES datasets(source_path) ON DELETE CASCADE,
    line                 INTEGER NOT NULL,
    message              TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_issues_source ON issues(source_path);
`
