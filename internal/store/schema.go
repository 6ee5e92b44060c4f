package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sheets (
    file_path            TEXT NOT NULL,
    sheet_key            TEXT NOT NULL,
    sheet_name           TEXT NOT NULL,
    columns_json         TEXT NOT NULL,
    row_count            INTEGER NOT NULL,
    file_mtime_ns        INTEGER NOT NULL,
    file_size            INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL,
    PRIMARY KEY (file_path, sheet_key)
);

CREATE TABLE IF NOT EXISTS sheet_rows (
    file_path            TEXT NOT NULL,
    sheet_key            TEXT NOT NULL,
    row_idx              INTEGER NOT NULL,
    cells_json           TEXT NOT NULL,
    PRIMARY KEY (file_path, sheet_key, row_idx),
    FOREIGN KEY (file_path, sheet_key) REFERENCES sheets(file_path, sheet_key) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sheets_path ON sheets(file_path);
`
