package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// expenses.category_id is a plain column, not a foreign key: the archive
// cycle deletes categories before it archives the period's expenses, and the
// archived expense copies must still carry their category reference.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
    group_id TEXT NOT NULL,
    uid TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (group_id, uid),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    name TEXT NOT NULL,
    budget REAL NOT NULL DEFAULT 0,
    lifecycle TEXT NOT NULL,
    color TEXT,
    icon TEXT,
    event_end_date INTEGER,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    amount REAL NOT NULL,
    description TEXT NOT NULL,
    category_id TEXT,
    user_id TEXT NOT NULL,
    linked_expense_id TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS settled_debts (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    from_user TEXT NOT NULL,
    to_user TEXT NOT NULL,
    amount REAL NOT NULL,
    settled_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS archive_snapshots (
    group_id TEXT NOT NULL,
    archive_id TEXT NOT NULL,
    year INTEGER NOT NULL,
    month INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, archive_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS archived_categories (
    group_id TEXT NOT NULL,
    archive_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    name TEXT NOT NULL,
    budget REAL NOT NULL,
    lifecycle TEXT NOT NULL,
    color TEXT,
    icon TEXT,
    event_end_date INTEGER,
    archived_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, archive_id, category_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS archived_expenses (
    group_id TEXT NOT NULL,
    archive_id TEXT NOT NULL,
    expense_id TEXT NOT NULL,
    amount REAL NOT NULL,
    description TEXT NOT NULL,
    category_id TEXT,
    user_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    archived_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, archive_id, expense_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_members_group_id ON members(group_id);
CREATE INDEX IF NOT EXISTS idx_categories_group_id ON categories(group_id);
CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id);
CREATE INDEX IF NOT EXISTS idx_expenses_category_id ON expenses(category_id);
CREATE INDEX IF NOT EXISTS idx_settled_debts_group_id ON settled_debts(group_id);
CREATE INDEX IF NOT EXISTS idx_archived_categories_key ON archived_categories(group_id, archive_id);
CREATE INDEX IF NOT EXISTS idx_archived_expenses_key ON archived_expenses(group_id, archive_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
