package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// Foreign keys, WAL journaling and a busy timeout are enabled on every pooled
// connection through the DSN, so concurrent short transactions wait on each
// other instead of failing with SQLITE_BUSY.
func New(path string) (*sql.DB, error) {
	dsn := path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
//
// documents_fts is the inverted text index over documents.content. Its docid
// mirrors documents.rowid and the triggers keep both in sync.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			upvotes INTEGER NOT NULL DEFAULT 0,
			downvotes INTEGER NOT NULL DEFAULT 0,
			tag TEXT,
			num_comments INTEGER NOT NULL DEFAULT 0,
			permalink TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			last_updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL,
			chunk_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
			UNIQUE (post_id, chunk_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_post_id ON documents(post_id);`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts4(content, tokenize=porter);`,
		`CREATE TRIGGER IF NOT EXISTS documents_fts_insert AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts (docid, content) VALUES (new.rowid, new.content);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_fts_delete AFTER DELETE ON documents BEGIN
			DELETE FROM documents_fts WHERE docid = old.rowid;
		END;`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
