package migration

// Batches is the fixed, version-ordered migration sequence. Append only;
// never edit a shipped batch, the id is what marks it applied.
//
// Embedding dimension is 1024 everywhere (mxbai-embed-large). The vector
// extension must be available in the target database.
var Batches = []Batch{
	{
		ID: "0001_extensions",
		Statements: []string{
			`CREATE EXTENSION IF NOT EXISTS vector`,
		},
	},
	{
		ID: "0002_notes",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS notes (
				id              BIGSERIAL PRIMARY KEY,
				name            VARCHAR(255) NOT NULL,
				note            TEXT NOT NULL DEFAULT '',
				embedding       vector(1024),
				embedding_stale BOOLEAN NOT NULL DEFAULT FALSE,
				created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		},
	},
	{
		ID: "0003_content_items",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS content_items (
				id           BIGSERIAL PRIMARY KEY,
				note_id      BIGINT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
				text         TEXT NOT NULL,
				url          TEXT NOT NULL,
				fav_icon_url TEXT,
				embedding    vector(1024),
				created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_content_items_note_id ON content_items (note_id)`,
		},
	},
	{
		ID: "0004_reminders",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS reminders (
				id         BIGSERIAL PRIMARY KEY,
				note_id    BIGINT NOT NULL UNIQUE REFERENCES notes(id) ON DELETE CASCADE,
				remind_at  TIMESTAMPTZ NOT NULL,
				reminded   TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		},
	},
	{
		ID: "0005_vector_indexes",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_notes_embedding
				ON notes USING hnsw (embedding vector_cosine_ops)`,
			`CREATE INDEX IF NOT EXISTS idx_content_items_embedding
				ON content_items USING hnsw (embedding vector_cosine_ops)`,
		},
	},
	{
		ID: "0006_notifications",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS notifications (
				id         BIGSERIAL PRIMARY KEY,
				title      VARCHAR(200) NOT NULL,
				message    TEXT NOT NULL,
				metadata   JSONB,
				is_read    BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		},
	},
}
