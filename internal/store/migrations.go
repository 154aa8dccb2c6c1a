package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create profiles and registry meta",
		SQL: `
			CREATE TABLE profiles (
				id            TEXT PRIMARY KEY,
				position      INTEGER NOT NULL,
				name          TEXT NOT NULL,
				git_name      TEXT NOT NULL,
				git_email     TEXT NOT NULL,
				ssh_key_path  TEXT NOT NULL DEFAULT ''
			);

			CREATE INDEX idx_profiles_position ON profiles (position);

			CREATE TABLE registry_meta (
				key    TEXT PRIMARY KEY,
				value  TEXT
			);
		`,
	},
}
