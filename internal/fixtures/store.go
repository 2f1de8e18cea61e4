package fixtures

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store remembers the last known-good hash of every (case, stage) dump,
// the same CREATE-TABLE-IF-NOT-EXISTS migration idiom the pack's
// database/sql-backed repo runs at startup (termfx-morfx's
// internal/db/migrate.go), here against modernc.org/sqlite's pure-Go
// driver instead of a cgo one so a fixtures regression run never needs
// CGO_ENABLED.
type Store struct {
	db *sql.DB
}

// Open creates or attaches to the regression-hash database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: opening store: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS golden_hashes (
			case_name TEXT NOT NULL,
			stage     TEXT NOT NULL,
			hash      TEXT NOT NULL,
			PRIMARY KEY (case_name, stage)
		);
	`)
	if err != nil {
		return fmt.Errorf("fixtures: migrating store: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// HashText returns the stable hex digest of a dump's text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Check compares text's hash against the stored hash for (caseName,
// stage). changed is true when a prior hash existed and differs (a
// regression to review); known is false the first time a case/stage pair
// is seen, in which case Check also records the new hash as the baseline.
func (s *Store) Check(caseName, stage, text string) (changed bool, known bool, err error) {
	hash := HashText(text)

	var stored string
	err = s.db.QueryRow(
		`SELECT hash FROM golden_hashes WHERE case_name = ? AND stage = ?`,
		caseName, stage,
	).Scan(&stored)

	switch {
	case err == sql.ErrNoRows:
		if _, insErr := s.db.Exec(
			`INSERT INTO golden_hashes (case_name, stage, hash) VALUES (?, ?, ?)`,
			caseName, stage, hash,
		); insErr != nil {
			return false, false, fmt.Errorf("fixtures: recording baseline hash: %w", insErr)
		}
		return false, false, nil
	case err != nil:
		return false, false, fmt.Errorf("fixtures: reading stored hash: %w", err)
	}

	return stored != hash, true, nil
}

// Update overwrites the stored hash for (caseName, stage) with text's
// hash, accepting a deliberate golden-output change.
func (s *Store) Update(caseName, stage, text string) error {
	hash := HashText(text)
	_, err := s.db.Exec(
		`INSERT INTO golden_hashes (case_name, stage, hash) VALUES (?, ?, ?)
		 ON CONFLICT (case_name, stage) DO UPDATE SET hash = excluded.hash`,
		caseName, stage, hash,
	)
	if err != nil {
		return fmt.Errorf("fixtures: updating stored hash: %w", err)
	}
	return nil
}
