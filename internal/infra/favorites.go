package infra

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Ensure sqlcipher driver is registered.
	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/trymirror/scanflow/internal/domain"
)

const favoritesDBName = "favorites.db"

// FavoritesDB implements domain.FavoritesStore using a SQLCipher encrypted
// SQLite database. The store is loaded once at startup; the acquisition core
// never touches it.
type FavoritesDB struct {
	db     *sql.DB
	dbPath string
}

// NewFavoritesDB opens (or creates) the encrypted favorites database.
// The key is used as the SQLCipher passphrase via PRAGMA key.
func NewFavoritesDB(dataDir string, key []byte) (*FavoritesDB, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, favoritesDBName)
	keyHex := hex.EncodeToString(key)

	// Open with SQLCipher key as DSN parameter
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, keyHex)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open encrypted database: %w", err)
	}

	// Verify encryption works by running a query
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to encrypted database: %w", err)
	}

	store := &FavoritesDB{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates the schema if it doesn't exist.
func (s *FavoritesDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS favorites (
		product_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		added_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Add records a product as favorite. Adding twice overwrites.
func (s *FavoritesDB) Add(p domain.Product) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO favorites (product_id, name, price, added_at)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Price, time.Now().Unix(),
	)
	return err
}

// Remove deletes a favorite by product id.
func (s *FavoritesDB) Remove(productID string) error {
	_, err := s.db.Exec(`DELETE FROM favorites WHERE product_id = ?`, productID)
	return err
}

// List returns all favorites ordered by when they were added.
func (s *FavoritesDB) List() ([]domain.Favorite, error) {
	rows, err := s.db.Query(`
		SELECT product_id, name, price, added_at
		FROM favorites ORDER BY added_at, product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		var addedAt int64
		if err := rows.Scan(&f.ProductID, &f.Name, &f.Price, &addedAt); err != nil {
			return nil, err
		}
		f.AddedAt = time.Unix(addedAt, 0)
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// Close releases the database connection.
func (s *FavoritesDB) Close() error {
	return s.db.Close()
}

// GetDBPath returns the database file path (for tests).
func (s *FavoritesDB) GetDBPath() string {
	return s.dbPath
}

// Ensure FavoritesDB implements domain.FavoritesStore.
var _ domain.FavoritesStore = (*FavoritesDB)(nil)
