// Package companies is the in-memory index of companies, their filings and
// the numeric facts reported in each filing.
//
// A DB is populated once (see package etl) and is read-only afterwards.
// It carries no locks: concurrent readers are fine as long as no writer
// runs at the same time.
package companies

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrNotFound is returned by the lookups when the key is absent.
	ErrNotFound = errors.New("not found")
	// ErrUnknownFiling is returned when a record names a filing that was
	// never registered on the company.
	ErrUnknownFiling = errors.New("unknown filing")
)

// Config controls identity derivation and export filtering.
type Config struct {
	DeriveID IDFunc
	Interest Interest
}

// DB maps company ids to companies and filing ids to their owning company.
type DB struct {
	deriveID  IDFunc
	interest  Interest
	companies map[string]*Company
	owners    map[string]string // filing id -> company id, write-once
	order     []string
}

// NewDB creates an index with SHA-256 identities and the default interest sets
func NewDB() *DB {
	return NewDBWithConfig(Config{})
}

// NewDBWithConfig creates an index with a custom deriver or interest sets.
// Zero fields fall back to the defaults.
func NewDBWithConfig(cfg Config) *DB {
	if cfg.DeriveID == nil {
		cfg.DeriveID = DeriveID
	}
	def := DefaultInterest()
	if cfg.Interest.Forms == nil {
		cfg.Interest.Forms = def.Forms
	}
	if cfg.Interest.Facts == nil {
		cfg.Interest.Facts = def.Facts
	}
	return &DB{
		deriveID:  cfg.DeriveID,
		interest:  cfg.Interest,
		companies: make(map[string]*Company),
		owners:    make(map[string]string),
	}
}

// Register records that companyName filed filingID with form filingType.
//
// The company is created on first sight. An unclaimed filing is claimed for
// the company and registered on it; a filing already claimed, by this or any
// other company, keeps its owner. Returns true when the filing was claimed.
func (db *DB) Register(companyName, filingID, filingType string) bool {
	id := db.deriveID(companyName)
	c, ok := db.companies[id]
	if !ok {
		c = newCompany(companyName, id, db.interest)
		db.companies[id] = c
		db.order = append(db.order, id)
	}

	if _, claimed := db.owners[filingID]; claimed {
		return false
	}
	db.owners[filingID] = id
	c.RegisterFiling(filingID, filingType)
	return true
}

// LookupByID returns the company with the given identifier.
func (db *DB) LookupByID(companyID string) (*Company, error) {
	c, ok := db.companies[companyID]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", companyID, ErrNotFound)
	}
	return c, nil
}

// LookupByFiling returns the company that owns filingID.
func (db *DB) LookupByFiling(filingID string) (*Company, error) {
	id, ok := db.owners[filingID]
	if !ok {
		return nil, fmt.Errorf("filing %s: %w", filingID, ErrNotFound)
	}
	return db.LookupByID(id)
}

// LookupByName derives the identifier for name and looks it up.
func (db *DB) LookupByName(name string) (*Company, error) {
	c, ok := db.companies[db.deriveID(name)]
	if !ok {
		return nil, fmt.Errorf("company %q: %w", name, ErrNotFound)
	}
	return c, nil
}

// All yields companies in registration order. Each call starts a fresh
// traversal. Registering while iterating is not supported.
func (db *DB) All() iter.Seq[*Company] {
	return func(yield func(*Company) bool) {
		for _, id := range db.order {
			if !yield(db.companies[id]) {
				return
			}
		}
	}
}

// Len returns the number of companies
func (db *DB) Len() int {
	return len(db.companies)
}

// FilingCount returns the number of claimed filings
func (db *DB) FilingCount() int {
	return len(db.owners)
}

// Interest returns the export interest sets
func (db *DB) Interest() Interest {
	return db.interest
}
