// Package store writes company exports out of the in-memory index: JSON
// files on disk, and Postgres when a pool is configured.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sec_extractor/pkg/core/companies"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyExport is what gets stored for one company.
type CompanyExport struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	RunID      string                   `json:"run_id,omitempty"`
	ExportedAt time.Time                `json:"exported_at"`
	Filings    []companies.FilingExport `json:"filings"`
}

// NewCompanyExport snapshots a company's export.
func NewCompanyExport(c *companies.Company, runID string) CompanyExport {
	return CompanyExport{
		ID:         c.ID(),
		Name:       c.Name(),
		RunID:      runID,
		ExportedAt: time.Now().UTC(),
		Filings:    c.Export(),
	}
}

// ExportStore saves exports to Postgres, to a directory, or both.
type ExportStore struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewExportStore creates a store. With a nil pool and an empty dir it
// writes to .cache/exports.
func NewExportStore(pool *pgxpool.Pool, dir string) (*ExportStore, error) {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "exports")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create export dir: %w", err)
		}
	}
	return &ExportStore{pool: pool, fileDir: dir}, nil
}

// Dir returns the file export directory, empty when file output is off
func (s *ExportStore) Dir() string {
	return s.fileDir
}

// Save writes the export to every configured backend.
func (s *ExportStore) Save(ctx context.Context, exp CompanyExport) error {
	filings, err := json.Marshal(exp.Filings)
	if err != nil {
		return fmt.Errorf("failed to marshal filings: %w", err)
	}

	if s.pool != nil {
		query := `
			INSERT INTO company_exports (company_id, company_name, filings, run_id, exported_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (company_id)
			DO UPDATE SET
				company_name = EXCLUDED.company_name,
				filings = EXCLUDED.filings,
				run_id = EXCLUDED.run_id,
				exported_at = EXCLUDED.exported_at,
				updated_at = NOW()
		`
		_, err := s.pool.Exec(ctx, query, exp.ID, exp.Name, filings, exp.RunID, exp.ExportedAt)
		if err != nil {
			return fmt.Errorf("failed to save export for %s: %w", exp.Name, err)
		}
	}

	if s.fileDir != "" {
		data, err := json.MarshalIndent(exp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}
		if err := os.WriteFile(s.path(exp.ID), data, 0644); err != nil {
			return fmt.Errorf("failed to write export for %s: %w", exp.Name, err)
		}
	}
	return nil
}

// Get reads an export back, from Postgres when configured, otherwise from
// disk. A miss returns companies.ErrNotFound.
func (s *ExportStore) Get(ctx context.Context, companyID string) (*CompanyExport, error) {
	if s.pool != nil {
		query := `
			SELECT company_name, filings, COALESCE(run_id, ''), exported_at
			FROM company_exports
			WHERE company_id = $1
		`
		exp := &CompanyExport{ID: companyID}
		var filings []byte
		err := s.pool.QueryRow(ctx, query, companyID).Scan(&exp.Name, &filings, &exp.RunID, &exp.ExportedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("export %s: %w", companyID, companies.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load export %s: %w", companyID, err)
		}
		if err := json.Unmarshal(filings, &exp.Filings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal filings: %w", err)
		}
		return exp, nil
	}

	data, err := os.ReadFile(s.path(companyID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("export %s: %w", companyID, companies.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", companyID, err)
	}
	var exp CompanyExport
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal export %s: %w", companyID, err)
	}
	return &exp, nil
}

func (s *ExportStore) path(companyID string) string {
	return filepath.Join(s.fileDir, companyID+".json")
}
