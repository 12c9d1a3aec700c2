package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/analysis"
)

// ReadResults loads the identifications of a results database in insertion
// order. Peptides are returned in their rendered form, e.g. "NM*GTK".
func ReadResults(path string) ([]analysis.SearchResult, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT ScanNumber, RetentionTime, Peptide, ModifySite, Glycan, GlycanName, Score, Decoy
		FROM IdentificationTable
		ORDER BY IdentificationId
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query identifications: %w", err)
	}
	defer rows.Close()

	var results []analysis.SearchResult
	for rows.Next() {
		var r analysis.SearchResult
		if err := rows.Scan(&r.Scan, &r.Retention, &r.Peptide, &r.ModifySite, &r.Glycan, &r.GlycanName, &r.Score, &r.Decoy); err != nil {
			return nil, fmt.Errorf("failed to scan identification: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ReadParameters loads the stored search settings
func ReadParameters(path string) (map[string]string, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT Name, Value FROM ParameterTable`)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	params := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		params[name] = value
	}
	return params, rows.Err()
}
