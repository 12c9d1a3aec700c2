// Package sqlite stores identifications, search parameters and the matched
// spectra in an SQLite database
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/analysis"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

const (
	// Schema version stored in HeaderTable
	schemaVersion = 1
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
)

// Writer handles writing search results to SQLite database files
type Writer struct {
	db                 *sql.DB
	outputPath         string
	identificationStmt *sql.Stmt
	spectrumStmt       *sql.Stmt
	identificationID   int
	spectra            map[int]bool
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:               db,
		outputPath:       outputPath,
		identificationID: 1,
		spectra:          make(map[int]bool),
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS SpectrumTable (
		ScanNumber INTEGER PRIMARY KEY,
		Title TEXT,
		RetentionTime DOUBLE,
		PrecursorMZ DOUBLE,
		PrecursorCharge INTEGER,
		NeutralMass DOUBLE,
		blobMass BLOB,
		blobIntensity BLOB
	);

	CREATE TABLE IF NOT EXISTS IdentificationTable (
		IdentificationId INTEGER PRIMARY KEY,
		ScanNumber INTEGER,
		RetentionTime DOUBLE,
		Peptide TEXT,
		ModifySite INTEGER,
		Glycan TEXT,
		GlycanName TEXT,
		Score DOUBLE,
		Decoy BOOL
	);

	CREATE TABLE IF NOT EXISTS ParameterTable (
		Name TEXT PRIMARY KEY,
		Value TEXT
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		Description TEXT,
		Identifications INTEGER
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.identificationStmt, err = w.db.Prepare(`
		INSERT INTO IdentificationTable (
			IdentificationId, ScanNumber, RetentionTime, Peptide, ModifySite,
			Glycan, GlycanName, Score, Decoy
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare identification statement: %w", err)
	}

	w.spectrumStmt, err = w.db.Prepare(`
		INSERT OR REPLACE INTO SpectrumTable (
			ScanNumber, Title, RetentionTime, PrecursorMZ, PrecursorCharge,
			NeutralMass, blobMass, blobIntensity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare spectrum statement: %w", err)
	}

	return nil
}

// WriteResult writes a single identification
func (w *Writer) WriteResult(r analysis.SearchResult) error {
	_, err := w.identificationStmt.Exec(
		w.identificationID, // IdentificationId
		r.Scan,             // ScanNumber
		r.Retention,        // RetentionTime
		core.Interpret(r.Peptide),
		r.ModifySite,
		r.Glycan,
		r.GlycanName,
		r.Score,
		r.Decoy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert identification: %w", err)
	}

	w.identificationID++
	return nil
}

// WriteSpectrum stores a spectrum once per scan number
func (w *Writer) WriteSpectrum(spec *core.Spectrum) error {
	if w.spectra[spec.Scan] {
		return nil
	}

	// Ensure peaks are sorted
	if !spec.ArePeaksSorted() {
		spec.SortPeaks()
	}

	// Encode peaks as binary blobs (little-endian float64)
	mzBlob := encodePeaksFloat64(spec.Peaks, true)   // m/z values
	intBlob := encodePeaksFloat64(spec.Peaks, false) // intensity values

	_, err := w.spectrumStmt.Exec(
		spec.Scan,
		spec.Title,
		spec.Retention,
		spec.PrecursorMZ,
		spec.PrecursorCharge,
		spec.PrecursorMass(),
		mzBlob,
		intBlob,
	)
	if err != nil {
		return fmt.Errorf("failed to insert spectrum: %w", err)
	}

	w.spectra[spec.Scan] = true
	return nil
}

// WriteParameters stores the search settings as name/value pairs
func (w *Writer) WriteParameters(params map[string]string) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, err := w.db.Exec(`INSERT OR REPLACE INTO ParameterTable (Name, Value) VALUES (?, ?)`, name, params[name])
		if err != nil {
			return fmt.Errorf("failed to insert parameter %s: %w", name, err)
		}
	}
	return nil
}

// encodePeaksFloat64 encodes peak data as little-endian float64 blob
func encodePeaksFloat64(peaks []core.Peak, useMZ bool) []byte {
	buf := make([]byte, len(peaks)*8)
	for i, peak := range peaks {
		var value float64
		if useMZ {
			value = peak.MZ
		} else {
			value = peak.Intensity
		}
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(value))
	}
	return buf
}

// DecodePeaks reverses the blob encoding of WriteSpectrum
func DecodePeaks(mzBlob, intensityBlob []byte) ([]core.Peak, error) {
	if len(mzBlob) != len(intensityBlob) || len(mzBlob)%8 != 0 {
		return nil, fmt.Errorf("invalid peak blobs of %d and %d bytes", len(mzBlob), len(intensityBlob))
	}
	peaks := make([]core.Peak, len(mzBlob)/8)
	for i := range peaks {
		peaks[i] = core.Peak{
			MZ:        math.Float64frombits(binary.LittleEndian.Uint64(mzBlob[i*8:])),
			Intensity: math.Float64frombits(binary.LittleEndian.Uint64(intensityBlob[i*8:])),
		}
	}
	return peaks, nil
}

// Finalize writes the header table and closes the database
func (w *Writer) Finalize() error {
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, Description, Identifications)
		VALUES (?, ?, ?, ?)
	`, schemaVersion, time.Now().Format(headerDateFormat), "glycopeptide identifications", w.identificationID-1)
	if err != nil {
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close prepared statements
	if w.identificationStmt != nil {
		w.identificationStmt.Close()
	}
	if w.spectrumStmt != nil {
		w.spectrumStmt.Close()
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
