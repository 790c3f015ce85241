package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLiteJournal persists run output to a SQLite database. Decimal values
// are stored as text to avoid float rounding in the record of truth.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(fill_id, logical_time, symbol, side, quantity, fill_price)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.FillID, f.LogicalTime, f.Symbol, f.Side, f.Quantity, f.FillPrice.String(),
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (logical_time, equity) VALUES (?, ?)`,
		e.LogicalTime, e.Equity.String(),
	)
	return err
}

func (j *SQLiteJournal) RecordRejection(r RejectionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO rejections
		(logical_time, symbol, side, check_name, reason)
		VALUES (?, ?, ?, ?, ?)`,
		r.LogicalTime, r.Symbol, r.Side, r.Check, r.Reason,
	)
	return err
}

// ListFills returns persisted fills ordered by logical time.
func (j *SQLiteJournal) ListFills() ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT fill_id, logical_time, symbol, side, quantity, fill_price
		FROM fills ORDER BY logical_time, fill_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var f FillRecord
		var price string
		if err := rows.Scan(&f.FillID, &f.LogicalTime, &f.Symbol, &f.Side, &f.Quantity, &price); err != nil {
			return nil, err
		}
		f.FillPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListEquity returns the persisted equity history ordered by logical time.
func (j *SQLiteJournal) ListEquity() ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT logical_time, equity FROM equity ORDER BY logical_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var e EquityRecord
		var eq string
		if err := rows.Scan(&e.LogicalTime, &eq); err != nil {
			return nil, err
		}
		e.Equity, err = decimal.NewFromString(eq)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListRejections returns persisted rejections ordered by logical time.
func (j *SQLiteJournal) ListRejections() ([]RejectionRecord, error) {
	rows, err := j.db.Query(`
		SELECT logical_time, symbol, side, check_name, reason
		FROM rejections ORDER BY logical_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RejectionRecord
	for rows.Next() {
		var r RejectionRecord
		if err := rows.Scan(&r.LogicalTime, &r.Symbol, &r.Side, &r.Check, &r.Reason); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
