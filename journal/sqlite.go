package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id     TEXT PRIMARY KEY,
	symbol       TEXT NOT NULL,
	session      TEXT NOT NULL,
	sector       TEXT NOT NULL,
	direction    TEXT NOT NULL,
	condition    TEXT NOT NULL,
	entry        REAL NOT NULL,
	initial_stop REAL NOT NULL,
	exit_avg     REAL NOT NULL,
	shares       REAL NOT NULL,
	pnl          REAL NOT NULL,
	target_rr    REAL NOT NULL,
	realized_rr  REAL NOT NULL,
	win          INTEGER NOT NULL,
	reason       TEXT NOT NULL,
	open_time    TIMESTAMP NOT NULL,
	close_time   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);
`

// SQLiteJournal persists records to a SQLite database and aggregates
// stats with SQL.
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

func (j *SQLiteJournal) Record(r PerformanceRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, session, sector, direction, condition,
		 entry, initial_stop, exit_avg, shares, pnl,
		 target_rr, realized_rr, win, reason, open_time, close_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TradeID, r.Symbol, r.Session, r.Sector, r.Direction, r.Condition,
		r.Entry, r.InitialStop, r.ExitAvg, r.Shares, r.PnL,
		r.TargetRR, r.RealizedRR, r.Win, r.Reason, r.OpenTime, r.CloseTime,
	)
	return err
}

func (j *SQLiteJournal) Stats() (Stats, error) {
	s := Stats{
		ByCondition: make(map[string]int),
		BySession:   make(map[string]int),
	}

	row := j.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(win), 0),
		       COALESCE(AVG(realized_rr), 0),
		       COALESCE(SUM(pnl), 0)
		FROM trades`)
	if err := row.Scan(&s.Trades, &s.Wins, &s.AvgRR, &s.TotalPnL); err != nil {
		return Stats{}, err
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades) * 100
	}

	rows, err := j.db.Query(`SELECT condition, session, COUNT(*) FROM trades GROUP BY condition, session`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var cond, sess string
		var n int
		if err := rows.Scan(&cond, &sess, &n); err != nil {
			return Stats{}, err
		}
		s.ByCondition[cond] += n
		s.BySession[sess] += n
	}
	return s, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
