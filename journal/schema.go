package journal

const schema = `
CREATE TABLE IF NOT EXISTS fills (
	fill_id TEXT PRIMARY KEY,
	logical_time INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	fill_price TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	logical_time INTEGER NOT NULL,
	equity TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rejections (
	logical_time INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	check_name TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_time ON fills(logical_time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(logical_time);
`
