package engine

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/stratlab-io/stratsim/internal/logger"
	"github.com/stratlab-io/stratsim/internal/types"
	"go.uber.org/zap"
)

// BacktestState records finished runs into an in-memory DuckDB so results
// can be queried with SQL and exported as CSV. The simulation core never
// touches it; the engine shell writes a run's output here after the run
// completes, keeping the core pure.
type BacktestState struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewBacktestState creates a result store backed by an in-memory DuckDB.
func NewBacktestState(l *logger.Logger) (*BacktestState, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		l.Error("Failed to open database", zap.Error(err))

		return nil, err
	}

	return &BacktestState{
		db:     db,
		logger: l,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the tables for tracking trades and equity curves.
func (b *BacktestState) Initialize() error {
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			trade_id TEXT PRIMARY KEY,
			run_id TEXT,
			symbol TEXT,
			strategy_name TEXT,
			entry_time TIMESTAMP,
			entry_price DOUBLE,
			exit_time TIMESTAMP,
			exit_price DOUBLE,
			pnl_pct DOUBLE,
			status TEXT,
			reason TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create trades table: %w", err)
	}

	_, err = b.db.Exec(`
		CREATE TABLE IF NOT EXISTS equity_curve (
			run_id TEXT,
			time TIMESTAMP,
			equity DOUBLE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create equity_curve table: %w", err)
	}

	return nil
}

// RecordRun stores the trades and equity curve of one finished run under the
// given run id. All rows are written in a single transaction so a failure
// never leaves a half-recorded run behind.
func (b *BacktestState) RecordRun(runID string, result *types.BacktestResult) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, trade := range result.Trades {
		var exitTime interface{}
		if trade.Status == types.TradeStatusClosed {
			exitTime = trade.ExitTime
		}

		insertQuery := b.sq.
			Insert("trades").
			Columns(
				"trade_id", "run_id", "symbol", "strategy_name", "entry_time",
				"entry_price", "exit_time", "exit_price", "pnl_pct", "status", "reason",
			).
			Values(
				uuid.New().String(), runID, trade.Symbol, trade.StrategyName, trade.EntryTime,
				trade.EntryPrice, exitTime, trade.ExitPrice, trade.PnlPct, trade.Status, trade.Reason,
			).
			RunWith(tx)

		if _, err := insertQuery.Exec(); err != nil {
			tx.Rollback()

			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}

	for _, point := range result.EquityCurve {
		insertQuery := b.sq.
			Insert("equity_curve").
			Columns("run_id", "time", "equity").
			Values(runID, point.Time, point.Equity).
			RunWith(tx)

		if _, err := insertQuery.Exec(); err != nil {
			tx.Rollback()

			return fmt.Errorf("failed to insert equity point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAllTrades returns every recorded trade ordered by entry time.
func (b *BacktestState) GetAllTrades() ([]types.Trade, error) {
	query := b.sq.
		Select("symbol", "strategy_name", "entry_time", "entry_price",
			"exit_time", "exit_price", "pnl_pct", "status", "reason").
		From("trades").
		OrderBy("entry_time").
		RunWith(b.db)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []types.Trade

	for rows.Next() {
		var trade types.Trade

		var exitTime sql.NullTime

		err := rows.Scan(
			&trade.Symbol, &trade.StrategyName, &trade.EntryTime, &trade.EntryPrice,
			&exitTime, &trade.ExitPrice, &trade.PnlPct, &trade.Status, &trade.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		if exitTime.Valid {
			trade.ExitTime = exitTime.Time
		}

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// ClosedTradeSummary aggregates the closed trades of one run on the SQL side.
type ClosedTradeSummary struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
}

// SummarizeClosedTrades computes a closed-trade summary for a run. Used as a
// cross-check against the in-memory metrics after recording.
func (b *BacktestState) SummarizeClosedTrades(runID string) (ClosedTradeSummary, error) {
	// Raw SQL for the CTE - Squirrel doesn't support CTEs well
	query := `
		WITH closed AS (
			SELECT
				COUNT(*) as total_trades,
				SUM(CASE WHEN pnl_pct > 0 THEN 1 ELSE 0 END) as winning_trades,
				SUM(CASE WHEN pnl_pct < 0 THEN 1 ELSE 0 END) as losing_trades
			FROM trades
			WHERE run_id = ? AND status = 'closed'
		)
		SELECT
			total_trades,
			COALESCE(winning_trades, 0),
			COALESCE(losing_trades, 0),
			CASE WHEN total_trades > 0 THEN CAST(COALESCE(winning_trades, 0) AS DOUBLE) / total_trades ELSE 0 END as win_rate
		FROM closed
	`

	var summary ClosedTradeSummary

	err := b.db.QueryRow(query, runID).Scan(
		&summary.TotalTrades,
		&summary.WinningTrades,
		&summary.LosingTrades,
		&summary.WinRate,
	)
	if err != nil {
		return ClosedTradeSummary{}, fmt.Errorf("failed to summarize closed trades: %w", err)
	}

	return summary, nil
}

// Write exports the recorded trades and equity curve as CSV files into the
// given folder using DuckDB's COPY.
func (b *BacktestState) Write(folder string) error {
	tradesPath := filepath.Join(folder, "trades.csv")
	if _, err := b.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM trades ORDER BY entry_time) TO '%s' (HEADER, DELIMITER ',')`, tradesPath)); err != nil {
		return fmt.Errorf("failed to export trades: %w", err)
	}

	equityPath := filepath.Join(folder, "equity.csv")
	if _, err := b.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM equity_curve ORDER BY time) TO '%s' (HEADER, DELIMITER ',')`, equityPath)); err != nil {
		return fmt.Errorf("failed to export equity curve: %w", err)
	}

	return nil
}

// Cleanup drops all recorded rows so the state can be reused for another run.
func (b *BacktestState) Cleanup() error {
	if _, err := b.db.Exec(`DELETE FROM trades`); err != nil {
		return fmt.Errorf("failed to clean trades: %w", err)
	}

	if _, err := b.db.Exec(`DELETE FROM equity_curve`); err != nil {
		return fmt.Errorf("failed to clean equity curve: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (b *BacktestState) Close() error {
	return b.db.Close()
}
