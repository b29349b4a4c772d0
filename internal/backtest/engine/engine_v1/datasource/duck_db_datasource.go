package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratsim/internal/logger"
	"github.com/stratlab-io/stratsim/internal/types"
	"go.uber.org/zap"
)

// DuckDBDataSource loads candle files through an in-memory DuckDB view so
// CSV and parquet inputs share one code path and one ordering guarantee.
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	hasAux bool
}

// NewDataSource creates an in-memory DuckDB-backed candle source.
func NewDataSource(l *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}

	return &DuckDBDataSource{
		db:     db,
		logger: l,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		hasAux: false,
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB candle source", zap.String("path", path))

	// First drop the view if it exists
	if _, err := d.db.Exec(`DROP VIEW IF EXISTS candles;`); err != nil {
		return fmt.Errorf("failed to drop existing view: %w", err)
	}

	// Create a view from the file - raw SQL as Squirrel doesn't support CREATE VIEW
	var reader string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		reader = fmt.Sprintf("read_parquet('%s')", path)
	default:
		reader = fmt.Sprintf("read_csv_auto('%s')", path)
	}

	query := fmt.Sprintf(`
		CREATE VIEW candles AS
		SELECT * FROM %s;
	`, reader)

	if _, err := d.db.Exec(query); err != nil {
		return err
	}

	hasAux, err := d.viewHasColumn("aux")
	if err != nil {
		return err
	}

	d.hasAux = hasAux

	return nil
}

// viewHasColumn reports whether the candles view exposes the given column.
// The aux column is optional in input files.
func (d *DuckDBDataSource) viewHasColumn(name string) (bool, error) {
	rows, err := d.db.Query(`SELECT column_name FROM information_schema.columns WHERE table_name = 'candles'`)
	if err != nil {
		return false, fmt.Errorf("failed to inspect candle columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return false, err
		}

		if strings.EqualFold(column, name) {
			return true, nil
		}
	}

	return false, rows.Err()
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query := d.sq.Select("COUNT(*)").From("candles")

	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	var count int
	if err := query.RunWith(d.db).QueryRow().Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.Candle, error) bool) {
	return func(yield func(types.Candle, error) bool) {
		columns := "time, open, high, low, close, volume"
		if d.hasAux {
			columns += ", aux"
		}

		query := fmt.Sprintf("SELECT %s FROM candles", columns)

		var conditions []string

		var params []interface{}

		paramCount := 0

		if start.IsSome() {
			paramCount++
			conditions = append(conditions, fmt.Sprintf("time >= $%d", paramCount))
			params = append(params, start.Unwrap())
		}

		if end.IsSome() {
			paramCount++
			conditions = append(conditions, fmt.Sprintf("time <= $%d", paramCount))
			params = append(params, end.Unwrap())
		}

		if len(conditions) > 0 {
			query += " WHERE " + strings.Join(conditions, " AND ")
		}

		query += " ORDER BY time ASC"

		rows, err := d.db.Query(query, params...)
		if err != nil {
			yield(types.Candle{}, err)

			return
		}
		defer rows.Close()

		for rows.Next() {
			var candle types.Candle

			if d.hasAux {
				err = rows.Scan(&candle.Time, &candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume, &candle.Aux)
			} else {
				err = rows.Scan(&candle.Time, &candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume)
			}

			if err != nil {
				yield(types.Candle{}, err)

				return
			}

			if !yield(candle, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.Candle{}, err)
		}
	}
}

// ReadLastCandle implements DataSource.
func (d *DuckDBDataSource) ReadLastCandle() (types.Candle, error) {
	columns := []string{"time", "open", "high", "low", "close", "volume"}
	if d.hasAux {
		columns = append(columns, "aux")
	}

	query := d.sq.
		Select(columns...).
		From("candles").
		OrderBy("time DESC").
		Limit(1).
		RunWith(d.db)

	var candle types.Candle

	var err error
	if d.hasAux {
		err = query.QueryRow().Scan(&candle.Time, &candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume, &candle.Aux)
	} else {
		err = query.QueryRow().Scan(&candle.Time, &candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume)
	}

	if err != nil {
		return types.Candle{}, fmt.Errorf("failed to read last candle: %w", err)
	}

	return candle, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
