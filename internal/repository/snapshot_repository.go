package repository

import (
	"database/sql"
	"fmt"
	"time"

	"portfolio_checker/internal/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SnapshotStore is the durable, append-only record of successful valuations.
type SnapshotStore interface {
	Append(snapshot entity.PortfolioSnapshot) error
	LatestPerAddress() ([]entity.PortfolioSnapshot, error)
	RangeSince(hours int) ([]entity.PortfolioSnapshot, error)
}

// SnapshotRepository implements SnapshotStore on the sqlite snapshot database.
// Rows are never updated or deleted here.
type SnapshotRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(db *DB, logger *zap.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     db.Conn(),
		logger: logger.Named("SnapshotRepository"),
	}
}

// Append inserts one snapshot row. Monetary values are stored as their exact
// decimal string representation.
func (r *SnapshotRepository) Append(snapshot entity.PortfolioSnapshot) error {
	const query = `
		INSERT INTO portfolio_snapshots (timestamp, proxy_address, portfolio_total, usdc_balance, positions_value)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		snapshot.LastUpdated,
		snapshot.ProxyAddress,
		snapshot.PortfolioTotal.String(),
		snapshot.UsdcBalance.String(),
		snapshot.PositionsValue.String(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to append snapshot for %s: %v", entity.ErrStoreUnavailable, snapshot.ProxyAddress, err)
	}
	return nil
}

// LatestPerAddress returns, for each distinct address, the row with the
// maximum timestamp.
func (r *SnapshotRepository) LatestPerAddress() ([]entity.PortfolioSnapshot, error) {
	const query = `
		SELECT ps.timestamp, ps.proxy_address, ps.portfolio_total, ps.usdc_balance, ps.positions_value
		FROM portfolio_snapshots ps
		INNER JOIN (
			SELECT proxy_address, MAX(timestamp) AS max_ts
			FROM portfolio_snapshots
			GROUP BY proxy_address
		) latest ON ps.proxy_address = latest.proxy_address AND ps.timestamp = latest.max_ts`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query latest snapshots: %v", entity.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return r.collectSnapshots(rows)
}

// RangeSince returns every row with a timestamp inside the last N hours,
// ordered ascending by timestamp.
func (r *SnapshotRepository) RangeSince(hours int) ([]entity.PortfolioSnapshot, error) {
	const query = `
		SELECT timestamp, proxy_address, portfolio_total, usdc_balance, positions_value
		FROM portfolio_snapshots
		WHERE timestamp >= ?
		ORDER BY timestamp ASC`

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour).UnixMilli()

	rows, err := r.db.Query(query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query snapshot history: %v", entity.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return r.collectSnapshots(rows)
}

func (r *SnapshotRepository) collectSnapshots(rows *sql.Rows) ([]entity.PortfolioSnapshot, error) {
	snapshots := make([]entity.PortfolioSnapshot, 0)
	for rows.Next() {
		var (
			snapshot  entity.PortfolioSnapshot
			total     string
			balance   string
			positions string
		)
		if err := rows.Scan(&snapshot.LastUpdated, &snapshot.ProxyAddress, &total, &balance, &positions); err != nil {
			return nil, fmt.Errorf("%w: failed to scan snapshot row: %v", entity.ErrStoreUnavailable, err)
		}
		snapshot.PortfolioTotal = r.parseDecimal(total, snapshot.ProxyAddress)
		snapshot.UsdcBalance = r.parseDecimal(balance, snapshot.ProxyAddress)
		snapshot.PositionsValue = r.parseDecimal(positions, snapshot.ProxyAddress)
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating snapshot rows: %v", entity.ErrStoreUnavailable, err)
	}
	return snapshots, nil
}

// parseDecimal maps an unreadable stored value to zero instead of failing the
// whole query.
func (r *SnapshotRepository) parseDecimal(raw string, address string) decimal.Decimal {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		r.logger.Warn("Unparseable decimal in snapshot row, using zero",
			zap.String("address", address),
			zap.String("raw", raw))
		return decimal.Zero
	}
	return value
}
