package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
)

type DataPointRepo struct {
	pool *pgxpool.Pool
}

func NewDataPointRepo(pool *pgxpool.Pool) *DataPointRepo {
	return &DataPointRepo{pool: pool}
}

const dataPointColumns = `
	id::text, latitude, longitude, data_type, source_id, source_name,
	title, description, properties, severity, confidence,
	trust_score, quality_score, confirms_count, disputes_count, flags_count,
	is_verified, observed_at, created_at, updated_at`

func scanDataPoint(row pgx.Row) (*model.DataPoint, error) {
	var d model.DataPoint
	err := row.Scan(
		&d.ID, &d.Latitude, &d.Longitude, &d.DataType, &d.SourceID, &d.SourceName,
		&d.Title, &d.Description, &d.Properties, &d.Severity, &d.Confidence,
		&d.TrustScore, &d.QualityScore, &d.ConfirmsCount, &d.DisputesCount, &d.FlagsCount,
		&d.IsVerified, &d.ObservedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByID returns a single data point with its trust metrics.
func (r *DataPointRepo) FindByID(ctx context.Context, id string) (*model.DataPoint, error) {
	d, err := scanDataPoint(r.pool.QueryRow(ctx,
		`SELECT`+dataPointColumns+` FROM data_points WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDataPointNotFound
	}
	return d, err
}

// List returns data points newest-first with optional type, trust and
// bounding box filters, plus the total matching count.
func (r *DataPointRepo) List(ctx context.Context, f model.DataPointFilter) ([]model.DataPoint, int, error) {
	where := ""
	args := []any{}

	addClause := func(clause string) {
		if where == "" {
			where = "WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	if f.DataType != "" {
		args = append(args, f.DataType)
		addClause(fmt.Sprintf("data_type = $%d", len(args)))
	}
	if f.MinTrust != nil {
		args = append(args, *f.MinTrust)
		addClause(fmt.Sprintf("trust_score >= $%d", len(args)))
	}
	if f.BBox != nil {
		args = append(args, f.BBox.MinLat, f.BBox.MaxLat, f.BBox.MinLng, f.BBox.MaxLng)
		addClause(fmt.Sprintf("latitude BETWEEN $%d AND $%d AND longitude BETWEEN $%d AND $%d",
			len(args)-3, len(args)-2, len(args)-1, len(args)))
	}

	countArgs := make([]any, len(args))
	copy(countArgs, args)

	args = append(args, f.Limit, f.Offset)

	query := fmt.Sprintf(`
		SELECT%s
		FROM data_points
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, dataPointColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var points []model.DataPoint
	for rows.Next() {
		d, err := scanDataPoint(rows)
		if err != nil {
			return nil, 0, err
		}
		points = append(points, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM data_points %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return points, total, nil
}

// SimilarParams selects neighbors for a reference observation: same data
// type, within RadiusKm of the reference coordinates, excluding the
// reference row itself.
type SimilarParams struct {
	DataType  string
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	ExcludeID string
	Limit     int
}

// ListSimilar returns the most-trusted data points of the same type near a
// reference location. The radius is approximated as a lat/lng box (one
// degree of latitude ~ 111 km); good enough for neighborhood matching.
func (r *DataPointRepo) ListSimilar(ctx context.Context, p SimilarParams) ([]model.DataPoint, error) {
	latDelta := p.RadiusKm / 111.0
	lngScale := math.Cos(p.Latitude * math.Pi / 180)
	if lngScale < 0.01 {
		lngScale = 0.01 // near the poles every longitude is close
	}
	lngDelta := latDelta / lngScale

	query := fmt.Sprintf(`
		SELECT%s
		FROM data_points
		WHERE data_type = $1
		  AND id <> $2
		  AND latitude BETWEEN $3 AND $4
		  AND longitude BETWEEN $5 AND $6
		ORDER BY trust_score DESC, confirms_count DESC
		LIMIT $7`, dataPointColumns)

	rows, err := r.pool.Query(ctx, query,
		p.DataType, p.ExcludeID,
		p.Latitude-latDelta, p.Latitude+latDelta,
		p.Longitude-lngDelta, p.Longitude+lngDelta,
		p.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.DataPoint
	for rows.Next() {
		d, err := scanDataPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *d)
	}
	return points, rows.Err()
}
