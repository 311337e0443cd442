package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"petrodata-cloud/internal/refdata"
	domainsubmission "petrodata-cloud/internal/submission/domain"
)

const defaultSubmissionTable = "submissions"

// PostgresSubmissionRepository is a Postgres implementation of the
// submission repository and the daily aggregator.
type PostgresSubmissionRepository struct {
	db    *sql.DB
	table string
}

// NewPostgresSubmissionRepository creates a repository using the default table name.
func NewPostgresSubmissionRepository(db *sql.DB, opts ...RepositoryOption) *PostgresSubmissionRepository {
	repo := &PostgresSubmissionRepository{
		db:    db,
		table: defaultSubmissionTable,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// RepositoryOption configures the repository.
type RepositoryOption func(*PostgresSubmissionRepository)

// WithTable overrides the default table name.
func WithTable(table string) RepositoryOption {
	return func(repo *PostgresSubmissionRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Create inserts a batch of submissions in a single transaction.
func (r *PostgresSubmissionRepository) Create(ctx context.Context, subs []*domainsubmission.Submission) error {
	if len(subs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	entry_code,
	filling_station,
	state,
	region,
	product,
	price,
	price_date,
	supporting_document,
	submitted_by,
	status,
	created_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)`, r.table)

	for _, sub := range subs {
		if sub == nil {
			return errors.New("submission repo: nil submission")
		}
		_, err = tx.ExecContext(
			ctx,
			query,
			sub.ID,
			sub.EntryCode,
			sub.FillingStation,
			sub.State,
			string(sub.Region),
			string(sub.Product),
			sub.Price,
			sub.PriceDate,
			nullString(sub.SupportingDocument),
			sub.SubmittedBy,
			string(sub.Status),
			sub.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get fetches a single submission by id.
func (r *PostgresSubmissionRepository) Get(ctx context.Context, id string) (*domainsubmission.Submission, error) {
	if id == "" {
		return nil, domainsubmission.ErrNotFound
	}

	query := fmt.Sprintf(`
SELECT
	id,
	entry_code,
	filling_station,
	state,
	region,
	product,
	price,
	price_date,
	supporting_document,
	submitted_by,
	status,
	decided_by,
	decided_at,
	rejection_reason,
	created_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	row := r.db.QueryRowContext(ctx, query, id)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, domainsubmission.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns a page of submissions matching the filter, newest first.
func (r *PostgresSubmissionRepository) List(ctx context.Context, filter domainsubmission.Filter) ([]*domainsubmission.Submission, error) {
	where, args := filterClause(filter)
	args = append(args, domainsubmission.PageSize, filter.Skip())

	query := fmt.Sprintf(`
SELECT
	id,
	entry_code,
	filling_station,
	state,
	region,
	product,
	price,
	price_date,
	supporting_document,
	submitted_by,
	status,
	decided_by,
	decided_at,
	rejection_reason,
	created_at
FROM %s
%s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d`, r.table, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domainsubmission.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of submissions matching the filter.
func (r *PostgresSubmissionRepository) Count(ctx context.Context, filter domainsubmission.Filter) (int, error) {
	where, args := filterClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, r.table, where)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Decide moves a pending submission to a terminal status. The update is
// gated on the stored status still being pending so two concurrent
// decisions cannot both win.
func (r *PostgresSubmissionRepository) Decide(ctx context.Context, id string, status domainsubmission.Status, decidedBy string, decidedAt time.Time, rejectionReason string) error {
	query := fmt.Sprintf(`
UPDATE %s
SET status = $2,
	decided_by = $3,
	decided_at = $4,
	rejection_reason = $5
WHERE id = $1
	AND status = $6`, r.table)

	res, err := r.db.ExecContext(
		ctx,
		query,
		id,
		string(status),
		decidedBy,
		decidedAt,
		nullString(rejectionReason),
		string(domainsubmission.StatusPending),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return domainsubmission.ErrNotFound
		}
		return domainsubmission.ErrAlreadyDecided
	}
	return nil
}

// ListApprovedInWindow returns approved submissions with a price date in [from, to).
func (r *PostgresSubmissionRepository) ListApprovedInWindow(ctx context.Context, from, to time.Time) ([]*domainsubmission.Submission, error) {
	query := fmt.Sprintf(`
SELECT
	id,
	entry_code,
	filling_station,
	state,
	region,
	product,
	price,
	price_date,
	supporting_document,
	submitted_by,
	status,
	decided_by,
	decided_at,
	rejection_reason,
	created_at
FROM %s
WHERE status = $1
	AND price_date >= $2
	AND price_date < $3
ORDER BY price_date ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, string(domainsubmission.StatusApproved), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domainsubmission.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// StateAveragesInWindow averages approved submissions per state over a
// price-date window, one aggregated row per state.
func (r *PostgresSubmissionRepository) StateAveragesInWindow(ctx context.Context, from, to time.Time) ([]domainsubmission.StateAverages, error) {
	query := fmt.Sprintf(`
SELECT
	state,
	AVG(price) FILTER (WHERE product = 'AGO'),
	AVG(price) FILTER (WHERE product = 'PMS'),
	AVG(price) FILTER (WHERE product = 'DPK'),
	AVG(price) FILTER (WHERE product = 'LPG'),
	AVG(price) FILTER (WHERE product = 'ICE'),
	array_agg(DISTINCT submitted_by)
FROM %s
WHERE status = $1
	AND price_date >= $2
	AND price_date < $3
GROUP BY state
ORDER BY state ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, string(domainsubmission.StatusApproved), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domainsubmission.StateAverages
	for rows.Next() {
		var (
			state        string
			ago          sql.NullFloat64
			pms          sql.NullFloat64
			dpk          sql.NullFloat64
			lpg          sql.NullFloat64
			ice          sql.NullFloat64
			contributors pq.StringArray
		)
		if err := rows.Scan(&state, &ago, &pms, &dpk, &lpg, &ice, &contributors); err != nil {
			return nil, err
		}
		result = append(result, domainsubmission.StateAverages{
			State: state,
			Averages: map[refdata.Product]*float64{
				refdata.ProductAGO: nullableFloat(ago),
				refdata.ProductPMS: nullableFloat(pms),
				refdata.ProductDPK: nullableFloat(dpk),
				refdata.ProductLPG: nullableFloat(lpg),
				refdata.ProductICE: nullableFloat(ice),
			},
			Contributors: contributors,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// NationalAveragesInWindow averages approved submissions over a price-date
// window without grouping, one submission one weight.
func (r *PostgresSubmissionRepository) NationalAveragesInWindow(ctx context.Context, from, to time.Time) (domainsubmission.StateAverages, error) {
	query := fmt.Sprintf(`
SELECT
	AVG(price) FILTER (WHERE product = 'AGO'),
	AVG(price) FILTER (WHERE product = 'PMS'),
	AVG(price) FILTER (WHERE product = 'DPK'),
	AVG(price) FILTER (WHERE product = 'LPG'),
	AVG(price) FILTER (WHERE product = 'ICE'),
	array_agg(DISTINCT submitted_by) FILTER (WHERE submitted_by IS NOT NULL)
FROM %s
WHERE status = $1
	AND price_date >= $2
	AND price_date < $3`, r.table)

	var (
		ago          sql.NullFloat64
		pms          sql.NullFloat64
		dpk          sql.NullFloat64
		lpg          sql.NullFloat64
		ice          sql.NullFloat64
		contributors pq.StringArray
	)
	err := r.db.QueryRowContext(ctx, query, string(domainsubmission.StatusApproved), from, to).
		Scan(&ago, &pms, &dpk, &lpg, &ice, &contributors)
	if err != nil {
		return domainsubmission.StateAverages{}, err
	}

	return domainsubmission.StateAverages{
		Averages: map[refdata.Product]*float64{
			refdata.ProductAGO: nullableFloat(ago),
			refdata.ProductPMS: nullableFloat(pms),
			refdata.ProductDPK: nullableFloat(dpk),
			refdata.ProductLPG: nullableFloat(lpg),
			refdata.ProductICE: nullableFloat(ice),
		},
		Contributors: contributors,
	}, nil
}

func (r *PostgresSubmissionRepository) exists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE id = $1`, r.table)
	var one int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func filterClause(filter domainsubmission.Filter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			`(filling_station ILIKE $%d ESCAPE '\' OR state ILIKE $%d ESCAPE '\' OR region ILIKE $%d ESCAPE '\' OR product ILIKE $%d ESCAPE '\')`, n, n, n, n))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, "\n\tAND "), args
}

// escapeLike neutralizes LIKE metacharacters so a search term only ever
// matches literally.
func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func scanSubmission(scanner interface{ Scan(dest ...any) error }) (*domainsubmission.Submission, error) {
	var (
		sub             domainsubmission.Submission
		region          string
		product         string
		status          string
		supportingDoc   sql.NullString
		decidedBy       sql.NullString
		decidedAt       sql.NullTime
		rejectionReason sql.NullString
	)

	if err := scanner.Scan(
		&sub.ID,
		&sub.EntryCode,
		&sub.FillingStation,
		&sub.State,
		&region,
		&product,
		&sub.Price,
		&sub.PriceDate,
		&supportingDoc,
		&sub.SubmittedBy,
		&status,
		&decidedBy,
		&decidedAt,
		&rejectionReason,
		&sub.CreatedAt,
	); err != nil {
		return nil, err
	}

	sub.Region = refdata.Zone(region)
	sub.Product = refdata.Product(product)
	sub.Status = domainsubmission.Status(status)
	sub.SupportingDocument = supportingDoc.String
	sub.DecidedBy = decidedBy.String
	if decidedAt.Valid {
		sub.DecidedAt = &decidedAt.Time
	}
	sub.RejectionReason = rejectionReason.String
	return &sub, nil
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullableFloat(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}
