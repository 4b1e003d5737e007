package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/zatekoja/doction/backend/internal/domain/entities"
	"github.com/zatekoja/doction/backend/internal/domain/repositories"
	"github.com/zatekoja/doction/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/doction/backend/pkg/errors"
)

const patientRequestsTable = "patient_requests"

// PatientRequestsSchema creates the table used by PatientRequestAdapter
const PatientRequestsSchema = `
CREATE TABLE IF NOT EXISTS patient_requests (
	id                 TEXT PRIMARY KEY,
	patient_id         TEXT NOT NULL DEFAULT '',
	patient_name       TEXT NOT NULL DEFAULT '',
	patient_email      TEXT NOT NULL DEFAULT '',
	patient_phone      TEXT NOT NULL DEFAULT '',
	specialty          TEXT NOT NULL,
	urgency            TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	city               TEXT NOT NULL DEFAULT '',
	state              TEXT NOT NULL DEFAULT '',
	zip                TEXT NOT NULL DEFAULT '',
	budget_min         NUMERIC,
	budget_max         NUMERIC,
	preferred_date     TIMESTAMPTZ,
	status             TEXT NOT NULL,
	insurance_detected BOOLEAN NOT NULL DEFAULT FALSE,
	additional_notes   TEXT NOT NULL DEFAULT '',
	provider_ids       TEXT[] NOT NULL DEFAULT '{}',
	responded_by       TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS patient_requests_status_created_idx ON patient_requests (status, created_at);
`

var patientRequestColumns = []interface{}{
	"id", "patient_id", "patient_name", "patient_email", "patient_phone",
	"specialty", "urgency", "description", "city", "state", "zip",
	"budget_min", "budget_max", "preferred_date", "status", "insurance_detected",
	"additional_notes", "provider_ids", "responded_by", "created_at", "updated_at",
}

// PatientRequestAdapter implements patient request persistence in Postgres.
type PatientRequestAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	now    func() time.Time
}

// NewPatientRequestAdapter creates a new patient request adapter.
func NewPatientRequestAdapter(client *postgres.Client) repositories.PatientRequestRepository {
	return &PatientRequestAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		now:    time.Now,
	}
}

// Migrate creates the patient_requests table if it does not exist.
func (a *PatientRequestAdapter) Migrate(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, PatientRequestsSchema); err != nil {
		return apperrors.NewInternalError("failed to create patient_requests table", err)
	}
	return nil
}

// Create inserts a patient request.
func (a *PatientRequestAdapter) Create(ctx context.Context, request *entities.PatientRequest) error {
	if request == nil {
		return apperrors.NewInternalError("patient request is nil", fmt.Errorf("patient request is nil"))
	}

	location := entities.Location{}
	if request.Location != nil {
		location = *request.Location
	}
	var budgetMin, budgetMax sql.NullFloat64
	if request.Budget != nil {
		budgetMin = sql.NullFloat64{Float64: request.Budget.Min, Valid: true}
		budgetMax = sql.NullFloat64{Float64: request.Budget.Max, Valid: true}
	}
	var preferred sql.NullTime
	if request.PreferredDate != nil {
		preferred = sql.NullTime{Time: *request.PreferredDate, Valid: true}
	}
	providerIDs := request.ProviderIDs
	if providerIDs == nil {
		providerIDs = []string{}
	}

	record := goqu.Record{
		"id":                 request.ID,
		"patient_id":         request.Patient.ID,
		"patient_name":       request.Patient.Name,
		"patient_email":      request.Patient.Email,
		"patient_phone":      request.Patient.Phone,
		"specialty":          request.Specialty,
		"urgency":            string(request.Urgency),
		"description":        request.Description,
		"city":               location.City,
		"state":              location.State,
		"zip":                location.Zip,
		"budget_min":         budgetMin,
		"budget_max":         budgetMax,
		"preferred_date":     preferred,
		"status":             string(request.Status),
		"insurance_detected": request.InsuranceDetected,
		"additional_notes":   request.AdditionalNotes,
		"provider_ids":       pq.StringArray(providerIDs),
		"responded_by":       request.RespondedBy,
		"created_at":         request.CreatedAt,
		"updated_at":         request.UpdatedAt,
	}

	query, args, err := a.db.Insert(patientRequestsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build patient request insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.NewConflictError(fmt.Sprintf("patient request %s already exists", request.ID))
		}
		return apperrors.NewInternalError("failed to create patient request", err)
	}

	return nil
}

// GetByID retrieves a patient request by ID.
func (a *PatientRequestAdapter) GetByID(ctx context.Context, id string) (*entities.PatientRequest, error) {
	query, args, err := a.db.From(patientRequestsTable).
		Select(patientRequestColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build patient request query", err)
	}

	request, err := scanPatientRequest(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient request %s not found", id))
		}
		return nil, apperrors.NewInternalError("failed to get patient request", err)
	}

	return request, nil
}

// UpdateStatus moves a pending request to status.
func (a *PatientRequestAdapter) UpdateStatus(ctx context.Context, id string, status entities.PatientRequestStatus, respondedBy string) error {
	query, args, err := a.db.Update(patientRequestsTable).
		Set(goqu.Record{
			"status":       string(status),
			"responded_by": respondedBy,
			"updated_at":   a.now().UTC(),
		}).
		Where(
			goqu.C("id").Eq(id),
			goqu.C("status").Eq(string(entities.PatientRequestStatusPending)),
		).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build patient request update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update patient request", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read affected rows", err)
	}
	if affected > 0 {
		return nil
	}

	// Distinguish a missing request from one that already left pending
	existing, err := a.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return apperrors.NewConflictError(fmt.Sprintf("patient request %s is already %s", id, existing.Status))
}

// ListPending returns pending requests for a specialty, oldest first.
func (a *PatientRequestAdapter) ListPending(ctx context.Context, specialty string) ([]*entities.PatientRequest, error) {
	where := []goqu.Expression{goqu.C("status").Eq(string(entities.PatientRequestStatusPending))}
	if specialty != "" {
		where = append(where, goqu.C("specialty").ILike("%"+specialty+"%"))
	}

	query, args, err := a.db.From(patientRequestsTable).
		Select(patientRequestColumns...).
		Where(where...).
		Order(goqu.C("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build pending requests query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list pending requests", err)
	}
	defer rows.Close()

	requests := make([]*entities.PatientRequest, 0)
	for rows.Next() {
		request, err := scanPatientRequest(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan patient request", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate pending requests", err)
	}

	return requests, nil
}

// Stats counts stored requests by status.
func (a *PatientRequestAdapter) Stats(ctx context.Context) (*entities.PatientRequestStats, error) {
	query, args, err := a.db.From(patientRequestsTable).
		Select(goqu.C("status"), goqu.COUNT("*").As("count")).
		GroupBy(goqu.C("status")).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build stats query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query request stats", err)
	}
	defer rows.Close()

	stats := &entities.PatientRequestStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan request stats", err)
		}
		stats.Total += count
		switch entities.PatientRequestStatus(status) {
		case entities.PatientRequestStatusPending:
			stats.Pending = count
		case entities.PatientRequestStatusAccepted:
			stats.Accepted = count
		case entities.PatientRequestStatusDeclined:
			stats.Declined = count
		case entities.PatientRequestStatusExpired:
			stats.Expired = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate request stats", err)
	}

	return stats, nil
}

// ExpireBefore marks stale pending requests as expired.
func (a *PatientRequestAdapter) ExpireBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	query, args, err := a.db.Update(patientRequestsTable).
		Set(goqu.Record{
			"status":     string(entities.PatientRequestStatusExpired),
			"updated_at": a.now().UTC(),
		}).
		Where(
			goqu.C("status").Eq(string(entities.PatientRequestStatusPending)),
			goqu.C("created_at").Lt(cutoff.UTC()),
		).
		Returning(goqu.C("id")).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build expiry query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to expire patient requests", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan expired id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate expired ids", err)
	}

	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatientRequest(row rowScanner) (*entities.PatientRequest, error) {
	var (
		request     entities.PatientRequest
		urgency     string
		status      string
		location    entities.Location
		budgetMin   sql.NullFloat64
		budgetMax   sql.NullFloat64
		preferred   sql.NullTime
		providerIDs pq.StringArray
	)

	err := row.Scan(
		&request.ID,
		&request.Patient.ID,
		&request.Patient.Name,
		&request.Patient.Email,
		&request.Patient.Phone,
		&request.Specialty,
		&urgency,
		&request.Description,
		&location.City,
		&location.State,
		&location.Zip,
		&budgetMin,
		&budgetMax,
		&preferred,
		&status,
		&request.InsuranceDetected,
		&request.AdditionalNotes,
		&providerIDs,
		&request.RespondedBy,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	request.Urgency = entities.Urgency(urgency)
	request.Status = entities.PatientRequestStatus(status)
	if !location.IsZero() {
		request.Location = &location
	}
	if budgetMin.Valid && budgetMax.Valid {
		request.Budget = &entities.PriceRange{Min: budgetMin.Float64, Max: budgetMax.Float64}
	}
	if preferred.Valid {
		t := preferred.Time
		request.PreferredDate = &t
	}
	if len(providerIDs) > 0 {
		request.ProviderIDs = []string(providerIDs)
	}

	return &request, nil
}
