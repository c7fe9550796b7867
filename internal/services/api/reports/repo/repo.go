// Package repo is the optional Postgres journal for reports
package repo

import (
	"context"
	"time"

	"resolveit/internal/modkit/repokit"
	perr "resolveit/internal/platform/errors"
	"resolveit/internal/platform/store"
	str "resolveit/internal/platform/strings"
	"resolveit/internal/services/api/reports/domain"
)

// Repo is the journal plus its schema bootstrap
type Repo interface {
	domain.Journal
	EnsureSchema(ctx context.Context) error
}

type (
	// PG binds the journal to a Postgres queryer
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a Postgres journal binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const schemaSQL = `
create table if not exists reports (
	id                       text primary key,
	title                    text not null,
	description              text not null,
	location                 text not null,
	category                 text not null,
	priority                 text not null,
	reporter_name            text not null,
	reporter_email           text not null,
	reporter_phone           text,
	latitude                 double precision,
	longitude                double precision,
	images                   text[] not null default '{}',
	status                   text not null,
	assigned_department      text not null,
	assigned_department_name text not null,
	routing_confidence       double precision not null,
	routing_reason           text not null,
	submitted_at             timestamptz not null,
	updated_at               timestamptz not null,
	check (updated_at >= submitted_at)
);
create index if not exists reports_submitted_at_idx on reports (submitted_at desc);
`

func (r *queries) EnsureSchema(ctx context.Context) error {
	_, err := r.q.Exec(ctx, schemaSQL)
	return perr.FromPostgres(err, "ensure reports schema")
}

func (r *queries) Insert(ctx context.Context, rep domain.Report) error {
	const sql = `
insert into reports (
	id, title, description, location, category, priority,
	reporter_name, reporter_email, reporter_phone, latitude, longitude, images,
	status, assigned_department, assigned_department_name, routing_confidence, routing_reason,
	submitted_at, updated_at
) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
`
	images := rep.Images
	if images == nil {
		images = []string{}
	}
	_, err := r.q.Exec(ctx, sql,
		rep.ID, rep.Title, rep.Description, rep.Location, string(rep.Category), string(rep.Priority),
		rep.ReporterName, rep.ReporterEmail, str.SQLNull(rep.ReporterPhone), rep.Latitude, rep.Longitude, images,
		string(rep.Status), rep.AssignedDepartment, rep.AssignedDepartmentName, rep.RoutingConfidence, rep.RoutingReason,
		rep.SubmittedAt, rep.UpdatedAt,
	)
	return perr.FromPostgres(err, "insert report")
}

func (r *queries) UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error {
	const sql = `update reports set status = $2, updated_at = $3 where id = $1`
	return r.one(store.ExecOne(ctx, r.q, sql, id, string(status), at), id, "update report status")
}

func (r *queries) UpdateAssignment(ctx context.Context, id, departmentID, departmentName string, at time.Time) error {
	const sql = `update reports set assigned_department = $2, assigned_department_name = $3, updated_at = $4 where id = $1`
	return r.one(store.ExecOne(ctx, r.q, sql, id, departmentID, departmentName, at), id, "update report assignment")
}

// one maps the ExecOne row count failure to NotFound; driver errors keep their mapping
func (r *queries) one(err error, id, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := perr.ExtractPgError(err); ok {
		return perr.FromPostgres(err, msg)
	}
	return perr.Wrapf(err, perr.ErrorCodeNotFound, "%s: report %s not journaled", msg, id)
}

func (r *queries) All(ctx context.Context) ([]domain.Report, error) {
	const sql = `
select id, title, description, location, category, priority,
	reporter_name, reporter_email, reporter_phone, latitude, longitude, images,
	status, assigned_department, assigned_department_name, routing_confidence, routing_reason,
	submitted_at, updated_at
from reports
order by submitted_at, id
`
	out, err := store.Many(ctx, r.q, scanReport, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "load reports")
	}
	return out, nil
}

func scanReport(row store.Row) (domain.Report, error) {
	var (
		rep      domain.Report
		phone    *string
		category string
		priority string
		status   string
	)
	err := row.Scan(
		&rep.ID, &rep.Title, &rep.Description, &rep.Location, &category, &priority,
		&rep.ReporterName, &rep.ReporterEmail, &phone, &rep.Latitude, &rep.Longitude, &rep.Images,
		&status, &rep.AssignedDepartment, &rep.AssignedDepartmentName, &rep.RoutingConfidence, &rep.RoutingReason,
		&rep.SubmittedAt, &rep.UpdatedAt,
	)
	if err != nil {
		return domain.Report{}, err
	}
	rep.Category, rep.Priority, rep.Status = domain.Category(category), domain.Priority(priority), domain.Status(status)
	rep.ReporterPhone = str.Deref(phone)
	rep.SubmittedAt, rep.UpdatedAt = rep.SubmittedAt.UTC(), rep.UpdatedAt.UTC()
	if len(rep.Images) == 0 {
		rep.Images = nil
	}
	return rep, nil
}
