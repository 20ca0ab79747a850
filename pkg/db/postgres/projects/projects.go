package projects

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	kpool "github.com/rulestudio/rulestudio/pkg/conn/db/postgres/pool"
	kdb "github.com/rulestudio/rulestudio/pkg/db"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
)

type pgProjects struct {
	pool kpool.Pool
}

var _ kdb.ProjectsInterface = &pgProjects{}

func New(pool kpool.Pool) kdb.ProjectsInterface {
	return &pgProjects{pool: pool}
}

func jsonb(b []byte) pgtype.JSONB {
	if b == nil {
		return pgtype.JSONB{Status: pgtype.Null}
	}
	return pgtype.JSONB{Bytes: b, Status: pgtype.Present}
}

func (p *pgProjects) Save(ctx context.Context, record kdb.ProjectRecord) error {
	if _, err := p.pool.Exec(
		ctx,
		`
		INSERT INTO "project" ("project_id", "name", "metadata", "objects")
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ("project_id") DO UPDATE
		SET "name" = EXCLUDED."name",
			"metadata" = EXCLUDED."metadata",
			"objects" = EXCLUDED."objects",
			"updated_at" = now()
		`,
		pgtype.UUID{Bytes: record.Id, Status: pgtype.Present},
		record.Name,
		jsonb(record.Metadata),
		jsonb(record.Objects),
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (p *pgProjects) Remove(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(
		ctx,
		`DELETE FROM "project" WHERE "project_id" = $1`,
		pgtype.UUID{Bytes: id, Status: pgtype.Present},
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %s", kdb.ErrMissing, id)
	}
	return nil
}

func (p *pgProjects) List(ctx context.Context) ([]kdb.ProjectRecord, error) {
	rows, err := p.pool.Query(
		ctx,
		`
		SELECT "project_id", "name", "metadata", "objects", "created_at", "updated_at"
		FROM "project"
		ORDER BY "created_at", "project_id"
		`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	records := []kdb.ProjectRecord{}
	for rows.Next() {
		var id pgtype.UUID
		var metadata, objects pgtype.JSONB
		r := kdb.ProjectRecord{}
		if err := rows.Scan(&id, &r.Name, &metadata, &objects, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, xe.Wrap(err)
		}
		r.Id = uuid.UUID(id.Bytes)
		if metadata.Status == pgtype.Present {
			r.Metadata = metadata.Bytes
		}
		if objects.Status == pgtype.Present {
			r.Objects = objects.Bytes
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return records, nil
}
