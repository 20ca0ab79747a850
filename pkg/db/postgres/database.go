package postgres

import (
	"context"

	kpool "github.com/rulestudio/rulestudio/pkg/conn/db/postgres/pool"
	kdb "github.com/rulestudio/rulestudio/pkg/db"
	kpgprojects "github.com/rulestudio/rulestudio/pkg/db/postgres/projects"
	kpgschema "github.com/rulestudio/rulestudio/pkg/db/postgres/schema"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
)

type rulestudioDBPostgres struct {
	pool     kpool.Pool
	projects kdb.ProjectsInterface
}

// New connects to the database at url and upgrades its schema.
func New(ctx context.Context, url string) (kdb.Database, error) {
	pool, err := kpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	if err := kpgschema.New(pool, kpgschema.Embedded()).Upgrade(ctx); err != nil {
		pool.Close()
		return nil, xe.Wrap(err)
	}

	return &rulestudioDBPostgres{
		pool:     pool,
		projects: kpgprojects.New(pool),
	}, nil
}

func (k *rulestudioDBPostgres) Projects() kdb.ProjectsInterface {
	return k.projects
}

func (k *rulestudioDBPostgres) Ping(ctx context.Context) error {
	return k.pool.Ping(ctx)
}

func (k *rulestudioDBPostgres) Close() error {
	k.pool.Close()
	return nil
}
