package schema

import (
	"cmp"
	"context"
	"embed"
	"errors"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/rulestudio/rulestudio/pkg/conn/db/postgres/pool"
)

//go:embed versions
var versionsFS embed.FS

// Embedded is the schema repository built in this binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(versionsFS, "versions")
	if err != nil {
		panic(err)
	}
	return sub
}

type Schema struct {
	pool       kpool.Pool
	repository fs.FS
}

// New creates a new Schema.
//
// # Args
//
// - pool: connections to the database.
//
// - repository: schema repository. Each directory named by a number is
// a schema version, and *.sql files in it are applied in the name order.
func New(pool kpool.Pool, repository fs.FS) *Schema {
	return &Schema{pool: pool, repository: repository}
}

type version struct {
	Version int
	Root    string
}

func (v version) Apply(ctx context.Context, repository fs.FS, conn kpool.Queryer) error {
	entries, err := fs.ReadDir(repository, v.Root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		query, err := fs.ReadFile(repository, path.Join(v.Root, e.Name()))
		if err != nil {
			return err
		}
		if _, err := conn.Exec(ctx, string(query)); err != nil {
			return err
		}
	}
	return nil
}

// Version returns the schema version of the database.
//
// It is 0 when no schema is applied yet.
func (s *Schema) Version(ctx context.Context) (int, error) {
	var version *int
	if err := s.pool.QueryRow(
		ctx, `SELECT max("version") FROM "schema_version"`,
	).Scan(&version); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) {
			if pgerr.Code == pgerrcode.UndefinedTable {
				return 0, nil
			}
		}
		return -1, err
	}
	if version == nil {
		return 0, nil
	}
	return *version, nil
}

// Upgrade applies schema versions newer than the database has, in a single
// transaction.
func (s *Schema) Upgrade(ctx context.Context) error {
	versions, err := s.versions()
	if err != nil {
		return err
	}

	current, err := s.Version(ctx)
	if err != nil {
		return err
	}

	return kpool.InTx(ctx, s.pool, func(tx kpool.Tx) error {
		for _, v := range versions {
			if v.Version <= current {
				continue
			}
			if err := v.Apply(ctx, s.repository, tx); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM "schema_version"`); err != nil {
				return err
			}
			if _, err := tx.Exec(
				ctx, `INSERT INTO "schema_version" ("version") VALUES ($1)`, v.Version,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// versions lookup the schema from the schema repository, sorted by version.
func (s *Schema) versions() ([]version, error) {
	entries, err := fs.ReadDir(s.repository, ".")
	if err != nil {
		return nil, err
	}

	versions := make([]version, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		versions = append(versions, version{Version: v, Root: entry.Name()})
	}
	slices.SortFunc(versions, func(a, b version) int { return cmp.Compare(a.Version, b.Version) })
	return versions, nil
}
