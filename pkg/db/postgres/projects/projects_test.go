package projects_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	testutilctx "github.com/rulestudio/rulestudio/internal/testutils/context"
	kdb "github.com/rulestudio/rulestudio/pkg/db"
	"github.com/rulestudio/rulestudio/pkg/db/postgres/pool/testenv"
	"github.com/rulestudio/rulestudio/pkg/db/postgres/projects"
	"github.com/rulestudio/rulestudio/pkg/db/postgres/schema"
)

func TestProjects(t *testing.T) {
	ctx := testutilctx.WithTest(context.Background(), t)
	pool := testenv.GetPool(ctx, t)
	if err := schema.New(pool, schema.Embedded()).Upgrade(ctx); err != nil {
		t.Fatal(err)
	}
	testee := projects.New(pool)

	first := kdb.ProjectRecord{
		Id:       uuid.New(),
		Name:     "first",
		Metadata: []byte(`[{"name": "a", "identifierType": "uuid"}]`),
		Objects:  []byte(`[]`),
	}
	second := kdb.ProjectRecord{Id: uuid.New(), Name: "second"}

	for _, r := range []kdb.ProjectRecord{first, second} {
		if err := testee.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	first.Name = "renamed"
	if err := testee.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	got, err := testee.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("number of records: %d", len(got))
	}
	if got[0].Id != first.Id || got[0].Name != "renamed" {
		t.Errorf("first record: %+v", got[0])
	}
	if got[0].Metadata == nil || got[0].Objects == nil {
		t.Errorf("table of first record is lost: %+v", got[0])
	}
	if got[1].Id != second.Id || got[1].Metadata != nil || got[1].Objects != nil {
		t.Errorf("second record: %+v", got[1])
	}
	if got[0].UpdatedAt.Before(got[0].CreatedAt) {
		t.Errorf("timestamps: %+v", got[0])
	}

	if err := testee.Remove(ctx, second.Id); err != nil {
		t.Fatal(err)
	}
	if err := testee.Remove(ctx, second.Id); !errors.Is(err, kdb.ErrMissing) {
		t.Errorf("unexpected error: %v", err)
	}
	got, err = testee.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("records after remove: %+v", got)
	}
}
