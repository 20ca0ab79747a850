package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	httptestutil "github.com/rulestudio/rulestudio/internal/testutils/http"
	kdb "github.com/rulestudio/rulestudio/pkg/db"
	"github.com/rulestudio/rulestudio/pkg/db/mocks"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn/mock"
	"github.com/rulestudio/rulestudio/pkg/studio"
	"github.com/rulestudio/rulestudio/pkg/utils/try"

	"github.com/rulestudio/rulestudio/cmd/rulestudiod/handlers"
)

const metadata = `[
	{"name": "id", "identifierType": "text"},
	{"name": "a", "type": "condition", "valueType": "integer", "preferenceType": "gain"},
	{"name": "class", "type": "decision", "valueType": "enumeration", "preferenceType": "gain", "domain": ["low", "high"]}
]`

const data = `o1,1,low
o2,5,high
o3,2,low
o4,6,high
o5,1,low
o6,7,high
`

const dataJSON = `[
	{"id": "p1", "a": 1, "class": "low"},
	{"id": "p2", "a": 8, "class": "high"},
	{"id": "p3", "a": 2, "class": "low"},
	{"id": "p4", "a": 9, "class": "high"}
]`

func newStudio() *studio.Studio {
	db := mocks.NewDatabase()
	db.Projects_.Impl.Save = func(ctx context.Context, record kdb.ProjectRecord) error { return nil }
	db.Projects_.Impl.Remove = func(ctx context.Context, id uuid.UUID) error { return nil }
	return studio.New(mock.New().Oracle(), studio.WithArchive(db))
}

func withData(t *testing.T, s *studio.Studio) uuid.UUID {
	t.Helper()
	snap := try.To(s.Create(context.Background(), studio.CreateRequest{
		Name:     "sample",
		Metadata: []byte(metadata),
		Data:     []byte(data),
		Format:   infotable.CSV(',', false),
	})).OrFatal(t)
	return snap.Id
}

// expectHTTPError checks err is an *echo.HTTPError with the code.
func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	herr := new(echo.HTTPError)
	if !errors.As(err, &herr) {
		t.Fatalf("error is not HTTPError: %v", err)
	}
	if herr.Code != code {
		t.Errorf("status code: expected %d, actual %d (%v)", code, herr.Code, herr)
	}
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("response is not JSON: %s (%s)", err, body)
	}
	return v
}

type projectDetail struct {
	Id               string `json:"id"`
	Name             string `json:"name"`
	InformationTable *struct {
		Attributes []map[string]any   `json:"attributes"`
		Objects    []map[string]string `json:"objects"`
	} `json:"informationTable"`
	Rules          map[string]any `json:"rules"`
	Classification map[string]any `json:"classification"`
}

func query(values map[string]string) string {
	v := url.Values{}
	for key, value := range values {
		v.Set(key, value)
	}
	return "/?" + v.Encode()
}

func TestGetProjectsHandler(t *testing.T) {
	e := echo.New()
	s := newStudio()

	t.Run("without projects, it responds an empty list", func(t *testing.T) {
		c, resp := httptestutil.Get(e, "/")
		if err := handlers.GetProjectsHandler(s)(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK || resp.Body.String() != "[]\n" {
			t.Errorf("response: %d %s", resp.Code, resp.Body.String())
		}
	})

	t.Run("it lists projects in creation order", func(t *testing.T) {
		first := withData(t, s)
		second := try.To(s.Create(context.Background(), studio.CreateRequest{Name: "empty"})).OrFatal(t)

		c, resp := httptestutil.Get(e, "/")
		if err := handlers.GetProjectsHandler(s)(c); err != nil {
			t.Fatal(err)
		}
		actual := decode[[]map[string]string](t, resp.Body.Bytes())
		expected := []map[string]string{
			{"id": first.String(), "name": "sample"},
			{"id": second.Id.String(), "name": "empty"},
		}
		if len(actual) != 2 || actual[0]["id"] != expected[0]["id"] || actual[1]["name"] != "empty" {
			t.Errorf("projects:\n===actual===\n%v\n===expected===\n%v", actual, expected)
		}
	})
}

func TestPostProjectHandler(t *testing.T) {
	e := echo.New()

	type When struct {
		fields map[string]string
		files  map[string]string
	}
	type Then struct {
		code      int
		objects   int
		withTable bool
	}

	for name, testcase := range map[string]struct {
		when When
		then Then
	}{
		"with metadata and CSV data": {
			when: When{
				fields: map[string]string{"name": "sample"},
				files:  map[string]string{"metadata": metadata, "data": data},
			},
			then: Then{code: http.StatusOK, objects: 6, withTable: true},
		},
		"with CSV data with header and separator": {
			when: When{
				fields: map[string]string{"name": "sample", "separator": ";", "header": "true"},
				files:  map[string]string{"metadata": metadata, "data": "id;a;class\nq1;3;low\n"},
			},
			then: Then{code: http.StatusOK, objects: 1, withTable: true},
		},
		"with metadata only": {
			when: When{
				fields: map[string]string{"name": "sample"},
				files:  map[string]string{"metadata": metadata},
			},
			then: Then{code: http.StatusOK, objects: 0, withTable: true},
		},
		"with name only": {
			when: When{fields: map[string]string{"name": "sample"}},
			then: Then{code: http.StatusOK},
		},
		"without name": {
			when: When{files: map[string]string{"metadata": metadata}},
			then: Then{code: http.StatusBadRequest},
		},
		"with data but without metadata": {
			when: When{
				fields: map[string]string{"name": "sample"},
				files:  map[string]string{"data": data},
			},
			then: Then{code: http.StatusBadRequest},
		},
		"with broken metadata": {
			when: When{
				fields: map[string]string{"name": "sample"},
				files:  map[string]string{"metadata": "[{"},
			},
			then: Then{code: http.StatusBadRequest},
		},
		"with too long separator": {
			when: When{
				fields: map[string]string{"name": "sample", "separator": ";;"},
				files:  map[string]string{"metadata": metadata, "data": data},
			},
			then: Then{code: http.StatusBadRequest},
		},
	} {
		t.Run(name, func(t *testing.T) {
			when, then := testcase.when, testcase.then
			s := newStudio()

			body, ctyp, err := httptestutil.Multipart(when.fields, when.files)
			if err != nil {
				t.Fatal(err)
			}
			c, resp := httptestutil.Post(e, "/", body, ctyp)

			err = handlers.PostProjectHandler(s)(c)
			if then.code != http.StatusOK {
				expectHTTPError(t, err, then.code)
				if s.NumberOfProjects() != 0 {
					t.Errorf("project is created")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			actual := decode[projectDetail](t, resp.Body.Bytes())
			if actual.Name != "sample" || actual.Id == "" {
				t.Errorf("project: %+v", actual)
			}
			if (actual.InformationTable != nil) != then.withTable {
				t.Fatalf("information table: %+v", actual.InformationTable)
			}
			if then.withTable && len(actual.InformationTable.Objects) != then.objects {
				t.Errorf("objects: %v", actual.InformationTable.Objects)
			}
			if s.NumberOfProjects() != 1 {
				t.Errorf("projects: %d", s.NumberOfProjects())
			}
		})
	}
}

func TestProjectHandlers(t *testing.T) {
	e := echo.New()
	s := newStudio()
	id := withData(t, s)

	t.Run("GetProjectHandler responds the project", func(t *testing.T) {
		c, resp := httptestutil.Get(e, "/")
		c = httptestutil.WithParams(c, "projectId", id.String())
		if err := handlers.GetProjectHandler(s, "projectId")(c); err != nil {
			t.Fatal(err)
		}
		actual := decode[projectDetail](t, resp.Body.Bytes())
		if actual.Id != id.String() || actual.InformationTable == nil || len(actual.InformationTable.Objects) != 6 {
			t.Errorf("project: %+v", actual)
		}
		if actual.Rules != nil || actual.Classification != nil {
			t.Errorf("results are not calculated, but: %+v", actual)
		}
	})

	t.Run("PatchProjectHandler renames the project", func(t *testing.T) {
		body, ctyp := httptestutil.Form(map[string]string{"name": "renamed"})
		c, resp := httptestutil.Patch(e, "/", body, ctyp)
		c = httptestutil.WithParams(c, "projectId", id.String())
		if err := handlers.PatchProjectHandler(s, "projectId")(c); err != nil {
			t.Fatal(err)
		}
		if actual := decode[projectDetail](t, resp.Body.Bytes()); actual.Name != "renamed" {
			t.Errorf("name: %s", actual.Name)
		}

		body, ctyp = httptestutil.Form(map[string]string{"name": "  "})
		c, _ = httptestutil.Patch(e, "/", body, ctyp)
		c = httptestutil.WithParams(c, "projectId", id.String())
		expectHTTPError(t, handlers.PatchProjectHandler(s, "projectId")(c), http.StatusBadRequest)
	})

	for name, then := range map[string]struct {
		id   string
		code int
	}{
		"unknown id":   {id: uuid.NewString(), code: http.StatusNotFound},
		"malformed id": {id: "not-a-uuid", code: http.StatusBadRequest},
	} {
		t.Run("GetProjectHandler with "+name, func(t *testing.T) {
			c, _ := httptestutil.Get(e, "/")
			c = httptestutil.WithParams(c, "projectId", then.id)
			expectHTTPError(t, handlers.GetProjectHandler(s, "projectId")(c), then.code)
		})
	}

	t.Run("DeleteProjectHandler removes the project", func(t *testing.T) {
		c, resp := httptestutil.Delete(e, "/")
		c = httptestutil.WithParams(c, "projectId", id.String())
		if err := handlers.DeleteProjectHandler(s, "projectId")(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusNoContent {
			t.Errorf("status code: %d", resp.Code)
		}

		c, _ = httptestutil.Delete(e, "/")
		c = httptestutil.WithParams(c, "projectId", id.String())
		expectHTTPError(t, handlers.DeleteProjectHandler(s, "projectId")(c), http.StatusNotFound)
	})
}
