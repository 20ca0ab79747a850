package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	httptestutil "github.com/rulestudio/rulestudio/internal/testutils/http"
	"github.com/rulestudio/rulestudio/pkg/rulelearn/mock"
	"github.com/rulestudio/rulestudio/pkg/studio"
)

func TestRoot(t *testing.T) {
	for r, then := range map[string]map[string][]string{
		"/api": {
			"/api/":                  {},
			"/api/projects/":         {"projects"},
			"/api/projects/:id/":     {"projects/:id"},
			"/api/projects/:id/a/b/": {"projects/:id", "a", "b"},
		},
		"api/": {
			"/api/projects/": {"/projects/"},
		},
	} {
		api, err := root(r)
		if err != nil {
			t.Fatal(err)
		}
		for expected, parts := range then {
			if actual := api(parts...); actual != expected {
				t.Errorf("root(%s)(%v): expected %s, actual %s", r, parts, expected, actual)
			}
		}
	}
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	e.ServeHTTP(resp, req)
	return resp
}

func TestServer(t *testing.T) {
	s := studio.New(mock.New().Oracle())
	reg := prometheus.NewRegistry()
	e, err := newServer(s, "off", []string{"*"}, reg)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("healthz answers", func(t *testing.T) {
		resp := serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d", resp.Code)
		}
	})

	var id string
	t.Run("a project is created and read", func(t *testing.T) {
		body, ctyp, err := httptestutil.Multipart(
			map[string]string{"name": "sample", "header": "true"},
			map[string]string{
				"metadata": `[
					{"name": "a", "type": "condition", "valueType": "integer", "preferenceType": "gain"},
					{"name": "class", "type": "decision", "valueType": "enumeration", "preferenceType": "gain", "domain": ["low", "high"]}
				]`,
				"data": "a,class\n1,low\n5,high\n",
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		req := ctyp(httptest.NewRequest(http.MethodPost, "/api/projects", body))
		resp := serve(e, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("status code: %d, body: %s", resp.Code, resp.Body.String())
		}

		created := map[string]any{}
		if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
			t.Fatal(err)
		}
		id, _ = created["id"].(string)

		resp = serve(e, httptest.NewRequest(http.MethodGet, "/api/projects/"+id+"/metadata", nil))
		if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"class"`) {
			t.Errorf("status code: %d, body: %s", resp.Code, resp.Body.String())
		}
	})

	t.Run("matrix download exposes Content-Disposition to browsers", func(t *testing.T) {
		form := "typeOfUnions=monotonic&consistencyThreshold=0&typeOfRules=certain"
		req := httptest.NewRequest(http.MethodPut, "/api/projects/"+id+"/rules", strings.NewReader(form))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		if resp := serve(e, req); resp.Code != http.StatusOK {
			t.Fatalf("status code: %d, body: %s", resp.Code, resp.Body.String())
		}
		form = "typeOfClassifier=SimpleRuleClassifier&defaultClassificationResult=majorityDecisionClass"
		req = httptest.NewRequest(http.MethodPut, "/api/projects/"+id+"/classification", strings.NewReader(form))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		if resp := serve(e, req); resp.Code != http.StatusOK {
			t.Fatalf("status code: %d, body: %s", resp.Code, resp.Body.String())
		}

		req = httptest.NewRequest(
			http.MethodGet,
			"/api/projects/"+id+"/misclassificationMatrix/download?typeOfMatrix=classification",
			nil,
		)
		req.Header.Set(echo.HeaderOrigin, "http://example.com")
		resp := serve(e, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("status code: %d, body: %s", resp.Code, resp.Body.String())
		}
		if h := resp.Header().Get(echo.HeaderAccessControlExposeHeaders); h != echo.HeaderContentDisposition {
			t.Errorf("exposed headers: %s", h)
		}
		if h := resp.Header().Get(echo.HeaderContentDisposition); h != `attachment; filename="sample classification matrix.txt"` {
			t.Errorf("Content-Disposition: %s", h)
		}
	})

	t.Run("unions and cones are calculated and shown in the project", func(t *testing.T) {
		form := "typeOfUnions=standard&consistencyThreshold=0.5"
		req := httptest.NewRequest(http.MethodPut, "/api/projects/"+id+"/unions", strings.NewReader(form))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		if resp := serve(e, req); resp.Code != http.StatusOK {
			t.Fatalf("status code: %d, body: %s", resp.Code, resp.Body.String())
		}
		if resp := serve(e, httptest.NewRequest(http.MethodPut, "/api/projects/"+id+"/cones", nil)); resp.Code != http.StatusOK {
			t.Fatalf("status code: %d, body: %s", resp.Code, resp.Body.String())
		}

		resp := serve(e, httptest.NewRequest(http.MethodGet, "/api/projects/"+id, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("status code: %d, body: %s", resp.Code, resp.Body.String())
		}
		detail := struct {
			Unions *struct {
				TypeOfUnions  string `json:"typeOfUnions"`
				IsCurrentData bool   `json:"isCurrentData"`
			} `json:"unions"`
			DominanceCones *struct {
				NumberOfObjects int `json:"numberOfObjects"`
			} `json:"dominanceCones"`
		}{}
		if err := json.Unmarshal(resp.Body.Bytes(), &detail); err != nil {
			t.Fatal(err)
		}
		if detail.Unions == nil || detail.Unions.TypeOfUnions != "standard" || !detail.Unions.IsCurrentData {
			t.Errorf("unions: %+v", detail.Unions)
		}
		if detail.DominanceCones == nil || detail.DominanceCones.NumberOfObjects != 2 {
			t.Errorf("cones: %+v", detail.DominanceCones)
		}
	})

	t.Run("errors are responded as messages", func(t *testing.T) {
		resp := serve(e, httptest.NewRequest(http.MethodGet, "/api/projects/"+uuid.NewString(), nil))
		if resp.Code != http.StatusNotFound {
			t.Fatalf("status code: %d", resp.Code)
		}
		body := struct {
			Message struct {
				Reason string `json:"reason"`
				Advice string `json:"advice"`
			} `json:"message"`
		}{}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(body.Message.Reason, "doesn't exist") || body.Message.Advice == "" {
			t.Errorf("message: %+v", body.Message)
		}
	})

	t.Run("requests are counted", func(t *testing.T) {
		resp := serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("status code: %d", resp.Code)
		}
		if !strings.Contains(resp.Body.String(), `rulestudio_http_requests_total{code="404",method="GET",path="/api/projects/:id/"} 1`) {
			t.Errorf("metrics:\n%s", resp.Body.String())
		}
	})
}
