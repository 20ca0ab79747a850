package main

import (
	"net/http"
	"net/url"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rulestudio/rulestudio/pkg/studio"
	"github.com/rulestudio/rulestudio/pkg/utils/echoutil"
	kstrings "github.com/rulestudio/rulestudio/pkg/utils/strings"

	"github.com/rulestudio/rulestudio/cmd/rulestudiod/handlers"
)

// newServer builds the echo server routing API requests to s.
func newServer(s *studio.Studio, loglevel string, allowOrigins []string, reg *prometheus.Registry) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.AddTrailingSlash())

	echoutil.SetLevel(e, loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(middleware.Recover())
	e.Use(echoutil.LogHandlerFunc)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  allowOrigins,
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))

	metrics, err := echoutil.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	e.Use(metrics.Middleware)

	e.GET("/metrics/", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	e.GET("/healthz/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api, err := root("/api")
	if err != nil {
		return nil, err
	}

	{
		e.GET(api("projects"), handlers.GetProjectsHandler(s))
		e.POST(api("projects"), handlers.PostProjectHandler(s))

		e.GET(api("projects/:id"), handlers.GetProjectHandler(s, "id"))
		e.PATCH(api("projects/:id"), handlers.PatchProjectHandler(s, "id"))
		e.DELETE(api("projects/:id"), handlers.DeleteProjectHandler(s, "id"))
	}

	{
		e.GET(api("projects/:id/metadata"), handlers.GetMetadataHandler(s, "id"))
		e.PUT(api("projects/:id/metadata"), handlers.PutMetadataHandler(s, "id"))
		e.GET(api("projects/:id/metadata/download"), handlers.GetMetadataDownloadHandler(s, "id"))
		e.PUT(api("projects/:id/metadata/download"), handlers.PutMetadataDownloadHandler(s, "id"))

		e.GET(api("projects/:id/data"), handlers.GetDataHandler(s, "id"))
		e.PUT(api("projects/:id/data"), handlers.PutDataHandler(s, "id"))
	}

	{
		e.GET(api("projects/:id/unions"), handlers.GetUnionsHandler(s, "id"))
		e.PUT(api("projects/:id/unions"), handlers.PutUnionsHandler(s, "id"))

		e.GET(api("projects/:id/cones"), handlers.GetConesHandler(s, "id"))
		e.PUT(api("projects/:id/cones"), handlers.PutConesHandler(s, "id"))
	}

	{
		e.GET(api("projects/:id/rules"), handlers.GetRulesHandler(s, "id"))
		e.PUT(api("projects/:id/rules"), handlers.PutRulesHandler(s, "id"))

		e.GET(api("projects/:id/classification"), handlers.GetClassificationHandler(s, "id"))
		e.PUT(api("projects/:id/classification"), handlers.PutClassificationHandler(s, "id"))
		e.POST(api("projects/:id/classification"), handlers.PostClassificationHandler(s, "id"))
	}

	{
		cv := "projects/:id/crossValidation"
		e.GET(api(cv), handlers.GetCrossValidationHandler(s, "id"))
		e.PUT(api(cv), handlers.PutCrossValidationHandler(s, "id"))
		e.POST(api(cv), handlers.PostCrossValidationHandler(s, "id"))

		e.GET(api(cv, "descriptiveAttributes"), handlers.GetDescriptiveAttributesHandler(s, "id"))
		e.POST(api(cv, "descriptiveAttributes"), handlers.PostDescriptiveAttributesHandler(s, "id"))
		e.GET(api(cv, "objectNames"), handlers.GetObjectNamesHandler(s, "id"))

		e.GET(api(cv, ":foldIndex"), handlers.GetFoldHandler(s, "id", "foldIndex"))
		e.GET(api(cv, ":foldIndex/object"), handlers.GetFoldObjectHandler(s, "id", "foldIndex"))
	}

	{
		e.GET(api("projects/:id/misclassificationMatrix"), handlers.GetMatrixHandler(s, "id"))
		e.GET(api("projects/:id/misclassificationMatrix/download"), handlers.GetMatrixDownloadHandler(s, "id"))
	}

	return e, nil
}

// create api URL factory
//
// args:
//   - root: api root
//
// return:
// - func: it receive relative path from root, and returns full-path of URL.
func root(r string) (func(...string) string, error) {
	b, err := url.Parse(r)
	if err != nil {
		return nil, err
	}
	base := b.Path

	return func(s ...string) string {
		parts := make([]string, len(s)+1)
		parts[0] = base
		copy(parts[1:], s)
		p := path.Join(parts...)
		p = "/" + kstrings.TrimPrefixAll(p, "/")

		return kstrings.SupplySuffix(p, "/")
	}, nil
}
