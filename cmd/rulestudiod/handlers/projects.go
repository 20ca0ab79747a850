package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/rulestudio/rulestudio/pkg/api/types/errors"
	apiprojects "github.com/rulestudio/rulestudio/pkg/api/types/projects"
	"github.com/rulestudio/rulestudio/pkg/studio"
)

func GetProjectsHandler(s *studio.Studio) echo.HandlerFunc {
	return func(c echo.Context) error {
		snaps := s.List()
		resp := make([]apiprojects.Summary, 0, len(snaps))
		for _, snap := range snaps {
			resp = append(resp, apiprojects.ComposeSummary(snap))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// PostProjectHandler creates a project from a multipart form.
//
// "name" is required. Files "metadata", "data" and "rules" are optional.
// CSV data is read with "separator" and "header".
func PostProjectHandler(s *studio.Studio) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		name, err := required(c, "name")
		if err != nil {
			return err
		}

		req := studio.CreateRequest{Name: name}
		if req.Metadata, err = formFile(c, "metadata"); err != nil {
			return err
		}
		if req.Data, err = formFile(c, "data"); err != nil {
			return err
		}
		if req.Rules, err = formFile(c, "rules"); err != nil {
			return err
		}
		if req.Format, err = dataFormat(c, "data"); err != nil {
			return err
		}

		snap, err := s.Create(ctx, req)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apiprojects.ComposeDetail(snap))
	}
}

func GetProjectHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		snap, err := s.Get(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apiprojects.ComposeDetail(snap))
	}
}

// PatchProjectHandler renames a project to "name".
func PatchProjectHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		name, err := required(c, "name")
		if err != nil {
			return err
		}
		snap, err := s.Rename(c.Request().Context(), id, name)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apiprojects.ComposeDetail(snap))
	}
}

func DeleteProjectHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		if err := s.Delete(c.Request().Context(), id); err != nil {
			return apierr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
