package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apidominance "github.com/rulestudio/rulestudio/pkg/api/types/dominance"
	apierr "github.com/rulestudio/rulestudio/pkg/api/types/errors"
	"github.com/rulestudio/rulestudio/pkg/studio"
)

func GetUnionsHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		u, current, err := s.Unions(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apidominance.ComposeUnions(u, current))
	}
}

// PutUnionsHandler calculates unions with single limiting decision on data
// of a project.
func PutUnionsHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		params, err := unionParameters(c)
		if err != nil {
			return err
		}
		u, current, err := s.PutUnions(c.Request().Context(), id, params)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apidominance.ComposeUnions(u, current))
	}
}

func GetConesHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		cones, current, err := s.Cones(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apidominance.ComposeCones(cones, current))
	}
}

func PutConesHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		cones, current, err := s.PutCones(c.Request().Context(), id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apidominance.ComposeCones(cones, current))
	}
}
