package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/rulestudio/rulestudio/pkg/api/types/errors"
	"github.com/rulestudio/rulestudio/pkg/api/types/results"
	"github.com/rulestudio/rulestudio/pkg/studio"
)

func GetRulesHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		r, current, err := s.Rules(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, results.ComposeRules(r, current))
	}
}

// PutRulesHandler induces rules from data of a project.
func PutRulesHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		params, err := inductionParameters(c)
		if err != nil {
			return err
		}
		r, current, err := s.PutRules(c.Request().Context(), id, params)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, results.ComposeRules(r, current))
	}
}

func GetClassificationHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		cl, current, err := s.Classification(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, results.ComposeClassification(cl, current))
	}
}

// PutClassificationHandler classifies data of a project with its rules.
func PutClassificationHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		params, err := classificationParameters(c)
		if err != nil {
			return err
		}
		cl, current, err := s.PutClassification(c.Request().Context(), id, params)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, results.ComposeClassification(cl, current))
	}
}

// PostClassificationHandler classifies objects in an uploaded file "data"
// with rules of a project.
func PostClassificationHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		params, err := classificationParameters(c)
		if err != nil {
			return err
		}

		content, err := formFile(c, "data")
		if err != nil {
			return err
		}
		if content == nil {
			return apierr.BadRequest("file data is required")
		}
		fh, err := c.FormFile("data")
		if err != nil {
			return apierr.InternalServerError(err)
		}
		format, err := dataFormat(c, "data")
		if err != nil {
			return err
		}

		cl, current, err := s.ClassifyExternal(
			c.Request().Context(), id, params,
			studio.ExternalData{FileName: fh.Filename, Content: content, Format: format},
		)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, results.ComposeClassification(cl, current))
	}
}
