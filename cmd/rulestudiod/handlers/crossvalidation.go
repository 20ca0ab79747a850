package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apicv "github.com/rulestudio/rulestudio/pkg/api/types/crossvalidation"
	apierr "github.com/rulestudio/rulestudio/pkg/api/types/errors"
	"github.com/rulestudio/rulestudio/pkg/api/types/results"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/studio"
)

func GetCrossValidationHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		cv, current, err := s.CrossValidation(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apicv.ComposeMain(cv, current))
	}
}

// PutCrossValidationHandler cross-validates data of a project.
func PutCrossValidationHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		params, err := crossValidationParameters(c)
		if err != nil {
			return err
		}
		cv, current, err := s.PutCrossValidation(c.Request().Context(), id, params)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apicv.ComposeMain(cv, current))
	}
}

// PostCrossValidationHandler replaces data of a project with "metadata" and
// "data", and then cross-validates it.
func PostCrossValidationHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		params, err := crossValidationParameters(c)
		if err != nil {
			return err
		}
		metadata, err := required(c, "metadata")
		if err != nil {
			return err
		}
		data, err := required(c, "data")
		if err != nil {
			return err
		}

		cv, current, err := s.PostCrossValidation(
			c.Request().Context(), id, params, []byte(metadata), []byte(data), infotable.JSON,
		)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apicv.ComposeMain(cv, current))
	}
}

func GetDescriptiveAttributesHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		d, err := s.DescriptiveAttributes(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apicv.ComposeDescriptiveAttributes(d))
	}
}

// PostDescriptiveAttributesHandler chooses "objectVisibleName" as the
// attribute naming objects. Without it, the choice is cleared.
func PostDescriptiveAttributesHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		d, err := s.SetDescriptiveAttribute(id, c.FormValue("objectVisibleName"))
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apicv.ComposeDescriptiveAttributes(d))
	}
}

func GetObjectNamesHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		names, err := s.ObjectNames(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apicv.ObjectNames{Fields: names})
	}
}

func GetFoldHandler(s *studio.Studio, paramKey string, foldKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		foldIndex, err := intParam(c, foldKey, c.Param(foldKey))
		if err != nil {
			return err
		}
		f, _, err := s.Fold(id, foldIndex)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apicv.ComposeFold(foldIndex, f))
	}
}

// GetFoldObjectHandler picks a validation object "objectIndex" of a fold.
// Values of the object are included when "isAttributes" is true.
func GetFoldObjectHandler(s *studio.Studio, paramKey string, foldKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		foldIndex, err := intParam(c, foldKey, c.Param(foldKey))
		if err != nil {
			return err
		}
		objectIndex, err := requiredInt(c, "objectIndex")
		if err != nil {
			return err
		}
		withAttributes, err := optionalBool(c, "isAttributes", false)
		if err != nil {
			return err
		}

		obj, err := s.FoldObject(id, foldIndex, objectIndex, withAttributes)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, results.ComposeChosenObject(obj))
	}
}
