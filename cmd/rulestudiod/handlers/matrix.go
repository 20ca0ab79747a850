package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/rulestudio/rulestudio/pkg/api/types/errors"
	apimatrix "github.com/rulestudio/rulestudio/pkg/api/types/matrix"
	"github.com/rulestudio/rulestudio/pkg/studio"
)

func matrixParameters(c echo.Context) (studio.MatrixType, *int, error) {
	raw, err := required(c, "typeOfMatrix")
	if err != nil {
		return "", nil, err
	}
	typ, err := studio.ParseMatrixType(raw)
	if err != nil {
		return "", nil, apierr.FromDomain(err)
	}
	fold, err := optionalInt(c, "numberOfFold")
	if err != nil {
		return "", nil, err
	}
	return typ, fold, nil
}

func GetMatrixHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		typ, fold, err := matrixParameters(c)
		if err != nil {
			return err
		}
		m, _, err := s.Matrix(id, typ, fold)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apimatrix.Compose(m))
	}
}

// GetMatrixDownloadHandler sends a misclassification matrix as a text file.
func GetMatrixDownloadHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		typ, fold, err := matrixParameters(c)
		if err != nil {
			return err
		}
		filename, content, err := s.MatrixText(id, typ, fold)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return attachment(c, filename, echo.MIMEOctetStream, content)
	}
}
