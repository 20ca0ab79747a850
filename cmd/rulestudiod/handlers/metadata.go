package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/rulestudio/rulestudio/pkg/api/types/errors"
	apiprojects "github.com/rulestudio/rulestudio/pkg/api/types/projects"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/studio"
)

func GetMetadataHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		attrs, err := s.Metadata(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, attrs)
	}
}

// PutMetadataHandler replaces metadata of a project with the request body.
func PutMetadataHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		metadata, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return apierr.BadRequest("cannot read request body", apierr.WithError(err))
		}
		snap, err := s.PutMetadata(c.Request().Context(), id, metadata)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apiprojects.ComposeDetail(snap))
	}
}

// GetMetadataDownloadHandler sends metadata of a project as a file.
func GetMetadataDownloadHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		filename, content, err := s.DownloadMetadata(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return attachment(c, filename, echo.MIMEApplicationJSON, content)
	}
}

// PutMetadataDownloadHandler sends metadata given by the client back as a
// file of the project.
func PutMetadataDownloadHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		metadata, err := required(c, "metadata")
		if err != nil {
			return err
		}
		filename, content, err := s.RenderMetadata(id, []byte(metadata))
		if err != nil {
			return apierr.FromDomain(err)
		}
		return attachment(c, filename, echo.MIMEApplicationJSON, content)
	}
}

// GetDataHandler responds the information table of a project.
//
// With "format=csv", objects are sent as a CSV file instead, written with
// "separator" and "header".
func GetDataHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}

		switch f := c.QueryParam("format"); f {
		case "", "json":
		case "csv":
			format, err := csvFormat(c)
			if err != nil {
				return err
			}
			filename, content, err := s.DownloadData(id, format.Separator, format.Header)
			if err != nil {
				return apierr.FromDomain(err)
			}
			return attachment(c, filename, "text/csv", content)
		default:
			return apierr.BadRequest(fmt.Sprintf(`format should be json or csv (got "%s")`, f))
		}

		table, err := s.Data(id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, table)
	}
}

// PutDataHandler replaces the information table of a project with
// "metadata" and "data" (JSON array of objects).
//
// When "metadata" is empty, attributes of the project are kept.
func PutDataHandler(s *studio.Studio, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := projectId(c, paramKey)
		if err != nil {
			return err
		}
		metadata := c.FormValue("metadata")
		data := c.FormValue("data")

		snap, err := s.PutData(c.Request().Context(), id, []byte(metadata), []byte(data), infotable.JSON)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, snap.Table)
	}
}
