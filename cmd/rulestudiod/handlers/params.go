package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apierr "github.com/rulestudio/rulestudio/pkg/api/types/errors"
	"github.com/rulestudio/rulestudio/pkg/crossvalidation"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
)

func projectId(c echo.Context, paramKey string) (uuid.UUID, error) {
	raw := c.Param(paramKey)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.BadRequest(
			fmt.Sprintf(`project id should be a UUID (got "%s")`, raw),
			apierr.WithError(err),
		)
	}
	return id, nil
}

// required returns a request parameter, from query or form.
func required(c echo.Context, name string) (string, error) {
	v := c.FormValue(name)
	if v == "" {
		return "", apierr.BadRequest(fmt.Sprintf("parameter %s is required", name))
	}
	return v, nil
}

func intParam(c echo.Context, name string, value string) (int, error) {
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, apierr.BadRequest(
			fmt.Sprintf(`%s should be an integer (got "%s")`, name, value),
			apierr.WithError(err),
		)
	}
	return i, nil
}

func requiredInt(c echo.Context, name string) (int, error) {
	v, err := required(c, name)
	if err != nil {
		return 0, err
	}
	return intParam(c, name, v)
}

// optionalInt returns nil when the parameter is absent.
func optionalInt(c echo.Context, name string) (*int, error) {
	v := c.FormValue(name)
	if v == "" {
		return nil, nil
	}
	i, err := intParam(c, name, v)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func optionalBool(c echo.Context, name string, defaultValue bool) (bool, error) {
	v := c.FormValue(name)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apierr.BadRequest(
			fmt.Sprintf(`%s should be true or false (got "%s")`, name, v),
			apierr.WithError(err),
		)
	}
	return b, nil
}

func unionParameters(c echo.Context) (rulelearn.UnionParameters, error) {
	typeOfUnions, err := required(c, "typeOfUnions")
	if err != nil {
		return rulelearn.UnionParameters{}, err
	}
	rawThreshold, err := required(c, "consistencyThreshold")
	if err != nil {
		return rulelearn.UnionParameters{}, err
	}
	threshold, err := strconv.ParseFloat(rawThreshold, 64)
	if err != nil {
		return rulelearn.UnionParameters{}, apierr.BadRequest(
			fmt.Sprintf(`consistencyThreshold should be a number (got "%s")`, rawThreshold),
			apierr.WithError(err),
		)
	}

	params := rulelearn.UnionParameters{
		TypeOfUnions:         rulelearn.UnionType(typeOfUnions),
		ConsistencyThreshold: threshold,
	}
	if err := params.Validate(); err != nil {
		return rulelearn.UnionParameters{}, apierr.FromDomain(err)
	}
	return params, nil
}

func inductionParameters(c echo.Context) (rulelearn.InductionParameters, error) {
	unions, err := unionParameters(c)
	if err != nil {
		return rulelearn.InductionParameters{}, err
	}
	typeOfRules, err := required(c, "typeOfRules")
	if err != nil {
		return rulelearn.InductionParameters{}, err
	}

	params := rulelearn.InductionParameters{
		TypeOfUnions:         unions.TypeOfUnions,
		ConsistencyThreshold: unions.ConsistencyThreshold,
		TypeOfRules:          rulelearn.RuleType(typeOfRules),
	}
	if err := params.Validate(); err != nil {
		return rulelearn.InductionParameters{}, apierr.FromDomain(err)
	}
	return params, nil
}

func classificationParameters(c echo.Context) (rulelearn.ClassificationParameters, error) {
	typeOfClassifier, err := required(c, "typeOfClassifier")
	if err != nil {
		return rulelearn.ClassificationParameters{}, err
	}
	defaultResult, err := required(c, "defaultClassificationResult")
	if err != nil {
		return rulelearn.ClassificationParameters{}, err
	}
	params := rulelearn.ClassificationParameters{
		TypeOfClassifier:            rulelearn.ClassifierType(typeOfClassifier),
		DefaultClassificationResult: rulelearn.DefaultClassificationResultType(defaultResult),
	}
	if err := params.Validate(); err != nil {
		return rulelearn.ClassificationParameters{}, apierr.FromDomain(err)
	}
	return params, nil
}

func crossValidationParameters(c echo.Context) (crossvalidation.Parameters, error) {
	induction, err := inductionParameters(c)
	if err != nil {
		return crossvalidation.Parameters{}, err
	}
	classification, err := classificationParameters(c)
	if err != nil {
		return crossvalidation.Parameters{}, err
	}
	folds, err := requiredInt(c, "numberOfFolds")
	if err != nil {
		return crossvalidation.Parameters{}, err
	}

	var seed int64
	if raw := c.FormValue("seed"); raw != "" {
		seed, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return crossvalidation.Parameters{}, apierr.BadRequest(
				fmt.Sprintf(`seed should be an integer (got "%s")`, raw),
				apierr.WithError(err),
			)
		}
	}

	return crossvalidation.Parameters{
		Induction:      induction,
		Classification: classification,
		NumberOfFolds:  folds,
		Seed:           seed,
	}, nil
}

// csvFormat reads "separator" (default ",") and "header" (default false).
func csvFormat(c echo.Context) (infotable.DataFormat, error) {
	sep := ','
	if raw := c.FormValue("separator"); raw != "" {
		r, size := utf8.DecodeRuneInString(raw)
		if r == utf8.RuneError || size != len(raw) {
			return infotable.DataFormat{}, apierr.BadRequest(
				fmt.Sprintf(`separator should be a character (got "%s")`, raw),
			)
		}
		sep = r
	}
	header, err := optionalBool(c, "header", false)
	if err != nil {
		return infotable.DataFormat{}, err
	}
	return infotable.CSV(sep, header), nil
}

// formFile reads an uploaded file. It is nil when the file is not sent.
func formFile(c echo.Context, name string) ([]byte, error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	} else if err != nil {
		return nil, apierr.BadRequest(
			fmt.Sprintf("cannot read file %s", name), apierr.WithError(err),
		)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apierr.InternalServerError(err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, apierr.InternalServerError(err)
	}
	return content, nil
}

// dataFormat tells the format of data file by its name. Files other than
// *.json are read as CSV.
func dataFormat(c echo.Context, name string) (infotable.DataFormat, error) {
	fh, err := c.FormFile(name)
	if err == nil && isJSON(fh.Filename, fh.Header.Get(echo.HeaderContentType)) {
		return infotable.JSON, nil
	}
	return csvFormat(c)
}

func isJSON(filename string, contentType string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json") ||
		strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
}

func attachment(c echo.Context, filename string, contentType string, content []byte) error {
	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": filename}),
	)
	return c.Blob(http.StatusOK, contentType, content)
}
