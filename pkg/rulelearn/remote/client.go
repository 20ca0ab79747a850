// Package remote is a rulelearn.Engine talking JSON over HTTP to a
// rule-learning engine service.
//
// Endpoints, relative to the engine root:
//
//	GET  health
//	POST rules                {table, parameters}                          -> RuleSet
//	POST rules/parse          {attributes, document}                       -> RuleSet
//	POST classification       {training, target, ruleSet, parameters,
//	                           orderOfDecisions}                           -> {results}
//	POST unions               {table, parameters}                          -> Unions
//	POST cones                {table}                                      -> Cones
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
)

type client struct {
	httpclient *http.Client
	root       string
}

type Option func(*client) *client

// WithHTTPClient replaces the http.Client to be used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) *client {
		c.httpclient = hc
		return c
	}
}

// WithTimeout limits time for each request. 0 means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *client) *client {
		hc := *c.httpclient
		hc.Timeout = d
		c.httpclient = &hc
		return c
	}
}

// New creates an engine client.
//
// # Args
//
// - root: URL of the engine root, like "http://127.0.0.1:8090/api/engine".
func New(root string, options ...Option) (rulelearn.Engine, error) {
	if root == "" {
		return nil, fmt.Errorf("engine root is empty")
	}
	c := &client{httpclient: &http.Client{}, root: strings.TrimSuffix(root, "/")}
	for _, opt := range options {
		c = opt(c)
	}
	return c, nil
}

func (c *client) apipath(path ...string) string {
	parts := []string{c.root}
	for _, p := range path {
		parts = append(parts, strings.Trim(p, "/"))
	}
	return strings.Join(parts, "/")
}

type inductionRequest struct {
	Table      *infotable.Table              `json:"table"`
	Parameters rulelearn.InductionParameters `json:"parameters"`
}

func (c *client) InduceRules(ctx context.Context, table *infotable.Table, params rulelearn.InductionParameters) (*rulelearn.RuleSet, error) {
	rs := new(rulelearn.RuleSet)
	if err := c.post(ctx, rs, inductionRequest{Table: table, Parameters: params}, "rules"); err != nil {
		return nil, err
	}
	return rs, nil
}

type classificationRequest struct {
	Training         *infotable.Table                   `json:"training"`
	Target           *infotable.Table                   `json:"target"`
	RuleSet          *rulelearn.RuleSet                 `json:"ruleSet"`
	Parameters       rulelearn.ClassificationParameters `json:"parameters"`
	OrderOfDecisions []string                           `json:"orderOfDecisions"`
}

type classificationResponse struct {
	Results []rulelearn.ClassificationResult `json:"results"`
}

func (c *client) Classify(
	ctx context.Context,
	training *infotable.Table, target *infotable.Table,
	rules *rulelearn.RuleSet, params rulelearn.ClassificationParameters,
	orderOfDecisions []string,
) ([]rulelearn.ClassificationResult, error) {
	resp := new(classificationResponse)
	if err := c.post(ctx, resp, classificationRequest{
		Training: training, Target: target, RuleSet: rules,
		Parameters: params, OrderOfDecisions: orderOfDecisions,
	}, "classification"); err != nil {
		return nil, err
	}
	if len(resp.Results) != target.NumberOfObjects() {
		return nil, xe.Wrap(fmt.Errorf(
			"%w: engine classified %d objects, but %d are requested",
			kerr.ErrEngineUnavailable, len(resp.Results), target.NumberOfObjects(),
		))
	}
	return resp.Results, nil
}

type unionsRequest struct {
	Table      *infotable.Table          `json:"table"`
	Parameters rulelearn.UnionParameters `json:"parameters"`
}

func (c *client) CalculateUnions(ctx context.Context, table *infotable.Table, params rulelearn.UnionParameters) (*rulelearn.Unions, error) {
	unions := new(rulelearn.Unions)
	if err := c.post(ctx, unions, unionsRequest{Table: table, Parameters: params}, "unions"); err != nil {
		return nil, err
	}
	return unions, nil
}

type conesRequest struct {
	Table *infotable.Table `json:"table"`
}

func (c *client) CalculateCones(ctx context.Context, table *infotable.Table) (*rulelearn.Cones, error) {
	cones := new(rulelearn.Cones)
	if err := c.post(ctx, cones, conesRequest{Table: table}, "cones"); err != nil {
		return nil, err
	}

	n := table.NumberOfObjects()
	for _, list := range [][][]int{
		cones.PositiveDCones, cones.NegativeDCones, cones.PositiveInvDCones, cones.NegativeInvDCones,
	} {
		if cones.NumberOfObjects != n || len(list) != n {
			return nil, xe.Wrap(fmt.Errorf(
				"%w: engine calculated cones of %d objects (%d listed), but there are %d",
				kerr.ErrEngineUnavailable, cones.NumberOfObjects, len(list), n,
			))
		}
	}
	return cones, nil
}

type parseRequest struct {
	Attributes []infotable.Attribute `json:"attributes"`
	Document   string                `json:"document"`
}

func (c *client) ParseRules(ctx context.Context, attributes []infotable.Attribute, document []byte) (*rulelearn.RuleSet, error) {
	rs := new(rulelearn.RuleSet)
	if err := c.post(ctx, rs, parseRequest{Attributes: attributes, Document: string(document)}, "rules", "parse"); err != nil {
		return nil, err
	}
	return rs, nil
}

func (c *client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("health"), nil)
	if err != nil {
		return xe.Wrap(err)
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return xe.Wrap(fmt.Errorf("%w: %w", kerr.ErrEngineUnavailable, err))
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if scr := StatusCodeRangeOf(resp); scr != Status2xx {
		return xe.Wrap(fmt.Errorf("%w: health check: %s (status code = %d)", kerr.ErrEngineUnavailable, scr, resp.StatusCode))
	}
	return nil
}

func (c *client) post(ctx context.Context, v any, payload any, path ...string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return xe.Wrap(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apipath(path...), bytes.NewReader(body))
	if err != nil {
		return xe.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return xe.Wrap(fmt.Errorf("%w: %w", kerr.ErrEngineUnavailable, err))
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse(resp, v)
}

// unmarshal a json response.
//
// 4xx responses are ErrWrongParameter carrying the engine message, since the
// engine rejects what users sent. Others than 2xx are ErrEngineUnavailable.
func unmarshalJsonResponse(resp *http.Response, v any) error {
	scr := StatusCodeRangeOf(resp)
	if scr == Status2xx {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return xe.Wrap(fmt.Errorf(
				"%w: unexpected response: %w (status code = %d)", kerr.ErrEngineUnavailable, err, resp.StatusCode,
			))
		}
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return xe.Wrap(fmt.Errorf("%w: cannot read response: %w", kerr.ErrEngineUnavailable, err))
	}
	message := engineMessage(payload)

	if scr == Status4xx {
		return xe.Wrap(kerr.WrongParameter("rule-learning engine rejected the request: %s", message))
	}
	return xe.Wrap(fmt.Errorf(
		"%w: %s (status code = %d): %s", kerr.ErrEngineUnavailable, scr, resp.StatusCode, message,
	))
}

// engineMessage extracts a message from {"message": {"reason": ..., "advice": ...}},
// falling back to the payload as text.
func engineMessage(payload []byte) string {
	f := struct {
		Message *struct {
			Reason string `json:"reason"`
			Advice string `json:"advice"`
		} `json:"message"`
	}{}
	if err := json.Unmarshal(payload, &f); err == nil && f.Message != nil && f.Message.Reason != "" {
		if f.Message.Advice != "" {
			return f.Message.Reason + ": " + f.Message.Advice
		}
		return f.Message.Reason
	}
	return strings.TrimSpace(string(payload))
}
