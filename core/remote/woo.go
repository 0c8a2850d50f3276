package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
	"resty.dev/v3"
)

const wooAPIPath = "/wp-json/wc/v3"

// StatusError is returned when the remote service answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed: %d %s", e.Method, e.Path, e.StatusCode, truncate(e.Body, 200))
}

// WooClient talks to the WooCommerce REST API.
type WooClient struct {
	http     *resty.Client
	limiter  ratelimit.Limiter
	pageSize int
	logger   *zap.Logger
}

var (
	_ Client    = (*WooClient)(nil)
	_ Relocator = (*WooClient)(nil)
)

// NewWooClient creates a WooCommerce client from the configuration.
// It returns ErrMissingCredentials when the base URL or credentials are absent.
func NewWooClient(cfg Config, logger *zap.Logger) (*WooClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base url not set", ErrMissingCredentials)
	}
	user, pass, ok := cfg.Credentials()
	if !ok {
		return nil, fmt.Errorf("%w: set consumer key/secret or username/app password", ErrMissingCredentials)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	// POST (create) is never retried: a lost response must not create a twin.
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")+wooAPIPath).
		SetBasicAuth(user, pass).
		SetTimeout(time.Duration(timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(time.Duration(cfg.RetryWaitMs)*time.Millisecond).
		SetRetryMaxWaitTime(time.Duration(cfg.RetryMaxWaitMs)*time.Millisecond).
		SetRetryDefaultConditions(true).
		SetAllowNonIdempotentRetry(false).
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar())

	limiter := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		limiter = ratelimit.New(cfg.RequestsPerSecond)
	}

	return &WooClient{
		http:     httpClient,
		limiter:  limiter,
		pageSize: pageSize,
		logger:   logger,
	}, nil
}

// Close releases the underlying HTTP resources.
func (c *WooClient) Close() error {
	return c.http.Close()
}

// FetchAll returns every product category, following pagination.
func (c *WooClient) FetchAll(ctx context.Context) ([]Category, error) {
	return fetchPages[Category](ctx, c, "/products/categories", nil)
}

// Create creates a category. When the service reports that an identical term
// already exists under the parent, the existing id is returned.
func (c *WooClient) Create(ctx context.Context, name string, parentID int64) (int64, error) {
	payload := map[string]any{"name": name, "slug": Slugify(name)}
	if parentID > 0 {
		payload["parent"] = parentID
	}

	resp, err := c.do(ctx, http.MethodPost, "/products/categories", payload, nil)
	if err != nil {
		if existing, ok := existingTermID(err); ok {
			c.logger.Info("Category already exists", zap.String("name", name), zap.Int64("id", existing))
			return existing, nil
		}
		return 0, err
	}

	var created Category
	if err := json.Unmarshal(resp.Bytes(), &created); err != nil {
		return 0, fmt.Errorf("failed to decode created category: %w", err)
	}
	if created.ID == 0 {
		return 0, fmt.Errorf("create category %q: response carried no id", name)
	}
	return created.ID, nil
}

// SetParent moves a category under parentID.
func (c *WooClient) SetParent(ctx context.Context, id, parentID int64) error {
	_, err := c.do(ctx, http.MethodPut, categoryPath(id), map[string]any{"parent": parentID}, nil)
	return err
}

// Rename changes the name of a category.
func (c *WooClient) Rename(ctx context.Context, id int64, name string) error {
	_, err := c.do(ctx, http.MethodPut, categoryPath(id), map[string]any{"name": name}, nil)
	return err
}

// Relocate renames and reparents a category in one request.
func (c *WooClient) Relocate(ctx context.Context, id int64, name string, parentID int64) error {
	_, err := c.do(ctx, http.MethodPut, categoryPath(id), map[string]any{"name": name, "parent": parentID}, nil)
	return err
}

// Delete removes a category permanently.
func (c *WooClient) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, categoryPath(id), nil, map[string]string{"force": "true"})
	return err
}

type wooProduct struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Categories []struct {
		ID int64 `json:"id"`
	} `json:"categories"`
}

// ListProductsByCategory returns every product assigned to the category.
func (c *WooClient) ListProductsByCategory(ctx context.Context, id int64) ([]ProductRef, error) {
	products, err := fetchPages[wooProduct](ctx, c, "/products", map[string]string{
		"category": strconv.FormatInt(id, 10),
	})
	if err != nil {
		return nil, err
	}

	refs := make([]ProductRef, 0, len(products))
	for _, p := range products {
		if p.ID == 0 {
			continue
		}
		ref := ProductRef{ID: p.ID, Name: p.Name, CategoryIDs: make([]int64, 0, len(p.Categories))}
		for _, cat := range p.Categories {
			if cat.ID != 0 {
				ref.CategoryIDs = append(ref.CategoryIDs, cat.ID)
			}
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// SetProductCategories replaces the categories of a product.
func (c *WooClient) SetProductCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	cats := make([]map[string]int64, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		cats = append(cats, map[string]int64{"id": id})
	}
	path := "/products/" + strconv.FormatInt(productID, 10)
	_, err := c.do(ctx, http.MethodPut, path, map[string]any{"categories": cats}, nil)
	return err
}

func categoryPath(id int64) string {
	return "/products/categories/" + strconv.FormatInt(id, 10)
}

// do executes a single request through the shared retry policy and rate limiter.
func (c *WooClient) do(ctx context.Context, method, path string, body any, query map[string]string) (*resty.Response, error) {
	c.limiter.Take()

	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	var (
		resp *resty.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = req.Get(path)
	case http.MethodPost:
		resp, err = req.Post(path)
	case http.MethodPut:
		resp, err = req.Put(path)
	case http.MethodDelete:
		resp, err = req.Delete(path)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}
	return resp, nil
}

// fetchPages walks a paged listing until a short or empty page.
func fetchPages[T any](ctx context.Context, c *WooClient, path string, params map[string]string) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		query := map[string]string{
			"per_page": strconv.Itoa(c.pageSize),
			"page":     strconv.Itoa(page),
		}
		for k, v := range params {
			query[k] = v
		}

		resp, err := c.do(ctx, http.MethodGet, path, nil, query)
		if err != nil {
			if isInvalidPage(err) {
				break
			}
			return nil, fmt.Errorf("failed to fetch %s page %d: %w", path, page, err)
		}

		var batch []T
		if err := json.Unmarshal(resp.Bytes(), &batch); err != nil {
			return nil, fmt.Errorf("failed to decode %s page %d: %w", path, page, err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < c.pageSize {
			break
		}
	}
	return all, nil
}

func isInvalidPage(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.StatusCode == http.StatusBadRequest && strings.Contains(se.Body, "rest_post_invalid_page_number")
}

// existingTermID extracts the id of the conflicting term from a term_exists error.
func existingTermID(err error) (int64, bool) {
	se, ok := err.(*StatusError)
	if !ok || se.StatusCode != http.StatusBadRequest || !strings.Contains(se.Body, "term_exists") {
		return 0, false
	}
	var body struct {
		Data struct {
			ResourceID int64 `json:"resource_id"`
		} `json:"data"`
	}
	if json.Unmarshal([]byte(se.Body), &body) != nil || body.Data.ResourceID == 0 {
		return 0, false
	}
	return body.Data.ResourceID, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
