package maganghub

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"

	vacanciesPath = "/list/vacancies-aktif"

	defaultOrderBy        = "jumlah_kuota"
	defaultOrderDirection = "DESC"
)

// FetchParams controls a single page request against the active-vacancies
// listing endpoint.
type FetchParams struct {
	Page           int
	Limit          int
	KodeProvinsi   int
	OrderBy        string
	OrderDirection string
}

// Page is one raw listing page. Body preserves the whole payload for on-disk
// storage; Items holds the entries of its data list.
type Page struct {
	Number int
	Body   map[string]any
	Items  []map[string]any
}

// FetchPage requests one listing page. Pages past the end of the dataset come
// back with an empty data list, not an error.
func (c *Client) FetchPage(params FetchParams) (*Page, error) {
	endpoint := fmt.Sprintf("%s%s", c.APIURL, vacanciesPath)

	var body map[string]any
	if err := c.getJSON(endpoint, buildParams(params), &body); err != nil {
		return nil, err
	}

	page := &Page{Number: params.Page, Body: body}
	page.Items = extractItems(body)

	c.logger.Debug("got response from MagangHub",
		zap.Int("page", params.Page),
		zap.Int("items", len(page.Items)),
	)

	return page, nil
}

// FetchAllVacancies walks the listing page by page until an empty data list
// and decodes every item. Items that fail to decode are logged and skipped so
// one malformed posting cannot abort the whole fetch.
func (c *Client) FetchAllVacancies(params FetchParams) (*Vacancies, error) {
	if params.Page <= 0 {
		params.Page = 1
	}

	vacancies := &Vacancies{}
	for {
		page, err := c.FetchPage(params)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", params.Page, err)
		}

		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			vacancy, err := DecodeVacancy(item)
			if err != nil {
				c.logger.Warn("skipping undecodable vacancy",
					zap.Int("page", params.Page),
					zap.Error(err),
				)
				continue
			}
			vacancies.Items = append(vacancies.Items, vacancy)
		}

		params.Page++
	}

	return vacancies, nil
}

func buildParams(params FetchParams) url.Values {
	q := url.Values{}

	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = defaultOrderBy
	}
	orderDirection := params.OrderDirection
	if orderDirection == "" {
		orderDirection = defaultOrderDirection
	}
	limit := params.Limit
	if limit <= 0 {
		limit = perPage
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}

	q.Set("order_by", orderBy)
	q.Set("order_direction", orderDirection)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if params.KodeProvinsi > 0 {
		q.Set("kode_provinsi", strconv.Itoa(params.KodeProvinsi))
	}

	return q
}

func extractItems(body map[string]any) []map[string]any {
	data, ok := body["data"].([]any)
	if !ok {
		return nil
	}

	items := make([]map[string]any, 0, len(data))
	for _, entry := range data {
		if item, ok := entry.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items
}

func (c *Client) getJSON(endpoint string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return err
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
