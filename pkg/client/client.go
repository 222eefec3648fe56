package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// Client exposes typed operations over an authenticated Session.
type Client struct {
	session *Session
}

// New logs in and returns a ready client.
func New(ctx context.Context, config *Config) (*Client, error) {
	session, err := NewSession(ctx, config)
	if err != nil {
		return nil, err
	}
	return &Client{session: session}, nil
}

// Course mirrors the server-side course payload.
type Course struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	ImageKey    string  `json:"image_key"`
	Published   bool    `json:"published"`
}

// Lead mirrors a captured contact-form submission.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// Asset mirrors one stored upload.
type Asset struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// OrphanReport lists assets no content references.
type OrphanReport struct {
	Orphans     []Asset   `json:"orphans"`
	TotalAssets int       `json:"totalAssets"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GetContentMap returns every content root for a locale as raw values.
func (c *Client) GetContentMap(ctx context.Context, lang string) (map[string]string, error) {
	var out map[string]string
	path := "/api/v1/content"
	if lang != "" {
		path += "?lang=" + url.QueryEscape(lang)
	}
	if err := c.session.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateContentRoot replaces one root value. The value is marshaled and
// stored as the root's new content.
func (c *Client) UpdateContentRoot(ctx context.Context, key, lang string, value any) error {
	path := "/api/v1/content/" + url.PathEscape(key) + langQuery(lang)
	return c.session.do(ctx, http.MethodPut, path, map[string]any{"value": value}, nil)
}

// UpdateContentField writes one dotted sub-field of a root.
func (c *Client) UpdateContentField(ctx context.Context, key, field, lang string, value any) error {
	path := "/api/v1/content/" + url.PathEscape(key) + "/field" + langQuery(lang)
	return c.session.do(ctx, http.MethodPut, path, map[string]any{"field": field, "value": value}, nil)
}

// QuickToggle flips one boolean field and returns the new value.
func (c *Client) QuickToggle(ctx context.Context, key, field, lang string) (bool, error) {
	var out struct {
		Value bool `json:"value"`
	}
	path := "/api/v1/content/" + url.PathEscape(key) + "/toggle" + langQuery(lang)
	err := c.session.do(ctx, http.MethodPost, path, map[string]string{"field": field}, &out)
	return out.Value, err
}

// Upload sends a file to the asset gateway and returns its URL and
// storage key.
func (c *Client) Upload(ctx context.Context, folder, filename string, data io.Reader) (*Asset, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	path := "/api/v1/uploads"
	if folder != "" {
		path += "?folder=" + url.QueryEscape(folder)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.session.url(path), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.session.token())

	resp, err := c.session.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, responseError(req, resp)
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// DeleteAsset removes an uploaded asset by storage key.
func (c *Client) DeleteAsset(ctx context.Context, key string) error {
	return c.session.do(ctx, http.MethodDelete, "/api/v1/uploads", map[string]string{"key": key}, nil)
}

// ListCourses returns the catalog; includeUnpublished requires admin auth.
func (c *Client) ListCourses(ctx context.Context, includeUnpublished bool) ([]Course, error) {
	path := "/api/v1/courses"
	if includeUnpublished {
		path += "?all=true"
	}
	var out []Course
	if err := c.session.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCourse creates a course and fills in its generated ID.
func (c *Client) CreateCourse(ctx context.Context, course *Course) error {
	return c.session.do(ctx, http.MethodPost, "/api/v1/courses", course, course)
}

// UpdateCourse replaces a course by ID.
func (c *Client) UpdateCourse(ctx context.Context, course *Course) error {
	path := "/api/v1/courses/" + url.PathEscape(course.ID)
	return c.session.do(ctx, http.MethodPut, path, course, course)
}

// DeleteCourse removes a course and releases its image asset.
func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.session.do(ctx, http.MethodDelete, "/api/v1/courses/"+url.PathEscape(id), nil, nil)
}

// ListLeads returns captured contact-form submissions.
func (c *Client) ListLeads(ctx context.Context) ([]Lead, error) {
	var out []Lead
	if err := c.session.do(ctx, http.MethodGet, "/api/v1/leads", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrphanReport returns assets no content root or course references.
func (c *Client) OrphanReport(ctx context.Context) (*OrphanReport, error) {
	var out OrphanReport
	if err := c.session.do(ctx, http.MethodGet, "/api/v1/admin/orphans", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func langQuery(lang string) string {
	if lang == "" {
		return ""
	}
	return "?lang=" + url.QueryEscape(lang)
}
