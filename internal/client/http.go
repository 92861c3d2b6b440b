package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx backend response. The backend convention is a JSON
// body whose "detail" field carries the user-visible message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// HTTPClient makes REST calls to the Braid backend.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:8000").
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ValidateSitemaps checks sitemap discovery for each URL via
// POST /validate-sitemaps.
func (c *HTTPClient) ValidateSitemaps(urls []string) ([]SitemapResult, error) {
	fields := make([][2]string, 0, len(urls))
	for _, u := range urls {
		fields = append(fields, [2]string{"urls", u})
	}
	var out struct {
		Results []SitemapResult `json:"results"`
	}
	if err := c.postForm("/validate-sitemaps", fields, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// GeneratePrompts asks the backend for categorized analysis prompts via
// POST /generate-prompts. Competitors are sent comma-joined, matching the
// backend's form contract.
func (c *HTTPClient) GeneratePrompts(url string, competitors []string) (PromptSet, error) {
	var out struct {
		Prompts PromptSet `json:"prompts"`
	}
	fields := [][2]string{{"url", url}, {"competitors", strings.Join(competitors, ",")}}
	if err := c.postForm("/generate-prompts", fields, &out); err != nil {
		return nil, err
	}
	return out.Prompts, nil
}

// PreviewDataset fetches the head of a dataset via GET /preview/{name}.
func (c *HTTPClient) PreviewDataset(name string) (*DataPreview, error) {
	var p DataPreview
	if err := c.get("/preview/"+name, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Analyze submits a dataset and prompt via POST /analyze.
func (c *HTTPClient) Analyze(dataset, prompt string) (*AnalysisReport, error) {
	var r AnalysisReport
	fields := [][2]string{{"dataset_filename", dataset}, {"prompt", prompt}}
	if err := c.postForm("/analyze", fields, &r); err != nil {
		return nil, err
	}
	if r.Error != "" {
		return nil, &APIError{Status: http.StatusOK, Detail: r.Error}
	}
	return &r, nil
}

// FollowUp continues an analysis conversation via POST /follow-up. The chat
// history travels as a JSON array in a single form field.
func (c *HTTPClient) FollowUp(dataset, originalPrompt string, history []ChatTurn, question string) (*FollowUpReport, error) {
	hist, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	var r FollowUpReport
	fields := [][2]string{
		{"dataset_filename", dataset},
		{"original_prompt", originalPrompt},
		{"follow_up_history", string(hist)},
		{"follow_up_prompt", question},
	}
	if err := c.postForm("/follow-up", fields, &r); err != nil {
		return nil, err
	}
	if r.Error != "" {
		return nil, &APIError{Status: http.StatusOK, Detail: r.Error}
	}
	return &r, nil
}

// GenerateCreative requests ad images via POST /generate-creative.
func (c *HTTPClient) GenerateCreative(req CreativeRequest) (*CreativeAssets, error) {
	fields := [][2]string{
		{"platform", req.Platform},
		{"customSubject", req.CustomSubject},
		{"sceneDescription", req.SceneDescription},
		{"imageType", req.ImageType},
		{"style", req.Style},
		{"camera", req.Camera},
		{"lighting", req.Lighting},
		{"composition", req.Composition},
		{"modifiers", req.Modifiers},
		{"negativePrompt", req.NegativePrompt},
	}
	if req.SubjectImage != "" {
		fields = append(fields, [2]string{"subjectImage", req.SubjectImage})
	}
	if req.SceneImage != "" {
		fields = append(fields, [2]string{"sceneImage", req.SceneImage})
	}
	var out CreativeAssets
	if err := c.postForm("/generate-creative", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeBrand runs the brand strategist via POST /analyze-brand.
func (c *HTTPClient) AnalyzeBrand(req BrandRequest) (*BrandAnalysis, error) {
	fields := [][2]string{
		{"brandName", req.BrandName},
		{"websiteUrl", req.WebsiteURL},
		{"adLibraryUrl", req.AdLibraryURL},
		{"userBrief", req.UserBrief},
	}
	var out BrandAnalysis
	if err := c.postForm("/analyze-brand", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateAssetsFromBrief turns a selected strategy into images via
// POST /generate-assets-from-brief.
func (c *HTTPClient) GenerateAssetsFromBrief(req BriefRequest) (*CreativeAssets, error) {
	var out CreativeAssets
	if err := c.postJSON("/generate-assets-from-brief", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateSocialCopy writes social posts for a strategy via
// POST /generate-social-copy.
func (c *HTTPClient) GenerateSocialCopy(req BriefRequest) (*SocialCopy, error) {
	var out SocialCopy
	if err := c.postJSON("/generate-social-copy", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrainMMM enqueues a media-mix-model training job via POST /mmm/train.
func (c *HTTPClient) TrainMMM(dataset string) (*MMMJob, error) {
	var j MMMJob
	fields := [][2]string{{"dataset_filename", dataset}}
	if err := c.postForm("/mmm/train", fields, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// GetJobStatus polls a queued job via GET /jobs/{id}.
func (c *HTTPClient) GetJobStatus(jobID string) (*JobStatus, error) {
	var s JobStatus
	if err := c.get("/jobs/"+jobID, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveImage uploads raw image bytes to the creative library via
// POST /library/images/save.
func (c *HTTPClient) SaveImage(filename string, data []byte) (*SavedImage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	var out SavedImage
	if err := c.do(http.MethodPost, "/library/images/save", w.FormDataContentType(), &buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// postForm sends fields as multipart/form-data. Fields are ordered pairs so
// repeated names (e.g. "urls") survive.
func (c *HTTPClient) postForm(path string, fields [][2]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(http.MethodPost, path, w.FormDataContentType(), &buf, out)
}

func (c *HTTPClient) postJSON(path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(http.MethodPost, path, "application/json", bytes.NewReader(data), out)
}

func (c *HTTPClient) get(path string, out any) error {
	return c.do(http.MethodGet, path, "", nil, out)
}

func (c *HTTPClient) do(method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// decodeAPIError extracts the backend's "detail" message from a non-2xx body.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
