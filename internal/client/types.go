// Package client provides the WebSocket analysis session and REST client for
// the Braid backend. Types mirror the backend wire protocol without importing
// backend code.
package client

import "encoding/json"

// Site pairs a URL with its resolved sitemap. Sitemap stays nil until
// auto-discovery succeeds or the operator supplies one by hand; the nil must
// survive serialization so the backend can tell "unknown" from "empty".
type Site struct {
	URL     string  `json:"url"`
	Sitemap *string `json:"sitemap"`
}

// PromptSet maps an analysis category to its ordered prompt list. A nil set
// serializes to JSON null, meaning prompts were not generated yet.
type PromptSet map[string][]string

// AnalysisRequest is the single initiation message sent after the socket
// opens. No further client messages follow for the life of the session.
type AnalysisRequest struct {
	YourSite    Site      `json:"yourSite"`
	Competitors []Site    `json:"competitors"`
	Prompts     PromptSet `json:"prompts"`
}

// Report is the terminal success payload of an analysis session.
type Report struct {
	ReportTitle       string                    `json:"reportTitle"`
	SchemaAudit       map[string]any            `json:"schemaAudit,omitempty"`
	AuthorityAudit    map[string]any            `json:"authorityAudit,omitempty"`
	AuthorityAnalysis map[string]map[string]any `json:"authorityAnalysis,omitempty"`
}

// serverMessage is the superset of the three inbound shapes. Dispatch is by
// field presence: log → progress, report → success, status "error" → failure.
type serverMessage struct {
	Log     *string         `json:"log"`
	Report  json.RawMessage `json:"report"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
}

// --- REST payload types ---

// SitemapResult is one entry of the /validate-sitemaps response.
type SitemapResult struct {
	URL        string  `json:"url"`
	Status     string  `json:"status"` // "found" or "not_found"
	SitemapURL *string `json:"sitemap_url"`
}

// DataPreview is a pandas split-orient table from /preview/{dataset}.
type DataPreview struct {
	Columns []string `json:"columns"`
	Index   []any    `json:"index"`
	Data    [][]any  `json:"data"`
}

// AnalysisReport is the response of /analyze.
type AnalysisReport struct {
	ReportTitle       string `json:"reportTitle"`
	Summary           string `json:"summary"`
	VisualizationCode string `json:"visualizationCode,omitempty"`
	Error             string `json:"error,omitempty"`
}

// FollowUpReport is the response of /follow-up.
type FollowUpReport struct {
	Summary           string `json:"summary"`
	VisualizationCode string `json:"visualizationCode,omitempty"`
	Error             string `json:"error,omitempty"`
}

// ChatTurn is one exchange in the follow-up history.
type ChatTurn struct {
	Sender  string `json:"sender"` // "user" or "agent"
	Text    string `json:"text,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// CreativeRequest carries the ad-creative form fields. Subject and scene
// images are optional data URLs.
type CreativeRequest struct {
	Platform         string
	CustomSubject    string
	SceneDescription string
	ImageType        string
	Style            string
	Camera           string
	Lighting         string
	Composition      string
	Modifiers        string
	NegativePrompt   string
	SubjectImage     string
	SceneImage       string
}

// CreativeAssets is returned by /generate-creative and
// /generate-assets-from-brief.
type CreativeAssets struct {
	ImageURLs []string `json:"image_urls"`
}

// BrandRequest carries the /analyze-brand form fields.
type BrandRequest struct {
	BrandName    string
	WebsiteURL   string
	AdLibraryURL string
	UserBrief    string
}

// BrandAnalysis is the raw /analyze-brand response. LLMResponse holds a JSON
// document with the strategy approaches; Approaches decodes it.
type BrandAnalysis struct {
	LLMResponse             string `json:"llm_response"`
	FetchedWebsiteContent   string `json:"fetched_website_content"`
	FetchedAdLibraryContent string `json:"fetched_ad_library_content"`
}

// StrategyApproach is one creative direction proposed by the strategist.
type StrategyApproach struct {
	Title       string `json:"title"`
	CoreIdea    string `json:"coreIdea"`
	Description string `json:"description"`
}

// Approaches decodes the embedded strategy list from LLMResponse.
func (b *BrandAnalysis) Approaches() ([]StrategyApproach, error) {
	var wrapper struct {
		Approaches []StrategyApproach `json:"approaches"`
	}
	if err := json.Unmarshal([]byte(b.LLMResponse), &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Approaches, nil
}

// BriefRequest is the JSON body of /generate-assets-from-brief and
// /generate-social-copy.
type BriefRequest struct {
	BrandName        string           `json:"brandName"`
	WebsiteURL       string           `json:"websiteUrl"`
	AdLibraryURL     string           `json:"adLibraryUrl,omitempty"`
	UserBrief        string           `json:"userBrief"`
	SelectedStrategy StrategyApproach `json:"selectedStrategy"`
}

// SocialCopy is returned by /generate-social-copy.
type SocialCopy struct {
	Posts []string `json:"posts"`
}

// MMMJob is returned by /mmm/train.
type MMMJob struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// JobStatus is returned by /jobs/{id}.
type JobStatus struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SavedImage holds the signed URLs returned by /library/images/save.
type SavedImage struct {
	Orig   string `json:"orig"`
	Medium string `json:"medium"`
	Thumb  string `json:"thumb"`
}
