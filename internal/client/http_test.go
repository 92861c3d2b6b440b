package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newHTTPClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second)
}

func TestDetailErrorSurfaced(t *testing.T) {
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Failed to generate creative."})
	})

	_, err := c.GenerateCreative(CreativeRequest{Platform: "instagram"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Error() != "Failed to generate creative." {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestErrorWithoutDetailBody(t *testing.T) {
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	})

	_, err := c.PreviewDataset("spend.csv")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d", apiErr.Status)
	}
}

func TestValidateSitemapsRepeatsField(t *testing.T) {
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/validate-sitemaps" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		urls := r.MultipartForm.Value["urls"]
		if len(urls) != 2 || urls[0] != "https://a.com" || urls[1] != "https://b.com" {
			t.Errorf("urls = %v", urls)
		}
		sm := "https://a.com/sitemap.xml"
		json.NewEncoder(w).Encode(map[string]any{
			"results": []SitemapResult{
				{URL: "https://a.com", Status: "found", SitemapURL: &sm},
				{URL: "https://b.com", Status: "not_found"},
			},
		})
	})

	results, err := c.ValidateSitemaps([]string{"https://a.com", "https://b.com"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].SitemapURL == nil || *results[0].SitemapURL != "https://a.com/sitemap.xml" {
		t.Errorf("first sitemap = %v", results[0].SitemapURL)
	}
	if results[1].Status != "not_found" || results[1].SitemapURL != nil {
		t.Errorf("second result = %#v", results[1])
	}
}

func TestGeneratePromptsJoinsCompetitors(t *testing.T) {
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		if got := r.FormValue("competitors"); got != "https://b.com,https://c.com" {
			t.Errorf("competitors = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"prompts": PromptSet{"keywords": {"k1", "k2"}},
		})
	})

	prompts, err := c.GeneratePrompts("https://a.com", []string{"https://b.com", "https://c.com"})
	if err != nil {
		t.Fatal(err)
	}
	if len(prompts["keywords"]) != 2 {
		t.Errorf("prompts = %#v", prompts)
	}
}

func TestPreviewDataset(t *testing.T) {
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/preview/spend.csv" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"columns": []string{"week", "tv_spend", "revenue"},
			"index":   []int{0, 1},
			"data":    [][]any{{"2024-01-01", 1200.5, 40000}, {"2024-01-08", 900.0, 35000}},
		})
	})

	p, err := c.PreviewDataset("spend.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Columns) != 3 || p.Columns[1] != "tv_spend" {
		t.Errorf("columns = %v", p.Columns)
	}
	if len(p.Data) != 2 {
		t.Errorf("rows = %d", len(p.Data))
	}
}

func TestAnalyzeEmbeddedError(t *testing.T) {
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "model returned no JSON"})
	})

	_, err := c.Analyze("spend.csv", "summarize")
	if err == nil {
		t.Fatal("expected embedded error to surface")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "model returned no JSON" {
		t.Errorf("err = %v", err)
	}
}

func TestFollowUpSendsHistoryJSON(t *testing.T) {
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		var history []ChatTurn
		if err := json.Unmarshal([]byte(r.FormValue("follow_up_history")), &history); err != nil {
			t.Fatalf("history is not JSON: %v", err)
		}
		if len(history) != 2 || history[0].Sender != "user" || history[1].Sender != "agent" {
			t.Errorf("history = %#v", history)
		}
		json.NewEncoder(w).Encode(FollowUpReport{Summary: "deeper cut"})
	})

	history := []ChatTurn{
		{Sender: "user", Text: "what drives revenue?"},
		{Sender: "agent", Summary: "tv spend correlates strongest"},
	}
	r, err := c.FollowUp("spend.csv", "summarize", history, "break it down by channel")
	if err != nil {
		t.Fatal(err)
	}
	if r.Summary != "deeper cut" {
		t.Errorf("summary = %q", r.Summary)
	}
}

func TestGenerateAssetsFromBriefPostsJSON(t *testing.T) {
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		var req BriefRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.SelectedStrategy.Title != "Bold Minimalism" {
			t.Errorf("strategy = %#v", req.SelectedStrategy)
		}
		json.NewEncoder(w).Encode(CreativeAssets{ImageURLs: []string{"data:image/png;base64,xxxx"}})
	})

	assets, err := c.GenerateAssetsFromBrief(BriefRequest{
		BrandName:        "PuckPro",
		WebsiteURL:       "https://puckpro.example",
		UserBrief:        "launch the new stick",
		SelectedStrategy: StrategyApproach{Title: "Bold Minimalism"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(assets.ImageURLs) != 1 {
		t.Errorf("assets = %#v", assets)
	}
}

func TestSaveImageUploadsFile(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0} // jpeg magic
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if header.Filename != "ad.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		buf := make([]byte, len(payload))
		f.Read(buf)
		if string(buf) != string(payload) {
			t.Error("uploaded bytes differ")
		}
		json.NewEncoder(w).Encode(SavedImage{Orig: "o", Medium: "m", Thumb: "t"})
	})

	saved, err := c.SaveImage("ad.jpg", payload)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Thumb != "t" {
		t.Errorf("saved = %#v", saved)
	}
}

func TestTrainMMMAndPoll(t *testing.T) {
	c := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/mmm/train":
			json.NewEncoder(w).Encode(MMMJob{JobID: "job-1", Status: "queued"})
		case "/jobs/job-1":
			json.NewEncoder(w).Encode(JobStatus{Status: "finished", Result: json.RawMessage(`{"r2":0.91}`)})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	job, err := c.TrainMMM("spend.csv")
	if err != nil {
		t.Fatal(err)
	}
	status, err := c.GetJobStatus(job.JobID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != "finished" {
		t.Errorf("status = %q", status.Status)
	}
}

func TestBrandApproachesDecode(t *testing.T) {
	b := &BrandAnalysis{LLMResponse: `{"approaches":[{"title":"T","coreIdea":"C","description":"D"}]}`}
	approaches, err := b.Approaches()
	if err != nil {
		t.Fatal(err)
	}
	if len(approaches) != 1 || approaches[0].CoreIdea != "C" {
		t.Errorf("approaches = %#v", approaches)
	}

	b = &BrandAnalysis{LLMResponse: "the model rambled instead of returning JSON"}
	if _, err := b.Approaches(); err == nil {
		t.Error("expected decode error for non-JSON llm_response")
	}
}
