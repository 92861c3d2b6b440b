package seo

import (
	"testing"

	"github.com/braidai/braid-tui/internal/client"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel() Model {
	m := New(client.NewHTTPClient("http://127.0.0.1:8000", 0), "ws://127.0.0.1:8000/ws/seo-analysis", 3)
	m.sites[0] = SiteRow{URL: "https://a.com"}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRunDisabledWhileBusy(t *testing.T) {
	for _, phase := range []Phase{PhaseValidating, PhaseGenerating, PhaseRunning} {
		m := newTestModel()
		m.phase = phase
		_, cmd := m.handleKey(keyMsg("r"))
		if cmd != nil {
			t.Errorf("phase %v: run must stay disabled while a session is pending", phase)
		}
	}
}

func TestRunRequiresSiteURL(t *testing.T) {
	m := newTestModel()
	m.sites[0] = SiteRow{}
	_, cmd := m.handleKey(keyMsg("r"))
	if cmd != nil {
		t.Error("run without a site URL should be a no-op")
	}
}

func TestRunAllowedAfterTerminal(t *testing.T) {
	for _, phase := range []Phase{PhaseIdle, PhaseComplete, PhaseFailed, PhaseCancelled} {
		m := newTestModel()
		m.phase = phase
		_, cmd := m.handleKey(keyMsg("r"))
		if cmd == nil {
			t.Errorf("phase %v: a new run should be allowed", phase)
		}
	}
}

func TestProgressEventAppendsTail(t *testing.T) {
	m := newTestModel()
	m.phase = PhaseRunning
	for i := 0; i < logTail+4; i++ {
		m, _ = m.handleSessionEvent(SessionEventMsg{Event: client.ProgressEvent{Log: "line"}, OK: true})
	}
	if len(m.tail) != logTail {
		t.Errorf("tail = %d lines, want %d", len(m.tail), logTail)
	}
	if m.gaugeTarget <= 0 {
		t.Error("progress should advance the gauge target")
	}
}

func TestReportEventCompletesRun(t *testing.T) {
	m := newTestModel()
	m.phase = PhaseRunning
	m, _ = m.handleSessionEvent(SessionEventMsg{
		Event: client.ReportEvent{Report: client.Report{ReportTitle: "Audit"}},
		OK:    true,
	})
	if m.phase != PhaseComplete {
		t.Errorf("phase = %v, want complete", m.phase)
	}
	if m.Report == nil || m.Report.ReportTitle != "Audit" {
		t.Errorf("report = %#v", m.Report)
	}
	if m.gaugeTarget != 1 {
		t.Errorf("gauge target = %v, want 1", m.gaugeTarget)
	}
}

func TestFailureEventFailsRun(t *testing.T) {
	m := newTestModel()
	m.phase = PhaseRunning
	m, _ = m.handleSessionEvent(SessionEventMsg{
		Event: client.FailureEvent{Kind: client.FailureRemote, Message: "crawl blocked"},
		OK:    true,
	})
	if m.phase != PhaseFailed {
		t.Errorf("phase = %v, want failed", m.phase)
	}
	if m.errLine != "crawl blocked" {
		t.Errorf("errLine = %q", m.errLine)
	}
}

func TestChannelCloseWhileRunningMeansCancelled(t *testing.T) {
	m := newTestModel()
	m.phase = PhaseRunning
	m, _ = m.handleSessionEvent(SessionEventMsg{OK: false})
	if m.phase != PhaseCancelled {
		t.Errorf("phase = %v, want cancelled", m.phase)
	}
}

func TestChannelCloseAfterTerminalKeepsPhase(t *testing.T) {
	m := newTestModel()
	m.phase = PhaseRunning
	m, _ = m.handleSessionEvent(SessionEventMsg{
		Event: client.ReportEvent{Report: client.Report{ReportTitle: "Audit"}},
		OK:    true,
	})
	m, _ = m.handleSessionEvent(SessionEventMsg{OK: false})
	if m.phase != PhaseComplete {
		t.Errorf("phase = %v, want complete after close", m.phase)
	}
}

func TestCompetitorCapEnforced(t *testing.T) {
	m := newTestModel()
	m.focus = focusCompetitors
	m.compInput.SetValue("https://b.com, https://c.com, https://d.com, https://e.com, https://f.com")
	m.commitEdit()
	if got := len(m.sites) - 1; got != 3 {
		t.Errorf("competitors = %d, want capped at 3", got)
	}
}

func TestManualSitemapOverride(t *testing.T) {
	m := newTestModel()
	m.focus = focusSitemap
	m.sitemapInput.SetValue("https://a.com/custom-sitemap.xml")
	m.commitEdit()
	row := m.sites[0]
	if row.Status != "manual" || row.Sitemap == nil || *row.Sitemap != "https://a.com/custom-sitemap.xml" {
		t.Errorf("row = %#v", row)
	}

	// Clearing the field drops the override.
	m.focus = focusSitemap
	m.sitemapInput.SetValue("")
	m.commitEdit()
	if m.sites[0].Sitemap != nil || m.sites[0].Status != "" {
		t.Errorf("row after clear = %#v", m.sites[0])
	}
}

func TestBuildRequestPreservesNilSitemap(t *testing.T) {
	m := newTestModel()
	sm := "https://b.com/sitemap.xml"
	m.sites = []SiteRow{
		{URL: "https://a.com"},
		{URL: "https://b.com", Sitemap: &sm, Status: "found"},
	}
	m.prompts = client.PromptSet{"technical": {"p1"}}

	req := m.buildRequest()
	if req.YourSite.Sitemap != nil {
		t.Error("unresolved sitemap must stay nil")
	}
	if len(req.Competitors) != 1 || req.Competitors[0].Sitemap == nil {
		t.Errorf("competitors = %#v", req.Competitors)
	}
	if len(req.Prompts["technical"]) != 1 {
		t.Errorf("prompts = %#v", req.Prompts)
	}
}

func TestSitemapResultsApplied(t *testing.T) {
	m := newTestModel()
	m.sites = []SiteRow{{URL: "https://a.com"}, {URL: "https://b.com"}}
	m.phase = PhaseValidating

	sm := "https://a.com/sitemap.xml"
	m, _ = m.Update(SitemapsValidatedMsg{Results: []client.SitemapResult{
		{URL: "https://a.com", Status: "found", SitemapURL: &sm},
		{URL: "https://b.com", Status: "not_found"},
	}})

	if m.phase != PhaseIdle {
		t.Errorf("phase = %v, want idle", m.phase)
	}
	if m.sites[0].Status != "found" || m.sites[0].Sitemap == nil {
		t.Errorf("site 0 = %#v", m.sites[0])
	}
	if m.sites[1].Status != "not_found" || m.sites[1].Sitemap != nil {
		t.Errorf("site 1 = %#v", m.sites[1])
	}
}

func TestPhaseStrings(t *testing.T) {
	tests := map[Phase]string{
		PhaseIdle:       "idle",
		PhaseValidating: "validating",
		PhaseGenerating: "generating",
		PhaseRunning:    "running",
		PhaseComplete:   "complete",
		PhaseFailed:     "failed",
		PhaseCancelled:  "cancelled",
	}
	for phase, want := range tests {
		if got := phase.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", phase, got, want)
		}
	}
}
