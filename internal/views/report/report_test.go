package report

import (
	"strings"
	"testing"

	"github.com/braidai/braid-tui/internal/client"
)

func TestBuildMarkdownFullReport(t *testing.T) {
	r := client.Report{
		ReportTitle: "PuckPro vs Rivals",
		SchemaAudit: map[string]any{
			"your_site": map[string]any{
				"pages_crawled": float64(42),
				"has_product":   true,
			},
			"issues": []any{"missing FAQPage", "no Organization"},
		},
		AuthorityAudit: map[string]any{
			"backlinks": float64(12.5),
			"notes":     nil,
		},
		AuthorityAnalysis: map[string]map[string]any{
			"openai": {
				"technical": "strong",
				"brand":     "weak",
			},
		},
	}

	md := BuildMarkdown(r)

	for _, want := range []string{
		"# PuckPro vs Rivals",
		"## Schema Audit",
		"## Authority Audit",
		"## Authority Analysis",
		"### openai",
		"- **pages_crawled**: 42",
		"- **has_product**: yes",
		"- missing FAQPage",
		"- **backlinks**: 12.50",
		"- **notes**: n/a",
		"- **brand**: weak",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestBuildMarkdownDefaultTitle(t *testing.T) {
	md := BuildMarkdown(client.Report{})
	if !strings.HasPrefix(md, "# SEO Analysis Report") {
		t.Errorf("markdown = %q", md)
	}
}

func TestBuildMarkdownSortsKeys(t *testing.T) {
	r := client.Report{
		AuthorityAudit: map[string]any{
			"zeta":  "z",
			"alpha": "a",
			"mid":   "m",
		},
	}
	md := BuildMarkdown(r)
	za := strings.Index(md, "alpha")
	zm := strings.Index(md, "mid")
	zz := strings.Index(md, "zeta")
	if za < 0 || zm < 0 || zz < 0 || !(za < zm && zm < zz) {
		t.Errorf("keys not sorted: alpha=%d mid=%d zeta=%d\n%s", za, zm, zz, md)
	}
}

func TestSetReportMarksPresence(t *testing.T) {
	m := New()
	if m.HasReport() {
		t.Error("fresh model should have no report")
	}
	m.SetReport(client.Report{ReportTitle: "X"})
	if !m.HasReport() {
		t.Error("report not installed")
	}
}
