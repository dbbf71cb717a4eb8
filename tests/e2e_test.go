//go:build integration

package tests

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joelkehle/patent-docgen/internal/docclient"
	"github.com/joelkehle/patent-docgen/internal/docgen"
	"github.com/joelkehle/patent-docgen/internal/history"
	"github.com/joelkehle/patent-docgen/internal/httpapi"
)

// minimalTemplate returns a valid docx archive whose body carries every
// placeholder the pipeline fills.
func minimalTemplate() []byte {
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>{TITLE}</w:t></w:r></w:p>
<w:p><w:r><w:t>{TECH_FIELD}</w:t></w:r></w:p>
<w:p><w:r><w:t>{BACKGROUND}</w:t></w:r></w:p>
<w:p><w:r><w:t>{INVENTION_CONTENT}</w:t></w:r></w:p>
<w:p><w:r><w:t>{DRAWINGS_DESC}</w:t></w:r></w:p>
<w:p><w:r><w:t>{EMBODIMENT}</w:t></w:r></w:p>
<w:p><w:r><w:t>{CLAIMS}</w:t></w:r></w:p>
<w:p><w:r><w:t>{ABSTRACT}</w:t></w:r></w:p>
</w:body>
</w:document>`

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		{"word/document.xml", documentXML},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// documentXMLOf extracts word/document.xml from a rendered docx.
func documentXMLOf(t *testing.T, docxBytes []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		t.Fatalf("open rendered docx: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		return string(data)
	}
	t.Fatal("rendered docx has no word/document.xml")
	return ""
}

func TestE2EPatentGeneration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- 1. Lay out templates and start the server in-process ---
	templateDir := t.TempDir()
	outputDir := t.TempDir()
	tpl := minimalTemplate()
	for _, d := range docgen.Documents() {
		if err := os.WriteFile(filepath.Join(templateDir, d.Template), tpl, 0o644); err != nil {
			t.Fatalf("write template %s: %v", d.Template, err)
		}
	}

	pipeline := &docgen.Pipeline{
		TemplateDir: templateDir,
		OutputDir:   outputDir,
		Renderer:    &docgen.DocxRenderer{},
	}
	hist := history.NewMemoryStore()
	handler := httpapi.NewServer(pipeline, hist, nil, "")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	defer srv.Close()

	baseURL := "http://" + ln.Addr().String()
	t.Logf("server running at %s", baseURL)

	client := docclient.NewClient(baseURL)
	if err := client.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}

	// --- 2. Generate a full application ---
	req := docclient.GenerateRequest{
		Title:            "一种基于流水线的数据处理方法",
		TechField:        "本发明涉及数据处理领域。",
		Background:       "现有技术处理延迟较高。",
		InventionContent: "本发明提供一种低延迟的处理流水线。",
		DrawingsDesc:     "图1为系统结构示意图。",
		Embodiment:       "如图1所示，系统包括采集模块和处理模块。",
		Claims: []string{
			"权利要求1：一种数据处理方法，其特征在于包括采集步骤",
			"2. 根据权利要求1所述的方法，其特征在于还包括过滤步骤；",
		},
		Abstract: "本发明公开了一种数据处理方法。",
	}
	result, err := client.Generate(ctx, req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(result.Files) != 4 {
		t.Fatalf("expected 4 files, got %v", result.Files)
	}
	t.Logf("generated id=%s", result.ID)

	// --- 3. Download every document and check the filled content ---
	wantFilled := []string{
		"一种基于流水线的数据处理方法",
		"本发明涉及数据处理领域。",
		"1. 一种数据处理方法，其特征在于包括采集步骤。",
		"2. 根据权利要求1所述的方法，其特征在于还包括过滤步骤。",
		"本发明公开了一种数据处理方法。",
	}
	for key, link := range result.Files {
		if !strings.HasPrefix(link, baseURL+"/download/") {
			t.Fatalf("file %s link %q not rooted at server", key, link)
		}

		docxBytes, err := client.Download(ctx, link)
		if err != nil {
			t.Fatalf("download %s: %v", key, err)
		}
		xml := documentXMLOf(t, docxBytes)
		for _, want := range wantFilled {
			if !strings.Contains(xml, want) {
				t.Errorf("file %s missing %q", key, want)
			}
		}
		if strings.Contains(xml, "{TITLE}") || strings.Contains(xml, "{CLAIMS}") {
			t.Errorf("file %s still contains unfilled placeholders", key)
		}
	}
	t.Log("all four documents rendered and downloaded")

	// --- 4. The run is visible in the generation history ---
	entry, err := client.GetGeneration(ctx, result.ID)
	if err != nil {
		t.Fatalf("get generation: %v", err)
	}
	if entry.ID != result.ID || entry.ClaimCount != 2 {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
	recent, err := client.ListGenerations(ctx, 10)
	if err != nil {
		t.Fatalf("list generations: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != result.ID {
		t.Fatalf("unexpected generation list: %+v", recent)
	}

	// --- 5. Preview renders the same application as HTML ---
	html, err := client.Preview(ctx, req)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !bytes.Contains(html, []byte("<h1>一种基于流水线的数据处理方法</h1>")) {
		t.Error("preview missing the title heading")
	}

	t.Log("E2E test passed: generation, download, history and preview all served")
}
