package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/joelkehle/patent-docgen/internal/docgen"
	"github.com/joelkehle/patent-docgen/internal/drafter"
	"github.com/joelkehle/patent-docgen/internal/history"
	"github.com/joelkehle/patent-docgen/internal/httpapi"
	"github.com/joelkehle/patent-docgen/internal/preview"
)

func main() {
	var (
		addr        = flag.String("addr", ":8000", "Listen address")
		templateDir = flag.String("template-dir", "templates", "Directory containing the docx templates")
		outputDir   = flag.String("output-dir", "output", "Directory for generated documents")
		dbFlag      = flag.String("db", "", "Path to SQLite history database (overrides DB_PATH env var, empty for in-memory)")
	)
	flag.Parse()

	listenAddr := *addr
	if port := os.Getenv("PORT"); port != "" {
		listenAddr = ":" + port
	}
	publicBaseURL := strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL"))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("failed to create output directory (%s): %v", *outputDir, err)
	}
	if err := docgen.CheckTemplates(*templateDir); err != nil {
		log.Printf("warning: %v (generation will fail until the templates are in place)", err)
	}

	dbPath := *dbFlag
	if dbPath == "" {
		dbPath = os.Getenv("DB_PATH")
	}
	var hist history.API
	if dbPath != "" {
		ss, err := history.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("failed to initialize sqlite history (%s): %v", dbPath, err)
		}
		defer ss.Close()
		hist = ss
		log.Printf("using sqlite history at %s", dbPath)
	} else {
		hist = history.NewMemoryStore()
	}

	pipeline := &docgen.Pipeline{
		TemplateDir: *templateDir,
		OutputDir:   *outputDir,
		Renderer:    &docgen.DocxRenderer{},
	}
	if caller, err := drafter.NewAnthropicCallerFromEnv(); err == nil {
		pipeline.Drafter = drafter.New(caller)
		log.Printf("abstract drafting enabled")
	} else {
		log.Printf("abstract drafting disabled: %v", err)
	}

	handler := httpapi.NewServer(pipeline, hist, preview.NewChromiumPDFRenderer(), publicBaseURL)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Printf("patent-docgen listening on %s (templates=%s, output=%s)", listenAddr, *templateDir, *outputDir)
	srv := &http.Server{Addr: listenAddr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
