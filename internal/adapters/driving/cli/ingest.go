package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/meridian-labs/topiclens/internal/core/domain"
	"github.com/meridian-labs/topiclens/internal/logger"
)

// ingestRecord is one NDJSON line of the ingest file.
type ingestRecord struct {
	ID          string `json:"id"`
	SourceType  string `json:"source_type"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// timestampLayouts are the accepted publish-time formats, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest documents from an NDJSON file",
	Long: `Reads newline-delimited JSON records and adds them to the corpus.

Each line holds one document:

  {"source_type": "article", "title": "...", "content": "...",
   "url": "https://...", "published_at": "2025-07-01T09:30:00Z"}

Records without an id get a generated one. Records whose URL is already
in the corpus update the existing document. Records with no usable text
or an unknown source_type are rejected and counted, never aborting the
rest of the file. An unparseable published_at is dropped with a warning;
the document still enters the corpus but is excluded from timelines.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening ingest file: %w", err)
	}
	defer f.Close()

	var added, updated, rejected int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		doc, err := parseIngestLine(line)
		if err != nil {
			rejected++
			logger.Warn("line %d rejected: %v", lineNo, err)
			continue
		}

		existing, err := documentStore.GetDocumentByURL(cmd.Context(), doc.URL)
		switch {
		case err == nil:
			// Same URL: update in place, dropping the stale embedding so
			// the next retrain re-embeds the new content.
			doc.ID = existing.ID
			if err := documentStore.SaveDocument(cmd.Context(), doc); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			updated++
		case errors.Is(err, domain.ErrNotFound):
			if err := documentStore.SaveDocument(cmd.Context(), doc); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			added++
		default:
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading ingest file: %w", err)
	}

	cmd.Printf("Ingested %d documents (%d updated, %d rejected)\n",
		added, updated, rejected)
	if added+updated > 0 {
		cmd.Println("Run 'topiclens train' to fold them into the topic model.")
	}
	return nil
}

// parseIngestLine turns one NDJSON line into a validated document.
func parseIngestLine(line string) (*domain.Document, error) {
	var rec ingestRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	doc := &domain.Document{
		ID:         rec.ID,
		SourceType: domain.SourceType(rec.SourceType),
		Title:      rec.Title,
		Content:    rec.Content,
		URL:        rec.URL,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	if rec.PublishedAt != "" {
		ts, err := parseTimestamp(rec.PublishedAt)
		if err != nil {
			logger.Warn("unparseable published_at %q, document kept without timestamp", rec.PublishedAt)
		} else {
			doc.PublishedAt = ts
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
