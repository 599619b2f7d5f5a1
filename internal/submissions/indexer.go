package submissions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"persona-quiz/internal/models"
)

// Indexer mirrors submissions into a search backend for analytics.
type Indexer interface {
	Index(ctx context.Context, s *models.Submission) error
}

// IndexMapping is the Elasticsearch mapping for submission documents.
const IndexMapping = `{
	"mappings": {
		"properties": {
			"id": {"type": "keyword"},
			"persona": {"type": "keyword"},
			"answers": {"type": "object", "dynamic": true},
			"meta": {
				"properties": {
					"ua": {"type": "text"},
					"screen": {"type": "keyword"},
					"sessionId": {"type": "keyword"}
				}
			},
			"created_at": {"type": "date"}
		}
	}
}`

type ESIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewESIndexer(client *elasticsearch.Client, index string) *ESIndexer {
	return &ESIndexer{client: client, index: index}
}

func (i *ESIndexer) Index(ctx context.Context, s *models.Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: s.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("index submission: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index submission: %s", res.Status())
	}
	return nil
}
