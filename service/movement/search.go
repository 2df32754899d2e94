package movement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/mitchellh/mapstructure"

	movementEntity "stockmaster.GO/model/entity/movement"
)

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// GetSearchService returns singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

// SearchService keeps the movement ledger searchable in Elasticsearch. The
// database stays the source of truth; the index is rebuilt on demand.
type SearchService struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchService() *SearchService {
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		// Indexing and search become no-ops when unset.
		return &SearchService{index: indexName()}
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &SearchService{index: indexName()}
	}

	return &SearchService{
		client: client,
		index:  indexName(),
	}
}

func indexName() string {
	prefix := os.Getenv("ELASTICSEARCH_INDEX_PREFIX")
	if prefix == "" {
		prefix = "stockmaster"
	}
	return prefix + "_stock_movement"
}

// Enabled reports whether an Elasticsearch client is configured.
func (s *SearchService) Enabled() bool {
	return s.client != nil
}

type movementDoc struct {
	ID              string `json:"id" mapstructure:"id"`
	Type            string `json:"type" mapstructure:"type"`
	ProductID       uint   `json:"product_id" mapstructure:"product_id"`
	FromWarehouseID *uint  `json:"from_warehouse_id,omitempty" mapstructure:"from_warehouse_id"`
	ToWarehouseID   *uint  `json:"to_warehouse_id,omitempty" mapstructure:"to_warehouse_id"`
	FromLocation    string `json:"from_location,omitempty" mapstructure:"from_location"`
	ToLocation      string `json:"to_location,omitempty" mapstructure:"to_location"`
	Quantity        int64  `json:"quantity" mapstructure:"quantity"`
	InitiatedBy     string `json:"initiated_by" mapstructure:"initiated_by"`
	Status          string `json:"status" mapstructure:"status"`
	Notes           string `json:"notes,omitempty" mapstructure:"notes"`
	CreatedAt       string `json:"created_at" mapstructure:"created_at"`
}

func toDoc(m movementEntity.Movement) movementDoc {
	return movementDoc{
		ID:              m.ID,
		Type:            m.Type,
		ProductID:       m.ProductID,
		FromWarehouseID: m.FromWarehouseID,
		ToWarehouseID:   m.ToWarehouseID,
		FromLocation:    m.FromLocation,
		ToLocation:      m.ToLocation,
		Quantity:        m.Quantity,
		InitiatedBy:     m.InitiatedBy,
		Status:          m.Status,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// IndexMovements writes ledger entries into the search index. A nil client
// makes this a no-op so mutation paths never depend on Elasticsearch.
func (s *SearchService) IndexMovements(movements []movementEntity.Movement) error {
	if s.client == nil || len(movements) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, m := range movements {
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, s.index, m.ID)
		buf.WriteString(meta)
		buf.WriteByte('\n')
		doc, err := json.Marshal(toDoc(m))
		if err != nil {
			return err
		}
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	res, err := s.client.Bulk(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch bulk error: %s", res.String())
	}
	return nil
}

// SearchResult is one page of ledger hits.
type SearchResult struct {
	Items      []movementDoc
	TotalCount int
	PageSize   int
	Page       int
}

// Search runs a full-text query over the movement index. Notes and the
// initiated-by stamp are the free-text fields; type and status match exactly.
func (s *SearchService) Search(ctx context.Context, query string, pageSize, currentPage int) (*SearchResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("elasticsearch not configured")
	}

	ps := 20
	if pageSize > 0 {
		ps = pageSize
	}
	cp := 1
	if currentPage > 0 {
		cp = currentPage
	}
	from := (cp - 1) * ps

	body := map[string]interface{}{
		"from": from,
		"size": ps,
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"notes^2", "initiated_by", "type", "status"},
			},
		},
	}

	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		if strings.Contains(res.String(), "index_not_found_exception") {
			return &SearchResult{Items: nil, PageSize: ps, Page: cp}, nil
		}
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	items := make([]movementDoc, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		var doc movementDoc
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:     &doc,
			TagName:    "mapstructure",
			DecodeHook: floatToUintHook(),
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(hit.Source); err != nil {
			return nil, err
		}
		items = append(items, doc)
	}

	return &SearchResult{
		Items:      items,
		TotalCount: esResp.Hits.Total.Value,
		PageSize:   ps,
		Page:       cp,
	}, nil
}
