// file: internals/helpers/search/meilisearch.go
package search

import (
	"fmt"
	"strings"

	"github.com/meilisearch/meilisearch-go"
)

// Document is the searchable projection of an initiative.
type Document struct {
	ID            string   `json:"id"`
	TitleEN       string   `json:"title_en"`
	TitleTA       string   `json:"title_ta,omitempty"`
	DescriptionEN string   `json:"description_en,omitempty"`
	DescriptionTA string   `json:"description_ta,omitempty"`
	Bureau        string   `json:"bureau"`
	Status        string   `json:"status"`
	Tags          []string `json:"tags,omitempty"`
}

// Index is implemented by the Meilisearch client; a nil Index means search
// falls back to SQL.
type Index interface {
	Upsert(doc Document) error
	Delete(id string) error
	SearchIDs(query string, limit int64) ([]string, error)
}

type MeiliIndex struct {
	client *meilisearch.Client
	index  string
}

func NewMeiliIndex(host, apiKey, index string) *MeiliIndex {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	return &MeiliIndex{client: client, index: index}
}

// Init creates the index and its searchable/filterable attributes.
func (m *MeiliIndex) Init() error {
	_, err := m.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        m.index,
		PrimaryKey: "id",
	})
	// index creation is an async task; an existing index fails the task, not this call
	if err != nil {
		return fmt.Errorf("create index %s: %w", m.index, err)
	}

	if _, err := m.client.Index(m.index).UpdateSearchableAttributes(&[]string{
		"title_en", "title_ta", "description_en", "description_ta", "tags",
	}); err != nil {
		return err
	}
	_, err = m.client.Index(m.index).UpdateFilterableAttributes(&[]string{"bureau", "status"})
	return err
}

func (m *MeiliIndex) Upsert(doc Document) error {
	_, err := m.client.Index(m.index).AddDocuments([]Document{doc}, "id")
	return err
}

func (m *MeiliIndex) Delete(id string) error {
	_, err := m.client.Index(m.index).DeleteDocument(id)
	return err
}

// SearchIDs returns matching document ids in relevance order.
func (m *MeiliIndex) SearchIDs(query string, limit int64) ([]string, error) {
	if limit <= 0 {
		limit = 1000
	}
	res, err := m.client.Index(m.index).Search(strings.TrimSpace(query), &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		hm, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := hm["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
