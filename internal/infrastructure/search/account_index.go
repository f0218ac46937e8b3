package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// AccountIndex keeps a searchable copy of account profiles in Elasticsearch.
// Credentials (password hash, token) are never indexed.
type AccountIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewAccountIndex(es *elasticsearch.Client, index string) *AccountIndex {
	return &AccountIndex{es: es, index: index}
}

type accountDoc struct {
	ID        string  `json:"id"`
	FullName  *string `json:"fullName"`
	Email     string  `json:"email"`
	Mobile    string  `json:"mobile"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toDoc(a *entity.Account) accountDoc {
	return accountDoc{
		ID:        a.ID,
		FullName:  a.FullName,
		Email:     a.Email,
		Mobile:    a.Mobile,
		Role:      a.Role,
		CreatedAt: a.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func responseError(op string, res *esapi.Response) error {
	return fmt.Errorf("elasticsearch %s: %s", op, res.Status())
}

// Index creates or replaces the document for a.
func (x *AccountIndex) Index(ctx context.Context, a *entity.Account) error {
	b, err := json.Marshal(toDoc(a))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: a.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// Remove deletes the document for id. A missing document is not an error.
func (x *AccountIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res)
	}
	return nil
}

// Search runs a multi_match over email and fullName and returns the stored sources.
func (x *AccountIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "fullName"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, responseError("search", res)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
