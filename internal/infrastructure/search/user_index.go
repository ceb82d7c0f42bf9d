// Package search projects accounts into an Elasticsearch index.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-identity-service/internal/application"
)

type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

func (i *UserIndex) IndexUser(ctx context.Context, doc application.UserDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.es)
	if err != nil {
		return err
	}
	return checkResponse("index user", res, false)
}

// RemoveUser deletes the document; a missing document is not an error.
func (i *UserIndex) RemoveUser(ctx context.Context, id string) error {
	res, err := esapi.DeleteRequest{Index: i.index, DocumentID: id}.Do(ctx, i.es)
	if err != nil {
		return err
	}
	return checkResponse("remove user", res, true)
}

func checkResponse(op string, res *esapi.Response, allowNotFound bool) error {
	defer func() { _ = res.Body.Close() }()
	if !res.IsError() || (allowNotFound && res.StatusCode == http.StatusNotFound) {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), b)
}

var _ application.UserIndexer = (*UserIndex)(nil)
