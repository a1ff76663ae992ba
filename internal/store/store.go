package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"CoinLens/internal/model"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is a read-only view of the dashboard's document store.
type Store interface {
	PriceDocument(ctx context.Context, year int) (*model.PriceDocument, error)
	AHR999Document(ctx context.Context, year int) (*model.AHR999Document, error)
	HalvingDocument(ctx context.Context) (*model.HalvingDocument, error)
	StatsDocument(ctx context.Context) (model.StatsDocument, error)
	// Years lists the year-keyed documents of a collection in ascending order.
	Years(ctx context.Context, collection string) ([]int, error)
	Name() string
}

// Writer is implemented by stores that accept documents.
type Writer interface {
	Put(ctx context.Context, collection, id string, body []byte) error
}

// rawGetter is the raw lookup every backend provides; the typed
// Store methods are derived from it by docReader.
type rawGetter interface {
	get(ctx context.Context, collection, id string) ([]byte, error)
	ids(ctx context.Context, collection string) ([]string, error)
}

// docReader implements the typed Store methods on top of a rawGetter.
type docReader struct {
	raw rawGetter
}

func (r docReader) PriceDocument(ctx context.Context, year int) (*model.PriceDocument, error) {
	var doc model.PriceDocument
	if err := r.decode(ctx, model.CollectionPrices, model.YearKey(year), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r docReader) AHR999Document(ctx context.Context, year int) (*model.AHR999Document, error) {
	var doc model.AHR999Document
	if err := r.decode(ctx, model.CollectionAHR999, model.YearKey(year), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r docReader) HalvingDocument(ctx context.Context) (*model.HalvingDocument, error) {
	var doc model.HalvingDocument
	if err := r.decode(ctx, model.CollectionHalving, model.HalvingDocumentID, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r docReader) StatsDocument(ctx context.Context) (model.StatsDocument, error) {
	doc := model.StatsDocument{}
	if err := r.decode(ctx, model.CollectionStats, model.StatsDocumentID, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r docReader) Years(ctx context.Context, collection string) ([]int, error) {
	ids, err := r.raw.ids(ctx, collection)
	if err != nil {
		return nil, err
	}
	return yearsFromIDs(ids), nil
}

func (r docReader) decode(ctx context.Context, collection, id string, v any) error {
	body, err := r.raw.get(ctx, collection, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// yearsFromIDs keeps the ids that are years and sorts them.
func yearsFromIDs(ids []string) []int {
	years := make([]int, 0, len(ids))
	for _, id := range ids {
		if y, err := strconv.Atoi(id); err == nil && y > 0 {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}
