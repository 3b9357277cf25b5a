package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
//
// Columns: id, key, name, description, price, category, colors
// (semicolon separated), image, rating_average, rating_count, featured.
// A row with an empty key and only an image adds that image to the
// product above it.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts products grouped by product key.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *domain.Product
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, image, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if row == nil && image == "" {
			continue
		}

		if row != nil {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil {
			current.Images = append(current.Images, image)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, p *domain.Product) error {
	if p.Key == "" || p.Name == "" {
		return fmt.Errorf("invalid product row (missing required fields) for key %q", p.Key)
	}
	if p.ID != "" {
		if _, err := uuid.Parse(p.ID); err != nil {
			return fmt.Errorf("invalid id for key %q: %s", p.Key, p.ID)
		}
	}
	if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Key, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseRow returns the product started by record, or just its image for a
// continuation row.
func parseRow(record []string, index map[string]int) (*domain.Product, string, error) {
	key := pick(record, index, "key")
	image := pick(record, index, "image")
	if key == "" {
		return nil, image, nil
	}

	price, err := strconv.ParseInt(pick(record, index, "price"), 10, 64)
	if err != nil || price < 0 {
		return nil, "", fmt.Errorf("invalid price for key %q", key)
	}

	p := &domain.Product{
		ID:          pick(record, index, "id"),
		Key:         key,
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Price:       price,
		Category:    strings.ToLower(pick(record, index, "category")),
		Colors:      splitList(pick(record, index, "colors")),
	}
	if image != "" {
		p.Images = []string{image}
	}
	if v := pick(record, index, "rating_average"); v != "" {
		p.RatingAverage, _ = strconv.ParseFloat(v, 64)
	}
	if v := pick(record, index, "rating_count"); v != "" {
		p.RatingCount, _ = strconv.Atoi(v)
	}
	if v := pick(record, index, "featured"); v != "" {
		p.IsFeatured, _ = strconv.ParseBool(v)
	}
	return p, "", nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
