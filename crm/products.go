// ABOUTME: Product catalog service over the document store
// ABOUTME: CRUD for products referenced by opportunities
package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pipecrm/models"
	"github.com/harperreed/pipecrm/store"
)

// Products manages the products collection.
type Products struct {
	store store.Store
	cache *store.ListCache
}

func NewProducts(st store.Store, cache *store.ListCache) *Products {
	return &Products{store: st, cache: cache}
}

func (s *Products) Create(ctx context.Context, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return ErrEmptyName
	}

	now := time.Now().UTC()
	product.ID = uuid.New()
	product.CreatedAt = now
	product.UpdatedAt = now

	fields, err := store.EncodeFields(product)
	if err != nil {
		return err
	}
	if _, err := s.store.Create(ctx, models.CollectionProducts, fields); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.cache.Invalidate(models.CollectionProducts)
	return nil
}

func (s *Products) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	doc, err := s.store.Get(ctx, models.CollectionProducts, id.String())
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := store.DecodeFields(doc, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	return &product, nil
}

func (s *Products) List(ctx context.Context) ([]*models.Product, error) {
	docs, ok := s.cache.Get(models.CollectionProducts)
	if !ok {
		var err error
		docs, err = s.store.List(ctx, models.CollectionProducts)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		s.cache.Put(models.CollectionProducts, docs)
	}

	products := make([]*models.Product, 0, len(docs))
	for _, doc := range docs {
		var product models.Product
		if err := store.DecodeFields(doc, &product); err != nil {
			return nil, fmt.Errorf("failed to decode product %s: %w", doc.ID, err)
		}
		products = append(products, &product)
	}
	return products, nil
}

func (s *Products) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, models.CollectionProducts, id.String()); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.cache.Invalidate(models.CollectionProducts)
	return nil
}
