package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo  RepoInterface
	cache ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo RepoInterface, cache ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {

		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil // product is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), product)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*Product), nil
}

// GetProducts resolves each id independently. Unknown ids are simply
// absent from the returned map, the caller decides how to degrade.
func (s *Service) GetProducts(ctx context.Context, ids []string) (map[string]*Product, error) {
	products := make(map[string]*Product, len(ids))
	for _, id := range ids {
		if _, ok := products[id]; ok {
			continue
		}
		product, err := s.GetProduct(ctx, id)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products[id] = product
	}
	return products, nil
}

func (s *Service) GetAllProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.GetAllProducts(ctx)
}
