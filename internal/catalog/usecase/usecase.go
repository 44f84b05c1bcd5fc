package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/catalog"
	"github.com/fekuna/omnipos-backoffice-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/validation"
	"github.com/fekuna/omnipos-backoffice-service/pkg/cache"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/fekuna/omnipos-backoffice-service/pkg/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const productIndex = "products"

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validateCreateProduct(input); err != nil {
		return nil, err
	}

	unique, err := uc.repo.IsEANCodeUnique(ctx, input.EANCode)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperrors.DuplicateKey("product with EAN code %s", input.EANCode)
	}

	now := time.Now()

	var description *string
	if input.Description != "" {
		description = &input.Description
	}

	p := &model.Product{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		EANCode:      input.EANCode,
		Name:         input.Name,
		Type:         input.Type,
		Description:  description,
		Height:       input.Height,
		Width:        input.Width,
		RegularPrice: input.RegularPrice,
		CurrentPrice: input.CurrentPrice,
	}

	stock := &model.Stock{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		Quantity:  input.InitialQuantity,
		UpdatedAt: now,
	}
	p.Stock = stock

	images := make([]model.ProductImage, 0, len(input.PageImageFileNames)+1)
	if input.MainImageFileName != "" {
		main := model.ProductImage{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			FileName:  input.MainImageFileName,
			CreatedAt: now,
		}
		p.MainImageID = &main.ID
		images = append(images, main)
	}
	for _, fileName := range input.PageImageFileNames {
		images = append(images, model.ProductImage{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			FileName:  fileName,
			CreatedAt: now,
		})
	}
	p.PageImages = images

	if err := uc.repo.Create(ctx, p, stock, images); err != nil {
		return nil, err
	}

	go uc.invalidateSearchCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func validateCreateProduct(input *dto.CreateProductInput) error {
	if err := validation.NonBlank("name", input.Name); err != nil {
		return err
	}
	if err := validation.NonBlank("type", input.Type); err != nil {
		return err
	}
	if err := validation.EANCode(input.EANCode); err != nil {
		return err
	}
	if err := validation.PositivePrice("regular price", input.RegularPrice); err != nil {
		return err
	}
	if err := validation.PositivePrice("current price", input.CurrentPrice); err != nil {
		return err
	}
	if input.InitialQuantity < 0 {
		return apperrors.BadArgument("initial quantity must not be negative, got %d", input.InitialQuantity)
	}
	return nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("product %s", id)
	}
	return p, nil
}

func (uc *catalogUseCase) GetProductByEAN(ctx context.Context, eanCode string) (*model.Product, error) {
	p, err := uc.repo.FindByEANCode(ctx, eanCode)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("product with EAN code %s", eanCode)
	}
	return p, nil
}

// ValidateFilters rejects an empty predicate set and a half-open or inverted
// price range before any storage access.
func ValidateFilters(f *dto.ProductFilters) error {
	if f.Empty() {
		return apperrors.BadArgument("at least one search predicate is required")
	}
	if (f.MinPrice == nil) != (f.MaxPrice == nil) {
		return apperrors.BadArgument("price range requires both min and max bounds")
	}
	if f.MinPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return apperrors.BadArgument("min price %s exceeds max price %s", f.MinPrice, f.MaxPrice)
	}
	return nil
}

func (uc *catalogUseCase) SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if err := ValidateFilters(filters); err != nil {
		return nil, 0, err
	}

	cacheKey, err := uc.searchCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Products, result.Count, nil
			}
		}
	}

	// Pure phrase queries go through Elasticsearch when available. Mixed
	// predicate sets always hit the DB so the AND semantics stay exact.
	if filters.Phrase != "" && filters.Type == "" && filters.MinPrice == nil && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if uc.cache != nil && cacheKey != "" {
		cacheData := struct {
			Products []model.Product
			Count    int
		}{Products: products, Count: count}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return products, count, nil
}

// elasticPhraseQuery builds the phrase search body. The wildcard runs against
// the raw name keyword so ES returns the same case-insensitive name-substring
// matches as the DB's ILIKE path.
func elasticPhraseQuery(filters *dto.ProductFilters) map[string]interface{} {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"wildcard": map[string]interface{}{
				"name.raw": map[string]interface{}{
					"value":            fmt.Sprintf("*%s*", filters.Phrase),
					"case_insensitive": true,
				},
			},
		},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}
	return q
}

func (uc *catalogUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	res, err := uc.es.Search(ctx, productIndex, elasticPhraseQuery(filters))
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *catalogUseCase) UpdatePrices(ctx context.Context, input *dto.UpdatePricesInput) (*model.Product, error) {
	if err := validation.PositivePrice("regular price", input.RegularPrice); err != nil {
		return nil, err
	}
	if err := validation.PositivePrice("current price", input.CurrentPrice); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("product %s", input.ProductID)
	}

	p.RegularPrice = input.RegularPrice
	p.CurrentPrice = input.CurrentPrice
	p.UpdatedAt = time.Now()

	if err := uc.repo.UpdatePrices(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateSearchCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *catalogUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Stock, error) {
	if input.QuantityChange == 0 {
		return nil, apperrors.BadArgument("quantity change must not be zero")
	}

	// Without redis the guarded UPDATE in the repository still keeps the
	// quantity from going negative; the lock only serializes contenders.
	if uc.cache != nil {
		lockKey := fmt.Sprintf("lock:stock:%s", input.ProductID)
		lockValue := uuid.New().String()

		acquired := false
		for i := 0; i < 3; i++ {
			ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
			if err != nil {
				uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if !acquired {
			return nil, errors.New("system busy, please try again later (lock)")
		}
		defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)
	}

	var refID *string
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}
	var refType *string
	if input.ReferenceType != "" {
		refType = &input.ReferenceType
	}
	var createdBy *string
	if input.UserID != "" {
		createdBy = &input.UserID
	}

	movement := &model.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		MovementType:   model.MovementTypeAdjustment,
		QuantityChange: input.QuantityChange,
		ReferenceType:  refType,
		ReferenceID:    refID,
		Notes:          input.Reason,
		CreatedBy:      createdBy,
		CreatedAt:      time.Now(),
	}

	return uc.repo.AdjustStockWithMovement(ctx, input.ProductID, input.QuantityChange, movement)
}

func (uc *catalogUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *catalogUseCase) searchCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:search:%x", md5.Sum(data)), nil
}

func (uc *catalogUseCase) invalidateSearchCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:search:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

const productIndexMapping = `{
	"mappings": {
		"properties": {
			"ean_code": { "type": "keyword" },
			"name": { "type": "text", "fields": { "raw": { "type": "keyword" } } },
			"type": { "type": "keyword" },
			"description": { "type": "text" },
			"current_price": { "type": "double" },
			"created_at": { "type": "date" }
		}
	}
}`

// EnsureSearchIndex creates the product index with its mapping if it does
// not exist yet. Called once at startup.
func (uc *catalogUseCase) EnsureSearchIndex(ctx context.Context) error {
	if uc.es == nil {
		return nil
	}
	return uc.es.CreateIndex(ctx, productIndex, productIndexMapping)
}

func (uc *catalogUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}
