package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshku/catalog-service/internal/domain"
	"github.com/okoshku/catalog-service/internal/event"
	"github.com/okoshku/catalog-service/internal/service"
	apperrors "github.com/okoshku/catalog-service/pkg/errors"
	"github.com/okoshku/catalog-service/pkg/httputil"
	pkgkafka "github.com/okoshku/catalog-service/pkg/kafka"
)

// =============================================================================
// Mock ProductRepository
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) Insert(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Replace(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testService(repo *mockProductRepo) *service.ProductService {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	return service.NewProductService(repo, producer, logger)
}

func productRouter(repo *mockProductRepo) *chi.Mux {
	handler := NewProductHandler(testService(repo), testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Get("/{id}", handler.GetProduct)
		r.Post("/", handler.CreateProduct)
		r.Put("/{id}", handler.UpdateProduct)
		r.Delete("/{id}", handler.DeleteProduct)
	})
	return r
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorBody {
	t.Helper()
	var body httputil.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func catalogProduct() *domain.Product {
	return &domain.Product{
		ID:           primitive.NewObjectID(),
		Name:         "Cannon EOS 80D DSLR Camera",
		Price:        929.99,
		Image:        "/images/camera.jpg",
		Brand:        "Cannon",
		Category:     "Electronics",
		CountInStock: 5,
		Description:  "Characterized by versatile imaging specs",
		Reviews:      []domain.Review{},
	}
}

// =============================================================================
// GET /api/v1/products - ListProducts
// =============================================================================

func TestListProducts_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	stored := []domain.Product{*catalogProduct(), *catalogProduct()}
	repo.On("FindAll", mock.Anything).Return(stored, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	assert.Len(t, products, 2)
	repo.AssertExpectations(t)
}

func TestListProducts_Empty(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	repo.On("FindAll", mock.Anything).Return([]domain.Product{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

// =============================================================================
// GET /api/v1/products/{id} - GetProduct
// =============================================================================

func TestGetProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	stored := catalogProduct()
	repo.On("FindByID", mock.Anything, stored.ID.Hex()).Return(stored, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+stored.ID.Hex(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var product domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&product))
	assert.Equal(t, stored.ID, product.ID)
	assert.Equal(t, stored.Name, product.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	repo.On("FindByID", mock.Anything, "deadbeef").
		Return(nil, apperrors.NotFound("product", "deadbeef"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/deadbeef", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

// =============================================================================
// POST /api/v1/products - CreateProduct
// =============================================================================

func TestCreateProduct_IgnoresRequestBody(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	assigned := primitive.NewObjectID()
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Product).ID = assigned
		}).
		Return(nil)

	// Body content must not influence the created product.
	body := []byte(`{"name":"Hijacked","price":99999}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var product domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&product))
	assert.Equal(t, assigned, product.ID)
	assert.Equal(t, "Sample name", product.Name)
	assert.Equal(t, 0.0, product.Price)
	repo.AssertExpectations(t)
}

func TestCreateProduct_StoreFailure(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(errors.New("connection reset by peer"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
}

// =============================================================================
// PUT /api/v1/products/{id} - UpdateProduct
// =============================================================================

func TestUpdateProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	stored := catalogProduct()
	repo.On("FindByID", mock.Anything, stored.ID.Hex()).Return(stored, nil)
	repo.On("Replace", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	body := UpdateProductRequest{
		Name:         "Widget",
		Price:        9.99,
		Description:  "d",
		Image:        "/i.jpg",
		Brand:        "B",
		Category:     "C",
		CountInStock: 5,
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+stored.ID.Hex(), bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var product domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&product))
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 9.99, product.Price)
	assert.Equal(t, 5, product.CountInStock)
	repo.AssertExpectations(t)
}

func TestUpdateProduct_InvalidJSON(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/abc", bytes.NewReader([]byte(`{invalid`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "INVALID_INPUT", body.Code)
	assert.Contains(t, body.Message, "invalid request body")
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	repo.On("FindByID", mock.Anything, "missing").
		Return(nil, apperrors.NotFound("product", "missing"))

	b, _ := json.Marshal(UpdateProductRequest{Name: "Widget"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/missing", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

// =============================================================================
// DELETE /api/v1/products/{id} - DeleteProduct
// =============================================================================

func TestDeleteProduct_Success(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	stored := catalogProduct()
	repo.On("FindByID", mock.Anything, stored.ID.Hex()).Return(stored, nil)
	repo.On("Delete", mock.Anything, stored.ID.Hex()).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+stored.ID.Hex(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var msg httputil.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	assert.Equal(t, "Product deleted", msg.Message)
	repo.AssertExpectations(t)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepo)
	router := productRouter(repo)

	repo.On("FindByID", mock.Anything, "missing").
		Return(nil, apperrors.NotFound("product", "missing"))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
