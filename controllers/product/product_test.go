package productControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/config"
	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Email:      email,
		Role:       role,
		FirstName:  "Test",
		LastName:   "User",
		IsApproved: true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     name,
		Slug:     strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, vendorID, categoryID uint, approved bool) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:          name,
		Slug:          strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Price:         price,
		SKU:           "SKU-" + strings.ToUpper(strings.ReplaceAll(name, " ", "")),
		TrackQuantity: true,
		Stock:         10,
		VendorID:      vendorID,
		CategoryID:    categoryID,
		IsActive:      true,
		IsApproved:    approved,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// jsonContext builds a request with a JSON body.
func jsonContext(t *testing.T, method, path string, body interface{}, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	if user != nil {
		middleware.SetCurrentUser(c, user)
	}
	return c, w
}

// formContext builds a request with a form-encoded body, matching how the
// product endpoints are called without file uploads.
func formContext(t *testing.T, method, path string, form url.Values, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if user != nil {
		middleware.SetCurrentUser(c, user)
	}
	return c, w
}

func listedProducts(t *testing.T, w *httptest.ResponseRecorder) []models.Product {
	t.Helper()

	var envelope struct {
		Data struct {
			Products []models.Product `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data.Products
}

func TestUniqueSlugSuffixesOnCollision(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")
	createProduct(t, db, "Cool Widget", 10, vendor.ID, category.ID, true)

	first := uniqueSlug(db, "Fresh Widget")
	assert.Equal(t, "fresh-widget", first)

	taken := uniqueSlug(db, "Cool Widget")
	assert.NotEqual(t, "cool-widget", taken)
	assert.True(t, strings.HasPrefix(taken, "cool-widget-"))
}

func TestPublicListingHidesUnapprovedAndInactive(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")

	visible := createProduct(t, db, "Widget A", 10, vendor.ID, category.ID, true)
	createProduct(t, db, "Widget B", 10, vendor.ID, category.ID, false)
	inactive := createProduct(t, db, "Widget C", 10, vendor.ID, category.ID, true)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	c, w := jsonContext(t, http.MethodGet, "/api/products", nil, nil)
	GetProducts(db)(c)
	require.Equal(t, http.StatusOK, w.Code)

	products := listedProducts(t, w)
	require.Len(t, products, 1)
	assert.Equal(t, visible.ID, products[0].ID)
}

func TestPublicListingPriceFilter(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")

	createProduct(t, db, "Cheap", 5, vendor.ID, category.ID, true)
	mid := createProduct(t, db, "Mid", 20, vendor.ID, category.ID, true)
	createProduct(t, db, "Pricey", 100, vendor.ID, category.ID, true)

	c, w := jsonContext(t, http.MethodGet, "/api/products?min_price=10&max_price=50", nil, nil)
	GetProducts(db)(c)
	require.Equal(t, http.StatusOK, w.Code)

	products := listedProducts(t, w)
	require.Len(t, products, 1)
	assert.Equal(t, mid.ID, products[0].ID)
}

func TestPublicListingRejectsBadFilters(t *testing.T) {
	db := setupDB(t)

	c, w := jsonContext(t, http.MethodGet, "/api/products?min_price=abc", nil, nil)
	GetProducts(db)(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = jsonContext(t, http.MethodGet, "/api/products?category_id=abc", nil, nil)
	GetProducts(db)(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVendorInventoryIncludesUnapproved(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	other := createUser(t, db, "other@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")

	createProduct(t, db, "Widget A", 10, vendor.ID, category.ID, true)
	createProduct(t, db, "Widget B", 10, vendor.ID, category.ID, false)
	createProduct(t, db, "Widget C", 10, other.ID, category.ID, true)

	c, w := jsonContext(t, http.MethodGet, "/api/vendor/products", nil, vendor)
	GetVendorProducts(db)(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
}

func TestCreateProductVendorWaitsForReview(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")

	form := url.Values{
		"name":        {"New Widget"},
		"price":       {"24.99"},
		"category_id": {fmt.Sprint(category.ID)},
		"stock":       {"5"},
	}
	c, w := formContext(t, http.MethodPost, "/api/products", form, vendor)
	CreateProduct(db, config.Config{})(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var product models.Product
	require.NoError(t, db.Where("name = ?", "New Widget").First(&product).Error)
	assert.False(t, product.IsApproved)
	assert.True(t, product.IsActive)
	assert.Equal(t, vendor.ID, product.VendorID)
	assert.Equal(t, "new-widget", product.Slug)
	assert.NotEmpty(t, product.SKU)
}

func TestCreateProductByAdminGoesLive(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, "admin@shop.test", models.RoleAdmin)
	category := createCategory(t, db, "Gadgets")

	form := url.Values{
		"name":        {"Admin Widget"},
		"price":       {"9.99"},
		"category_id": {fmt.Sprint(category.ID)},
	}
	c, w := formContext(t, http.MethodPost, "/api/products", form, admin)
	CreateProduct(db, config.Config{})(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var product models.Product
	require.NoError(t, db.Where("name = ?", "Admin Widget").First(&product).Error)
	assert.True(t, product.IsApproved)
}

func TestCreateProductValidatesInput(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")

	// Missing price.
	c, w := formContext(t, http.MethodPost, "/api/products",
		url.Values{"name": {"X"}, "category_id": {fmt.Sprint(category.ID)}}, vendor)
	CreateProduct(db, config.Config{})(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown category.
	c, w = formContext(t, http.MethodPost, "/api/products",
		url.Values{"name": {"X"}, "price": {"1"}, "category_id": {"999"}}, vendor)
	CreateProduct(db, config.Config{})(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Negative price.
	c, w = formContext(t, http.MethodPost, "/api/products",
		url.Values{"name": {"X"}, "price": {"-5"}, "category_id": {fmt.Sprint(category.ID)}}, vendor)
	CreateProduct(db, config.Config{})(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVendorEditSendsProductBackToReview(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")
	product := createProduct(t, db, "Widget A", 10, vendor.ID, category.ID, true)

	c, w := formContext(t, http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID),
		url.Values{"price": {"15"}}, vendor)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(product.ID)}}
	UpdateProduct(db, config.Config{}, nil)(c)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 15.0, got.Price)
	assert.False(t, got.IsApproved)
}

func TestStockOnlyEditKeepsApproval(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")
	product := createProduct(t, db, "Widget A", 10, vendor.ID, category.ID, true)

	c, w := formContext(t, http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID),
		url.Values{"stock": {"42"}}, vendor)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(product.ID)}}
	UpdateProduct(db, config.Config{}, nil)(c)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.Equal(t, 42, got.Stock)
	assert.True(t, got.IsApproved)
}

func TestAdminEditKeepsApproval(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	admin := createUser(t, db, "admin@shop.test", models.RoleAdmin)
	category := createCategory(t, db, "Gadgets")
	product := createProduct(t, db, "Widget A", 10, vendor.ID, category.ID, true)

	c, w := formContext(t, http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID),
		url.Values{"price": {"15"}}, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(product.ID)}}
	UpdateProduct(db, config.Config{}, nil)(c)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Product
	require.NoError(t, db.First(&got, product.ID).Error)
	assert.True(t, got.IsApproved)
}

func TestUpdateProductOwnershipEnforced(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	other := createUser(t, db, "other@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")
	product := createProduct(t, db, "Widget A", 10, vendor.ID, category.ID, true)

	c, w := formContext(t, http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID),
		url.Values{"price": {"1"}}, other)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(product.ID)}}
	UpdateProduct(db, config.Config{}, nil)(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	db := setupDB(t)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)
	other := createUser(t, db, "other@shop.test", models.RoleVendor)
	category := createCategory(t, db, "Gadgets")
	product := createProduct(t, db, "Widget A", 10, vendor.ID, category.ID, true)

	c, w := jsonContext(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), nil, other)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(product.ID)}}
	DeleteProduct(db, nil)(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = jsonContext(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), nil, vendor)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(product.ID)}}
	DeleteProduct(db, nil)(c)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Product
	assert.Error(t, db.First(&got, product.ID).Error)
	assert.NoError(t, db.Unscoped().First(&got, product.ID).Error)
}

func TestCategoryLifecycle(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, "admin@shop.test", models.RoleAdmin)
	vendor := createUser(t, db, "vendor@shop.test", models.RoleVendor)

	c, w := jsonContext(t, http.MethodPost, "/api/admin/categories",
		CategoryRequest{Name: "Home & Garden"}, admin)
	CreateCategory(db)(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var category models.Category
	require.NoError(t, db.Where("name = ?", "Home & Garden").First(&category).Error)
	assert.Equal(t, "home-and-garden", category.Slug)

	// Duplicate slugs are rejected by the unique index.
	c, w = jsonContext(t, http.MethodPost, "/api/admin/categories",
		CategoryRequest{Name: "Home & Garden"}, admin)
	CreateCategory(db)(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A category holding products cannot be removed.
	createProduct(t, db, "Shovel", 25, vendor.ID, category.ID, true)
	c, w = jsonContext(t, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", category.ID), nil, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(category.ID)}}
	DeleteCategory(db)(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	empty := createCategory(t, db, "Empty Shelf")
	c, w = jsonContext(t, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", empty.ID), nil, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(empty.ID)}}
	DeleteCategory(db)(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetCategoryBySlug(t *testing.T) {
	db := setupDB(t)
	category := createCategory(t, db, "Gadgets")

	c, w := jsonContext(t, http.MethodGet, "/api/categories/gadgets", nil, nil)
	c.Params = gin.Params{{Key: "slug", Value: category.Slug}}
	GetCategoryBySlug(db)(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = jsonContext(t, http.MethodGet, "/api/categories/nope", nil, nil)
	c.Params = gin.Params{{Key: "slug", Value: "nope"}}
	GetCategoryBySlug(db)(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
