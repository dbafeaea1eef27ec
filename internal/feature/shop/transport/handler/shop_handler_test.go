package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"myshop_backend/internal/feature/shop/adapters"
	"myshop_backend/internal/feature/shop/domain/entity"
	"myshop_backend/internal/feature/shop/usecase"
	"myshop_backend/internal/platform/externalapi/cfimages"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockShopUsecase is a mock implementation of the ShopUsecase interface.
type mockShopUsecase struct {
	CreateFunc            func(ctx context.Context, body any) (*usecase.CreateResult, error)
	GetFunc               func(ctx context.Context, id string) (*entity.Shop, error)
	GetPublicFunc         func(ctx context.Context, id string) (*entity.PublicShop, error)
	ListFunc              func(ctx context.Context) ([]entity.Summary, error)
	UpdateFunc            func(ctx context.Context, id string, body any) (*entity.Shop, error)
	CreateImageUploadFunc func(ctx context.Context, id string, kind entity.ImageKind) (*usecase.ImageUpload, error)
	SetImageFunc          func(ctx context.Context, id string, kind entity.ImageKind, imageID string) (*entity.Shop, error)
}

func (m *mockShopUsecase) Create(ctx context.Context, body any) (*usecase.CreateResult, error) {
	return m.CreateFunc(ctx, body)
}
func (m *mockShopUsecase) Get(ctx context.Context, id string) (*entity.Shop, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockShopUsecase) GetPublic(ctx context.Context, id string) (*entity.PublicShop, error) {
	return m.GetPublicFunc(ctx, id)
}
func (m *mockShopUsecase) List(ctx context.Context) ([]entity.Summary, error) {
	return m.ListFunc(ctx)
}
func (m *mockShopUsecase) Update(ctx context.Context, id string, body any) (*entity.Shop, error) {
	return m.UpdateFunc(ctx, id, body)
}
func (m *mockShopUsecase) CreateImageUpload(ctx context.Context, id string, kind entity.ImageKind) (*usecase.ImageUpload, error) {
	return m.CreateImageUploadFunc(ctx, id, kind)
}
func (m *mockShopUsecase) SetImage(ctx context.Context, id string, kind entity.ImageKind, imageID string) (*entity.Shop, error) {
	return m.SetImageFunc(ctx, id, kind, imageID)
}

func setupRouter(h *ShopHandler) *gin.Engine {
	r := gin.New()
	r.GET("/public/shops/:id", h.GetPublic)
	r.GET("/api/shops", h.List)
	r.POST("/api/shops", h.Create)
	r.GET("/api/shops/:id", h.Get)
	r.PUT("/api/shops/:id", h.Update)
	r.POST("/api/shops/:id/images/:kind", h.CreateImageUpload)
	r.PUT("/api/shops/:id/images/:kind", h.SetImage)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestShopHandler_GetPublic(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{"success", nil, http.StatusOK, ""},
		{"not found", usecase.ErrShopNotFound, http.StatusNotFound, `{"error":"Shop not found"}`},
		{"store failure", errors.New("db down"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockShopUsecase{GetPublicFunc: func(_ context.Context, id string) (*entity.PublicShop, error) {
				assert.Equal(t, "shop-1", id)
				if tt.err != nil {
					return nil, tt.err
				}
				return &entity.PublicShop{ID: id, NameEn: "Shop"}, nil
			}}

			w := do(setupRouter(NewShopHandler(uc)), http.MethodGet, "/public/shops/shop-1", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestShopHandler_Create_BadJSON(t *testing.T) {
	uc := &mockShopUsecase{CreateFunc: func(context.Context, any) (*usecase.CreateResult, error) {
		t.Error("usecase must not be called")
		return nil, nil
	}}

	w := do(setupRouter(NewShopHandler(uc)), http.MethodPost, "/api/shops", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShopHandler_List(t *testing.T) {
	uc := &mockShopUsecase{ListFunc: func(context.Context) ([]entity.Summary, error) {
		return []entity.Summary{{ID: "a", NameLo: "ກ", NameEn: "A", UpdatedAt: 5}}, nil
	}}

	w := do(setupRouter(NewShopHandler(uc)), http.MethodGet, "/api/shops", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"shops":[{"id":"a","name_lo":"ກ","name_en":"A","updated_at":5}]}`, w.Body.String())
}

func TestShopHandler_SetImage_NonStringID(t *testing.T) {
	var got string
	uc := &mockShopUsecase{SetImageFunc: func(_ context.Context, _ string, kind entity.ImageKind, imageID string) (*entity.Shop, error) {
		got = imageID
		assert.Equal(t, entity.ImageCover, kind)
		return nil, usecase.ErrImageIDRequired
	}}

	w := do(setupRouter(NewShopHandler(uc)), http.MethodPut, "/api/shops/shop-1/images/cover", `{"imageId": 42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "", got)
	assert.JSONEq(t, `{"error":"imageId is required"}`, w.Body.String())
}

func TestShopHandler_CreateImageUpload(t *testing.T) {
	uc := &mockShopUsecase{CreateImageUploadFunc: func(_ context.Context, id string, kind entity.ImageKind) (*usecase.ImageUpload, error) {
		return &usecase.ImageUpload{ImageID: "img-" + string(kind), UploadURL: "https://upload.example/" + id}, nil
	}}

	w := do(setupRouter(NewShopHandler(uc)), http.MethodPost, "/api/shops/shop-1/images/profile", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"imageId":"img-profile","uploadURL":"https://upload.example/shop-1"}`, w.Body.String())
}

// newIntegrationRouter wires the real usecase on an in-memory SQLite store.
func newIntegrationRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&entity.Shop{}))

	uc := usecase.NewShopUsecase(adapters.NewShopGorm(db), nil, cfimages.Config{AccountHash: "hash"}.Delivery())
	return setupRouter(NewShopHandler(uc))
}

const createBody = `{
	"name_lo": "ຮ້ານ", "name_en": "Shop", "bio_lo": "ບິໂອ", "bio_en": "Bio",
	"whatsapp_phone": "+856 20 123 45678",
	"whatsapp_message_lo": "ສະບາຍດີ", "whatsapp_message_en": "Hello",
	"social_json": {"facebook": "https://facebook.com/shop"}
}`

func TestShopRoutes_EndToEnd(t *testing.T) {
	r := newIntegrationRouter(t)

	w := do(r, http.MethodPost, "/api/shops", createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     string            `json:"id"`
		Shop   entity.Shop       `json:"shop"`
		Public entity.PublicShop `json:"public"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, created.ID, created.Shop.ID)
	assert.Equal(t, "8562012345678", created.Shop.WhatsAppPhone)
	assert.Equal(t, `{"facebook":"https://facebook.com/shop"}`, created.Shop.SocialJSON)
	assert.Equal(t, "https://facebook.com/shop", created.Public.Social.Facebook)

	// partial update touches only name_en
	w = do(r, http.MethodPut, "/api/shops/"+created.ID, `{"name_en": "X"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated entity.Shop
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "X", updated.NameEn)
	assert.Equal(t, created.Shop.NameLo, updated.NameLo)
	assert.Equal(t, created.Shop.SocialJSON, updated.SocialJSON)

	w = do(r, http.MethodPut, "/api/shops/"+created.ID+"/images/profile", `{"imageId": " img-1 "}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/public/shops/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var pub map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pub))
	assert.Equal(t, "https://imagedelivery.net/hash/img-1/avatar", pub["profile_image_url"])
	assert.Nil(t, pub["cover_image_url"])
	assert.Equal(t, "X", pub["name_en"])
	assert.NotContains(t, pub, "profile_image_id")

	w = do(r, http.MethodGet, "/api/shops", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID)
}

func TestShopRoutes_EndToEnd_Errors(t *testing.T) {
	r := newIntegrationRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		errorContains  string
	}{
		{"invalid social url names the key", http.MethodPost, "/api/shops",
			`{"name_lo":"a","name_en":"b","bio_lo":"c","bio_en":"d","whatsapp_phone":"8562012345678","whatsapp_message_lo":"e","whatsapp_message_en":"f","social_json":{"facebook":"not-a-url"}}`,
			http.StatusBadRequest, "facebook"},
		{"array body", http.MethodPost, "/api/shops", `[1,2]`, http.StatusBadRequest, "JSON object"},
		{"invalid id", http.MethodGet, "/api/shops/bad%20id", "", http.StatusBadRequest, "Invalid shop ID"},
		{"unknown shop", http.MethodGet, "/public/shops/nope", "", http.StatusNotFound, "Shop not found"},
		{"update unknown shop", http.MethodPut, "/api/shops/nope", `{"name_en":"X"}`, http.StatusNotFound, "Shop not found"},
		{"blank image id", http.MethodPut, "/api/shops/nope/images/cover", `{"imageId":"  "}`, http.StatusBadRequest, "imageId is required"},
		{"upload not configured", http.MethodPost, "/api/shops/nope/images/cover", "", http.StatusNotFound, "Shop not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.errorContains)
		})
	}
}
