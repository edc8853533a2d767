// internal/tests/products_api_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emissionsiq/emissionsiq-backend/internal/config"
	"github.com/emissionsiq/emissionsiq-backend/internal/models"
	"github.com/emissionsiq/emissionsiq-backend/internal/router"
)

var dbCounter int64

type ProductAPITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *ProductAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Ingredient{},
		&models.ValueChainEntry{},
		&models.LCAClassification{},
	))

	cfg := &config.Config{
		Environment: "test",
		Database:    config.DatabaseConfig{WriteTimeoutMS: 5000},
		Session:     config.SessionConfig{SecretKey: "test-session-secret", TokenTTL: 24},
		Import:      config.ImportConfig{MaxBodyBytes: 1 << 20},
	}

	suite.db = db
	suite.router = router.Initialize(db, cfg)
}

func (suite *ProductAPITestSuite) request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reader = bytes.NewBuffer(nil)
	case string:
		reader = bytes.NewBufferString(b)
	default:
		jsonData, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, path, reader)
	suite.Require().NoError(err)
	if _, ok := body.(string); ok {
		req.Header.Set("Content-Type", "text/csv")
	} else if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ProductAPITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *ProductAPITestSuite) createdProductID(w *httptest.ResponseRecorder) string {
	data := suite.decode(w)["data"].(map[string]interface{})
	return data["product"].(map[string]interface{})["id"].(string)
}

func (suite *ProductAPITestSuite) TestCreateProductMintsSession() {
	w := suite.request("POST", "/v1/products", map[string]interface{}{
		"name":     "Salted Crisps",
		"category": "Snacks",
	}, nil)

	suite.Equal(http.StatusCreated, w.Code)
	suite.NotEmpty(w.Header().Get("X-Session-Token"))

	response := suite.decode(w)
	suite.True(response["success"].(bool))

	product := response["data"].(map[string]interface{})["product"].(map[string]interface{})
	suite.Equal("Salted Crisps", product["name"])
	suite.Equal("Just now", product["last_calculated"])
	suite.Zero(product["total_co2"])
}

func (suite *ProductAPITestSuite) TestCreateProductRejectsUnknownCategory() {
	w := suite.request("POST", "/v1/products", map[string]interface{}{
		"name":     "Gadget",
		"category": "Electronics",
	}, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ProductAPITestSuite) TestListProductsWithPaginationHeaders() {
	for _, name := range []string{"Crisps", "Cola", "Granola"} {
		w := suite.request("POST", "/v1/products", map[string]interface{}{
			"name":     name,
			"category": "Snacks",
		}, nil)
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w := suite.request("GET", "/v1/products?limit=2", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("3", w.Header().Get("X-Total-Count"))
	suite.Equal("2", w.Header().Get("X-Total-Pages"))

	response := suite.decode(w)
	data := response["data"].([]interface{})
	suite.Len(data, 2)
}

func (suite *ProductAPITestSuite) TestUpdateAndDeleteProduct() {
	w := suite.request("POST", "/v1/products", map[string]interface{}{
		"name":     "Crisps",
		"category": "Snacks",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := suite.createdProductID(w)

	w = suite.request("PUT", "/v1/products/"+id, map[string]interface{}{
		"name": "Premium Crisps",
	}, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/v1/products/"+id, nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	product := suite.decode(w)["data"].(map[string]interface{})["product"].(map[string]interface{})
	suite.Equal("Premium Crisps", product["name"])

	w = suite.request("DELETE", "/v1/products/"+id, nil, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/v1/products/"+id, nil, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ProductAPITestSuite) TestDeleteMissingProduct() {
	w := suite.request("DELETE", "/v1/products/7b0d67c4-5f0a-4e3a-9f5e-000000000000", nil, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ProductAPITestSuite) TestValueChainBreakdown() {
	w := suite.request("POST", "/v1/products", map[string]interface{}{
		"name":     "Crisps",
		"category": "Snacks",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := suite.createdProductID(w)

	w = suite.request("PUT", "/v1/products/"+id+"/value-chain", map[string]interface{}{
		"activities": []map[string]interface{}{
			{"stage": "Processing", "activity": "Diesel generator on-site"},
			{"stage": "Transportation", "activity": "Truck delivery", "unit": "kg"},
		},
	}, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/v1/products/"+id+"/breakdown", nil, nil)
	suite.Equal(http.StatusOK, w.Code)

	response := suite.decode(w)
	stages := response["data"].(map[string]interface{})["breakdown"].([]interface{})
	suite.Len(stages, 2)

	processing := stages[0].(map[string]interface{})
	suite.Equal("Processing", processing["stage"])
	classifications := processing["classifications"].([]interface{})
	suite.Require().Len(classifications, 1)
	suite.EqualValues(1, classifications[0].(map[string]interface{})["scope"])
}

func (suite *ProductAPITestSuite) TestAddIngredients() {
	w := suite.request("POST", "/v1/products", map[string]interface{}{
		"name":     "Crisps",
		"category": "Snacks",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := suite.createdProductID(w)

	w = suite.request("POST", "/v1/products/"+id+"/ingredients", map[string]interface{}{
		"ingredients": []map[string]interface{}{
			{"name": "Potatoes", "quantity": 2.5, "unit": "kg"},
			{"name": "  "},
		},
	}, nil)
	suite.Equal(http.StatusCreated, w.Code)

	var count int64
	suite.db.Model(&models.Ingredient{}).Count(&count)
	suite.EqualValues(1, count)
}

func (suite *ProductAPITestSuite) TestSummary() {
	for _, name := range []string{"Crisps", "Cola"} {
		w := suite.request("POST", "/v1/products", map[string]interface{}{
			"name":     name,
			"category": "Beverages",
		}, nil)
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w := suite.request("GET", "/v1/products/summary", nil, nil)
	suite.Equal(http.StatusOK, w.Code)

	summary := suite.decode(w)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	suite.EqualValues(2, summary["product_count"])
	suite.EqualValues(0, summary["total_emissions"])
}

func (suite *ProductAPITestSuite) TestSessionProfileFlow() {
	w := suite.request("POST", "/v1/sessions", nil, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)

	session := suite.decode(w)["data"].(map[string]interface{})
	token := session["token"].(string)
	suite.NotEmpty(token)
	suite.Equal("Bearer", session["token_type"])

	auth := map[string]string{"Authorization": "Bearer " + token}

	w = suite.request("GET", "/v1/profile", nil, auth)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("PUT", "/v1/profile", map[string]interface{}{
		"email":   "ops@example.com",
		"company": "Crisps Co",
	}, auth)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/v1/profile", nil, auth)
	suite.Require().Equal(http.StatusOK, w.Code)
	user := suite.decode(w)["data"].(map[string]interface{})["user"].(map[string]interface{})
	suite.Equal("ops@example.com", user["email"])
	suite.Equal("Crisps Co", user["company"])
}

func (suite *ProductAPITestSuite) TestProfileRequiresSession() {
	w := suite.request("GET", "/v1/profile", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ProductAPITestSuite) TestReusedTokenKeepsOwnership() {
	w := suite.request("POST", "/v1/products", map[string]interface{}{
		"name":     "Crisps",
		"category": "Snacks",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)
	token := w.Header().Get("X-Session-Token")
	suite.Require().NotEmpty(token)

	w = suite.request("POST", "/v1/products", map[string]interface{}{
		"name":     "Cola",
		"category": "Beverages",
	}, map[string]string{"Authorization": "Bearer " + token})
	suite.Require().Equal(http.StatusCreated, w.Code)
	// a presented token is reused, not replaced
	suite.Empty(w.Header().Get("X-Session-Token"))

	var users int64
	suite.db.Model(&models.User{}).Count(&users)
	suite.EqualValues(1, users)
}

func (suite *ProductAPITestSuite) TestHealthEndpoint() {
	w := suite.request("GET", "/health", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "healthy")
}

func TestProductAPISuite(t *testing.T) {
	suite.Run(t, new(ProductAPITestSuite))
}
