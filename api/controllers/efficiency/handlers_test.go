package efficiency

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/spendwise-backend/api/middleware"
	efficiencysvc "github.com/angelmondragon/spendwise-backend/internal/efficiency"
	"github.com/angelmondragon/spendwise-backend/pkg/enums"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
)

const (
	testOrgID      = "0f8c7a52-4a4b-4e55-9d0c-8c4b8c0f1a01"
	testBUID       = "0f8c7a52-4a4b-4e55-9d0c-8c4b8c0f1a02"
	testLocationID = "0f8c7a52-4a4b-4e55-9d0c-8c4b8c0f1a03"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func withOrg(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithOrganization(req.Context(), testOrgID, testBUID))
}

func TestMetricsRequiresOrganizationContext(t *testing.T) {
	stub := &testEfficiencyService{}
	handler := Metrics(stub, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/efficiency", nil))

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Zero(t, stub.calls)
}

func TestMetricsParsesQueryFilter(t *testing.T) {
	stub := &testEfficiencyService{result: &efficiencysvc.Result{
		EfficiencyMetrics: []efficiencysvc.EfficiencyMetric{{ProductInfo: efficiencysvc.ProductInfo{ProductCode: "P-1"}}},
	}}
	handler := Metrics(stub, testLogger())

	target := "/api/v1/efficiency?from=2025-01-01&to=2025-03-31&location_id=" + testLocationID +
		"&document_type=invoice&product_code_filter=with_codes&q=olive,-spray&search_mode=and"
	req := withOrg(httptest.NewRequest(http.MethodGet, target, nil))
	req.Header.Set(middleware.ConsumerIDHeader, "dashboard-tab-1")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	filter := stub.last.Filter
	assert.Equal(t, testOrgID, filter.OrganizationID)
	assert.Equal(t, testBUID, filter.BusinessUnitID)
	require.NotNil(t, filter.From)
	require.NotNil(t, filter.To)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *filter.From)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), *filter.To)
	assert.Equal(t, []string{testLocationID}, filter.LocationIDs)
	assert.Equal(t, enums.DocumentTypeInvoice, filter.DocumentType)
	assert.Equal(t, enums.ProductCodeFilterWithCodes, filter.ProductCodeFilter)
	assert.Equal(t, []string{"olive", "-spray"}, filter.Search.Terms)
	assert.Equal(t, enums.SearchModeAnd, filter.Search.Mode)
	assert.Equal(t, "dashboard-tab-1", stub.last.ConsumerID)
	assert.Nil(t, stub.last.Chart)

	var envelope struct {
		Data efficiencysvc.Result `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data.EfficiencyMetrics, 1)
	assert.Equal(t, "P-1", envelope.Data.EfficiencyMetrics[0].ProductCode)
}

func TestMetricsRejectsInvalidQuery(t *testing.T) {
	cases := map[string]string{
		"bad date":          "from=01/02/2025&to=2025-02-01",
		"bad location":      "location_id=kitchen",
		"bad chart":         "product_code=P-1&location=kitchen",
		"bad document type": "document_type=receipt",
		"bad search mode":   "search_mode=XOR",
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			stub := &testEfficiencyService{result: &efficiencysvc.Result{}}
			resp := httptest.NewRecorder()
			Metrics(stub, testLogger()).ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodGet, "/?"+query, nil)))
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Zero(t, stub.calls)
		})
	}
}

func TestMetricsSupersededReturnsNoContent(t *testing.T) {
	stub := &testEfficiencyService{}
	resp := httptest.NewRecorder()
	Metrics(stub, testLogger()).ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, 1, stub.calls)
}

func TestMetricsPropagatesServiceError(t *testing.T) {
	stub := &testEfficiencyService{err: errors.New("boom")}
	resp := httptest.NewRecorder()
	Metrics(stub, testLogger()).ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestQueryDecodesBodyWithChart(t *testing.T) {
	stub := &testEfficiencyService{result: &efficiencysvc.Result{}}
	body := `{"from":"2025-01-01","to":"2025-01-31","search_terms":["oil"],"chart":{"product_code":" P-9 ","location_id":"` + testLocationID + `"}}`
	req := withOrg(httptest.NewRequest(http.MethodPost, "/api/v1/efficiency/query", strings.NewReader(body)))

	resp := httptest.NewRecorder()
	Query(stub, testLogger()).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	require.NotNil(t, stub.last.Chart)
	assert.Equal(t, "P-9", stub.last.Chart.ProductCode)
	assert.Equal(t, testLocationID, stub.last.Chart.LocationID)
	assert.Equal(t, []string{"oil"}, stub.last.Filter.Search.Terms)
}

func TestQueryRejectsChartWithoutProduct(t *testing.T) {
	stub := &testEfficiencyService{result: &efficiencysvc.Result{}}
	req := withOrg(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"chart":{"location_id":"`+testLocationID+`"}}`)))

	resp := httptest.NewRecorder()
	Query(stub, testLogger()).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, stub.calls)
}

func TestInefficientAppliesLimit(t *testing.T) {
	stub := &testEfficiencyService{ranking: &efficiencysvc.Ranking{TotalPotentialSavings: 42}}
	handler := Inefficient(stub, 10, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 10, stub.lastLimit)

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodGet, "/?limit=25", nil)))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 25, stub.lastLimit)

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodGet, "/?limit=51", nil)))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func chartRequestFor(t *testing.T, target string) *http.Request {
	t.Helper()
	req := withOrg(httptest.NewRequest(http.MethodGet, target, nil))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productCode", "P-1")
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestChartReturnsProductChart(t *testing.T) {
	stub := &testEfficiencyService{result: &efficiencysvc.Result{
		ProductChart: &efficiencysvc.ProductChart{OverallEfficiency: 87.5},
	}}

	resp := httptest.NewRecorder()
	Chart(stub, testLogger()).ServeHTTP(resp, chartRequestFor(t, "/?location="+testLocationID))
	require.Equal(t, http.StatusOK, resp.Code)

	require.NotNil(t, stub.last.Chart)
	assert.Equal(t, "P-1", stub.last.Chart.ProductCode)
	assert.Equal(t, testLocationID, stub.last.Chart.LocationID)

	var envelope struct {
		Data efficiencysvc.ProductChart `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, 87.5, envelope.Data.OverallEfficiency)
}

func TestChartMissingSeriesIsNotFound(t *testing.T) {
	stub := &testEfficiencyService{result: &efficiencysvc.Result{}}

	resp := httptest.NewRecorder()
	Chart(stub, testLogger()).ServeHTTP(resp, chartRequestFor(t, "/"))

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestExportWritesAttachment(t *testing.T) {
	now := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	timeNowUTC = func() time.Time { return now }
	defer func() { timeNowUTC = func() time.Time { return time.Now().UTC() } }()

	stub := &testEfficiencyService{workbook: []byte("PK")}
	resp := httptest.NewRecorder()
	Export(stub, testLogger()).ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodGet, "/", nil)))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, xlsxContentType, resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "efficiency-2025-04-02.xlsx")
	assert.Equal(t, "PK", resp.Body.String())
}

func TestInvalidateBumpsGeneration(t *testing.T) {
	cache := &testResultCache{}
	resp := httptest.NewRecorder()
	Invalidate(cache, testLogger()).ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodPost, "/", nil)))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{testOrgID}, cache.invalidated)

	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, int64(1), envelope.Data["generation"])
}

func TestInvalidateDependencyFailure(t *testing.T) {
	cache := &testResultCache{err: errors.New("redis down")}
	resp := httptest.NewRecorder()
	Invalidate(cache, testLogger()).ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodPost, "/", nil)))

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestMetricsChartsProductCodeParameter(t *testing.T) {
	stub := &testEfficiencyService{result: &efficiencysvc.Result{}}
	req := withOrg(httptest.NewRequest(http.MethodGet, "/?product_code=P-4&location="+testLocationID, nil))

	resp := httptest.NewRecorder()
	Metrics(stub, testLogger()).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	require.NotNil(t, stub.last.Chart)
	assert.Equal(t, "P-4", stub.last.Chart.ProductCode)
	assert.Equal(t, testLocationID, stub.last.Chart.LocationID)
}

func TestBusinessUnitParameterMustMatchToken(t *testing.T) {
	stub := &testEfficiencyService{result: &efficiencysvc.Result{}}
	other := "0f8c7a52-4a4b-4e55-9d0c-8c4b8c0f1a99"

	resp := httptest.NewRecorder()
	Metrics(stub, testLogger()).ServeHTTP(resp, withOrg(httptest.NewRequest(http.MethodGet, "/?business_unit_id="+other, nil)))
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Zero(t, stub.calls)

	req := httptest.NewRequest(http.MethodGet, "/?business_unit_id="+other, nil)
	req = req.WithContext(middleware.WithOrganization(req.Context(), testOrgID, ""))
	resp = httptest.NewRecorder()
	Metrics(stub, testLogger()).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, other, stub.last.Filter.BusinessUnitID)
}
