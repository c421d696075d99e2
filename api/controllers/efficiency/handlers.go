package efficiency

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/spendwise-backend/api/middleware"
	"github.com/angelmondragon/spendwise-backend/api/responses"
	"github.com/angelmondragon/spendwise-backend/api/validators"
	efficiencysvc "github.com/angelmondragon/spendwise-backend/internal/efficiency"
	pkgerrors "github.com/angelmondragon/spendwise-backend/pkg/errors"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// Metrics returns every scored product-location pair matching the query string filter,
// plus the chart of product_code when given.
func Metrics(service efficiencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		params, err := filterFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filter, err := params.toFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		chart, err := chartFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Compute(ctx, requestFor(r, filter, chart))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if result == nil {
			responses.WriteNoContent(w)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Query computes metrics for a JSON filter, optionally charting one product.
func Query(service efficiencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var body queryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filter, err := body.toFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var chart *efficiencysvc.ChartTarget
		if body.Chart != nil {
			chart = body.Chart.toTarget()
		}

		result, err := service.Compute(ctx, requestFor(r, filter, chart))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if result == nil {
			responses.WriteNoContent(w)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Inefficient returns the lowest scoring products with their potential savings.
func Inefficient(service efficiencysvc.Service, defaultLimit int, logg *logger.Logger) http.HandlerFunc {
	if defaultLimit <= 0 {
		defaultLimit = efficiencysvc.DefaultRankingLimit
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, maxRankingSize)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params, err := filterFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filter, err := params.toFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ranking, err := service.Inefficient(ctx, requestFor(r, filter, nil), limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if ranking == nil {
			responses.WriteNoContent(w)
			return
		}
		responses.WriteSuccess(w, ranking)
	}
}

// Chart returns the smoothed series of one product, narrowed by location when given.
func Chart(service efficiencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		code := strings.TrimSpace(chi.URLParam(r, "productCode"))
		if code == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product code required"))
			return
		}
		target := chartRequest{
			ProductCode: code,
			LocationID:  strings.TrimSpace(r.URL.Query().Get("location")),
		}
		if err := validators.ValidateStruct(&target); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params, err := filterFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filter, err := params.toFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Compute(ctx, requestFor(r, filter, target.toTarget()))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if result == nil {
			responses.WriteNoContent(w)
			return
		}
		if result.ProductChart == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no series for product"))
			return
		}
		responses.WriteSuccess(w, result.ProductChart)
	}
}

// Export streams the metrics and their series as an xlsx workbook.
func Export(service efficiencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		params, err := filterFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filter, err := params.toFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payload, err := service.Export(ctx, requestFor(r, filter, nil))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if payload == nil {
			responses.WriteNoContent(w)
			return
		}
		filename := fmt.Sprintf("efficiency-%s.xlsx", timeNowUTC().Format(dateLayout))
		responses.WriteAttachment(w, xlsxContentType, filename, payload)
	}
}

// Invalidate drops every cached result of the caller's organization.
func Invalidate(cache efficiencysvc.ResultCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cache == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "result cache disabled"))
			return
		}
		organizationID := middleware.OrganizationIDFromContext(ctx)
		if organizationID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "organization context required"))
			return
		}

		generation, err := cache.Invalidate(ctx, organizationID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalidate result cache"))
			return
		}
		logg.Info(logg.WithField(ctx, "generation", generation), "efficiency cache invalidated")
		responses.WriteSuccess(w, map[string]int64{"generation": generation})
	}
}
