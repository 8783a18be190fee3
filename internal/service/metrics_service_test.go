package service

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

type fakeMetricsRepo struct {
	sales []models.ProductSales
	err   error
}

func (f *fakeMetricsRepo) GetProductSales() ([]models.ProductSales, error) {
	return f.sales, f.err
}

func newMetricsService(repo *fakeMetricsRepo) *MetricsService {
	log := logger.New(logger.Config{Level: logger.LevelError, Output: "stderr"})
	return NewMetricsService(repo, log)
}

func TestGetMetrics(t *testing.T) {
	repo := &fakeMetricsRepo{sales: []models.ProductSales{
		{ProductID: "p2", ProductText: "Tarta", UnitsSold: 10, Revenue: decimal.RequireFromString("120.00")},
		{ProductID: "p1", ProductText: "Pan", UnitsSold: 40, Revenue: decimal.RequireFromString("48.00")},
	}}

	report, err := newMetricsService(repo).GetMetrics()

	require.NoError(t, err)
	require.Len(t, report.Products, 2)
	require.NotNil(t, report.BestSeller)
	assert.Equal(t, "p2", report.BestSeller.ProductID)
	assert.True(t, report.BestSeller.Revenue.Equal(decimal.RequireFromString("120.00")))
}

func TestGetMetricsEmpty(t *testing.T) {
	report, err := newMetricsService(&fakeMetricsRepo{}).GetMetrics()

	require.NoError(t, err)
	assert.Empty(t, report.Products)
	assert.Nil(t, report.BestSeller)
}

func TestGetMetricsRepoFailure(t *testing.T) {
	repo := &fakeMetricsRepo{err: errors.New("connection refused")}

	_, err := newMetricsService(repo).GetMetrics()
	assert.Error(t, err)
}
