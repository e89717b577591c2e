package samples

import (
	"context"
	"time"

	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	QueryRangeFunc  func(query string, start, end time.Time, step time.Duration, timeout time.Duration) (model.Matrix, v1.Warnings, error)
	LabelValuesFunc func(labelName string, start, end time.Time, timeout time.Duration) ([]string, v1.Warnings, error)
}

func (m *MockClient) QueryRange(_ context.Context, query string, start, end time.Time, step time.Duration, timeout time.Duration) (model.Matrix, v1.Warnings, error) {
	if m.QueryRangeFunc != nil {
		return m.QueryRangeFunc(query, start, end, step, timeout)
	}
	return nil, nil, nil
}

func (m *MockClient) LabelValues(_ context.Context, labelName string, start, end time.Time, timeout time.Duration) ([]string, v1.Warnings, error) {
	if m.LabelValuesFunc != nil {
		return m.LabelValuesFunc(labelName, start, end, timeout)
	}
	return nil, nil, nil
}
