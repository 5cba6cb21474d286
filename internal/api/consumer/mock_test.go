package consumer

import (
	"context"

	"github.com/Zereker/vecdb/pkg/vector"
)

type upsertCall struct {
	Records   []vector.Record
	Namespace string
}

type deleteCall struct {
	IDs       []string
	Namespace string
}

// MockIndex 用于测试的 vector.Index，记录调用并返回 Status 对应的响应
type MockIndex struct {
	Status int
	Err    error

	UpsertCalls     []upsertCall
	DeleteCalls     []deleteCall
	DeleteBulkCalls []deleteCall
	DeleteAllCalls  []string
}

var _ vector.Index = (*MockIndex)(nil)

func NewMockIndex() *MockIndex {
	return &MockIndex{Status: 200}
}

func (m *MockIndex) respond() (*vector.Response, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return vector.NewResponse(m.Status, nil, []byte(`{"message":"mock"}`)), nil
}

func (m *MockIndex) DescribeIndexStats(context.Context) (*vector.Response, error) {
	return m.respond()
}

func (m *MockIndex) Query(context.Context, vector.QueryParams) (*vector.Response, error) {
	return m.respond()
}

func (m *MockIndex) Upsert(_ context.Context, records []vector.Record, namespace string) (*vector.Response, error) {
	m.UpsertCalls = append(m.UpsertCalls, upsertCall{records, namespace})
	return m.respond()
}

func (m *MockIndex) Delete(_ context.Context, id string, namespace string) (*vector.Response, error) {
	m.DeleteCalls = append(m.DeleteCalls, deleteCall{[]string{id}, namespace})
	return m.respond()
}

func (m *MockIndex) DeleteBulk(_ context.Context, ids []string, namespace string) (*vector.Response, error) {
	m.DeleteBulkCalls = append(m.DeleteBulkCalls, deleteCall{ids, namespace})
	return m.respond()
}

func (m *MockIndex) DeleteAll(_ context.Context, namespace string) (*vector.Response, error) {
	m.DeleteAllCalls = append(m.DeleteAllCalls, namespace)
	return m.respond()
}

// MockLedger 内存 Ledger
type MockLedger struct {
	applied map[string]bool
	Err     error
	Marks   []string
}

func NewMockLedger(applied ...string) *MockLedger {
	l := &MockLedger{applied: make(map[string]bool)}
	for _, id := range applied {
		l.applied[id] = true
	}
	return l
}

func (l *MockLedger) Applied(_ context.Context, id string) (bool, error) {
	if l.Err != nil {
		return false, l.Err
	}
	return l.applied[id], nil
}

func (l *MockLedger) MarkApplied(_ context.Context, id string) error {
	if l.Err != nil {
		return l.Err
	}
	l.Marks = append(l.Marks, id)
	l.applied[id] = true
	return nil
}
