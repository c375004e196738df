package dynamostore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/quote"
	"github.com/Simplici0/homequote/internal/store/storetest"
)

// fakeDynamo keeps items in memory and understands the expressions Store sends.
type fakeDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	scans    int
}

func newFake() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}, pageSize: 2}
}

func pk(key map[string]types.AttributeValue) string {
	return key["account_key"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[pk(in.Key)]}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := pk(in.Key)
	next := map[string]types.AttributeValue{"account_key": in.Key["account_key"]}
	for _, field := range []string{"account_name", "timestamp", "customer_info", "inputs", "results"} {
		next[field] = in.ExpressionAttributeValues[":"+field]
	}
	if prev, ok := f.items[id]; ok {
		next["created_at"] = prev["created_at"]
	} else {
		next["created_at"] = in.ExpressionAttributeValues[":created_at"]
	}
	f.items[id] = next
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := pk(in.Key)
	if _, ok := f.items[id]; !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := pk(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after) + 1
	}
	end := start + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, f.items[k])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{"account_key": &types.AttributeValueMemberS{Value: keys[end-1]}}
	}
	return out, nil
}

func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}

func newStore(t *testing.T, seeded ...quote.Record) quote.Store {
	t.Helper()

	s := New(newFake(), "", WithClock(tickingClock()))
	for _, r := range seeded {
		if err := s.Upsert(context.Background(), r); err != nil {
			t.Fatalf("seed estimate: %v", err)
		}
	}
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, newStore)
}

func TestList_PagesAndKeepsFirstSavedOrder(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	s := New(fake, "estimates", WithClock(tickingClock()))

	for _, key := range []string{"zeta", "Alpha", "mu", "beta", "ZETA"} {
		if err := s.Upsert(ctx, storetest.Record(key, key)); err != nil {
			t.Fatalf("Upsert %s: %v", key, err)
		}
	}

	rows, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"ZETA", "Alpha", "mu", "beta"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), rows)
	}
	for i, key := range want {
		if rows[i].Key != key {
			t.Fatalf("row %d key = %q, want %q", i, rows[i].Key, key)
		}
	}
	if fake.scans < 2 {
		t.Fatalf("expected paginated scan, got %d calls", fake.scans)
	}
}

func TestUpsert_NormalizesPartitionKey(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	s := New(fake, "", WithClock(tickingClock()))

	if err := s.Upsert(ctx, storetest.Record("  Reyes Residence ", "a")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, ok := fake.items["reyes residence"]; !ok {
		t.Fatalf("expected normalized partition key, have %v", fake.items)
	}
	if err := s.Upsert(ctx, storetest.Record("   ", "a")); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for blank key, got %v", err)
	}
}

type failingDynamo struct{ fakeDynamo }

func (*failingDynamo) GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return nil, errors.New("throttled")
}

func TestGet_WrapsClientErrors(t *testing.T) {
	_, err := New(&failingDynamo{}, "").Get(context.Background(), "Reyes")
	if err == nil || errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected client error, got %v", err)
	}
}
