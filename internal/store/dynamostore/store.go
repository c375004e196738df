// Package dynamostore keeps estimate records in a DynamoDB table.
//
// Table requirements:
//   - PK: account_key (string), the trimmed lower-cased account name
//
// Because the key is normalized, a table can never hold two records for the
// same account name.
package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Simplici0/homequote/internal/apperr"
	"github.com/Simplici0/homequote/internal/quote"
)

// DefaultTable is used when no table name is configured.
const DefaultTable = "estimates"

// createdLayout is fixed width so created_at sorts lexically.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

// API is the subset of the DynamoDB client the store calls.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type item struct {
	AccountKey   string `dynamodbav:"account_key"`
	AccountName  string `dynamodbav:"account_name"`
	Timestamp    string `dynamodbav:"timestamp"`
	CustomerInfo string `dynamodbav:"customer_info"`
	Inputs       string `dynamodbav:"inputs"`
	Results      string `dynamodbav:"results"`
	CreatedAt    string `dynamodbav:"created_at"`
}

func (it item) record() quote.Record {
	return quote.Record{
		Key:          it.AccountName,
		Timestamp:    it.Timestamp,
		CustomerInfo: it.CustomerInfo,
		Inputs:       it.Inputs,
		Results:      it.Results,
	}
}

// Store is a quote.Store over one DynamoDB table.
type Store struct {
	ddb   API
	table string
	now   func() time.Time
}

var _ quote.Store = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store over table. An empty table name uses DefaultTable.
func New(ddb API, table string, opts ...Option) *Store {
	if table == "" {
		table = DefaultTable
	}
	s := &Store{ddb: ddb, table: table, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeKey maps an account name to its partition key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"account_key": &types.AttributeValueMemberS{Value: NormalizeKey(key)},
	}
}

// List scans the table and returns records in first-saved order.
func (s *Store) List(ctx context.Context) ([]quote.Record, error) {
	var items []item
	p := dynamodb.NewScanPaginator(s.ddb, &dynamodb.ScanInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan estimates: %w", err)
		}
		var batch []item
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("decode estimates: %w", err)
		}
		items = append(items, batch...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].AccountKey < items[j].AccountKey
	})

	out := make([]quote.Record, 0, len(items))
	for _, it := range items {
		out = append(out, it.record())
	}
	return out, nil
}

// Get reads the record for key.
func (s *Store) Get(ctx context.Context, key string) (quote.Record, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            keyAttr(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return quote.Record{}, fmt.Errorf("get estimate: %w", err)
	}
	if len(out.Item) == 0 {
		return quote.Record{}, apperr.ErrNotFound
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return quote.Record{}, fmt.Errorf("decode estimate: %w", err)
	}
	return it.record(), nil
}

// Upsert writes r in place. created_at is set only on the first write so
// replaced records keep their list position.
func (s *Store) Upsert(ctx context.Context, r quote.Record) error {
	if NormalizeKey(r.Key) == "" {
		return apperr.Invalid("account_name", "is required")
	}

	_, err := s.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key:       keyAttr(r.Key),
		UpdateExpression: aws.String("SET #account_name = :account_name, #timestamp = :timestamp, " +
			"#customer_info = :customer_info, #inputs = :inputs, #results = :results, " +
			"#created_at = if_not_exists(#created_at, :created_at)"),
		ExpressionAttributeNames: map[string]string{
			"#account_name":  "account_name",
			"#timestamp":     "timestamp",
			"#customer_info": "customer_info",
			"#inputs":        "inputs",
			"#results":       "results",
			"#created_at":    "created_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":account_name":  &types.AttributeValueMemberS{Value: r.Key},
			":timestamp":     &types.AttributeValueMemberS{Value: r.Timestamp},
			":customer_info": &types.AttributeValueMemberS{Value: r.CustomerInfo},
			":inputs":        &types.AttributeValueMemberS{Value: r.Inputs},
			":results":       &types.AttributeValueMemberS{Value: r.Results},
			":created_at":    &types.AttributeValueMemberS{Value: s.now().UTC().Format(createdLayout)},
		},
	})
	if err != nil {
		return fmt.Errorf("put estimate: %w", err)
	}
	return nil
}

// Delete removes the record for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 keyAttr(key),
		ConditionExpression: aws.String("attribute_exists(#account_key)"),
		ExpressionAttributeNames: map[string]string{
			"#account_key": "account_key",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("delete estimate: %w", err)
	}
	return nil
}
