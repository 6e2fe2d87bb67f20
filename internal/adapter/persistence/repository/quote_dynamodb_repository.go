package repository

import (
	"context"
	"errors"

	"garage_billing/internal/domain/entities"
	"garage_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultQuotesTableName = "quotes"
	quotesWorkOrderIndex   = "work_order_id-index"
)

type quoteItemLine struct {
	Name        string `dynamodbav:"name"`
	Description string `dynamodbav:"description"`
	Quantity    int    `dynamodbav:"quantity"`
	UnitPrice   string `dynamodbav:"unit_price"`
}

type quoteItem struct {
	ID          string          `dynamodbav:"id"`
	WorkOrderID string          `dynamodbav:"work_order_id"`
	CustomerID  string          `dynamodbav:"customer_id"`
	Items       []quoteItemLine `dynamodbav:"items"`
	TotalAmount string          `dynamodbav:"total_amount"`
	Status      string          `dynamodbav:"status"`
	ValidUntil  string          `dynamodbav:"valid_until"`
	ApprovedAt  string          `dynamodbav:"approved_at,omitempty"`
	Version     int64           `dynamodbav:"version"`
	CreatedAt   string          `dynamodbav:"created_at"`
	UpdatedAt   string          `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists Quote entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: work_order_id-index (PK: work_order_id)
//
// Save is conditioned on the previous version so that concurrent transitions of
// the same quote (e.g. a racing approve and reject) cannot overwrite each other.

type QuoteDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb *dynamodb.Client) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("QUOTES_TABLE", defaultQuotesTableName),
	}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	it := toQuoteItem(q)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Quote{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func (r *QuoteDynamoRepository) ListByWorkOrderID(ctx context.Context, workOrderID string) ([]entities.Quote, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(quotesWorkOrderIndex),
		KeyConditionExpression: aws.String("work_order_id = :wid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":wid": &types.AttributeValueMemberS{Value: workOrderID},
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalQuotes(out.Items)
}

func (r *QuoteDynamoRepository) ListAll(ctx context.Context) ([]entities.Quote, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	return unmarshalQuotes(out.Items)
}

// Save writes the full item conditioned on the stored version being the one the
// caller mutated from. A lost race yields a zero-value entity, not an error.
func (r *QuoteDynamoRepository) Save(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	it := toQuoteItem(q)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Quote{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :prev"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prev": &types.AttributeValueMemberN{Value: int64ToString(q.Version - 1)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Quote{}, nil
		}
		return entities.Quote{}, err
	}
	return q, nil
}

func unmarshalQuotes(raw []map[string]types.AttributeValue) ([]entities.Quote, error) {
	quotes := make([]entities.Quote, 0, len(raw))
	for _, item := range raw {
		var it quoteItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			return nil, err
		}
		quotes = append(quotes, fromQuoteItem(it))
	}
	return quotes, nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	lines := make([]quoteItemLine, 0, len(q.Items))
	for _, l := range q.Items {
		lines = append(lines, quoteItemLine{
			Name:        l.Name,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   floatToString(l.UnitPrice),
		})
	}
	return quoteItem{
		ID:          q.ID,
		WorkOrderID: q.WorkOrderID,
		CustomerID:  q.CustomerID,
		Items:       lines,
		TotalAmount: floatToString(q.TotalAmount),
		Status:      string(q.Status),
		ValidUntil:  timeToString(q.ValidUntil),
		ApprovedAt:  timePtrToString(q.ApprovedAt),
		Version:     q.Version,
		CreatedAt:   timeToString(q.CreatedAt),
		UpdatedAt:   timeToString(q.UpdatedAt),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	items := make([]entities.QuoteItem, 0, len(it.Items))
	for _, l := range it.Items {
		items = append(items, entities.QuoteItem{
			Name:        l.Name,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   stringToFloat(l.UnitPrice),
		})
	}
	return entities.Quote{
		ID:          it.ID,
		WorkOrderID: it.WorkOrderID,
		CustomerID:  it.CustomerID,
		Items:       items,
		TotalAmount: stringToFloat(it.TotalAmount),
		Status:      entities.QuoteStatus(it.Status),
		ValidUntil:  stringToTime(it.ValidUntil),
		ApprovedAt:  stringToTimePtr(it.ApprovedAt),
		Version:     it.Version,
		CreatedAt:   stringToTime(it.CreatedAt),
		UpdatedAt:   stringToTime(it.UpdatedAt),
	}
}
