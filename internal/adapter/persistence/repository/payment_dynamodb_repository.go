package repository

import (
	"context"
	"encoding/json"
	"errors"

	"garage_billing/internal/domain/entities"
	"garage_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentsTableName = "payments"
	paymentsWorkOrderIndex   = "work_order_id-index"
)

type paymentItem struct {
	ID          string `dynamodbav:"id"`
	QuoteID     string `dynamodbav:"quote_id"`
	WorkOrderID string `dynamodbav:"work_order_id"`
	CustomerID  string `dynamodbav:"customer_id"`
	Amount      string `dynamodbav:"amount"`
	Method      string `dynamodbav:"payment_method"`
	Status      string `dynamodbav:"status"`

	GatewayID       string `dynamodbav:"gateway_id,omitempty"`
	GatewayStatus   string `dynamodbav:"gateway_status,omitempty"`
	GatewayResponse string `dynamodbav:"gateway_response,omitempty"`

	ApprovedAt     string `dynamodbav:"approved_at,omitempty"`
	LastError      string `dynamodbav:"last_error,omitempty"`
	LastErrorAt    string `dynamodbav:"last_error_at,omitempty"`
	Version        int64  `dynamodbav:"version"`
	CreatedAt      string `dynamodbav:"created_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
}

// PaymentDynamoRepository persists Payment entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: work_order_id-index (PK: work_order_id)
//
// Gateway payload:
//   - gateway_response keeps the original provider body (JSON) for audit.

type PaymentDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb *dynamodb.Client) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PAYMENTS_TABLE", defaultPaymentsTableName),
	}
}

func (r *PaymentDynamoRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	it := toPaymentItem(p)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Payment{}, err
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
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func (r *PaymentDynamoRepository) ListByWorkOrderID(ctx context.Context, workOrderID string) ([]entities.Payment, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsWorkOrderIndex),
		KeyConditionExpression: aws.String("work_order_id = :wid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":wid": &types.AttributeValueMemberS{Value: workOrderID},
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalPayments(out.Items)
}

func (r *PaymentDynamoRepository) ListAll(ctx context.Context) ([]entities.Payment, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	return unmarshalPayments(out.Items)
}

func (r *PaymentDynamoRepository) Save(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	it := toPaymentItem(p)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Payment{}, err
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
			":prev": &types.AttributeValueMemberN{Value: int64ToString(p.Version - 1)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Payment{}, nil
		}
		return entities.Payment{}, err
	}
	return p, nil
}

func unmarshalPayments(raw []map[string]types.AttributeValue) ([]entities.Payment, error) {
	payments := make([]entities.Payment, 0, len(raw))
	for _, item := range raw {
		var it paymentItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			return nil, err
		}
		payments = append(payments, fromPaymentItem(it))
	}
	return payments, nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	it := paymentItem{
		ID:              p.ID,
		QuoteID:         p.QuoteID,
		WorkOrderID:     p.WorkOrderID,
		CustomerID:      p.CustomerID,
		Amount:          floatToString(p.Amount),
		Method:          string(p.Method),
		Status:          string(p.Status),
		GatewayID:       p.GatewayID,
		GatewayStatus:   p.GatewayStatus,
		GatewayResponse: string(p.GatewayResponse),
		ApprovedAt:      timePtrToString(p.ApprovedAt),
		Version:         p.Version,
		CreatedAt:       timeToString(p.CreatedAt),
		UpdatedAt:       timeToString(p.UpdatedAt),
	}
	if p.LastError != nil {
		it.LastError = p.LastError.Message
		it.LastErrorAt = timeToString(p.LastError.OccurredAt)
	}
	return it
}

func fromPaymentItem(it paymentItem) entities.Payment {
	p := entities.Payment{
		ID:            it.ID,
		QuoteID:       it.QuoteID,
		WorkOrderID:   it.WorkOrderID,
		CustomerID:    it.CustomerID,
		Amount:        stringToFloat(it.Amount),
		Method:        entities.PaymentMethod(it.Method),
		Status:        entities.PaymentStatus(it.Status),
		GatewayID:     it.GatewayID,
		GatewayStatus: it.GatewayStatus,
		ApprovedAt:    stringToTimePtr(it.ApprovedAt),
		Version:       it.Version,
		CreatedAt:     stringToTime(it.CreatedAt),
		UpdatedAt:     stringToTime(it.UpdatedAt),
	}
	if it.GatewayResponse != "" {
		p.GatewayResponse = json.RawMessage(it.GatewayResponse)
	}
	if it.LastError != "" {
		p.LastError = &entities.PaymentError{
			Message:    it.LastError,
			OccurredAt: stringToTime(it.LastErrorAt),
		}
	}
	return p
}
