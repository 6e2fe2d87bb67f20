package repository

import (
	"context"

	"garage_billing/internal/domain/entities"
	"garage_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPartsTableName = "parts"
	partsNumberIndex      = "part_number-index"
)

type partItem struct {
	ID            string `dynamodbav:"id"`
	Name          string `dynamodbav:"name"`
	Description   string `dynamodbav:"description"`
	PartNumber    string `dynamodbav:"part_number"`
	Category      string `dynamodbav:"category"`
	Price         string `dynamodbav:"price"`
	CostPrice     string `dynamodbav:"cost_price"`
	StockQuantity int    `dynamodbav:"stock_quantity"`
	MinStockLevel int    `dynamodbav:"min_stock_level"`
	Unit          string `dynamodbav:"unit"`
	Supplier      string `dynamodbav:"supplier"`
	Status        string `dynamodbav:"status"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

type PartDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPartRepository = (*PartDynamoRepository)(nil)

func NewPartDynamoRepository(ddb *dynamodb.Client) *PartDynamoRepository {
	return &PartDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PARTS_TABLE", defaultPartsTableName),
	}
}

func (r *PartDynamoRepository) Create(ctx context.Context, p entities.Part) (entities.Part, error) {
	av, err := attributevalue.MarshalMap(toPartItem(p))
	if err != nil {
		return entities.Part{}, err
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
		return entities.Part{}, err
	}
	return p, nil
}

func (r *PartDynamoRepository) GetByID(ctx context.Context, id string) (entities.Part, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Part{}, err
	}
	if len(out.Item) == 0 {
		return entities.Part{}, nil
	}

	var it partItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Part{}, err
	}
	return fromPartItem(it), nil
}

func (r *PartDynamoRepository) GetByPartNumber(ctx context.Context, partNumber string) (entities.Part, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(partsNumberIndex),
		KeyConditionExpression: aws.String("part_number = :pn"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pn": &types.AttributeValueMemberS{Value: partNumber},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Part{}, err
	}
	if len(out.Items) == 0 {
		return entities.Part{}, nil
	}

	var it partItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Part{}, err
	}
	return fromPartItem(it), nil
}

func (r *PartDynamoRepository) ListAll(ctx context.Context) ([]entities.Part, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	parts := make([]entities.Part, 0, len(out.Items))
	for _, item := range out.Items {
		var it partItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			return nil, err
		}
		parts = append(parts, fromPartItem(it))
	}
	return parts, nil
}

func (r *PartDynamoRepository) Save(ctx context.Context, p entities.Part) (entities.Part, error) {
	av, err := attributevalue.MarshalMap(toPartItem(p))
	if err != nil {
		return entities.Part{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Part{}, err
	}
	return p, nil
}

func (r *PartDynamoRepository) Delete(ctx context.Context, id string) (bool, error) {
	out, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(out.Attributes) > 0, nil
}

func toPartItem(p entities.Part) partItem {
	return partItem{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PartNumber:    p.PartNumber,
		Category:      p.Category,
		Price:         floatToString(p.Price),
		CostPrice:     floatToString(p.CostPrice),
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Unit:          p.Unit,
		Supplier:      p.Supplier,
		Status:        string(p.Status),
		CreatedAt:     timeToString(p.CreatedAt),
		UpdatedAt:     timeToString(p.UpdatedAt),
	}
}

func fromPartItem(it partItem) entities.Part {
	return entities.Part{
		ID:            it.ID,
		Name:          it.Name,
		Description:   it.Description,
		PartNumber:    it.PartNumber,
		Category:      it.Category,
		Price:         stringToFloat(it.Price),
		CostPrice:     stringToFloat(it.CostPrice),
		StockQuantity: it.StockQuantity,
		MinStockLevel: it.MinStockLevel,
		Unit:          it.Unit,
		Supplier:      it.Supplier,
		Status:        entities.PartStatus(it.Status),
		CreatedAt:     stringToTime(it.CreatedAt),
		UpdatedAt:     stringToTime(it.UpdatedAt),
	}
}
