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

const defaultServicesTableName = "services"

type catalogServiceItem struct {
	ID          string `dynamodbav:"id"`
	Name        string `dynamodbav:"name"`
	Description string `dynamodbav:"description"`
	Price       string `dynamodbav:"price"`
	Active      bool   `dynamodbav:"active"`
	Duration    int    `dynamodbav:"duration"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
}

type ServiceCatalogDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IServiceCatalogRepository = (*ServiceCatalogDynamoRepository)(nil)

func NewServiceCatalogDynamoRepository(ddb *dynamodb.Client) *ServiceCatalogDynamoRepository {
	return &ServiceCatalogDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("SERVICES_TABLE", defaultServicesTableName),
	}
}

func (r *ServiceCatalogDynamoRepository) Create(ctx context.Context, s entities.CatalogService) (entities.CatalogService, error) {
	av, err := attributevalue.MarshalMap(toCatalogServiceItem(s))
	if err != nil {
		return entities.CatalogService{}, err
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
		return entities.CatalogService{}, err
	}
	return s, nil
}

func (r *ServiceCatalogDynamoRepository) GetByID(ctx context.Context, id string) (entities.CatalogService, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.CatalogService{}, err
	}
	if len(out.Item) == 0 {
		return entities.CatalogService{}, nil
	}

	var it catalogServiceItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.CatalogService{}, err
	}
	return fromCatalogServiceItem(it), nil
}

func (r *ServiceCatalogDynamoRepository) ListAll(ctx context.Context) ([]entities.CatalogService, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	services := make([]entities.CatalogService, 0, len(out.Items))
	for _, item := range out.Items {
		var it catalogServiceItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			return nil, err
		}
		services = append(services, fromCatalogServiceItem(it))
	}
	return services, nil
}

func (r *ServiceCatalogDynamoRepository) Save(ctx context.Context, s entities.CatalogService) (entities.CatalogService, error) {
	av, err := attributevalue.MarshalMap(toCatalogServiceItem(s))
	if err != nil {
		return entities.CatalogService{}, err
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
		return entities.CatalogService{}, err
	}
	return s, nil
}

func (r *ServiceCatalogDynamoRepository) Delete(ctx context.Context, id string) (bool, error) {
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

func toCatalogServiceItem(s entities.CatalogService) catalogServiceItem {
	return catalogServiceItem{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       floatToString(s.Price),
		Active:      s.Active,
		Duration:    s.Duration,
		CreatedAt:   timeToString(s.CreatedAt),
		UpdatedAt:   timeToString(s.UpdatedAt),
	}
}

func fromCatalogServiceItem(it catalogServiceItem) entities.CatalogService {
	return entities.CatalogService{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       stringToFloat(it.Price),
		Active:      it.Active,
		Duration:    it.Duration,
		CreatedAt:   stringToTime(it.CreatedAt),
		UpdatedAt:   stringToTime(it.UpdatedAt),
	}
}
