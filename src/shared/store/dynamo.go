package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoRecord struct {
	K string `dynamodbav:"k"`
	V []byte `dynamodbav:"v"`
}

// Dynamo persists records in a DynamoDB table keyed by the encoded key.
type Dynamo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamo(client *dynamodb.Client, tableName string) *Dynamo {
	return &Dynamo{client: client, tableName: tableName}
}

func (s *Dynamo) Get(ctx context.Context, k Key) ([]byte, bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]dynamodbtypes.AttributeValue{
			"k": &dynamodbtypes.AttributeValueMemberS{Value: k.Encode()},
		},
	})
	if err != nil {
		return nil, false, err
	}
	if result.Item == nil {
		return nil, false, nil
	}
	var rec dynamoRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, false, err
	}
	return rec.V, true, nil
}

func (s *Dynamo) Has(ctx context.Context, k Key) (bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.tableName),
		ProjectionExpression: aws.String("#k"),
		ExpressionAttributeNames: map[string]string{
			"#k": "k",
		},
		Key: map[string]dynamodbtypes.AttributeValue{
			"k": &dynamodbtypes.AttributeValueMemberS{Value: k.Encode()},
		},
	})
	if err != nil {
		return false, err
	}
	return result.Item != nil, nil
}

func (s *Dynamo) Set(ctx context.Context, k Key, v []byte) error {
	item, err := attributevalue.MarshalMap(dynamoRecord{K: k.Encode(), V: v})
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	return err
}

func (s *Dynamo) Apply(ctx context.Context, puts []Put) error {
	if len(puts) == 0 {
		return nil
	}
	items := make([]dynamodbtypes.TransactWriteItem, 0, len(puts))
	for _, p := range puts {
		item, err := attributevalue.MarshalMap(dynamoRecord{K: p.Key.Encode(), V: p.Value})
		if err != nil {
			return err
		}
		items = append(items, dynamodbtypes.TransactWriteItem{
			Put: &dynamodbtypes.Put{
				TableName: aws.String(s.tableName),
				Item:      item,
			},
		})
	}
	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	return err
}
