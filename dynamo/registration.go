package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/samuelfgs/isv-run/registration"
	"github.com/samuelfgs/isv-run/slices"
)

var _ registration.Repository = &DB{}

type participantDynamo struct {
	Name      string
	CPF       string
	BirthDate string
	Gender    string
	ShirtSize string
	Modality  string
}

type metadataDynamo struct {
	People              []participantDynamo
	Price               int64
	TotalQuantity       int
	TotalPrice          int64
	RunCount            int
	WalkCount           int
	ModalityDescription string
	InitPoint           string
}

type registrationDynamo struct {
	PK     string
	SK     string
	GSI1PK string
	GSI1SK string

	ID            uuid.UUID
	Name          string
	CPF           string
	Email         string
	MercadoPagoID string
	EmailSent     bool
	Metadata      metadataDynamo
}

const (
	registrationEntityName = "REGISTRATION"
	referenceEntityName    = "MPREF"
)

func registrationPK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", registrationEntityName, id)
}

func referenceGSI1PK(mercadoPagoID string) string {
	return fmt.Sprintf("%s#%s", referenceEntityName, mercadoPagoID)
}

func registrationToDynamo(reg registration.Registration) registrationDynamo {
	return registrationDynamo{
		PK:            registrationPK(reg.ID),
		SK:            registrationPK(reg.ID),
		GSI1PK:        referenceGSI1PK(reg.MercadoPagoID),
		GSI1SK:        referenceGSI1PK(reg.MercadoPagoID),
		ID:            reg.ID,
		Name:          reg.Name,
		CPF:           reg.CPF,
		Email:         reg.Email,
		MercadoPagoID: reg.MercadoPagoID,
		EmailSent:     reg.EmailSent,
		Metadata: metadataDynamo{
			People: slices.Map(reg.Metadata.People, func(p registration.Participant) participantDynamo {
				return participantDynamo{
					Name:      p.Name,
					CPF:       p.CPF,
					BirthDate: p.BirthDate,
					Gender:    p.Gender,
					ShirtSize: p.ShirtSize,
					Modality:  string(p.Modality),
				}
			}),
			Price:               reg.Metadata.Price,
			TotalQuantity:       reg.Metadata.TotalQuantity,
			TotalPrice:          reg.Metadata.TotalPrice,
			RunCount:            reg.Metadata.RunCount,
			WalkCount:           reg.Metadata.WalkCount,
			ModalityDescription: reg.Metadata.ModalityDescription,
			InitPoint:           reg.Metadata.InitPoint,
		},
	}
}

func dynamoToRegistration(dynReg registrationDynamo) registration.Registration {
	return registration.Registration{
		ID:            dynReg.ID,
		Name:          dynReg.Name,
		CPF:           dynReg.CPF,
		Email:         dynReg.Email,
		MercadoPagoID: dynReg.MercadoPagoID,
		EmailSent:     dynReg.EmailSent,
		Metadata: registration.Metadata{
			People: slices.Map(dynReg.Metadata.People, func(p participantDynamo) registration.Participant {
				return registration.Participant{
					Name:      p.Name,
					CPF:       p.CPF,
					BirthDate: p.BirthDate,
					Gender:    p.Gender,
					ShirtSize: p.ShirtSize,
					Modality:  registration.Modality(p.Modality),
				}
			}),
			Price:               dynReg.Metadata.Price,
			TotalQuantity:       dynReg.Metadata.TotalQuantity,
			TotalPrice:          dynReg.Metadata.TotalPrice,
			RunCount:            dynReg.Metadata.RunCount,
			WalkCount:           dynReg.Metadata.WalkCount,
			ModalityDescription: dynReg.Metadata.ModalityDescription,
			InitPoint:           dynReg.Metadata.InitPoint,
		},
	}
}

func (d *DB) CreateRegistration(ctx context.Context, reg registration.Registration) error {
	dynamoReg := registrationToDynamo(reg)

	item, err := attributevalue.MarshalMap(dynamoReg)
	if err != nil {
		return registration.NewFailedToTranslateToDBModelError("Failed to translate registration to dynamo model", err)
	}

	expr := exprMustBuild(expression.NewBuilder().WithCondition(newEntityConditional()))

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condFailedErr *types.ConditionalCheckFailedException
		if errors.As(err, &condFailedErr) {
			return registration.NewRegistrationAlreadyExistsError(fmt.Sprintf("Registration with ID %q already exists", reg.ID), err)
		}
		return registration.NewFailedToWriteError("Failed PutItem call", err)
	}

	return nil
}

func (d *DB) GetRegistration(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK(id)},
			"SK": &types.AttributeValueMemberS{Value: registrationPK(id)},
		},
	})
	if err != nil {
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration with id %q", id), err)
	}

	if len(resp.Item) == 0 {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistError(fmt.Sprintf("Registration with id %q not found", id), nil)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(dynReg), nil
}

func (d *DB) GetRegistrationByReference(ctx context.Context, mercadoPagoID string) (registration.Registration, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(referenceGSI1PK(mercadoPagoID)))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build dynamo key expression: %s", err))
	}

	result, err := d.dynamoClient.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(d.tableName),
		IndexName:                 aws.String(gsi1),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration with reference %q", mercadoPagoID), err)
	}

	if len(result.Items) == 0 {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistError(fmt.Sprintf("Registration with reference %q not found", mercadoPagoID), nil)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(result.Items[0], &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(dynReg), nil
}

// MarkEmailSent is the conditional update guarding the exactly-once email
// dispatch: it only succeeds while EmailSent is still false.
func (d *DB) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	expr := exprMustBuild(expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("EmailSent"), expression.Value(true))).
		WithCondition(emailNotSentConditional()))

	_, err := d.dynamoClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK(id)},
			"SK": &types.AttributeValueMemberS{Value: registrationPK(id)},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condFailedErr *types.ConditionalCheckFailedException
		if errors.As(err, &condFailedErr) {
			return registration.NewEmailAlreadySentError(fmt.Sprintf("Email already marked sent for registration %q", id))
		}
		return registration.NewFailedToWriteError("Failed UpdateItem call", err)
	}

	return nil
}

func (d *DB) GetRegistrations(ctx context.Context, limit int32, cursor *string) (registration.GetRegistrationsResponse, error) {
	var startKey map[string]types.AttributeValue
	if cursor != nil {
		var err error
		startKey, err = decodeCursor(*cursor)
		if err != nil {
			return registration.GetRegistrationsResponse{}, registration.NewInvalidCursorError("Invalid cursor", err)
		}
	}

	result, err := d.dynamoClient.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(d.tableName),
		// Fetch 1 more than limit to check if there is another page or not
		Limit:             aws.Int32(limit + 1),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return registration.GetRegistrationsResponse{}, registration.NewFailedToFetchError("Failed to fetch registrations from dynamo", err)
	}

	var dynamoItems []registrationDynamo
	err = attributevalue.UnmarshalListOfMaps(result.Items, &dynamoItems)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal dynamo registrations: %s", err))
	}

	hasNextPage := len(dynamoItems) > int(limit)

	var newCursor *string
	if hasNextPage && len(result.LastEvaluatedKey) > 0 {
		// Can't use LastEvaluatedKey directly because we grabbed an extra item
		// to check for the next page
		lastItemGivenToUser := result.Items[len(result.Items)-2]
		lastItemKey := keyFromItem(result.LastEvaluatedKey, lastItemGivenToUser)
		c, err := encodeCursor(lastItemKey)
		if err != nil {
			panic(fmt.Sprintf("failed to make cursor from lastEvalKey: %s", err))
		}
		newCursor = &c
	}

	return registration.GetRegistrationsResponse{
		Data: slices.Map(dynamoItems, func(v registrationDynamo) registration.Registration {
			return dynamoToRegistration(v)
		})[:min(int(limit), len(dynamoItems))],
		Cursor:      newCursor,
		HasNextPage: hasNextPage,
	}, nil
}
