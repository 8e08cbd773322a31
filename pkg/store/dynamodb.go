package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// maxBatchWrite is the BatchWriteItem request limit
const maxBatchWrite = 25

// maxUnprocessedRetries bounds how often throttled items are resubmitted
const maxUnprocessedRetries = 5

// Backoff between resubmissions of unprocessed items, doubling up to the cap
const (
	baseRetryDelay = 50 * time.Millisecond
	maxRetryDelay  = 2 * time.Second
)

// DynamoConfig holds DynamoDB configuration
type DynamoConfig struct {
	Endpoint string // set for DynamoDB Local, empty for AWS
	Region   string
	Table    string
}

// Local reports whether the config points at a DynamoDB Local endpoint
func (c DynamoConfig) Local() bool {
	return c.Endpoint != ""
}

// dynamoAPI is the part of the DynamoDB client the store uses
type dynamoAPI interface {
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// DynamoDBStore implements Store using AWS DynamoDB. Records are keyed by
// "date" (hash) and "time" (range).
type DynamoDBStore struct {
	client dynamoAPI
	config DynamoConfig
	logger zerolog.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg DynamoConfig, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Local() {
		// Local mode builds the client directly; LoadDefaultConfig would probe
		// IMDS for credentials
		client = dynamodb.New(dynamodb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = dynamodb.NewFromConfig(awsCfg)
	}

	store := newDynamoDBStore(client, cfg, logger)

	if cfg.Local() {
		if err := store.createTableIfNotExists(ctx); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Bool("local", cfg.Local()).
		Str("region", cfg.Region).
		Str("table", cfg.Table).
		Msg("DynamoDB store initialized")

	return store, nil
}

func newDynamoDBStore(client dynamoAPI, cfg DynamoConfig, logger zerolog.Logger) *DynamoDBStore {
	return &DynamoDBStore{client: client, config: cfg, logger: logger, wait: sleepContext}
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *DynamoDBStore) SaveSeries(ctx context.Context, series report.Series) error {
	for start := 0; start < len(series); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(series))

		requests := make([]dbtypes.WriteRequest, 0, end-start)
		for _, r := range series[start:end] {
			item, err := attributevalue.MarshalMap(r)
			if err != nil {
				return fmt.Errorf("failed to marshal record %s: %w", r.Key(), err)
			}
			requests = append(requests, dbtypes.WriteRequest{
				PutRequest: &dbtypes.PutRequest{Item: item},
			})
		}

		if err := s.batchWrite(ctx, requests); err != nil {
			return err
		}
	}

	s.logger.Debug().Int("records", len(series)).Str("table", s.config.Table).Msg("series saved")
	return nil
}

// batchWrite submits one batch, resubmitting unprocessed items with
// exponential backoff
func (s *DynamoDBStore) batchWrite(ctx context.Context, requests []dbtypes.WriteRequest) error {
	pending := map[string][]dbtypes.WriteRequest{s.config.Table: requests}
	delay := baseRetryDelay

	for attempt := 0; ; attempt++ {
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to save records: %w", err)
		}

		pending = out.UnprocessedItems
		left := len(pending[s.config.Table])
		if left == 0 {
			return nil
		}
		if attempt >= maxUnprocessedRetries {
			return fmt.Errorf("failed to save %d records after %d attempts", left, attempt+1)
		}

		s.logger.Warn().
			Int("unprocessed", left).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("resubmitting unprocessed records")
		if err := s.wait(ctx, delay); err != nil {
			return fmt.Errorf("failed to save %d records: %w", left, err)
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (s *DynamoDBStore) LoadDay(ctx context.Context, date string) (report.Series, error) {
	keyCond := expression.Key("date").Equal(expression.Value(date))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	var (
		series  report.Series
		lastKey map[string]dbtypes.AttributeValue
	)
	for {
		result, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.config.Table),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query records for %s: %w", date, err)
		}

		var page report.Series
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
		series = append(series, page...)

		lastKey = result.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}

	sort.SliceStable(series, func(i, j int) bool { return series[i].Time < series[j].Time })
	return series, nil
}

// createTableIfNotExists creates the records table for local development
func (s *DynamoDBStore) createTableIfNotExists(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.config.Table),
	})
	if err == nil {
		s.logger.Info().Str("table", s.config.Table).Msg("table already exists")
		return nil
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.config.Table),
		KeySchema: []dbtypes.KeySchemaElement{
			{AttributeName: aws.String("date"), KeyType: dbtypes.KeyTypeHash},
			{AttributeName: aws.String("time"), KeyType: dbtypes.KeyTypeRange},
		},
		AttributeDefinitions: []dbtypes.AttributeDefinition{
			{AttributeName: aws.String("date"), AttributeType: dbtypes.ScalarAttributeTypeS},
			{AttributeName: aws.String("time"), AttributeType: dbtypes.ScalarAttributeTypeS},
		},
		BillingMode: dbtypes.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.config.Table, err)
	}
	s.logger.Info().Str("table", s.config.Table).Msg("table created")
	return nil
}
