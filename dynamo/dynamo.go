// Package dynamo provides the DynamoDB-backed espalier backend. All
// entities live in one table keyed by the hierarchical key path, with
// a kind GSI for kind-scoped queries.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/jacentio/espalier/entity"
	"github.com/jacentio/espalier/query"
)

// Store is a DynamoDB-backed entity.Backend.
type Store struct {
	client *dynamodb.Client
	config Config
}

// New creates a new Store instance.
func New(client *dynamodb.Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// Put stores props under key as an upsert. A nil key gets a UUID name
// within kind. The "pk" and "kind" attributes are managed here; any
// caller-supplied values for them are overwritten.
func (s *Store) Put(ctx context.Context, kind string, key *entity.Key, props entity.Properties) (*entity.Key, error) {
	if key == nil {
		key = entity.NewKey(kind, uuid.NewString(), nil)
	}

	item, err := attributevalue.MarshalMap(map[string]any(props))
	if err != nil {
		return nil, fmt.Errorf("dynamo: marshal properties: %w", err)
	}
	item["pk"] = &types.AttributeValueMemberS{Value: key.Path()}
	item["kind"] = &types.AttributeValueMemberS{Value: kind}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.Table),
		Item:      item,
	})
	if err != nil {
		return nil, err
	}
	return key, nil
}

// Get retrieves the properties stored under key, returning
// entity.ErrNotFound when no item exists.
func (s *Store) Get(ctx context.Context, key *entity.Key) (entity.Properties, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.Table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: key.Path()},
		},
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, entity.ErrNotFound
	}
	props, _, err := s.unmarshalItem(result.Item)
	return props, err
}

// Update overlays props onto the stored item with a SET expression.
// Fails with entity.ErrNotFound when the item does not exist.
func (s *Store) Update(ctx context.Context, key *entity.Key, props entity.Properties) error {
	var setClauses []string
	exprNames := map[string]string{"#pk": "pk"}
	exprValues := map[string]types.AttributeValue{}

	i := 0
	for k, v := range props {
		// Skip managed fields
		if k == "pk" || k == "kind" {
			continue
		}
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return fmt.Errorf("dynamo: marshal %q: %w", k, err)
		}
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		exprNames[nameKey] = k
		exprValues[valueKey] = av
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}
	if len(setClauses) == 0 {
		return nil
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.config.Table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: key.Path()},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(setClauses, ", ")),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
	})

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return entity.ErrNotFound
	}
	return err
}

// Delete removes the items stored under keys. Missing keys are not an
// error.
func (s *Store) Delete(ctx context.Context, keys ...*entity.Key) error {
	for _, k := range keys {
		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.config.Table),
			Key: map[string]types.AttributeValue{
				"pk": &types.AttributeValueMemberS{Value: k.Path()},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Query runs a kind-scoped query through the kind GSI, applying spec
// filters server side and spec sorts client side (properties are not
// range keys, so DynamoDB cannot order by them).
func (s *Store) Query(ctx context.Context, kind string, spec query.Spec) ([]entity.Result, error) {
	exprNames := map[string]string{"#kind": "kind"}
	exprValues := map[string]types.AttributeValue{
		":kind": &types.AttributeValueMemberS{Value: kind},
	}

	filterExpr, err := buildFilterExpression(spec.Filters(), exprNames, exprValues)
	if err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.Table),
		IndexName:                 aws.String(s.config.KindIndex),
		KeyConditionExpression:    aws.String("#kind = :kind"),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
	}
	if filterExpr != "" {
		input.FilterExpression = aws.String(filterExpr)
	}

	// Paginate through all results
	var results []entity.Result
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			props, key, err := s.unmarshalItem(raw)
			if err != nil {
				return nil, err
			}
			results = append(results, entity.Result{Key: key, Props: props})
		}
	}

	sortResults(results, spec.Sorts())
	return results, nil
}

// buildFilterExpression renders spec filters as a DynamoDB filter
// expression, accumulating placeholder names and values.
func buildFilterExpression(filters []query.Filter, exprNames map[string]string, exprValues map[string]types.AttributeValue) (string, error) {
	var clauses []string
	for i, f := range filters {
		nameKey := fmt.Sprintf("#f%d", i)
		exprNames[nameKey] = f.Property

		if f.Op == query.In {
			candidates, ok := f.Value.([]any)
			if !ok {
				return "", fmt.Errorf("dynamo: in operator requires []any, got %T", f.Value)
			}
			valueKeys := make([]string, len(candidates))
			for j, c := range candidates {
				av, err := attributevalue.Marshal(c)
				if err != nil {
					return "", fmt.Errorf("dynamo: marshal filter value: %w", err)
				}
				valueKey := fmt.Sprintf(":f%d_%d", i, j)
				exprValues[valueKey] = av
				valueKeys[j] = valueKey
			}
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", nameKey, strings.Join(valueKeys, ", ")))
			continue
		}

		av, err := attributevalue.Marshal(f.Value)
		if err != nil {
			return "", fmt.Errorf("dynamo: marshal filter value: %w", err)
		}
		valueKey := fmt.Sprintf(":f%d", i)
		exprValues[valueKey] = av

		op, err := expressionOperator(f.Op)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, fmt.Sprintf("%s %s %s", nameKey, op, valueKey))
	}
	return strings.Join(clauses, " AND "), nil
}

func expressionOperator(op query.Operator) (string, error) {
	switch op {
	case query.Equal:
		return "=", nil
	case query.NotEqual:
		return "<>", nil
	case query.LessThan:
		return "<", nil
	case query.LessEq:
		return "<=", nil
	case query.GreaterThan:
		return ">", nil
	case query.GreaterEq:
		return ">=", nil
	default:
		return "", fmt.Errorf("dynamo: unsupported operator %v", op)
	}
}

// sortResults orders unmarshaled results. After unmarshaling into
// untyped maps, numbers are float64 and text is string, so ordering
// only needs those two families.
func sortResults(results []entity.Result, sorts []query.Sort) {
	sort.SliceStable(results, func(i, j int) bool {
		for _, term := range sorts {
			c := compareValues(results[i].Props[term.Property], results[j].Props[term.Property])
			if c == 0 {
				continue
			}
			if term.Dir == query.Descending {
				return c > 0
			}
			return c < 0
		}
		return results[i].Key.Path() < results[j].Key.Path()
	})
}

func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs)
		}
	}
	return 0
}

// unmarshalItem converts a raw item into stored properties plus the
// reconstructed key, stripping the managed pk and kind attributes.
func (s *Store) unmarshalItem(raw map[string]types.AttributeValue) (entity.Properties, *entity.Key, error) {
	pkAttr, ok := raw["pk"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, nil, fmt.Errorf("dynamo: item has no pk attribute")
	}
	key, err := entity.ParseKeyPath(pkAttr.Value)
	if err != nil {
		return nil, nil, err
	}

	var props map[string]any
	if err := attributevalue.UnmarshalMap(raw, &props); err != nil {
		return nil, nil, fmt.Errorf("dynamo: unmarshal item: %w", err)
	}
	delete(props, "pk")
	delete(props, "kind")

	return entity.Properties(props), key, nil
}
