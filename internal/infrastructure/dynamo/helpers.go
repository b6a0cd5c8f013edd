package dynamo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// compositeKey builds a DynamoDB primary key with two string attributes (PK + SK).
func compositeKey(pkName, pkValue, skName, skValue string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkName: &types.AttributeValueMemberS{Value: pkValue},
		skName: &types.AttributeValueMemberS{Value: skValue},
	}
}

// updateExpr is a compiled DynamoDB update expression with its name and value maps.
type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr compiles a set map and an optional remove list into a
// "SET ... REMOVE ..." expression. Keys are visited in sorted order so the
// expression is deterministic.
func buildUpdateExpr(set map[string]interface{}, remove ...string) (*updateExpr, error) {
	if len(set) == 0 && len(remove) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	ue := &updateExpr{
		Names:  make(map[string]string),
		Values: make(map[string]types.AttributeValue),
	}

	var parts []string
	if len(set) > 0 {
		keys := make([]string, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		assigns := make([]string, 0, len(keys))
		for i, k := range keys {
			nameKey := fmt.Sprintf("#f%d", i)
			valueKey := fmt.Sprintf(":v%d", i)
			ue.Names[nameKey] = k
			av, err := attributevalue.Marshal(set[k])
			if err != nil {
				return nil, fmt.Errorf("marshal field %s: %w", k, err)
			}
			ue.Values[valueKey] = av
			assigns = append(assigns, fmt.Sprintf("%s = %s", nameKey, valueKey))
		}
		parts = append(parts, "SET "+strings.Join(assigns, ", "))
	}

	if len(remove) > 0 {
		names := make([]string, 0, len(remove))
		for i, k := range remove {
			nameKey := fmt.Sprintf("#r%d", i)
			ue.Names[nameKey] = k
			names = append(names, nameKey)
		}
		parts = append(parts, "REMOVE "+strings.Join(names, ", "))
	}

	ue.Expr = strings.Join(parts, " ")
	return ue, nil
}
