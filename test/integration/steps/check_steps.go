package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

// ownerNamespace derives stable owner ids from test emails.
var ownerNamespace = uuid.MustParse("7f1c2a44-3d0e-4b8f-9a51-6c2d8e0b1f37")

// registerCheckSteps registers authentication, clock and persistence steps.
func registerCheckSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I am authenticated as "([^"]*)"$`, iAmAuthenticatedAs)
	ctx.Step(`^I am not authenticated$`, iAmNotAuthenticated)
	ctx.Step(`^the current time is "([^"]*)"$`, theCurrentTimeIs)
	ctx.Step(`^(\d+) (?:day|days) pass(?:es)?$`, daysPass)
	ctx.Step(`^a check "([^"]*)" of "([^"]*)" "([^"]*)" due "([^"]*)" with priority "([^"]*)" exists$`, aCheckExists)
	ctx.Step(`^the db should contain (\d+) objects? in the "([^"]*)" table$`, theDbShouldContainObjectsInTheTable)
	ctx.Step(`^the db should contain (\d+) objects? in the "([^"]*)" table with the values:$`, theDbShouldContainObjectsWithTheValues)
}

func iAmAuthenticatedAs(ctx context.Context, email string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	tc.ownerID = uuid.NewSHA1(ownerNamespace, []byte(email))
	token, err := tc.injector.TokenService.GenerateAccessToken(ctx, tc.ownerID, email)
	if err != nil {
		return ctx, fmt.Errorf("failed to issue access token: %w", err)
	}
	tc.accessToken = token
	return SetTestContext(ctx, tc), nil
}

func iAmNotAuthenticated(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.accessToken = ""
	tc.ownerID = uuid.Nil
	return SetTestContext(ctx, tc), nil
}

func theCurrentTimeIs(ctx context.Context, value string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", value, err)
	}
	tc.clock.SetCurrentTime(now.UTC())
	return nil
}

func daysPass(ctx context.Context, days int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	tc.clock.Advance(time.Duration(days) * 24 * time.Hour)
	return nil
}

// aCheckExists creates a check through the API as the authenticated owner.
func aCheckExists(ctx context.Context, title, amount, currency, dueDate, priority string) (context.Context, error) {
	payload, err := json.Marshal(map[string]string{
		"title":    title,
		"amount":   amount,
		"currency": currency,
		"dueDate":  dueDate,
		"priority": priority,
	})
	if err != nil {
		return ctx, err
	}

	ctx, err = sendRequest(ctx, "POST", "/api/v1/checks", &godog.DocString{Content: string(payload)})
	if err != nil {
		return ctx, err
	}
	return ctx, theResponseStatusShouldBe(ctx, 201)
}

func theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := countRows(table, nil)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func theDbShouldContainObjectsWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}

	count, err := countRows(table, criteria)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func countRows(table string, criteria map[string]any) (int, error) {
	entity, ok := dbMock.GetModel(table)
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	rows := reflect.New(reflect.SliceOf(entityType))

	query := dbMock.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}
	if err := query.Find(rows.Interface()).Error; err != nil {
		return 0, err
	}
	return rows.Elem().Len(), nil
}
