//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/domain/valueobject"
	"github.com/rendiconti/backend/internal/integration/persistence"
)

func (t *testContext) actorFor(role entity.Role) entity.Actor {
	if actor, ok := t.actors[role]; ok {
		return actor
	}
	actor := entity.Actor{
		UserID:   uuid.New(),
		EntityID: t.entityID,
		Email:    string(role) + "@parrocchia.example.org",
		Role:     role,
	}
	if role != entity.RoleOperator {
		actor.EntityID = uuid.Nil
		actor.Email = string(role) + "@diocesi.example.org"
	}
	t.actors[role] = actor
	return actor
}

func (t *testContext) login(actor entity.Actor) error {
	token, err := t.app.injector.TokenService.IssueToken(context.Background(), actor)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	t.accessToken = token
	return nil
}

func (t *testContext) iAmLoggedInAs(role string) error {
	return t.login(t.actorFor(entity.Role(role)))
}

func (t *testContext) iAmLoggedInAsAnotherOperator() error {
	return t.login(entity.Actor{
		UserID:   uuid.New(),
		EntityID: uuid.New(),
		Email:    "altro@parrocchia.example.org",
		Role:     entity.RoleOperator,
	})
}

func (t *testContext) theRootCategoryExists(name, movementType string) error {
	repo := persistence.NewCategoryRepository(t.db.DbConn)
	code := fmt.Sprintf("%03d", t.siblingCount(nil, entity.MovementType(movementType))+1)
	category := entity.NewRootCategory(name, code, entity.MovementType(movementType))
	if err := repo.Create(context.Background(), category); err != nil {
		return err
	}
	t.categories[name] = category
	return nil
}

func (t *testContext) theChildCategoryExists(name, parentName string) error {
	parent, ok := t.categories[parentName]
	if !ok {
		return fmt.Errorf("category %q was not created in this scenario", parentName)
	}
	repo := persistence.NewCategoryRepository(t.db.DbConn)
	code := fmt.Sprintf("%03d", t.siblingCount(&parent.ID, parent.Type)+1)
	category := entity.NewChildCategory(name, code, parent)
	if err := repo.Create(context.Background(), category); err != nil {
		return err
	}
	t.categories[name] = category
	return nil
}

// siblingCount mirrors the code sequence of the category tree: roots are numbered per type.
func (t *testContext) siblingCount(parentID *uuid.UUID, movementType entity.MovementType) int {
	count := 0
	for _, c := range t.categories {
		switch {
		case parentID == nil && c.ParentID == nil && c.Type == movementType:
			count++
		case parentID != nil && c.ParentID != nil && *c.ParentID == *parentID:
			count++
		}
	}
	return count
}

func (t *testContext) theAccountExists(name string) error {
	account := entity.NewAccount(t.entityID, name)
	if err := persistence.NewAccountRepository(t.db.DbConn).Create(context.Background(), account); err != nil {
		return err
	}
	t.accounts[name] = account
	return nil
}

// theFollowingMovementsExist reads a table with the columns date, type, amount, category and note.
func (t *testContext) theFollowingMovementsExist(accountName string, table *godog.Table) error {
	account, ok := t.accounts[accountName]
	if !ok {
		return fmt.Errorf("account %q was not created in this scenario", accountName)
	}
	if len(table.Rows) < 2 {
		return errors.New("movement table needs a header and at least one row")
	}

	columns := make(map[string]int)
	for i, cell := range table.Rows[0].Cells {
		columns[cell.Value] = i
	}

	repo := persistence.NewMovementRepository(t.db.DbConn)
	for _, row := range table.Rows[1:] {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.Value
		}
		value := func(column string) string {
			i, ok := columns[column]
			if !ok || i >= len(cells) {
				return ""
			}
			return cells[i]
		}

		date, err := time.Parse(valueobject.DateLayout, value("date"))
		if err != nil {
			return fmt.Errorf("invalid movement date: %w", err)
		}
		amount, err := decimal.NewFromString(value("amount"))
		if err != nil {
			return fmt.Errorf("invalid movement amount: %w", err)
		}

		var categoryID *uuid.UUID
		if name := value("category"); name != "" {
			category, ok := t.categories[name]
			if !ok {
				return fmt.Errorf("category %q was not created in this scenario", name)
			}
			categoryID = &category.ID
		}

		movement := entity.NewMovement(t.entityID, account.ID, categoryID, date, entity.MovementType(value("type")), amount, value("note"))
		if err := repo.Create(context.Background(), movement); err != nil {
			return err
		}
		t.movementID = movement.ID
	}
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil, "application/json")
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload, "application/json")
}

// iSendAMultipartRequestTo sends a table of field/value pairs. The "file" field is sent as a
// file part named after its value.
func (t *testContext) iSendAMultipartRequestTo(method, path string, table *godog.Table) error {
	var fields [][2]string
	for _, row := range table.Rows {
		if len(row.Cells) < 2 || row.Cells[0].Value == "field" {
			continue
		}
		fields = append(fields, [2]string{row.Cells[0].Value, t.replacePlaceholders(row.Cells[1].Value)})
	}
	return t.sendMultipart(method, t.replacePlaceholders(path), fields)
}

func (t *testContext) sendMultipart(method, path string, fields [][2]string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range fields {
		field, value := f[0], f[1]
		if field == "file" {
			part, err := writer.CreateFormFile(field, value)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(part, "contents of %s", value); err != nil {
				return err
			}
			continue
		}
		if err := writer.WriteField(field, value); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return t.executeRequest(method, path, buf.Bytes(), writer.FormDataContentType())
}

// iUploadTheDocuments attaches one file for each comma separated document type.
func (t *testContext) iUploadTheDocuments(types string) error {
	path := t.replacePlaceholders("/api/v1/statements/{{statement_id}}/documents")
	for _, documentType := range strings.Split(types, ",") {
		documentType = strings.TrimSpace(documentType)
		err := t.sendMultipart(http.MethodPost, path, [][2]string{
			{"type", documentType},
			{"file", documentType + ".pdf"},
		})
		if err != nil {
			return err
		}
		if t.response.status != http.StatusCreated {
			return fmt.Errorf("upload of %s failed with status %d: %s", documentType, t.response.status, t.response.raw)
		}
	}
	return nil
}

func (t *testContext) theEmailWorkerProcessesTheQueue() error {
	worker := t.app.injector.EmailWorker
	if worker == nil {
		return errors.New("email worker is not configured")
	}
	worker.ProcessNow(context.Background())
	return nil
}

var namedPlaceholder = regexp.MustCompile(`\{\{(category|account):([^}]+)\}\}`)

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{statement_id}}", t.statementID.String())
	content = strings.ReplaceAll(content, "{{document_id}}", t.documentID.String())
	content = strings.ReplaceAll(content, "{{movement_id}}", t.movementID.String())
	content = strings.ReplaceAll(content, "{{entity_id}}", t.entityID.String())

	return namedPlaceholder.ReplaceAllStringFunc(content, func(match string) string {
		parts := namedPlaceholder.FindStringSubmatch(match)
		switch parts[1] {
		case "category":
			if c, ok := t.categories[parts[2]]; ok {
				return c.ID.String()
			}
		case "account":
			if a, ok := t.accounts[parts[2]]; ok {
				return a.ID.String()
			}
		}
		return match
	})
}

func (t *testContext) executeRequest(method, path string, payload []byte, contentType string) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.app.server.URL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", contentType)
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		raw:         bodyBytes,
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody
	t.captureIDs(responseBody)
	return nil
}

// captureIDs remembers the identifiers of created resources for later placeholders.
func (t *testContext) captureIDs(body map[string]any) {
	if document, ok := body["document"].(map[string]any); ok {
		if id, err := uuid.Parse(fmt.Sprint(document["id"])); err == nil {
			t.documentID = id
		}
		return
	}

	id, err := uuid.Parse(fmt.Sprint(body["id"]))
	if err != nil {
		return
	}

	switch {
	case body["state"] != nil && body["period"] != nil:
		t.statementID = id
	case body["amount"] != nil && body["account_id"] != nil:
		t.movementID = id
	case body["code"] != nil && body["level"] != nil:
		name := fmt.Sprint(body["name"])
		category := &entity.Category{ID: id, Name: name, Type: entity.MovementType(fmt.Sprint(body["type"]))}
		if parentID, err := uuid.Parse(fmt.Sprint(body["parent_id"])); err == nil {
			category.ParentID = &parentID
		}
		t.categories[name] = category
	case body["name"] != nil:
		t.accounts[fmt.Sprint(body["name"])] = &entity.Account{ID: id, EntityID: t.entityID, Name: fmt.Sprint(body["name"])}
	}
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	expectedValue = t.replacePlaceholders(expectedValue)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, quantity int) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		if quantity == 0 && getFieldValue(body, field) == nil {
			return nil
		}
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != quantity {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, quantity, len(items))
	}
	return nil
}

func (t *testContext) theResponseHeaderShouldContain(header, expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if header == "Content-Type" {
		if !strings.Contains(t.response.contentType, expected) {
			return fmt.Errorf("expected Content-Type to contain %q, got %q", expected, t.response.contentType)
		}
		return nil
	}
	return fmt.Errorf("header %q is not captured", header)
}

func (t *testContext) theResponseBodyShouldContain(expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if !strings.Contains(string(t.response.raw), expected) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, t.response.raw)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := t.countRows(table, nil)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	count, err := t.countRows(table, criteria)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *testContext) countRows(table string, criteria map[string]any) (int, error) {
	model, ok := t.db.GetModel(table)
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	modelType := reflect.TypeOf(model).Elem()
	rows := reflect.New(reflect.SliceOf(modelType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(rows.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, result.Error
	}
	return rows.Elem().Len(), nil
}

func (t *testContext) emailsShouldHaveBeenSentTo(quantity int, recipient string) error {
	count := 0
	for _, sent := range t.app.sender.Sent() {
		if sent.To == recipient {
			count++
		}
	}
	if count != quantity {
		return fmt.Errorf("expected %d emails to %s, got %d", quantity, recipient, count)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	var field any = objectMap
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}
