package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"FinSoft/internal/cli/validation"
	"FinSoft/internal/model"
	"FinSoft/internal/repo"
)

// Имена ресурсов API.
const (
	ResourceCashier      = "cashier"
	ResourceDebts        = "debts"
	ResourceTransactions = "transactions"
	ResourceVarzob       = "varzob-expenses"
	ResourceWarehouse    = "warehouse"
	ResourceCargo        = "chinese-cargo"
	ResourceWorkshops    = "workshops"
	ResourceProducts     = "products"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

const (
	// MsgPaymentExceedsDebt ответ на платёж больше остатка.
	MsgPaymentExceedsDebt = "Сумма платежа превышает остаток долга"
	// MsgPaymentCurrency платёж в валюте, отличной от валюты долга.
	MsgPaymentCurrency = "Валюта платежа должна совпадать с валютой долга"
)

var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrNotFound        = repo.ErrNotFound
	ErrBadRequest      = errors.New("malformed request body")
)

// resourceDef описывает, как валидировать запись и какие поля индексировать.
// kind — дискриминатор списка: тип операции, склад или тип цеха.
type resourceDef struct {
	input  func() any
	status string
	kind   string
	search []string
}

var resources = map[string]resourceDef{
	ResourceCashier: {
		input:  func() any { return &model.CashierOperationInput{} },
		kind:   "type",
		search: []string{"description", "counterparty"},
	},
	ResourceDebts: {
		input:  func() any { return &model.DebtInput{} },
		status: "status",
		search: []string{"client", "product", "note"},
	},
	ResourceTransactions: {
		input:  func() any { return &model.TransactionInput{} },
		kind:   "type",
		search: []string{"category", "description", "recipient"},
	},
	ResourceVarzob: {
		input:  func() any { return &model.VarzobExpenseInput{} },
		search: []string{"category", "description", "recipient"},
	},
	ResourceWarehouse: {
		input:  func() any { return &model.WarehouseItemInput{} },
		kind:   "location",
		search: []string{"name", "supplier", "note"},
	},
	ResourceCargo: {
		input:  func() any { return &model.CargoInput{} },
		status: "status",
		search: []string{"name", "trackingNumber", "supplier"},
	},
	ResourceWorkshops: {
		input:  func() any { return &model.WorkshopItemInput{} },
		kind:   "workshopType",
		search: []string{"productName", "operator", "shift"},
	},
	ResourceProducts: {
		input:  func() any { return &model.ProductInput{} },
		search: []string{"name"},
	},
}

// Resources имена всех ресурсов.
func Resources() []string {
	return []string{
		ResourceCashier, ResourceDebts, ResourceTransactions, ResourceVarzob,
		ResourceWarehouse, ResourceCargo, ResourceWorkshops, ResourceProducts,
	}
}

type ResourceService struct {
	repo repo.DocumentRepository
	log  *zap.SugaredLogger
	now  func() time.Time
}

func NewResourceService(r repo.DocumentRepository, log *zap.SugaredLogger) *ResourceService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ResourceService{repo: r, log: log, now: time.Now}
}

// List отдаёт страницу записей. Параметр type фильтрует по дискриминатору ресурса,
// как и дополнительные location/workshopType.
func (s *ResourceService) List(ctx context.Context, resource string, f model.FilterParams) (*model.Page[json.RawMessage], error) {
	if _, ok := resources[resource]; !ok {
		return nil, ErrUnknownResource
	}
	page, perPage := f.Page, f.PerPage
	if page <= 0 {
		page = 1
	}
	switch {
	case perPage <= 0:
		perPage = defaultPerPage
	case perPage > maxPerPage:
		perPage = maxPerPage
	}

	q := repo.DocumentQuery{
		Search:   f.Search,
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
		Status:   f.Status,
		Kind:     firstNonEmpty(f.Type, f.Extra["location"], f.Extra["workshopType"]),
		SortBy:   f.SortBy,
		Asc:      f.SortOrder == model.SortAsc,
		Offset:   (page - 1) * perPage,
		Limit:    perPage,
	}
	docs, total, err := s.repo.List(ctx, resource, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}
	out := &model.Page[json.RawMessage]{Data: make([]json.RawMessage, 0, len(docs))}
	for _, d := range docs {
		out.Data = append(out.Data, json.RawMessage(d.Body))
	}
	out.Meta = model.NewPageMeta(page, perPage, int(total), len(docs))
	return out, nil
}

// ListKind отдаёт все записи одного вида без пагинации (цех капсулы/стакана).
func (s *ResourceService) ListKind(ctx context.Context, resource, kind string) ([]json.RawMessage, error) {
	if _, ok := resources[resource]; !ok {
		return nil, ErrUnknownResource
	}
	docs, _, err := s.repo.List(ctx, resource, repo.DocumentQuery{Kind: kind})
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", resource, kind, err)
	}
	out := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		out = append(out, json.RawMessage(d.Body))
	}
	return out, nil
}

func (s *ResourceService) Get(ctx context.Context, resource, id string) (json.RawMessage, error) {
	if _, ok := resources[resource]; !ok {
		return nil, ErrUnknownResource
	}
	doc, err := s.repo.Get(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(doc.Body), nil
}

// Create валидирует тело по схеме ресурса, присваивает id и сохраняет.
func (s *ResourceService) Create(ctx context.Context, resource string, body []byte) (json.RawMessage, error) {
	def, ok := resources[resource]
	if !ok {
		return nil, ErrUnknownResource
	}
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	if err := check(def, body); err != nil {
		return nil, err
	}

	now := s.stamp()
	fields["id"] = uuid.NewString()
	fields["createdAt"] = now
	fields["updatedAt"] = now

	raw, err := s.finalize(resource, fields)
	if err != nil {
		return nil, err
	}
	doc := index(resource, def, raw)
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create %s: %w", resource, err)
	}
	s.log.Debugw("record created", "resource", resource, "id", doc.ID)
	return raw, nil
}

// Update накладывает присланные поля на запись и проверяет результат целиком.
func (s *ResourceService) Update(ctx context.Context, resource, id string, body []byte) (json.RawMessage, error) {
	def, ok := resources[resource]
	if !ok {
		return nil, ErrUnknownResource
	}
	patch, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.Get(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	fields, err := decodeObject([]byte(doc.Body))
	if err != nil {
		return nil, fmt.Errorf("stored %s/%s: %w", resource, id, err)
	}
	for k, v := range patch {
		switch k {
		case "id", "createdAt", "payments":
			continue
		}
		fields[k] = v
	}
	fields["updatedAt"] = s.stamp()

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if err := check(def, merged); err != nil {
		return nil, err
	}
	raw, err := s.finalize(resource, fields)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, index(resource, def, raw)); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *ResourceService) Delete(ctx context.Context, resource, id string) error {
	if _, ok := resources[resource]; !ok {
		return ErrUnknownResource
	}
	return s.repo.Delete(ctx, resource, id)
}

// Payments история платежей долга.
func (s *ResourceService) Payments(ctx context.Context, debtID string) ([]model.PaymentEntry, error) {
	debt, err := s.loadDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if debt.Payments == nil {
		return []model.PaymentEntry{}, nil
	}
	return debt.Payments, nil
}

// Pay проводит частичную оплату: уменьшает остаток и пересчитывает статус.
func (s *ResourceService) Pay(ctx context.Context, debtID string, in model.PaymentInput) (json.RawMessage, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	debt, err := s.loadDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if in.Currency != debt.Currency {
		return nil, validation.NewValidationError("currency", MsgPaymentCurrency)
	}
	if in.Amount.GreaterThan(debt.RemainingAmount) {
		return nil, validation.NewValidationError("amount", MsgPaymentExceedsDebt)
	}

	debt.Payments = append(debt.Payments, model.PaymentEntry{
		ID:       uuid.NewString(),
		Date:     in.Date,
		Amount:   in.Amount,
		Currency: in.Currency,
		Method:   in.Method,
		Note:     in.Note,
	})
	debt.RemainingAmount = debt.RemainingAmount.Sub(in.Amount)
	debt = debt.Normalize()
	debt.UpdatedAt = s.stamp()

	raw, err := json.Marshal(debt)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, index(ResourceDebts, resources[ResourceDebts], raw)); err != nil {
		return nil, err
	}
	s.log.Infow("debt payment", "id", debtID, "amount", in.Amount.String(), "remaining", debt.RemainingAmount.String())
	return raw, nil
}

func (s *ResourceService) loadDebt(ctx context.Context, id string) (model.Debt, error) {
	doc, err := s.repo.Get(ctx, ResourceDebts, id)
	if err != nil {
		return model.Debt{}, err
	}
	var d model.Debt
	if err := json.Unmarshal([]byte(doc.Body), &d); err != nil {
		return model.Debt{}, fmt.Errorf("stored debt %s: %w", id, err)
	}
	return d, nil
}

// finalize приводит запись к сохраняемому виду; для долгов статус выводится из сумм.
func (s *ResourceService) finalize(resource string, fields map[string]any) (json.RawMessage, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if resource != ResourceDebts {
		return raw, nil
	}
	var d model.Debt
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if !gjson.GetBytes(raw, "remainingAmount").Exists() {
		d.RemainingAmount = d.TotalAmount
	}
	if d.Payments == nil {
		d.Payments = []model.PaymentEntry{}
	}
	d = d.Normalize()
	return json.Marshal(d)
}

func (s *ResourceService) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func decodeObject(body []byte) (map[string]any, error) {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, ErrBadRequest
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return fields, nil
}

func check(def resourceDef, body []byte) error {
	in := def.input()
	if err := json.Unmarshal(body, in); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return validation.Struct(in)
}

// index извлекает колонки фильтрации из JSON записи.
func index(resource string, def resourceDef, raw []byte) *repo.Document {
	root := gjson.ParseBytes(raw)
	doc := &repo.Document{
		ID:       root.Get("id").String(),
		Resource: resource,
		Date:     root.Get("date").String(),
		Body:     string(raw),
	}
	if def.status != "" {
		doc.Status = root.Get(def.status).String()
	}
	if def.kind != "" {
		doc.Kind = root.Get(def.kind).String()
	}
	parts := make([]string, 0, len(def.search))
	for _, p := range def.search {
		if v := root.Get(p).String(); v != "" {
			parts = append(parts, strings.ToLower(v))
		}
	}
	doc.Search = strings.Join(parts, " ")
	return doc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
