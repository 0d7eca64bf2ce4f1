// Package memory provides an in-memory implementation of service.Storage.
// It is safe for concurrent use; data is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
	"github.com/Veraticus/spendwise/internal/storage"
)

// scopeKey identifies a category within its owner's namespace.
// Defaults live under the empty owner.
type scopeKey struct {
	name  string
	owner string
}

type storedTransaction struct {
	txn model.Transaction
	seq int64
}

// Store keeps categories in a registry keyed by (folded name, owner) and
// transactions in insertion order.
type Store struct {
	categories   map[scopeKey]*model.Category
	byID         map[int64]*model.Category
	transactions map[string]*storedTransaction
	now          func() time.Time
	nextID       int64
	nextSeq      int64
	mu           sync.RWMutex
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		categories:   make(map[scopeKey]*model.Category),
		byID:         make(map[int64]*model.Category),
		transactions: make(map[string]*storedTransaction),
		now:          time.Now,
	}
}

// Migrate seeds the default categories, mirroring the sqlite schema seed.
func (s *Store) Migrate(_ context.Context) error {
	for _, def := range storage.DefaultCategories {
		s.AddDefaultCategory(def.Name, def.Color)
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// AddDefaultCategory registers a category shared by every user.
func (s *Store) AddDefaultCategory(name, color string) model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scopeKey{name: model.CategoryKey(name)}
	if cat, ok := s.categories[key]; ok {
		cat.Color = color
		return *cat
	}
	return *s.insertLocked(key, name, "", color, true)
}

// FindCategoryByName implements service.CategoryStore.
func (s *Store) FindCategoryByName(_ context.Context, userID, name string) (*model.Category, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: user ID and name are required", storage.ErrEmptyString)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if cat := s.lookupLocked(userID, name); cat != nil {
		found := *cat
		return &found, nil
	}
	return nil, nil
}

// FindOrCreateCategory implements service.CategoryStore. The lookup and the
// insert happen under one write lock, so concurrent callers converge.
func (s *Store) FindOrCreateCategory(_ context.Context, userID, name, color string) (*model.Category, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: user ID and name are required", storage.ErrEmptyString)
	}
	if color == "" {
		color = model.DefaultCategoryColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.lookupLocked(userID, name)
	if cat == nil {
		key := scopeKey{name: model.CategoryKey(name), owner: userID}
		cat = s.insertLocked(key, strings.TrimSpace(name), userID, color, false)
	}
	found := *cat
	return &found, nil
}

// ListCategories implements service.CategoryStore.
func (s *Store) ListCategories(_ context.Context, userID string) ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cats []model.Category
	for _, cat := range s.byID {
		if cat.VisibleTo(userID) {
			cats = append(cats, *cat)
		}
	}
	sort.Slice(cats, func(i, j int) bool {
		ki, kj := model.CategoryKey(cats[i].Name), model.CategoryKey(cats[j].Name)
		if ki != kj {
			return ki < kj
		}
		return !cats[i].IsDefault && cats[j].IsDefault
	})
	return cats, nil
}

func (s *Store) lookupLocked(userID, name string) *model.Category {
	key := model.CategoryKey(name)
	if cat, ok := s.categories[scopeKey{name: key, owner: userID}]; ok {
		return cat
	}
	if cat, ok := s.categories[scopeKey{name: key}]; ok && cat.IsDefault {
		return cat
	}
	return nil
}

func (s *Store) insertLocked(key scopeKey, name, userID, color string, isDefault bool) *model.Category {
	s.nextID++
	cat := &model.Category{
		ID:        s.nextID,
		Name:      name,
		UserID:    userID,
		IsDefault: isDefault,
		Color:     color,
		CreatedAt: s.now(),
	}
	s.categories[key] = cat
	s.byID[cat.ID] = cat
	return cat
}

// InsertTransaction implements service.TransactionStore.
func (s *Store) InsertTransaction(_ context.Context, txn *model.Transaction) error {
	if err := checkTransaction(txn); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[txn.ID]; exists {
		return fmt.Errorf("transaction %s already exists", txn.ID)
	}
	stored := *txn
	stored.CategoryName = ""
	s.nextSeq++
	s.transactions[txn.ID] = &storedTransaction{txn: stored, seq: s.nextSeq}
	return nil
}

// UpdateTransaction implements service.TransactionStore.
func (s *Store) UpdateTransaction(_ context.Context, txn *model.Transaction) error {
	if err := checkTransaction(txn); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[txn.ID]
	if !ok || existing.txn.UserID != txn.UserID {
		return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrNotFound)
	}
	updated := *txn
	updated.CategoryName = ""
	existing.txn = updated
	return nil
}

// DeleteTransaction implements service.TransactionStore.
func (s *Store) DeleteTransaction(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[id]
	if !ok || existing.txn.UserID != userID {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	delete(s.transactions, id)
	return nil
}

// ListTransactions implements service.TransactionStore.
func (s *Store) ListTransactions(_ context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if filter.Date == "" && filter.Month != 0 && filter.Year != 0 {
		if _, _, err := storage.MonthRange(filter.Month, filter.Year); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.userTransactionsLocked(userID, func(txn model.Transaction) bool {
		switch {
		case filter.Date != "":
			return txn.Date == filter.Date
		case filter.Month != 0 && filter.Year != 0:
			return inMonth(txn.Date, filter.Month, filter.Year)
		default:
			return true
		}
	})

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].txn.Date != matched[j].txn.Date {
			return matched[i].txn.Date > matched[j].txn.Date
		}
		return matched[i].seq > matched[j].seq
	})

	if filter.Offset >= len(matched) {
		return []model.Transaction{}, nil
	}
	matched = matched[filter.Offset:]
	limit := filter.Limit
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}
	if limit < len(matched) {
		matched = matched[:limit]
	}

	result := make([]model.Transaction, 0, len(matched))
	for _, st := range matched {
		txn := st.txn
		if txn.CategoryID != nil {
			if cat, ok := s.byID[*txn.CategoryID]; ok {
				txn.CategoryName = cat.Name
			}
		}
		result = append(result, txn)
	}
	return result, nil
}

// SetTransactionCategory implements service.TransactionStore.
func (s *Store) SetTransactionCategory(_ context.Context, userID, keyword string, categoryID int64) (int, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return 0, fmt.Errorf("%w: keyword", storage.ErrEmptyString)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, st := range s.transactions {
		if st.txn.UserID != userID || !strings.Contains(strings.ToLower(st.txn.Description), keyword) {
			continue
		}
		id := categoryID
		st.txn.CategoryID = &id
		count++
	}
	return count, nil
}

// MonthlyTotals implements service.ReportStore.
func (s *Store) MonthlyTotals(_ context.Context, userID string, month, year int) (*service.MonthlyTotals, error) {
	if _, _, err := storage.MonthRange(month, year); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := &service.MonthlyTotals{Month: month, Year: year}
	for _, st := range s.userTransactionsLocked(userID, func(txn model.Transaction) bool {
		return inMonth(txn.Date, month, year)
	}) {
		switch st.txn.Type {
		case model.TypeExpense:
			totals.TotalExpenses = totals.TotalExpenses.Add(st.txn.Amount)
		case model.TypeIncome:
			totals.TotalIncome = totals.TotalIncome.Add(st.txn.Amount)
		}
	}
	return totals, nil
}

// TopExpenseCategory implements service.ReportStore.
func (s *Store) TopExpenseCategory(_ context.Context, userID string, month, year int) (*service.CategorySummary, error) {
	if _, _, err := storage.MonthRange(month, year); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[int64]*service.CategorySummary)
	for _, st := range s.userTransactionsLocked(userID, func(txn model.Transaction) bool {
		return txn.Type == model.TypeExpense && txn.CategoryID != nil && inMonth(txn.Date, month, year)
	}) {
		cat, ok := s.byID[*st.txn.CategoryID]
		if !ok {
			continue
		}
		sum, ok := sums[cat.ID]
		if !ok {
			sum = &service.CategorySummary{Name: cat.Name, Amount: decimal.Zero}
			sums[cat.ID] = sum
		}
		sum.Amount = sum.Amount.Add(st.txn.Amount)
		sum.Count++
	}

	var top *service.CategorySummary
	for _, sum := range sums {
		if top == nil || sum.Amount.GreaterThan(top.Amount) ||
			(sum.Amount.Equal(top.Amount) && sum.Name < top.Name) {
			top = sum
		}
	}
	return top, nil
}

func (s *Store) userTransactionsLocked(userID string, keep func(model.Transaction) bool) []*storedTransaction {
	var out []*storedTransaction
	for _, st := range s.transactions {
		if st.txn.UserID == userID && keep(st.txn) {
			out = append(out, st)
		}
	}
	return out
}

func inMonth(date string, month, year int) bool {
	return strings.HasPrefix(date, fmt.Sprintf("%04d-%02d-", year, month))
}

func checkTransaction(txn *model.Transaction) error {
	if txn == nil || txn.ID == "" || txn.UserID == "" {
		return fmt.Errorf("%w: transaction ID and user ID are required", storage.ErrInvalidTransaction)
	}
	if txn.Amount.IsNegative() || !txn.Type.Valid() {
		return fmt.Errorf("%w: amount %s type %q", storage.ErrInvalidTransaction, txn.Amount, txn.Type)
	}
	return nil
}

// Ensure Store implements service.Storage.
var _ service.Storage = (*Store)(nil)
