package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/domain"
	"github.com/fintrackhq/fintrack/internal/usecase"
)

// MockTransaction is a mock implementation of usecase.Transaction.
type MockTransaction struct {
	mu         sync.Mutex
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu     sync.Mutex
	Opened []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Opened = append(m.Opened, tx)
	return tx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%04d", m.next)
}

// MockRetrier is a mock implementation of Retrier that runs the
// operation exactly once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockBankAccountRepository is a mock implementation of BankAccountRepository.
type MockBankAccountRepository struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]*domain.BankAccount

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, account *domain.BankAccount) error
	GetByIDFunc      func(ctx context.Context, id int64) (*domain.BankAccount, error)
	UpdateStatusFunc func(ctx context.Context, id int64, status domain.AccountStatus, updatedAt time.Time) error
}

func NewMockBankAccountRepository() *MockBankAccountRepository {
	return &MockBankAccountRepository{accounts: make(map[int64]*domain.BankAccount)}
}

// Seed stores an account directly, assigning an id when unset.
func (m *MockBankAccountRepository) Seed(account *domain.BankAccount) *domain.BankAccount {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.ID == 0 {
		m.nextID++
		account.ID = m.nextID
	} else if account.ID > m.nextID {
		m.nextID = account.ID
	}
	m.accounts[account.ID] = account
	return account
}

func (m *MockBankAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.BankAccount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockBankAccountRepository) GetByID(ctx context.Context, id int64) (*domain.BankAccount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockBankAccountRepository) GetForUser(ctx context.Context, userID, id int64) (*domain.BankAccount, error) {
	acc, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	return acc, nil
}

func (m *MockBankAccountRepository) ListByUser(ctx context.Context, userID int64, includeArchived bool) ([]*domain.BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.BankAccount
	for _, acc := range m.accounts {
		if acc.UserID != userID {
			continue
		}
		if !includeArchived && acc.Status == domain.AccountStatusArchived {
			continue
		}
		out = append(out, acc)
	}
	return out, nil
}

func (m *MockBankAccountRepository) ListActive(ctx context.Context) ([]*domain.BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.BankAccount
	for _, acc := range m.accounts {
		if acc.Status == domain.AccountStatusActive {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (m *MockBankAccountRepository) Update(ctx context.Context, account *domain.BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockBankAccountRepository) UpdateStatus(ctx context.Context, id int64, status domain.AccountStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Status = status
	acc.UpdatedAt = updatedAt
	return nil
}

// MockCreditCardRepository is a mock implementation of CreditCardRepository.
type MockCreditCardRepository struct {
	mu     sync.RWMutex
	nextID int64
	cards  map[int64]*domain.CreditCard

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, card *domain.CreditCard) error
	GetByIDFunc func(ctx context.Context, id int64) (*domain.CreditCard, error)
}

func NewMockCreditCardRepository() *MockCreditCardRepository {
	return &MockCreditCardRepository{cards: make(map[int64]*domain.CreditCard)}
}

func (m *MockCreditCardRepository) Seed(card *domain.CreditCard) *domain.CreditCard {
	m.mu.Lock()
	defer m.mu.Unlock()
	if card.ID == 0 {
		m.nextID++
		card.ID = m.nextID
	} else if card.ID > m.nextID {
		m.nextID = card.ID
	}
	m.cards[card.ID] = card
	return card
}

func (m *MockCreditCardRepository) Create(ctx context.Context, tx usecase.Transaction, card *domain.CreditCard) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, card)
	}
	m.Seed(card)
	return nil
}

func (m *MockCreditCardRepository) GetByID(ctx context.Context, id int64) (*domain.CreditCard, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if card, ok := m.cards[id]; ok {
		return card, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockCreditCardRepository) GetForUser(ctx context.Context, userID, id int64) (*domain.CreditCard, error) {
	card, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	return card, nil
}

func (m *MockCreditCardRepository) ListByUser(ctx context.Context, userID int64, includeArchived bool) ([]*domain.CreditCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CreditCard
	for _, card := range m.cards {
		if card.UserID != userID {
			continue
		}
		if !includeArchived && card.Status == domain.AccountStatusArchived {
			continue
		}
		out = append(out, card)
	}
	return out, nil
}

func (m *MockCreditCardRepository) ListActive(ctx context.Context) ([]*domain.CreditCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CreditCard
	for _, card := range m.cards {
		if card.Status == domain.AccountStatusActive {
			out = append(out, card)
		}
	}
	return out, nil
}

func (m *MockCreditCardRepository) Update(ctx context.Context, card *domain.CreditCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[card.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	m.cards[card.ID] = card
	return nil
}

func (m *MockCreditCardRepository) UpdateStatus(ctx context.Context, id int64, status domain.AccountStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	card.Status = status
	card.UpdatedAt = updatedAt
	return nil
}

// MockControlAccountRepository is a mock implementation of ControlAccountRepository.
type MockControlAccountRepository struct {
	EnsureDefaultsFunc func(ctx context.Context) (*domain.ControlAccounts, error)
}

func (m *MockControlAccountRepository) EnsureDefaults(ctx context.Context) (*domain.ControlAccounts, error) {
	if m.EnsureDefaultsFunc != nil {
		return m.EnsureDefaultsFunc(ctx)
	}
	return Controls(), nil
}

// Controls returns a ready-made control-account handle for tests.
func Controls() *domain.ControlAccounts {
	return &domain.ControlAccounts{
		Income:  &domain.ControlAccount{ID: 1, Name: "Income Control", Type: domain.ControlTypeIncome},
		Expense: &domain.ControlAccount{ID: 2, Name: "Expense Control", Type: domain.ControlTypeExpense},
	}
}

// MockBalanceRepository is a mock implementation of BalanceRepository.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[domain.AccountRef]*domain.AccountBalance

	GetFunc                  func(ctx context.Context, ref domain.AccountRef) (*domain.AccountBalance, error)
	GetForUpdateOrCreateFunc func(ctx context.Context, tx usecase.Transaction, ref domain.AccountRef, opening decimal.Decimal) (*domain.AccountBalance, error)
	SaveFunc                 func(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error
	PutFunc                  func(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{balances: make(map[domain.AccountRef]*domain.AccountBalance)}
}

func (m *MockBalanceRepository) Get(ctx context.Context, ref domain.AccountRef) (*domain.AccountBalance, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ref)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if bal, ok := m.balances[ref]; ok {
		copied := *bal
		return &copied, nil
	}
	return nil, domain.ErrBalanceNotFound
}

func (m *MockBalanceRepository) GetForUpdateOrCreate(ctx context.Context, tx usecase.Transaction, ref domain.AccountRef, opening decimal.Decimal) (*domain.AccountBalance, error) {
	if m.GetForUpdateOrCreateFunc != nil {
		return m.GetForUpdateOrCreateFunc(ctx, tx, ref, opening)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if bal, ok := m.balances[ref]; ok {
		copied := *bal
		return &copied, nil
	}
	bal := &domain.AccountBalance{Account: ref, BalanceAmount: opening, UpdatedAt: time.Now().UTC()}
	m.balances[ref] = bal
	copied := *bal
	return &copied, nil
}

func (m *MockBalanceRepository) Save(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[balance.Account]; !ok {
		return domain.ErrBalanceNotFound
	}
	copied := *balance
	m.balances[balance.Account] = &copied
	return nil
}

func (m *MockBalanceRepository) Put(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *balance
	m.balances[balance.Account] = &copied
	return nil
}

// MockJournalRepository is a mock implementation of JournalRepository.
// Live-ness of entries is approximated with the Orphans set: entries in
// it are excluded from LivePostingTotals and removed by
// DeleteOrphanEntries.
type MockJournalRepository struct {
	mu            sync.RWMutex
	nextEntryID   int64
	nextPostingID int64
	entries       map[int64]*domain.JournalEntry
	postings      map[int64]*domain.Posting
	Orphans       map[int64]bool

	CreateEntryFunc         func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	CreatePostingFunc       func(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error
	SumEntryPostingsFunc    func(ctx context.Context, tx usecase.Transaction, entryID int64) (decimal.Decimal, error)
	DeleteEntryFunc         func(ctx context.Context, tx usecase.Transaction, id int64) error
	LivePostingTotalsFunc   func(ctx context.Context, tx usecase.Transaction, ref domain.AccountRef) (decimal.Decimal, *int64, error)
	DeleteOrphanEntriesFunc func(ctx context.Context, tx usecase.Transaction) (int64, error)

	// EntryInUse stands in for the journal_entry_id foreign keys on
	// transactions and transfers: DeleteEntry fails while it reports
	// the entry as referenced, the way the database would.
	EntryInUse func(entryID int64) bool
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{
		entries:  make(map[int64]*domain.JournalEntry),
		postings: make(map[int64]*domain.Posting),
		Orphans:  make(map[int64]bool),
	}
}

func (m *MockJournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateEntryFunc != nil {
		return m.CreateEntryFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEntryID++
	entry.ID = m.nextEntryID
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockJournalRepository) CreatePosting(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	if m.CreatePostingFunc != nil {
		return m.CreatePostingFunc(ctx, tx, posting)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPostingID++
	posting.ID = m.nextPostingID
	m.postings[posting.ID] = posting
	return nil
}

func (m *MockJournalRepository) GetEntry(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if entry, ok := m.entries[id]; ok {
		return entry, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockJournalRepository) ListEntryPostings(ctx context.Context, entryID int64) ([]*domain.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Posting
	for id := int64(1); id <= m.nextPostingID; id++ {
		if p, ok := m.postings[id]; ok && p.JournalEntryID == entryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockJournalRepository) SumEntryPostings(ctx context.Context, tx usecase.Transaction, entryID int64) (decimal.Decimal, error) {
	if m.SumEntryPostingsFunc != nil {
		return m.SumEntryPostingsFunc(ctx, tx, entryID)
	}
	postings, _ := m.ListEntryPostings(ctx, entryID)
	return domain.SumPostings(postings), nil
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, tx usecase.Transaction, id int64) error {
	if m.DeleteEntryFunc != nil {
		return m.DeleteEntryFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	if m.EntryInUse != nil && m.EntryInUse(id) {
		return fmt.Errorf("journal entry %d is still referenced", id)
	}
	delete(m.entries, id)
	for pid, p := range m.postings {
		if p.JournalEntryID == id {
			delete(m.postings, pid)
		}
	}
	return nil
}

func (m *MockJournalRepository) DeleteOrphanEntries(ctx context.Context, tx usecase.Transaction) (int64, error) {
	if m.DeleteOrphanEntriesFunc != nil {
		return m.DeleteOrphanEntriesFunc(ctx, tx)
	}
	m.mu.Lock()
	ids := make([]int64, 0, len(m.Orphans))
	for id := range m.Orphans {
		if _, ok := m.entries[id]; ok {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()
	for _, id := range ids {
		if err := m.DeleteEntry(ctx, tx, id); err != nil {
			return 0, err
		}
	}
	return int64(len(ids)), nil
}

func (m *MockJournalRepository) LivePostingTotals(ctx context.Context, tx usecase.Transaction, ref domain.AccountRef) (decimal.Decimal, *int64, error) {
	if m.LivePostingTotalsFunc != nil {
		return m.LivePostingTotalsFunc(ctx, tx, ref)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	var last *int64
	for id := int64(1); id <= m.nextPostingID; id++ {
		p, ok := m.postings[id]
		if !ok || !p.Account.Equal(ref) {
			continue
		}
		if m.Orphans[p.JournalEntryID] {
			continue
		}
		total = total.Add(p.Amount)
		pid := p.ID
		last = &pid
	}
	return total, last, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	UpdateFunc     func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	SoftDeleteFunc func(ctx context.Context, tx usecase.Transaction, id string, deletedAt time.Time) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{txns: make(map[string]*domain.Transaction)}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetForUser(ctx context.Context, userID int64, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txn, ok := m.txns[id]
	if !ok || txn.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return txn, nil
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.txns {
		if txn.UserID == userID && !txn.IsDeleted() {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[txn.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.txns[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) ClearJournalEntry(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.JournalEntryID = nil
	return nil
}

// ReferencesEntry reports whether any stored transaction, live or
// soft-deleted, still points at the given journal entry.
func (m *MockTransactionRepository) ReferencesEntry(entryID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.txns {
		if txn.JournalEntryID != nil && *txn.JournalEntryID == entryID {
			return true
		}
	}
	return false
}

func (m *MockTransactionRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id string, deletedAt time.Time) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, tx, id, deletedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.DeletedAt = &deletedAt
	txn.JournalEntryID = nil
	return nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer

	CreateFunc func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{transfers: make(map[string]*domain.Transfer)}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) GetForUser(ctx context.Context, userID int64, id string) (*domain.Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	transfer, ok := m.transfers[id]
	if !ok || transfer.UserID != userID {
		return nil, domain.ErrTransferNotFound
	}
	return transfer, nil
}

func (m *MockTransferRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transfer
	for _, transfer := range m.transfers {
		if transfer.UserID == userID && !transfer.IsDeleted() {
			out = append(out, transfer)
		}
	}
	return out, nil
}

func (m *MockTransferRepository) Update(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transfers[transfer.ID]; !ok {
		return domain.ErrTransferNotFound
	}
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) ClearJournalEntry(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	transfer, ok := m.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}
	transfer.JournalEntryID = nil
	return nil
}

// ReferencesEntry reports whether any stored transfer, live or
// soft-deleted, still points at the given journal entry.
func (m *MockTransferRepository) ReferencesEntry(entryID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, transfer := range m.transfers {
		if transfer.JournalEntryID != nil && *transfer.JournalEntryID == entryID {
			return true
		}
	}
	return false
}

func (m *MockTransferRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id string, deletedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	transfer, ok := m.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}
	transfer.DeletedAt = &deletedAt
	transfer.JournalEntryID = nil
	return nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	nextID     int64
	categories map[int64]*domain.Category
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{categories: make(map[int64]*domain.Category)}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category.ID == 0 {
		m.nextID++
		category.ID = m.nextID
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) GetForUser(ctx context.Context, userID, id int64) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

func (m *MockCategoryRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Category
	for _, category := range m.categories {
		if category.UserID == userID {
			out = append(out, category)
		}
	}
	return out, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.User

	CreateFunc func(ctx context.Context, user *domain.User) error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockReportingRepository is a mock implementation of ReportingRepository.
type MockReportingRepository struct {
	IncomeExpenseTotalsFunc func(ctx context.Context, userID int64, start, end time.Time) (decimal.Decimal, decimal.Decimal, error)
	ExpenseByCategoryFunc   func(ctx context.Context, userID int64, start time.Time) ([]usecase.CategoryTotal, error)
	BankOpeningTotalFunc    func(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error)
	BankPostingTotalFunc    func(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error)
}

func (m *MockReportingRepository) IncomeExpenseTotals(ctx context.Context, userID int64, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if m.IncomeExpenseTotalsFunc != nil {
		return m.IncomeExpenseTotalsFunc(ctx, userID, start, end)
	}
	return decimal.Zero, decimal.Zero, nil
}

func (m *MockReportingRepository) ExpenseByCategory(ctx context.Context, userID int64, start time.Time) ([]usecase.CategoryTotal, error) {
	if m.ExpenseByCategoryFunc != nil {
		return m.ExpenseByCategoryFunc(ctx, userID, start)
	}
	return nil, nil
}

func (m *MockReportingRepository) BankOpeningTotal(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error) {
	if m.BankOpeningTotalFunc != nil {
		return m.BankOpeningTotalFunc(ctx, userID, until)
	}
	return decimal.Zero, nil
}

func (m *MockReportingRepository) BankPostingTotal(ctx context.Context, userID int64, until time.Time) (decimal.Decimal, error) {
	if m.BankPostingTotalFunc != nil {
		return m.BankPostingTotalFunc(ctx, userID, until)
	}
	return decimal.Zero, nil
}
