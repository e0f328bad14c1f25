package subscription

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type pairKey struct {
	email    string
	listName string
}

// MemoryStore is an in-memory Store implementation for tests and
// single-process embedding. All methods are safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[pairKey]*Subscription
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subs: make(map[pairKey]*Subscription),
		now:  time.Now,
	}
}

func (m *MemoryStore) Find(ctx context.Context, email, listName string) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.subs[pairKey{email, listName}]
	if !ok {
		return nil, ErrNotFound
	}
	return copySub(sub), nil
}

func (m *MemoryStore) OptIn(ctx context.Context, params OptInParams) (*Subscription, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{params.Email, params.ListName}
	if sub, ok := m.subs[key]; ok {
		sub.Subscribed = true
		sub.Unsubscribed = false
		sub.Confirmed = params.Confirmed
		sub.AccountID = cloneID(params.AccountID)
		return copySub(sub), false, nil
	}

	sub := &Subscription{
		ID:           uuid.New(),
		Email:        params.Email,
		ListName:     params.ListName,
		Subscribed:   true,
		Unsubscribed: false,
		Confirmed:    params.Confirmed,
		AccountID:    cloneID(params.AccountID),
		SubscribedAt: m.now(),
	}
	m.subs[key] = sub
	return copySub(sub), true, nil
}

func (m *MemoryStore) OptOut(ctx context.Context, email, listName string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{email, listName}
	if sub, ok := m.subs[key]; ok {
		sub.Subscribed = false
		sub.Unsubscribed = true
		return copySub(sub), nil
	}

	sub := &Subscription{
		ID:           uuid.New(),
		Email:        email,
		ListName:     listName,
		Subscribed:   false,
		Unsubscribed: true,
		SubscribedAt: m.now(),
	}
	m.subs[key] = sub
	return copySub(sub), nil
}

func (m *MemoryStore) Confirm(ctx context.Context, email, listName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub, ok := m.subs[pairKey{email, listName}]; ok {
		sub.Confirmed = true
	}
	return nil
}

func (m *MemoryStore) Members(ctx context.Context, listName string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var members []string
	for _, sub := range m.subs {
		if sub.ListName == listName && sub.Active() {
			members = append(members, sub.Email)
		}
	}
	sort.Strings(members)
	return members, nil
}

func (m *MemoryStore) AccountMembers(ctx context.Context, listName string) ([]Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{})
	var accounts []Account
	for _, sub := range m.subs {
		if sub.ListName != listName || !sub.Active() || sub.AccountID == nil {
			continue
		}
		if _, ok := seen[*sub.AccountID]; ok {
			continue
		}
		seen[*sub.AccountID] = struct{}{}
		accounts = append(accounts, Account{ID: *sub.AccountID, Email: sub.Email})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Email < accounts[j].Email })
	return accounts, nil
}

func (m *MemoryStore) GuestMembers(ctx context.Context, listName string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var members []string
	for _, sub := range m.subs {
		if sub.ListName == listName && sub.Active() && sub.AccountID == nil {
			members = append(members, sub.Email)
		}
	}
	sort.Strings(members)
	return members, nil
}

func (m *MemoryStore) Lists(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var lists []string
	for _, sub := range m.subs {
		if _, ok := seen[sub.ListName]; ok {
			continue
		}
		seen[sub.ListName] = struct{}{}
		lists = append(lists, sub.ListName)
	}
	sort.Strings(lists)
	return lists, nil
}

func copySub(sub *Subscription) *Subscription {
	out := *sub
	out.AccountID = cloneID(sub.AccountID)
	return &out
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	out := *id
	return &out
}
