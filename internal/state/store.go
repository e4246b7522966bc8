// Package state holds the process-wide client state: the loading flag
// driven by the request pipeline's in-flight counter, the last surfaced
// error, and the per-user shopping cart with its purchase history.
//
// The store is an explicit instance, not a package singleton: constructors
// of the pipeline and the gate receive it, and tests create a fresh one
// each. Cart, confirmed set and ledger are written through to the storage
// partition of the current identity on every mutation; storage is only
// read back during Hydrate.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/nncoach/client-core/internal/model"
	"github.com/nncoach/client-core/internal/session"
	"github.com/nncoach/client-core/internal/storage"
	logx "github.com/nncoach/client-core/pkg/logger"
)

const (
	cartKey      = "nncoach_cart"
	confirmedKey = "nncoach_confirmed_ids"
	ledgerKey    = "nncoach_purchased"

	defaultErrorTTL = 5 * time.Second
)

// Snapshot is an immutable view of the store handed to subscribers.
type Snapshot struct {
	Loading         bool
	Error           string
	Cart            []model.CartItem
	Confirmed       []string
	Purchased       []model.CartItem
	WeightModalOpen bool
}

// Store is the single source of truth the UI observes.
type Store struct {
	mu       sync.Mutex
	kv       storage.KV
	sessions *session.Manager

	inflight        int
	errMsg          string
	errGen          uint64
	cart            []model.CartItem
	confirmed       map[string]struct{}
	purchased       []model.CartItem
	weightModalOpen bool

	errTTL time.Duration
	subs   []func(Snapshot)
}

// Option configures a Store.
type Option func(*Store)

// WithErrorTTL overrides how long a surfaced error stays visible before
// clearing itself.
func WithErrorTTL(d time.Duration) Option {
	return func(s *Store) { s.errTTL = d }
}

// New creates the store, hydrates it from the current identity's
// partition, and re-hydrates on every identity change so one user's cart
// is never visible to another.
func New(kv storage.KV, sessions *session.Manager, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		sessions:  sessions,
		confirmed: make(map[string]struct{}),
		errTTL:    defaultErrorTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Hydrate()
	sessions.Subscribe(func(session.Event) { s.Hydrate() })
	return s
}

// Hydrate replaces cart, confirmed set and ledger wholesale from the
// partition of the current identity. Missing or corrupt values fall back
// to empty. Hydration holds the store lock, so no mutation can interleave
// with an identity switch.
func (s *Store) Hydrate() {
	ctx := context.Background()
	user := s.sessions.CurrentUser()

	s.mu.Lock()
	var (
		cart      []model.CartItem
		purchased []model.CartItem
		codes     []string
	)
	okCart := storage.ReadJSON(ctx, s.kv, PartitionKey(cartKey, user), &cart)
	okLedger := storage.ReadJSON(ctx, s.kv, PartitionKey(ledgerKey, user), &purchased)
	okCodes := storage.ReadJSON(ctx, s.kv, PartitionKey(confirmedKey, user), &codes)

	s.cart = nil
	s.purchased = nil
	s.confirmed = make(map[string]struct{})
	if okCart {
		s.cart = cart
	}
	if okLedger {
		s.purchased = purchased
	}
	if okCodes {
		for _, code := range codes {
			s.confirmed[code] = struct{}{}
		}
	}
	n := len(s.cart)
	s.mu.Unlock()

	logx.Debug().Int("cart", n).Msg("client state hydrated")
	s.publish()
}

// AddToCart upserts a recommended product by its code. Adding a code that
// is already present updates the recommendation fields in place; repeated
// adds are idempotent, not additive.
func (s *Store) AddToCart(p model.Product) {
	s.mu.Lock()
	found := false
	for i := range s.cart {
		if s.cart[i].ProductCode == p.ExternalID {
			s.cart[i].RecommendedCount = p.RecommendedCount
			s.cart[i].Price = p.Price
			s.cart[i].PackageGram = p.PackageGram
			s.cart[i].ImageURL = p.ImageURL
			s.cart[i].ProductURL = p.ProductURL
			found = true
			break
		}
	}
	if !found {
		s.cart = append(s.cart, model.NewCartItem(p))
	}
	s.persistCartLocked()
	s.mu.Unlock()
	s.publish()
}

// RemoveFromCart drops the entry with the given code, if present.
func (s *Store) RemoveFromCart(code string) {
	s.mu.Lock()
	kept := s.cart[:0]
	for _, item := range s.cart {
		if item.ProductCode != code {
			kept = append(kept, item)
		}
	}
	s.cart = kept
	s.persistCartLocked()
	s.mu.Unlock()
	s.publish()
}

// ConfirmCurrentCart checks out the cart: every code joins the confirmed
// set, every item is appended to the purchase ledger, and the cart is
// emptied. The three fields move under one lock acquisition so observers
// never see an item both in the cart and confirmed.
func (s *Store) ConfirmCurrentCart() {
	s.mu.Lock()
	for _, item := range s.cart {
		s.confirmed[item.ProductCode] = struct{}{}
		s.purchased = append(s.purchased, item)
	}
	s.cart = nil
	s.persistCartLocked()
	s.persistPurchasesLocked()
	s.mu.Unlock()
	s.publish()
}

// ClearCart empties the cart without touching the purchase history.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.cart = nil
	s.persistCartLocked()
	s.mu.Unlock()
	s.publish()
}

// IsPurchased reports whether the code has been checked out before.
func (s *Store) IsPurchased(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.confirmed[code]
	return ok
}

// BeginRequest marks one more request in flight. Loading turns on with
// the first outstanding request.
func (s *Store) BeginRequest() {
	s.mu.Lock()
	s.inflight++
	transition := s.inflight == 1
	s.mu.Unlock()
	if transition {
		s.publish()
	}
}

// EndRequest marks one request settled, on success, failure or
// cancellation. Loading turns off only when the last one settles.
func (s *Store) EndRequest() {
	s.mu.Lock()
	if s.inflight > 0 {
		s.inflight--
	}
	transition := s.inflight == 0
	s.mu.Unlock()
	if transition {
		s.publish()
	}
}

// Loading reports whether any request is outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// SetError surfaces a user-visible message and schedules it to clear
// after the error TTL, unless a newer error supersedes it first.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.errGen++
	gen := s.errGen
	ttl := s.errTTL
	s.mu.Unlock()
	s.publish()

	if msg == "" {
		return
	}
	time.AfterFunc(ttl, func() {
		s.mu.Lock()
		if s.errGen != gen {
			s.mu.Unlock()
			return
		}
		s.errMsg = ""
		s.mu.Unlock()
		s.publish()
	})
}

// Error returns the currently surfaced message, or "".
func (s *Store) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// SetWeightModalOpen toggles the weight entry modal flag.
func (s *Store) SetWeightModalOpen(open bool) {
	s.mu.Lock()
	s.weightModalOpen = open
	s.mu.Unlock()
	s.publish()
}

// Subscribe registers an observer. Observers receive a snapshot after
// every state change, outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Loading:         s.inflight > 0,
		Error:           s.errMsg,
		Cart:            make([]model.CartItem, len(s.cart)),
		Confirmed:       make([]string, 0, len(s.confirmed)),
		Purchased:       make([]model.CartItem, len(s.purchased)),
		WeightModalOpen: s.weightModalOpen,
	}
	copy(snap.Cart, s.cart)
	copy(snap.Purchased, s.purchased)
	for code := range s.confirmed {
		snap.Confirmed = append(snap.Confirmed, code)
	}
	return snap
}

func (s *Store) publish() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// persistCartLocked writes the cart through to the current partition.
// Best-effort: a failed write keeps the in-memory state authoritative.
func (s *Store) persistCartLocked() {
	ctx := context.Background()
	user := s.sessions.CurrentUser()
	if err := storage.WriteJSON(ctx, s.kv, PartitionKey(cartKey, user), s.cart); err != nil {
		logx.Warn().Err(err).Msg("failed to persist cart")
	}
}

func (s *Store) persistPurchasesLocked() {
	ctx := context.Background()
	user := s.sessions.CurrentUser()

	codes := make([]string, 0, len(s.confirmed))
	for code := range s.confirmed {
		codes = append(codes, code)
	}
	if err := storage.WriteJSON(ctx, s.kv, PartitionKey(confirmedKey, user), codes); err != nil {
		logx.Warn().Err(err).Msg("failed to persist confirmed ids")
	}
	if err := storage.WriteJSON(ctx, s.kv, PartitionKey(ledgerKey, user), s.purchased); err != nil {
		logx.Warn().Err(err).Msg("failed to persist purchase ledger")
	}
}
