package pos

import (
	"sync"

	"github.com/google/uuid"
	"github.com/totizi/Mogiten-system/models"
)

// State is the POS session lifecycle: Empty → Filling → Settled → Empty,
// with Clear returning to Empty from anywhere.
type State int

const (
	StateEmpty State = iota
	StateFilling
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFilling:
		return "filling"
	case StateSettled:
		return "settled"
	}
	return "unknown"
}

// maxReceived caps digit-pad entry; nobody tenders a hundred million
// yen at a school stall.
const maxReceived = 100_000_000

// Session is one operator's in-memory cart and tendered amount. It is
// created on login and reset on logout, class switch or settlement.
// Nothing in it touches the remote store until checkout.
type Session struct {
	ID       string
	ClassID  string
	Operator string

	mu       sync.Mutex
	state    State
	cart     []models.CartLine
	received int
}

// NewSession creates an empty session for one operator of one class.
func NewSession(classID, operator string) *Session {
	return &Session{
		ID:       uuid.NewString(),
		ClassID:  classID,
		Operator: operator,
		state:    StateEmpty,
	}
}

// AddItem puts one unit in the cart, snapshotting the current price.
// The item must be on sale and have stock left after counting units
// already reserved by this cart, so one session cannot over-sell before
// its own checkout commits.
func (s *Session) AddItem(item models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.Status != models.StatusOnSale {
		return ErrOutOfStock
	}
	inCart := 0
	for _, line := range s.cart {
		if line.ItemName == item.Name {
			inCart++
		}
	}
	if item.Stock-inCart <= 0 {
		return ErrOutOfStock
	}
	s.cart = append(s.cart, models.CartLine{ItemName: item.Name, Price: item.Price})
	s.state = StateFilling
	return nil
}

// RemoveLine deletes one cart line by position. An emptied cart returns
// the session to Empty.
func (s *Session) RemoveLine(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart) {
		return &ValidationError{Field: "index", Reason: "out of range"}
	}
	s.cart = append(s.cart[:index], s.cart[index+1:]...)
	if len(s.cart) == 0 {
		s.state = StateEmpty
	}
	return nil
}

// SetReceived overwrites the tendered amount (direct numeric entry).
func (s *Session) SetReceived(amount int) error {
	if amount < 0 {
		return &ValidationError{Field: "received", Reason: "must not be negative"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = amount
	return nil
}

// AddReceived adds one denomination to the tendered amount (the ¥500 /
// ¥1000 buttons). All entry modes share the same integer, so mixing
// modes can never desynchronize the value.
func (s *Session) AddReceived(delta int) error {
	if delta <= 0 {
		return &ValidationError{Field: "received", Reason: "denomination must be positive"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received += delta
	return nil
}

// AppendReceivedDigit appends one digit-pad keypress to the tendered
// amount.
func (s *Session) AppendReceivedDigit(digit int) error {
	if digit < 0 || digit > 9 {
		return &ValidationError{Field: "digit", Reason: "must be 0-9"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.received*10 + digit
	if next > maxReceived {
		return &ValidationError{Field: "received", Reason: "amount too large"}
	}
	s.received = next
	return nil
}

// ResetReceived zeroes the tendered amount (digit-pad clear key).
func (s *Session) ResetReceived() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = 0
}

// Clear resets cart and tendered amount from any state. It always
// succeeds; an explicit clear is the only way a cart disappears without
// a settled checkout.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// reset must be called with s.mu held.
func (s *Session) reset() {
	s.cart = nil
	s.received = 0
	s.state = StateEmpty
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Lines returns a copy of the cart in insertion order.
func (s *Session) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartLine(nil), s.cart...)
}

// Received returns the tendered amount.
func (s *Session) Received() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.received
}

// Total sums the snapshotted line prices.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total()
}

// total must be called with s.mu held.
func (s *Session) total() int {
	sum := 0
	for _, line := range s.cart {
		sum += line.Price
	}
	return sum
}
