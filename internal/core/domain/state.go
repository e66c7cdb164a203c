package domain

// StateKey is the fixed key the State Document is stored under.
const StateKey = "marketplaceData"

// Lockout policy constants
const (
	MaxLoginAttempts = 3
	LockoutWindowMs  = 600_000 // 10 minutes
)

// AdminFeePercent is the fee taken from every completed payment (floored).
const AdminFeePercent = 2

// Product represents a single item in a vendor's catalogue.
// Names are unique per vendor.
type Product struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// PendingTransaction is a payment request awaiting the payer's decision.
// It lives on the payer's record and is removed on accept or decline,
// never mutated in place.
type PendingTransaction struct {
	ID     int64  `json:"id"` // Unix milliseconds at creation time
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Log entry types and statuses
const (
	LogTypePayment    = "payment"
	LogTypeWithdrawal = "withdrawal"

	LogStatusCompleted = "completed"
	LogStatusDeclined  = "declined"
)

// LogEntry is an immutable, append-only transaction log record.
// Payment entries carry From/To/AdminFee; withdrawal entries do not.
type LogEntry struct {
	ID        int64  `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Amount    int64  `json:"amount"`
	AdminFee  int64  `json:"adminFee,omitempty"`
	Status    string `json:"status"`
}

// User represents a marketplace account.
// The stored password is a bcrypt hash, never plaintext.
type User struct {
	Type                Role                 `json:"type"`
	Credits             int64                `json:"credits"`
	Password            string               `json:"password"`
	Email               string               `json:"email,omitempty"`
	Location            string               `json:"location,omitempty"`
	Products            []Product            `json:"products,omitempty"`
	PendingTransactions []PendingTransaction `json:"pendingTransactions"`
}

// LockInfo marks an identity as locked out since Timestamp (Unix ms).
type LockInfo struct {
	Timestamp int64 `json:"timestamp"`
}

// State is the State Document: the single source of truth for the whole
// marketplace. It is mutated only through the core services and persisted
// in full after every mutation.
type State struct {
	IsLoggedIn      bool                `json:"isLoggedIn"`
	CurrentUser     *string             `json:"currentUser"`
	LoginAttempts   map[string]int      `json:"loginAttempts"`
	LockedAccounts  map[string]LockInfo `json:"lockedAccounts"`
	AdminBalance    int64               `json:"adminBalance"`
	Users           map[string]*User    `json:"users"`
	TransactionLogs []LogEntry          `json:"transactionLogs"`
}

// NewState returns an empty document with all collections initialized.
func NewState() *State {
	return &State{
		LoginAttempts:  map[string]int{},
		LockedAccounts: map[string]LockInfo{},
		Users:          map[string]*User{},
	}
}

// Normalize fills in collections that an older persisted document may be
// missing, so absent fields default to empty instead of failing.
func (s *State) Normalize() {
	if s.LoginAttempts == nil {
		s.LoginAttempts = map[string]int{}
	}
	if s.LockedAccounts == nil {
		s.LockedAccounts = map[string]LockInfo{}
	}
	if s.Users == nil {
		s.Users = map[string]*User{}
	}
	for _, u := range s.Users {
		if u.PendingTransactions == nil {
			u.PendingTransactions = []PendingTransaction{}
		}
		if u.Type == RoleVendor && u.Products == nil {
			u.Products = []Product{}
		}
	}
}

// User returns the user for identity, or nil if none exists.
func (s *State) User(identity string) *User {
	return s.Users[identity]
}

// SetSession records a logged-in session for identity.
func (s *State) SetSession(identity string) {
	s.IsLoggedIn = true
	s.CurrentUser = &identity
}

// ClearSession resets the session fields. Unconditional.
func (s *State) ClearSession() {
	s.IsLoggedIn = false
	s.CurrentUser = nil
}

// AppendLog appends an entry to the transaction log.
func (s *State) AppendLog(entry LogEntry) {
	s.TransactionLogs = append(s.TransactionLogs, entry)
}

// Clone returns a deep copy of the document. Readers get clones so no
// caller can mutate shared state outside an Update.
func (s *State) Clone() *State {
	out := &State{
		IsLoggedIn:     s.IsLoggedIn,
		AdminBalance:   s.AdminBalance,
		LoginAttempts:  make(map[string]int, len(s.LoginAttempts)),
		LockedAccounts: make(map[string]LockInfo, len(s.LockedAccounts)),
		Users:          make(map[string]*User, len(s.Users)),
	}
	if s.CurrentUser != nil {
		cu := *s.CurrentUser
		out.CurrentUser = &cu
	}
	for k, v := range s.LoginAttempts {
		out.LoginAttempts[k] = v
	}
	for k, v := range s.LockedAccounts {
		out.LockedAccounts[k] = v
	}
	for k, v := range s.Users {
		u := *v
		u.Products = append([]Product(nil), v.Products...)
		u.PendingTransactions = append([]PendingTransaction(nil), v.PendingTransactions...)
		out.Users[k] = &u
	}
	out.TransactionLogs = append([]LogEntry(nil), s.TransactionLogs...)
	return out
}

// UserResponse is the user DTO exposed over HTTP. The password hash
// never leaves the persistence layer.
type UserResponse struct {
	Identity            string               `json:"identity"`
	Type                Role                 `json:"type"`
	Credits             int64                `json:"credits"`
	Email               string               `json:"email,omitempty"`
	Location            string               `json:"location,omitempty"`
	Products            []Product            `json:"products,omitempty"`
	PendingTransactions []PendingTransaction `json:"pending_transactions"`
}

// ToResponse builds the HTTP DTO for a user.
func (u *User) ToResponse(identity string) *UserResponse {
	return &UserResponse{
		Identity:            identity,
		Type:                u.Type,
		Credits:             u.Credits,
		Email:               u.Email,
		Location:            u.Location,
		Products:            append([]Product(nil), u.Products...),
		PendingTransactions: append([]PendingTransaction(nil), u.PendingTransactions...),
	}
}
